package db

// KNNQuery is the input for vector similarity search. Filter is a prebuilt
// FT.SEARCH pre-filter expression (e.g. "@document_id:{abc}"); empty means
// match everything.
type KNNQuery struct {
	IndexName    string
	Filter       string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search. Distance is the raw
// vector distance from the index (cosine; lower is more similar); zero for
// non-KNN listings.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
