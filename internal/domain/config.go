package domain

// KeyPrefix namespaces every Redis key written by recallify.
const KeyPrefix = "recallify:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model               string
	Dimensions          int
	DistanceMetric      string
	Algorithm           string
	DocumentInstruction string
	QueryInstruction    string
}

// DefaultVectorConfig returns the default configuration tuned for
// text-embedding-3-small.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:               "text-embedding-3-small",
		Dimensions:          1536,
		DistanceMetric:      "cosine",
		Algorithm:           "hnsw",
		DocumentInstruction: "Represent this document for semantic search: ",
		QueryInstruction:    "Represent this query for retrieving similar documents: ",
	}
}
