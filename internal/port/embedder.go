package port

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorIndex is an in-memory k-nearest-neighbor index over positional vectors.
type VectorIndex interface {
	// Search finds the k nearest vectors to the query, closest first.
	// A hit with Position NoResult carries no match and must be skipped.
	Search(query []float32, k int) ([]VectorHit, error)

	// Len returns the number of indexed vectors.
	Len() int

	// Dimension returns the vector dimension the index was built with.
	Dimension() int

	// Metric returns the distance metric name.
	Metric() string
}

// NoResult is the position reported for an empty search slot.
const NoResult = -1

// VectorHit represents a search result.
type VectorHit struct {
	Position int     // Paragraph position in the corpus
	Distance float64 // Metric distance (lower is closer)
	Score    float64 // Similarity score (higher is closer)
}
