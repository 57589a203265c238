package embedding

import (
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"

	"clinicbot/internal/adapter/analyzer"
)

// HashEmbedder is an offline embedder that projects stemmed unigrams and
// bigrams into a fixed number of buckets (the hashing trick) and
// L2-normalizes the result. Texts sharing vocabulary land close together
// under cosine similarity. Empty or stopword-only text embeds to the zero
// vector.
type HashEmbedder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
}

const bigramWeight = 0.5

func NewHashEmbedder(dimension int, stemming bool) *HashEmbedder {
	if dimension <= 0 {
		dimension = 384
	}
	return &HashEmbedder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(stemming),
	}
}

func (e *HashEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *HashEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, term := range e.tokenizer.Terms(text) {
		h := xxhash.Sum64String(term)
		bucket := int(h % uint64(e.dimension))

		weight := float32(1)
		if strings.Contains(term, "_") {
			weight = bigramWeight
		}
		if h>>63 == 1 {
			weight = -weight
		}
		vec[bucket] += weight
	}

	l2normalize(vec)
	return vec
}

func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

func (e *HashEmbedder) ModelName() string {
	return "hash-v1"
}

// l2normalize normalizes a vector to unit length in place.
func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
