package retriever

import (
	"fmt"
	"log/slog"
	"unicode/utf8"

	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// SemanticRetriever embeds a query, searches the vector index and maps the
// hit positions back to corpus paragraphs.
type SemanticRetriever struct {
	index          port.VectorIndex
	embedder       port.Embedder
	corpus         *domain.Corpus
	minScore       float64
	maxQueryLength int
}

type Option func(*SemanticRetriever)

// WithMinScore drops hits scoring below min (0 disables).
func WithMinScore(min float64) Option {
	return func(r *SemanticRetriever) { r.minScore = min }
}

// WithMaxQueryLength rejects queries longer than n runes (0 disables).
func WithMaxQueryLength(n int) Option {
	return func(r *SemanticRetriever) { r.maxQueryLength = n }
}

func NewSemanticRetriever(
	index port.VectorIndex,
	embedder port.Embedder,
	corpus *domain.Corpus,
	opts ...Option,
) (*SemanticRetriever, error) {
	if index.Len() != corpus.Len() {
		return nil, fmt.Errorf("%w: index holds %d vectors, corpus %d paragraphs", domain.ErrMisaligned, index.Len(), corpus.Len())
	}
	if corpus.Len() > 0 && embedder.Dimension() != index.Dimension() {
		return nil, &domain.DimensionMismatchError{Expected: index.Dimension(), Got: embedder.Dimension()}
	}

	r := &SemanticRetriever{
		index:    index,
		embedder: embedder,
		corpus:   corpus,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve returns at most topK paragraphs closest to query, closest first.
// topK <= 0 returns no results. Hits whose position does not name a corpus
// paragraph are skipped.
func (r *SemanticRetriever) Retrieve(query string, topK int) ([]domain.ScoredParagraph, error) {
	if topK <= 0 {
		return []domain.ScoredParagraph{}, nil
	}
	if r.maxQueryLength > 0 && utf8.RuneCountInString(query) > r.maxQueryLength {
		return nil, fmt.Errorf("%w: query is longer than %d characters", domain.ErrInvalidInput, r.maxQueryLength)
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	hits, err := r.index.Search(embeddings[0], topK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]domain.ScoredParagraph, 0, len(hits))
	for _, hit := range hits {
		if len(results) == topK {
			break
		}
		p, ok := r.corpus.Paragraph(hit.Position)
		if !ok {
			if hit.Position != port.NoResult {
				slog.Warn("vector index returned unknown position", "position", hit.Position, "corpus_size", r.corpus.Len())
			}
			continue
		}
		if r.minScore > 0 && hit.Score < r.minScore {
			continue
		}
		results = append(results, domain.ScoredParagraph{
			Paragraph: p,
			Score:     hit.Score,
			Distance:  hit.Distance,
		})
	}

	slog.Debug("retrieved paragraphs", "query_len", len(query), "top_k", topK, "hits", len(hits), "results", len(results))
	return results, nil
}
