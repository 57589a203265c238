package port

import "clinicbot/internal/domain"

// Retriever finds the corpus paragraphs most relevant to a query.
type Retriever interface {
	// Retrieve returns at most topK paragraphs, closest first.
	Retrieve(query string, topK int) ([]domain.ScoredParagraph, error)
}
