package port

import "clinicbot/internal/domain"

type Chunker interface {
	Chunk(src domain.SourceText) ([]string, error)
}
