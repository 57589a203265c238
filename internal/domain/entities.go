package domain

import "time"

// Paragraph is one block of text from the fixed corpus.
type Paragraph struct {
	Position int
	Content  string
}

// Entry pairs a paragraph with its embedding vector.
type Entry struct {
	Paragraph Paragraph
	Vector    []float32
}

type CorpusMeta struct {
	SchemaVersion int       `json:"schema_version"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	Dimension     int       `json:"dimension"`
	Metric        string    `json:"metric"`
	Count         int       `json:"count"`
	BuiltAt       time.Time `json:"built_at"`
}

type ScoredParagraph struct {
	Paragraph Paragraph
	Score     float64 // higher is closer
	Distance  float64 // metric distance as reported by the index
}

// Contents returns the paragraph texts of results in order.
func Contents(results []ScoredParagraph) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Paragraph.Content
	}
	return out
}

type Appointment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Treatment string    `json:"treatment"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	BookedAt  time.Time `json:"booked_at"`
}

// SourceText is a corpus source file read during indexing.
type SourceText struct {
	Path    string
	Content string
}
