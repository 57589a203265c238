package domain

import (
	"fmt"
)

// Corpus is the loaded paragraph set together with its vectors.
// Entry i always holds the paragraph at position i.
type Corpus struct {
	Entries []Entry
	Meta    CorpusMeta
}

// NewCorpus builds a corpus from aligned paragraphs and vectors and validates it.
func NewCorpus(paragraphs []string, vectors [][]float32, meta CorpusMeta) (*Corpus, error) {
	if len(paragraphs) != len(vectors) {
		return nil, fmt.Errorf("%w: %d paragraphs but %d vectors", ErrMisaligned, len(paragraphs), len(vectors))
	}

	entries := make([]Entry, len(paragraphs))
	for i, text := range paragraphs {
		entries[i] = Entry{
			Paragraph: Paragraph{Position: i, Content: text},
			Vector:    vectors[i],
		}
	}

	if meta.Dimension == 0 && len(vectors) > 0 {
		meta.Dimension = len(vectors[0])
	}
	meta.Count = len(entries)

	c := &Corpus{Entries: entries, Meta: meta}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks count, position order and vector dimensionality.
func (c *Corpus) Validate() error {
	if c.Meta.Count != len(c.Entries) {
		return fmt.Errorf("%w: metadata count %d, loaded %d entries", ErrMisaligned, c.Meta.Count, len(c.Entries))
	}
	for i, e := range c.Entries {
		if e.Paragraph.Position != i {
			return fmt.Errorf("%w: entry %d has position %d", ErrMisaligned, i, e.Paragraph.Position)
		}
		if len(e.Vector) != c.Meta.Dimension {
			return fmt.Errorf("entry %d: %w", i, &DimensionMismatchError{Expected: c.Meta.Dimension, Got: len(e.Vector)})
		}
	}
	return nil
}

func (c *Corpus) Len() int {
	return len(c.Entries)
}

// Paragraph returns the paragraph at pos; ok is false when pos is out of range.
func (c *Corpus) Paragraph(pos int) (Paragraph, bool) {
	if pos < 0 || pos >= len(c.Entries) {
		return Paragraph{}, false
	}
	return c.Entries[pos].Paragraph, true
}

func (c *Corpus) Vectors() [][]float32 {
	out := make([][]float32, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Vector
	}
	return out
}
