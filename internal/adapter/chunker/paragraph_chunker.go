package chunker

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// ParagraphChunker splits source text into corpus paragraphs.
// Paragraphs are separated by blank lines; a block made only of markdown
// headings is prefixed to the block that follows it. Paragraphs longer than
// maxTokens are split on line boundaries.
type ParagraphChunker struct {
	maxTokens int
	tokenizer port.Tokenizer
}

func NewParagraphChunker(maxTokens int, tokenizer port.Tokenizer) *ParagraphChunker {
	return &ParagraphChunker{
		maxTokens: maxTokens,
		tokenizer: tokenizer,
	}
}

func (c *ParagraphChunker) Chunk(src domain.SourceText) ([]string, error) {
	if strings.EqualFold(filepath.Ext(src.Path), ".json") {
		return c.chunkJSON(src)
	}

	var paragraphs []string
	var heading string

	for _, block := range splitBlocks(src.Content) {
		if isHeadingBlock(block) {
			if heading != "" {
				heading += "\n"
			}
			heading += block
			continue
		}
		if heading != "" {
			block = heading + "\n" + block
			heading = ""
		}
		paragraphs = append(paragraphs, c.split(block)...)
	}

	if heading != "" {
		paragraphs = append(paragraphs, heading)
	}

	return paragraphs, nil
}

// chunkJSON reads a JSON array of paragraph strings.
func (c *ParagraphChunker) chunkJSON(src domain.SourceText) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(src.Content), &raw); err != nil {
		return nil, fmt.Errorf("%s: expected a JSON array of strings: %w", src.Path, err)
	}

	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return paragraphs, nil
}

// split breaks an oversized paragraph into line-aligned pieces.
func (c *ParagraphChunker) split(block string) []string {
	if c.maxTokens <= 0 || c.tokenizer.CountTokens(block) <= c.maxTokens {
		return []string{block}
	}

	lines := strings.Split(block, "\n")
	var pieces []string
	var current strings.Builder
	currentTokens := 0

	for _, line := range lines {
		lineTokens := c.tokenizer.CountTokens(line)
		if currentTokens > 0 && currentTokens+lineTokens > c.maxTokens {
			pieces = append(pieces, current.String())
			current.Reset()
			currentTokens = 0
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
		currentTokens += lineTokens
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}

	return pieces
}

func splitBlocks(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return blocks
}

func isHeadingBlock(block string) bool {
	for _, line := range strings.Split(block, "\n") {
		if !strings.HasPrefix(strings.TrimSpace(line), "#") {
			return false
		}
	}
	return true
}
