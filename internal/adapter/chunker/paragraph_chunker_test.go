package chunker

import (
	"strings"
	"testing"

	"clinicbot/internal/adapter/analyzer"
	"clinicbot/internal/domain"
)

func TestParagraphChunkerBasic(t *testing.T) {
	chunker := NewParagraphChunker(256, analyzer.NewTokenizer(false))

	content := `Cryolipolysis freezes stubborn fat cells without surgery.
Sessions take about an hour.

Aqualyx is an injectable fat dissolving treatment.


Skin tightening uses radiofrequency energy.`

	paragraphs, err := chunker.Chunk(domain.SourceText{Path: "treatments.md", Content: content})
	if err != nil {
		t.Fatal(err)
	}

	if len(paragraphs) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d: %q", len(paragraphs), paragraphs)
	}
	if !strings.HasPrefix(paragraphs[0], "Cryolipolysis") || !strings.Contains(paragraphs[0], "Sessions take") {
		t.Errorf("first paragraph should keep both lines, got %q", paragraphs[0])
	}
	if paragraphs[2] != "Skin tightening uses radiofrequency energy." {
		t.Errorf("unexpected last paragraph: %q", paragraphs[2])
	}
}

func TestParagraphChunkerHeadings(t *testing.T) {
	chunker := NewParagraphChunker(256, analyzer.NewTokenizer(false))

	content := "# Aqualyx\n\nAqualyx dissolves localized fat.\n\n## IV therapy\n\nVitamin drips delivered intravenously."

	paragraphs, err := chunker.Chunk(domain.SourceText{Path: "doc.md", Content: content})
	if err != nil {
		t.Fatal(err)
	}

	if len(paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(paragraphs), paragraphs)
	}
	if paragraphs[0] != "# Aqualyx\nAqualyx dissolves localized fat." {
		t.Errorf("heading not attached: %q", paragraphs[0])
	}
	if !strings.HasPrefix(paragraphs[1], "## IV therapy") {
		t.Errorf("second heading not attached: %q", paragraphs[1])
	}
}

func TestParagraphChunkerSplitsLongParagraphs(t *testing.T) {
	chunker := NewParagraphChunker(10, analyzer.NewTokenizer(false))

	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, "one two three four five six")
	}

	paragraphs, err := chunker.Chunk(domain.SourceText{Path: "long.txt", Content: strings.Join(lines, "\n")})
	if err != nil {
		t.Fatal(err)
	}

	if len(paragraphs) < 2 {
		t.Fatalf("expected long paragraph to be split, got %d pieces", len(paragraphs))
	}
	joined := strings.Join(paragraphs, "\n")
	if joined != strings.Join(lines, "\n") {
		t.Error("splitting must not drop or reorder lines")
	}
}

func TestParagraphChunkerJSON(t *testing.T) {
	chunker := NewParagraphChunker(256, analyzer.NewTokenizer(false))

	paragraphs, err := chunker.Chunk(domain.SourceText{
		Path:    "paragraphs.json",
		Content: `["First paragraph.", "  ", "Second paragraph."]`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(paragraphs) != 2 || paragraphs[1] != "Second paragraph." {
		t.Errorf("unexpected paragraphs: %q", paragraphs)
	}

	if _, err := chunker.Chunk(domain.SourceText{Path: "bad.json", Content: `{"a": 1}`}); err == nil {
		t.Error("expected error for non-array JSON")
	}
}

func TestParagraphChunkerEmpty(t *testing.T) {
	chunker := NewParagraphChunker(256, analyzer.NewTokenizer(false))

	paragraphs, err := chunker.Chunk(domain.SourceText{Path: "empty.md", Content: "\n\n  \n"})
	if err != nil {
		t.Fatal(err)
	}
	if len(paragraphs) != 0 {
		t.Errorf("expected no paragraphs, got %q", paragraphs)
	}
}
