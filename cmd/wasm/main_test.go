//go:build js && wasm

package main

import (
	"errors"
	"strings"
	"syscall/js"
	"testing"

	"clinicbot/internal/port"
)

type failingEmbedder struct{ port.Embedder }

func (failingEmbedder) Embed([]string) ([][]float32, error) {
	return nil, errors.New("embedder offline")
}

func TestLoadContent_FailedRebuildKeepsState(t *testing.T) {
	if err := rebuild(nil); err != nil {
		t.Fatal(err)
	}
	paragraphs, files = nil, nil

	ok := loadContent(js.Undefined(), []js.Value{js.ValueOf("hours.md"), js.ValueOf("We open at nine.")})
	if strings.Contains(ok.(string), "error") {
		t.Fatalf("load failed: %s", ok)
	}
	if len(paragraphs) != 1 || len(files) != 1 {
		t.Fatalf("expected 1 paragraph and 1 file, got %d and %d", len(paragraphs), len(files))
	}

	orig := embedder
	embedder = failingEmbedder{orig}
	defer func() { embedder = orig }()

	res := loadContent(js.Undefined(), []js.Value{js.ValueOf("extra.md"), js.ValueOf("More text.")})
	if !strings.Contains(res.(string), "indexing failed") {
		t.Fatalf("expected indexing failure, got %s", res)
	}
	if len(paragraphs) != 1 || len(files) != 1 || files[0] != "hours.md" {
		t.Errorf("failed load changed state: paragraphs=%v files=%v", paragraphs, files)
	}
	if ret == nil || assistant == nil {
		t.Error("retriever or assistant lost after failed load")
	}
}
