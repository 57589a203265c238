package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.etcd.io/bbolt"

	"clinicbot/config"
	"clinicbot/internal/adapter/embedding"
	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

func testCorpus(t *testing.T) *domain.Corpus {
	t.Helper()
	c, err := domain.NewCorpus(
		[]string{"Cryolipolysis freezes fat.", "Aqualyx dissolves fat.", "IV therapy hydrates."},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1.5}},
		domain.CorpusMeta{Provider: "hash", Model: "hash-v1", Metric: "cosine", BuiltAt: time.Unix(1700000000, 0).UTC()},
	)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCorpusRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")

	st, err := NewCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	want := testCorpus(t)
	if err := st.Write(want, SchemaInfo{ConfigHash: "cfg", SourceHash: "src"}); err != nil {
		t.Fatal(err)
	}
	st.Close()

	got, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", got.Len())
	}
	for i, e := range got.Entries {
		if e.Paragraph.Position != i {
			t.Errorf("entry %d has position %d", i, e.Paragraph.Position)
		}
		if e.Paragraph.Content != want.Entries[i].Paragraph.Content {
			t.Errorf("entry %d: expected %q, got %q", i, want.Entries[i].Paragraph.Content, e.Paragraph.Content)
		}
		for j := range e.Vector {
			if e.Vector[j] != want.Entries[i].Vector[j] {
				t.Errorf("entry %d vector differs at %d", i, j)
			}
		}
	}
	if got.Meta.Dimension != 3 || got.Meta.Model != "hash-v1" || got.Meta.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("unexpected meta: %+v", got.Meta)
	}
}

func TestCorpusRewriteReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	st, err := NewCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if err := st.Write(testCorpus(t), SchemaInfo{}); err != nil {
		t.Fatal(err)
	}
	smaller, _ := domain.NewCorpus([]string{"only"}, [][]float32{{1, 1}}, domain.CorpusMeta{Metric: "l2"})
	if err := st.Write(smaller, SchemaInfo{ConfigHash: "v2"}); err != nil {
		t.Fatal(err)
	}

	c, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.Meta.Dimension != 2 {
		t.Errorf("expected the rewrite to replace the corpus, got %d entries dim %d", c.Len(), c.Meta.Dimension)
	}

	info, _ := st.SchemaInfo()
	if info.ConfigHash != "v2" {
		t.Errorf("expected config hash v2, got %q", info.ConfigHash)
	}
}

func TestLoadCorpus_Missing(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.Is(err, domain.ErrStartupLoad) {
		t.Errorf("expected ErrStartupLoad, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLoadCorpus_Misaligned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	st, err := NewCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Write(testCorpus(t), SchemaInfo{}); err != nil {
		t.Fatal(err)
	}

	// drop one vector behind the store's back
	err = st.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Delete(positionKey(1))
	})
	if err != nil {
		t.Fatal(err)
	}
	st.Close()

	_, err = LoadCorpus(path)
	if !errors.Is(err, domain.ErrStartupLoad) || !errors.Is(err, domain.ErrMisaligned) {
		t.Errorf("expected misaligned startup error, got %v", err)
	}
}

func TestLoadCorpus_BadDimension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	st, err := NewCorpusStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Write(testCorpus(t), SchemaInfo{}); err != nil {
		t.Fatal(err)
	}
	err = st.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVectors).Put(positionKey(2), encodeVector([]float32{1, 2}))
	})
	if err != nil {
		t.Fatal(err)
	}
	st.Close()

	_, err = LoadCorpus(path)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCheckEmbedder(t *testing.T) {
	meta := domain.CorpusMeta{Model: "hash-v1", Dimension: 384, Count: 10}

	warnings, err := CheckEmbedder(meta, embedding.NewHashEmbedder(384, true))
	if err != nil || len(warnings) != 0 {
		t.Errorf("expected compatible embedder, got %v %v", warnings, err)
	}

	_, err = CheckEmbedder(meta, embedding.NewHashEmbedder(128, true))
	var dm *domain.DimensionMismatchError
	if !errors.As(err, &dm) || dm.Expected != 384 || dm.Got != 128 {
		t.Errorf("expected DimensionMismatchError 384/128, got %v", err)
	}

	meta.Model = "all-minilm"
	warnings, err = CheckEmbedder(meta, embedding.NewHashEmbedder(384, true))
	if err != nil || len(warnings) != 1 {
		t.Errorf("expected one model warning, got %v %v", warnings, err)
	}
}

func TestComputeHashes(t *testing.T) {
	cfg := config.DefaultConfig()
	h1 := ComputeConfigHash(cfg)
	cfg.Corpus.Metric = "l2"
	if h1 == ComputeConfigHash(cfg) {
		t.Error("expected config hash to change with metric")
	}

	files := []port.FileInfo{{Path: "/a.md", Size: 10, ModTime: 1}}
	s1 := ComputeSourceHash(files)
	files[0].ModTime = 2
	if s1 == ComputeSourceHash(files) {
		t.Error("expected source hash to change with mtime")
	}
}

func TestEncodeVector(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("component %d: expected %v, got %v", i, in[i], out[i])
		}
	}
	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated blob")
	}
}
