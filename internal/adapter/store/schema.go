package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"clinicbot/config"
	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// CurrentSchemaVersion is the current corpus file format version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keyConfigHash = []byte("config_hash")
	keySourceHash = []byte("source_hash")
)

// SchemaInfo records what a corpus file was built from.
type SchemaInfo struct {
	ConfigHash string `json:"config_hash"`
	SourceHash string `json:"source_hash"`
}

func putSchemaInfo(b *bbolt.Bucket, info SchemaInfo) error {
	if err := b.Put(keyConfigHash, []byte(info.ConfigHash)); err != nil {
		return err
	}
	return b.Put(keySourceHash, []byte(info.SourceHash))
}

// SchemaInfo returns the stored build hashes; empty when never written.
func (s *CorpusStore) SchemaInfo() (SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}
		info.ConfigHash = string(b.Get(keyConfigHash))
		info.SourceHash = string(b.Get(keySourceHash))
		return nil
	})
	return info, err
}

// ComputeConfigHash computes a hash of corpus-relevant configuration.
// Changes to this hash indicate the corpus should be rebuilt.
func ComputeConfigHash(cfg *config.Config) string {
	relevant := struct {
		ChunkTokens int    `json:"chunk_tokens"`
		Metric      string `json:"metric"`
		Provider    string `json:"provider"`
		Model       string `json:"model"`
		Dimension   int    `json:"dimension"`
		Stemming    bool   `json:"stemming"`
	}{
		ChunkTokens: cfg.Corpus.ChunkTokens,
		Metric:      cfg.Corpus.Metric,
		Provider:    cfg.Embedding.Provider,
		Model:       cfg.Embedding.Model,
		Dimension:   cfg.Embedding.Dimension,
		Stemming:    cfg.Embedding.Stemming,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// ComputeSourceHash fingerprints the source file set by path, size and mtime.
func ComputeSourceHash(files []port.FileInfo) string {
	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", f.Path, f.Size, f.ModTime)
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}

// CheckEmbedder verifies that e produces vectors the corpus can be searched
// with. A dimension mismatch is an error; a different model name with the
// same dimension only yields a warning because distances may still be
// meaningless.
func CheckEmbedder(meta domain.CorpusMeta, e port.Embedder) (warnings []string, err error) {
	if meta.Count > 0 && e.Dimension() != meta.Dimension {
		return nil, &domain.DimensionMismatchError{Expected: meta.Dimension, Got: e.Dimension()}
	}
	if meta.Model != "" && meta.Model != e.ModelName() {
		warnings = append(warnings, fmt.Sprintf("corpus was built with model %q but queries use %q", meta.Model, e.ModelName()))
	}
	return warnings, nil
}
