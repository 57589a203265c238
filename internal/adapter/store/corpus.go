package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"clinicbot/internal/domain"
)

var (
	bucketParagraphs = []byte("paragraphs")
	bucketVectors    = []byte("vectors")
	bucketMeta       = []byte("meta")
	keyCorpusMeta    = []byte("corpus_meta")
)

// CorpusStore persists the paragraph corpus and its vectors in a single
// bbolt file. Paragraphs and vectors share the same position keys and are
// always written in one transaction.
type CorpusStore struct {
	db       *bbolt.DB
	path     string
	readOnly bool
}

// NewCorpusStore opens (or creates) a corpus file for writing.
func NewCorpusStore(path string) (*CorpusStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketParagraphs, bucketVectors, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &CorpusStore{db: db, path: path}, nil
}

// OpenCorpusStore opens an existing corpus file read-only.
func OpenCorpusStore(path string) (*CorpusStore, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true, Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &CorpusStore{db: db, path: path, readOnly: true}, nil
}

// LoadCorpus opens the corpus file at path, loads it and validates that
// paragraphs and vectors are aligned. Every failure is a StartupLoadError.
func LoadCorpus(path string) (*domain.Corpus, error) {
	st, err := OpenCorpusStore(path)
	if err != nil {
		return nil, &domain.StartupLoadError{Path: path, Err: err}
	}
	defer st.Close()

	c, err := st.Load()
	if err != nil {
		return nil, &domain.StartupLoadError{Path: path, Err: err}
	}
	return c, nil
}

func (s *CorpusStore) Path() string {
	return s.path
}

// Write replaces the stored corpus with c.
func (s *CorpusStore) Write(c *domain.Corpus, info SchemaInfo) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketParagraphs, bucketVectors} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		paragraphs := tx.Bucket(bucketParagraphs)
		vectors := tx.Bucket(bucketVectors)
		for _, e := range c.Entries {
			key := positionKey(e.Paragraph.Position)
			if err := paragraphs.Put(key, []byte(e.Paragraph.Content)); err != nil {
				return err
			}
			if err := vectors.Put(key, encodeVector(e.Vector)); err != nil {
				return err
			}
		}

		meta := c.Meta
		meta.SchemaVersion = CurrentSchemaVersion
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		mb := tx.Bucket(bucketMeta)
		if err := mb.Put(keyCorpusMeta, data); err != nil {
			return err
		}
		return putSchemaInfo(mb, info)
	})
}

// Meta returns the stored corpus metadata.
func (s *CorpusStore) Meta() (domain.CorpusMeta, error) {
	var meta domain.CorpusMeta
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return errors.New("corpus metadata not found")
		}
		data := b.Get(keyCorpusMeta)
		if data == nil {
			return errors.New("corpus metadata not found")
		}
		return json.Unmarshal(data, &meta)
	})
	return meta, err
}

// Load reads all paragraphs and vectors in position order.
func (s *CorpusStore) Load() (*domain.Corpus, error) {
	meta, err := s.Meta()
	if err != nil {
		return nil, err
	}
	if meta.SchemaVersion > CurrentSchemaVersion {
		return nil, fmt.Errorf("corpus created by newer version (v%d > v%d)", meta.SchemaVersion, CurrentSchemaVersion)
	}

	c := &domain.Corpus{Meta: meta}
	err = s.db.View(func(tx *bbolt.Tx) error {
		paragraphs := tx.Bucket(bucketParagraphs)
		vectors := tx.Bucket(bucketVectors)
		if paragraphs == nil || vectors == nil {
			return errors.New("corpus buckets missing")
		}
		if pn, vn := paragraphs.Stats().KeyN, vectors.Stats().KeyN; pn != vn {
			return fmt.Errorf("%w: %d paragraphs but %d vectors", domain.ErrMisaligned, pn, vn)
		}

		cur := paragraphs.Cursor()
		for k, v := cur.First(); k != nil; k, v = cur.Next() {
			pos, err := decodePosition(k)
			if err != nil {
				return err
			}
			raw := vectors.Get(k)
			if raw == nil {
				return fmt.Errorf("%w: no vector for paragraph %d", domain.ErrMisaligned, pos)
			}
			vec, err := decodeVector(raw)
			if err != nil {
				return fmt.Errorf("paragraph %d: %w", pos, err)
			}
			c.Entries = append(c.Entries, domain.Entry{
				Paragraph: domain.Paragraph{Position: pos, Content: string(v)},
				Vector:    vec,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CorpusStore) Close() error {
	return s.db.Close()
}

func positionKey(pos int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(pos))
	return key
}

func decodePosition(key []byte) (int, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("invalid position key of %d bytes", len(key))
	}
	return int(binary.BigEndian.Uint64(key)), nil
}

// encodeVector stores little-endian IEEE 754 float32 values without a
// length prefix; the length is derived from the blob size.
func encodeVector(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob length %d", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}
