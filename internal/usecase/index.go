package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"clinicbot/internal/adapter/fs"
	"clinicbot/internal/adapter/store"
	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// IndexOptions controls how the corpus is built.
type IndexOptions struct {
	Provider    string
	Metric      string
	BatchSize   int
	Concurrency int
	ConfigHash  string
	Force       bool // rebuild even when sources and config are unchanged
}

// ProgressFunc is called after each embedded batch.
type ProgressFunc func(embedded, total int)

// IndexUseCase builds the corpus file from source documents.
type IndexUseCase struct {
	store    *store.CorpusStore
	walker   port.FileWalker
	reader   port.FileReader
	chunker  port.Chunker
	embedder port.Embedder
	opts     IndexOptions
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	store *store.CorpusStore,
	walker port.FileWalker,
	reader port.FileReader,
	chunker port.Chunker,
	embedder port.Embedder,
	opts IndexOptions,
) *IndexUseCase {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &IndexUseCase{
		store:    store,
		walker:   walker,
		reader:   reader,
		chunker:  chunker,
		embedder: embedder,
		opts:     opts,
	}
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Files      int
	Paragraphs int
	Dimension  int
	Skipped    bool // corpus was already up to date
	Duration   time.Duration
}

// Index walks root, splits every source into paragraphs, embeds them and
// replaces the stored corpus.
func (u *IndexUseCase) Index(ctx context.Context, root string, progress ProgressFunc) (*IndexResult, error) {
	start := time.Now()

	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source files found under %s", root)
	}

	info := store.SchemaInfo{
		ConfigHash: u.opts.ConfigHash,
		SourceHash: store.ComputeSourceHash(files),
	}
	if !u.opts.Force {
		current, err := u.store.SchemaInfo()
		if err != nil {
			return nil, fmt.Errorf("failed to read schema info: %w", err)
		}
		if current == info {
			meta, err := u.store.Meta()
			if err == nil && meta.SchemaVersion == store.CurrentSchemaVersion {
				slog.Info("corpus up to date", "path", u.store.Path(), "paragraphs", meta.Count)
				return &IndexResult{
					Files:      len(files),
					Paragraphs: meta.Count,
					Dimension:  meta.Dimension,
					Skipped:    true,
					Duration:   time.Since(start),
				}, nil
			}
		}
	}

	sources, err := fs.ReadSources(u.reader, files)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}

	var paragraphs []string
	for _, src := range sources {
		chunks, err := u.chunker.Chunk(src)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s: %w", src.Path, err)
		}
		slog.Debug("split source", "path", src.Path, "paragraphs", len(chunks))
		paragraphs = append(paragraphs, chunks...)
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("no paragraphs found under %s", root)
	}

	vectors, err := u.embedAll(ctx, paragraphs, progress)
	if err != nil {
		return nil, err
	}

	corpus, err := domain.NewCorpus(paragraphs, vectors, domain.CorpusMeta{
		Provider:  u.opts.Provider,
		Model:     u.embedder.ModelName(),
		Dimension: u.embedder.Dimension(),
		Metric:    u.opts.Metric,
		BuiltAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble corpus: %w", err)
	}

	if err := u.store.Write(corpus, info); err != nil {
		return nil, fmt.Errorf("failed to write corpus: %w", err)
	}

	return &IndexResult{
		Files:      len(files),
		Paragraphs: corpus.Len(),
		Dimension:  corpus.Meta.Dimension,
		Duration:   time.Since(start),
	}, nil
}

// embedAll embeds texts in batches, running up to Concurrency batches at
// once. Vectors are returned in the order of texts.
func (u *IndexUseCase) embedAll(ctx context.Context, texts []string, progress ProgressFunc) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var mu sync.Mutex
	embedded := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.Concurrency)

	for start := 0; start < len(texts); start += u.opts.BatchSize {
		start := start
		end := min(start+u.opts.BatchSize, len(texts))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := u.embedder.Embed(texts[start:end])
			if err != nil {
				return fmt.Errorf("embedding batch %d-%d failed: %w", start, end, err)
			}
			if len(batch) != end-start {
				return fmt.Errorf("%w: embedder returned %d vectors for %d paragraphs", domain.ErrMisaligned, len(batch), end-start)
			}
			copy(vectors[start:end], batch)

			mu.Lock()
			embedded += end - start
			if progress != nil {
				progress(embedded, len(texts))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
