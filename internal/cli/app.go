package cli

import (
	"fmt"
	"log/slog"

	"clinicbot/config"
	"clinicbot/internal/adapter/cache"
	"clinicbot/internal/adapter/embedding"
	"clinicbot/internal/adapter/memstore"
	"clinicbot/internal/adapter/retriever"
	"clinicbot/internal/adapter/store"
	"clinicbot/internal/adapter/vectorindex"
	"clinicbot/internal/domain"
	"clinicbot/internal/intent"
	"clinicbot/internal/port"
	"clinicbot/internal/usecase"
)

// loadRetriever loads the corpus at path and builds the semantic retriever
// over it. Any failure here is fatal for the command.
func loadRetriever(cfg *config.Config, path string) (*retriever.SemanticRetriever, *domain.Corpus, error) {
	corpus, err := store.LoadCorpus(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w (run 'clinicbot index' first)", err)
	}

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := store.CheckEmbedder(corpus.Meta, embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("embedder does not match corpus %s: %w", path, err)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	index, err := vectorindex.FromCorpus(corpus)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build vector index: %w", err)
	}

	ret, err := retriever.NewSemanticRetriever(index, embedder, corpus,
		retriever.WithMinScore(cfg.Retrieve.MinScore),
		retriever.WithMaxQueryLength(cfg.Retrieve.MaxQueryLength),
	)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("corpus loaded",
		"path", path,
		"paragraphs", corpus.Len(),
		"model", corpus.Meta.Model,
		"dimension", corpus.Meta.Dimension,
		"metric", index.Metric(),
	)
	return ret, corpus, nil
}

// newAssistant wires the router, the optional query cache and the
// in-memory appointment book around the corpus at path.
func newAssistant(cfg *config.Config, path string) (*usecase.Assistant, error) {
	ret, _, err := loadRetriever(cfg, path)
	if err != nil {
		return nil, err
	}

	var r port.Retriever = ret
	if cfg.Retrieve.CacheSize > 0 {
		r = cache.NewCachedRetriever(ret, cache.NewQueryCache(cfg.Retrieve.CacheSize, cfg.Retrieve.CacheTTL))
	}

	router := intent.NewRouter(r, cfg.Retrieve.TopK, nil)
	return usecase.NewAssistant(router, memstore.NewAppointmentStore()), nil
}
