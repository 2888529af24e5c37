package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"knowledge/config"
	"knowledge/internal/adapter/analyzer"
	"knowledge/internal/adapter/cache"
	"knowledge/internal/adapter/embedding"
	"knowledge/internal/adapter/fusion"
	"knowledge/internal/adapter/retriever"
	"knowledge/internal/adapter/store"
	"knowledge/internal/memory"
	"knowledge/internal/port"
	"knowledge/internal/usecase"
)

// newEmbedder builds the configured embedding provider and fails fast
// when the provider is unreachable.
func newEmbedder(ctx context.Context, cfg *config.Config) (port.Embedder, error) {
	var embedder port.Embedder
	switch cfg.Embedding.Provider {
	case "mock":
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimension)
	case "openai", "ollama":
		e, err := embedding.NewHTTPEmbedder(
			cfg.Embedding.APIKeyEnv,
			cfg.Embedding.Model,
			cfg.Embedding.BaseURL,
			cfg.Embedding.Dimension,
			cfg.Embedding.BatchSize,
			time.Duration(cfg.Embedding.TimeoutSeconds)*time.Second,
		)
		if err != nil {
			return nil, err
		}
		embedder = e
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	if rc, ok := embedder.(port.ReadyChecker); ok {
		if err := rc.Ready(ctx); err != nil {
			return nil, fmt.Errorf("embedding provider not ready: %w", err)
		}
	}
	return embedder, nil
}

// newCorpus builds an empty corpus sized for the configured embedder.
func newCorpus(cfg *config.Config) *usecase.Corpus {
	return usecase.NewCorpus(cfg.Embedding.Dimension, cfg.Index.K1, cfg.Index.B, analyzer.NewTokenizer())
}

// openSnapshots opens the on-disk snapshot store under the root directory.
func openSnapshots(dir string) (*store.SnapshotStore, error) {
	if err := config.EnsureDataDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return store.Open(config.IndexDBPath(dir))
}

// restoreCorpus loads the persisted snapshot into a fresh corpus.
// Embeddings come straight from disk, so no provider is needed.
func restoreCorpus(ctx context.Context, cfg *config.Config, dir string) (*usecase.Corpus, *store.SnapshotStore, error) {
	dbPath := config.IndexDBPath(dir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("no index found at %s. Run 'knowledge ingest' first", dbPath)
	}

	snapshots, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open index: %w", err)
	}

	dim, err := snapshots.Dimension()
	if err != nil {
		snapshots.Close()
		return nil, nil, fmt.Errorf("failed to read index metadata: %w", err)
	}
	if dim != cfg.Embedding.Dimension {
		snapshots.Close()
		return nil, nil, fmt.Errorf("index was built with dimension %d but config says %d; re-run 'knowledge ingest'", dim, cfg.Embedding.Dimension)
	}

	corpus := newCorpus(cfg)
	loader := usecase.NewIngestUseCase(nil, nil, corpus, snapshots, logger)
	if _, err := loader.LoadSnapshot(ctx); err != nil {
		snapshots.Close()
		return nil, nil, err
	}
	return corpus, snapshots, nil
}

// newRetriever assembles the full retrieval pipeline over a corpus.
func newRetriever(cfg *config.Config, corpus *usecase.Corpus, embedder port.Embedder) (*usecase.RetrieveUseCase, error) {
	fuser, err := fusion.NewFuser(cfg.Retrieve.SemanticWeight, cfg.Retrieve.LexicalWeight)
	if err != nil {
		return nil, err
	}

	var reranker port.Reranker
	if cfg.Retrieve.RerankEnabled {
		reranker = retriever.NewEmbeddingReranker(embedder)
	}

	return usecase.NewRetrieveUseCase(
		corpus,
		embedder,
		fuser,
		reranker,
		memory.NewSessionMemory(cfg.Memory.Capacity, cfg.Memory.ContextWindow),
		cache.NewQueryCache(cfg.Retrieve.CacheSize, time.Duration(cfg.Retrieve.CacheTTLSeconds)*time.Second),
		usecase.RetrieveParams{
			FinalK:              cfg.Retrieve.FinalK,
			MinSemanticScore:    cfg.Retrieve.MinSemanticScore,
			CandidateMultiplier: cfg.Retrieve.CandidateMultiplier,
			MinCandidates:       cfg.Retrieve.MinCandidates,
			RerankEnabled:       cfg.Retrieve.RerankEnabled,
			RerankMultiplier:    cfg.Retrieve.RerankMultiplier,
		},
		logger,
	), nil
}
