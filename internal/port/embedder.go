package port

import "context"

// Embedder generates vector embeddings for text. Implementations must be
// deterministic for identical input so fusion and reranking stay
// reproducible.
type Embedder interface {
	// Embed generates embeddings for the given texts, one vector per input.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// ReadyChecker is implemented by embedders that can probe the provider
// before the first real call, so callers fail fast instead of blocking
// on a lazily-loaded model.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}
