package domain

import "errors"

var (
	// ErrEmbeddingUnavailable means the embedding provider call failed or
	// timed out. Retrieval aborts; there is no cached fallback.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrDimensionMismatch means an embedding's dimensionality disagrees
	// with the built index. Fatal: the corpus must be rebuilt.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidFusionWeights means the configured semantic/lexical weights
	// do not sum to 1.0. Rejected at startup, never renormalized.
	ErrInvalidFusionWeights = errors.New("fusion weights must sum to 1.0")

	// ErrNoChunks means chunking a document produced no valid passages.
	ErrNoChunks = errors.New("document produced no chunks")
)
