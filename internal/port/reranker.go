package port

import "context"

// Reranker scores query-document pairs with a finer-grained relevance
// signal than first-pass retrieval.
type Reranker interface {
	// Rerank scores the candidate texts against the query and returns them
	// sorted by relevance score, highest first.
	Rerank(ctx context.Context, query string, texts []string) ([]RerankedResult, error)

	// ModelName returns the name of the reranking model.
	ModelName() string
}

// RerankedResult points back at one reranked candidate.
type RerankedResult struct {
	Index int     // Original index in the input slice
	Score float64 // Relevance score (higher is better)
}
