package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"

	"knowledge/internal/port"
)

// combinedTextLimit bounds how much candidate text joins the query in the
// combined representation; the head of a passage carries most of the
// topical signal.
const combinedTextLimit = 500

// EmbeddingReranker scores each candidate by embedding a joint
// query+candidate representation and comparing it against the query
// embedding. Cheaper than a true cross-encoder but still a finer signal
// than first-pass retrieval, and monotonic with relevance: candidates
// about the query's topic pull the combined embedding toward the query.
type EmbeddingReranker struct {
	embedder port.Embedder
}

// NewEmbeddingReranker creates a reranker backed by the given embedder.
func NewEmbeddingReranker(embedder port.Embedder) *EmbeddingReranker {
	return &EmbeddingReranker{embedder: embedder}
}

// Rerank scores the candidate texts against the query and returns results
// sorted by relevance score descending. Ties order by original index.
func (r *EmbeddingReranker) Rerank(ctx context.Context, query string, texts []string) ([]port.RerankedResult, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	inputs := make([]string, 0, len(texts)+1)
	inputs = append(inputs, query)
	for _, text := range texts {
		inputs = append(inputs, query+" [SEP] "+truncateRunes(text, combinedTextLimit))
	}

	embeddings, err := r.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("reranking %d candidates: %w", len(texts), err)
	}
	if len(embeddings) != len(inputs) {
		return nil, fmt.Errorf("reranker embedder returned %d vectors for %d inputs", len(embeddings), len(inputs))
	}

	queryEmb := embeddings[0]
	results := make([]port.RerankedResult, len(texts))
	for i := range texts {
		results[i] = port.RerankedResult{
			Index: i,
			Score: cosineSimilarity(queryEmb, embeddings[i+1]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results, nil
}

// ModelName returns the reranker identity for logging.
func (r *EmbeddingReranker) ModelName() string {
	return "embedding-rerank/" + r.embedder.ModelName()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-8)
}
