package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// overlapEmbedder gives texts a vector per known keyword, so combined
// representations containing query words land closer to the query.
type overlapEmbedder struct {
	fail error
}

var keywords = []string{"suspension", "billing", "transfer", "dns"}

func (e *overlapEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.fail != nil {
		return nil, e.fail
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec := make([]float32, len(keywords)+1)
		lower := strings.ToLower(t)
		for j, kw := range keywords {
			vec[j] = float32(strings.Count(lower, kw))
		}
		vec[len(keywords)] = 0.1 // keeps vectors non-zero
		out[i] = vec
	}
	return out, nil
}

func (e *overlapEmbedder) Dimension() int    { return len(keywords) + 1 }
func (e *overlapEmbedder) ModelName() string { return "overlap-test" }

func TestRerankOrdersByRelevance(t *testing.T) {
	r := NewEmbeddingReranker(&overlapEmbedder{})

	texts := []string{
		"Transfers between registrars need an auth code.",
		"Suspension happens after failed verification. Suspension is reversible.",
		"DNS changes propagate slowly.",
	}

	results, err := r.Rerank(context.Background(), "why did my suspension happen", texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(texts) {
		t.Fatalf("expected %d results, got %d", len(texts), len(results))
	}
	if results[0].Index != 1 {
		t.Errorf("expected the suspension passage first, got index %d", results[0].Index)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Error("rerank scores not descending")
		}
	}
}

func TestRerankShortfallReturnsAll(t *testing.T) {
	r := NewEmbeddingReranker(&overlapEmbedder{})

	texts := []string{"billing question one", "suspension note two"}
	results, err := r.Rerank(context.Background(), "billing", texts)
	if err != nil {
		t.Fatal(err)
	}
	// Fewer candidates than any final_k: all of them come back, never padded.
	if len(results) != 2 {
		t.Fatalf("expected exactly 2 results, got %d", len(results))
	}

	seen := map[int]bool{}
	for _, res := range results {
		seen[res.Index] = true
	}
	if !seen[0] || !seen[1] {
		t.Errorf("both candidates must be present: %v", results)
	}
}

func TestRerankEmptyCandidates(t *testing.T) {
	r := NewEmbeddingReranker(&overlapEmbedder{})
	results, err := r.Rerank(context.Background(), "anything", nil)
	if err != nil || len(results) != 0 {
		t.Fatalf("empty candidates must yield empty results, got %v, %v", results, err)
	}
}

func TestRerankPropagatesEmbedderFailure(t *testing.T) {
	wantErr := errors.New("provider down")
	r := NewEmbeddingReranker(&overlapEmbedder{fail: wantErr})

	_, err := r.Rerank(context.Background(), "q", []string{"text"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected embedder failure to propagate, got %v", err)
	}
}
