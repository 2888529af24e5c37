package index

import (
	"errors"
	"math"
	"testing"

	"knowledge/internal/domain"
)

func TestVectorIndexNormalizationInvariant(t *testing.T) {
	ix := NewVectorIndex(3)
	passages := []domain.Passage{
		{ID: "p1", Text: "one"},
		{ID: "p2", Text: "two"},
		{ID: "p3", Text: "three"},
	}
	embeddings := [][]float32{
		{3, 4, 0},
		{0.1, 0.1, 0.1},
		{-7, 2, 5},
	}

	if err := ix.Build(passages, embeddings); err != nil {
		t.Fatal(err)
	}

	for i, emb := range ix.Embeddings() {
		var sum float64
		for _, x := range emb {
			sum += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
			t.Errorf("passage %d stored with L2 norm %v, want 1.0", i, math.Sqrt(sum))
		}
	}
}

func TestVectorIndexDimensionMismatch(t *testing.T) {
	ix := NewVectorIndex(3)

	err := ix.Build(
		[]domain.Passage{{ID: "p1"}},
		[][]float32{{1, 0}},
	)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch from Build, got %v", err)
	}

	ix = NewVectorIndex(3)
	if err := ix.Build(
		[]domain.Passage{{ID: "p1"}},
		[][]float32{{1, 0, 0}},
	); err != nil {
		t.Fatal(err)
	}

	_, err = ix.Search([]float32{1, 0}, 5)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch from Search, got %v", err)
	}
}

func TestVectorIndexEmptySearch(t *testing.T) {
	ix := NewVectorIndex(4)
	if err := ix.Build(nil, nil); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{1, 0, 0, 0}, 5)
	if err != nil {
		t.Fatalf("empty index search must not error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty result, got %d hits", len(hits))
	}
}

func TestVectorIndexTopKOrdering(t *testing.T) {
	ix := NewVectorIndex(2)
	passages := []domain.Passage{
		{ID: "orthogonal"},
		{ID: "aligned"},
		{ID: "diagonal"},
	}
	embeddings := [][]float32{
		{0, 1},
		{1, 0},
		{1, 1},
	}
	if err := ix.Build(passages, embeddings); err != nil {
		t.Fatal(err)
	}

	hits, err := ix.Search([]float32{2, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Passage.ID != "aligned" || hits[1].Passage.ID != "diagonal" {
		t.Errorf("wrong order: %s, %s", hits[0].Passage.ID, hits[1].Passage.ID)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("scores not descending")
	}
	if math.Abs(hits[0].Score-1.0) > 1e-6 {
		t.Errorf("identical direction should score 1.0, got %v", hits[0].Score)
	}
}

func TestVectorIndexRejectsZeroVector(t *testing.T) {
	ix := NewVectorIndex(2)
	err := ix.Build(
		[]domain.Passage{{ID: "z"}},
		[][]float32{{0, 0}},
	)
	if err == nil {
		t.Fatal("expected zero vector to be rejected")
	}
}
