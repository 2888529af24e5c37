package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"knowledge/internal/domain"
)

func TestSnapshotRoundTrip(t *testing.T) {
	dir, err := os.MkdirTemp("", "snapshot_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	st, err := Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	passages := []domain.Passage{
		{ID: "p-002", Title: "Second", Text: "second text", Source: "doc.md", Position: 1},
		{ID: "p-001", Title: "First", Text: "first text", Source: "doc.md", Category: "Policies", Position: 0},
		{ID: "p-003", Title: "Third", Text: "third text", Source: "other.md", Position: 0},
	}
	embeddings := [][]float32{
		{0.1, -0.9916, 0.077},
		{math.Float32frombits(0x3f7fffff), 0.0001, -0.0001}, // awkward bit patterns survive
		{0, 1, 0},
	}

	if err := st.Save(passages, embeddings); err != nil {
		t.Fatal(err)
	}

	gotPassages, gotEmbeddings, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}

	if len(gotPassages) != len(passages) {
		t.Fatalf("expected %d passages, got %d", len(passages), len(gotPassages))
	}
	for i := range passages {
		if gotPassages[i] != passages[i] {
			t.Errorf("passage %d order/content changed: got %+v want %+v", i, gotPassages[i], passages[i])
		}
		for j := range embeddings[i] {
			if math.Float32bits(gotEmbeddings[i][j]) != math.Float32bits(embeddings[i][j]) {
				t.Errorf("embedding %d[%d] not bit-identical", i, j)
			}
		}
	}

	dim, err := st.Dimension()
	if err != nil {
		t.Fatal(err)
	}
	if dim != 3 {
		t.Errorf("dimension = %d, want 3", dim)
	}
}

func TestSnapshotSaveReplacesPrevious(t *testing.T) {
	dir, err := os.MkdirTemp("", "snapshot_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	st, err := Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	first := []domain.Passage{{ID: "old-1"}, {ID: "old-2"}}
	if err := st.Save(first, [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}

	second := []domain.Passage{{ID: "new-1"}}
	if err := st.Save(second, [][]float32{{0.5, 0.5}}); err != nil {
		t.Fatal(err)
	}

	passages, embeddings, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 1 || passages[0].ID != "new-1" {
		t.Fatalf("save must replace wholesale, got %+v", passages)
	}
	if len(embeddings) != 1 {
		t.Fatalf("stale embeddings survived: %d", len(embeddings))
	}
}

func TestSnapshotLoadEmpty(t *testing.T) {
	dir, err := os.MkdirTemp("", "snapshot_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	st, err := Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	passages, embeddings, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 0 || len(embeddings) != 0 {
		t.Fatalf("fresh store must load empty, got %d/%d", len(passages), len(embeddings))
	}
}
