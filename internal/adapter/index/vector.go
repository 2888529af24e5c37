package index

import (
	"fmt"
	"math"
	"sort"

	"knowledge/internal/domain"
)

// VectorIndex stores unit-normalized passage embeddings and performs exact
// nearest-neighbor search by inner product. With unit vectors the inner
// product equals cosine similarity. The index is immutable after Build;
// corpus changes construct a fresh index and swap it in.
type VectorIndex struct {
	dimension  int
	passages   []domain.Passage
	embeddings [][]float32
	built      bool
}

// VectorHit is one search result: a passage and its similarity.
type VectorHit struct {
	Passage domain.Passage
	Score   float64
}

// NewVectorIndex creates an empty index for the given dimension.
func NewVectorIndex(dimension int) *VectorIndex {
	return &VectorIndex{dimension: dimension}
}

// Build stores the passages with their embeddings, normalizing every
// embedding to unit L2 norm. Embeddings whose dimensionality disagrees
// with the index are rejected. Build may be called once per index.
func (ix *VectorIndex) Build(passages []domain.Passage, embeddings [][]float32) error {
	if ix.built {
		return fmt.Errorf("vector index already built; rebuild constructs a new index")
	}
	if len(passages) != len(embeddings) {
		return fmt.Errorf("passage/embedding count mismatch: %d vs %d", len(passages), len(embeddings))
	}

	normalized := make([][]float32, len(embeddings))
	for i, emb := range embeddings {
		if len(emb) != ix.dimension {
			return fmt.Errorf("%w: passage %q has dimension %d, index expects %d",
				domain.ErrDimensionMismatch, passages[i].ID, len(emb), ix.dimension)
		}
		n, err := normalize(emb)
		if err != nil {
			return fmt.Errorf("passage %q: %w", passages[i].ID, err)
		}
		normalized[i] = n
	}

	ix.passages = append([]domain.Passage(nil), passages...)
	ix.embeddings = normalized
	ix.built = true
	return nil
}

// Search normalizes the query embedding and returns the top-k passages by
// descending inner product. An empty index yields an empty result, not an
// error.
func (ix *VectorIndex) Search(query []float32, k int) ([]VectorHit, error) {
	if len(ix.passages) == 0 {
		return nil, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index expects %d",
			domain.ErrDimensionMismatch, len(query), ix.dimension)
	}

	q, err := normalize(query)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits := make([]VectorHit, len(ix.passages))
	for i, emb := range ix.embeddings {
		hits[i] = VectorHit{Passage: ix.passages[i], Score: dot(q, emb)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Passage.ID < hits[j].Passage.ID
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed passages.
func (ix *VectorIndex) Len() int {
	return len(ix.passages)
}

// Dimension returns the configured embedding dimension.
func (ix *VectorIndex) Dimension() int {
	return ix.dimension
}

// Passages returns the indexed passages in build order.
func (ix *VectorIndex) Passages() []domain.Passage {
	return ix.passages
}

// Embeddings returns the normalized embeddings in build order. Callers
// must not mutate them.
func (ix *VectorIndex) Embeddings() [][]float32 {
	return ix.embeddings
}

func normalize(v []float32) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return nil, fmt.Errorf("cannot normalize zero vector")
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
