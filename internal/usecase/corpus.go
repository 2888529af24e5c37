package usecase

import (
	"fmt"
	"sync"
	"sync/atomic"

	"knowledge/internal/adapter/analyzer"
	"knowledge/internal/adapter/index"
	"knowledge/internal/domain"
)

// Snapshot is one immutable, fully built generation of the corpus: the
// passage set and both indexes over it. Queries read a snapshot without
// locking; rebuilds construct a new one and swap it in.
type Snapshot struct {
	Generation uint64
	Vector     *index.VectorIndex
	Keyword    *index.KeywordIndex
	passages   []domain.Passage
	byID       map[string]domain.Passage
}

// Passage looks up an indexed passage by ID.
func (s *Snapshot) Passage(id string) (domain.Passage, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Passages returns the indexed passage set in index order.
func (s *Snapshot) Passages() []domain.Passage {
	return s.passages
}

// Empty reports whether the snapshot holds no passages.
func (s *Snapshot) Empty() bool {
	return len(s.passages) == 0
}

// Corpus owns the active snapshot. Reads are a single atomic pointer
// load; rebuilds are serialized and swap the pointer when the new
// generation is complete, so in-flight queries keep the snapshot they
// started with.
type Corpus struct {
	dimension int
	k1, b     float64
	tokenizer *analyzer.Tokenizer

	current   atomic.Pointer[Snapshot]
	rebuildMu sync.Mutex
	nextGen   atomic.Uint64
}

// NewCorpus creates a corpus seeded with an empty generation-0 snapshot,
// so retrieval works (returning nothing) before the first ingest.
func NewCorpus(dimension int, k1, b float64, tokenizer *analyzer.Tokenizer) *Corpus {
	c := &Corpus{
		dimension: dimension,
		k1:        k1,
		b:         b,
		tokenizer: tokenizer,
	}
	empty := &Snapshot{
		Generation: 0,
		Vector:     index.NewVectorIndex(dimension),
		Keyword:    index.NewKeywordIndex(k1, b, tokenizer),
		byID:       map[string]domain.Passage{},
	}
	c.current.Store(empty)
	return c
}

// Snapshot returns the active snapshot.
func (c *Corpus) Snapshot() *Snapshot {
	return c.current.Load()
}

// Rebuild constructs a new snapshot from the passage set and its
// embeddings (aligned by position) and atomically replaces the active
// one. Concurrent rebuilds are serialized; the active snapshot stays
// untouched until the replacement is complete.
func (c *Corpus) Rebuild(passages []domain.Passage, embeddings [][]float32) (*Snapshot, error) {
	if len(passages) != len(embeddings) {
		return nil, fmt.Errorf("rebuild: %d passages but %d embeddings", len(passages), len(embeddings))
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	vector := index.NewVectorIndex(c.dimension)
	if err := vector.Build(passages, embeddings); err != nil {
		return nil, fmt.Errorf("building vector index: %w", err)
	}
	keyword := index.NewKeywordIndex(c.k1, c.b, c.tokenizer)
	keyword.Index(passages)

	byID := make(map[string]domain.Passage, len(passages))
	for _, p := range passages {
		byID[p.ID] = p
	}

	snap := &Snapshot{
		Generation: c.nextGen.Add(1),
		Vector:     vector,
		Keyword:    keyword,
		passages:   passages,
		byID:       byID,
	}
	c.current.Store(snap)
	return snap, nil
}

// Stats describes the active snapshot.
func (c *Corpus) Stats() domain.CorpusStats {
	snap := c.Snapshot()
	return domain.CorpusStats{
		Passages:   snap.Vector.Len(),
		Terms:      snap.Keyword.Terms(),
		Dimension:  snap.Vector.Dimension(),
		AvgLength:  snap.Keyword.AvgLength(),
		Generation: snap.Generation,
	}
}
