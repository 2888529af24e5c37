package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"knowledge/internal/adapter/cache"
	"knowledge/internal/adapter/fusion"
	"knowledge/internal/domain"
	"knowledge/internal/memory"
	"knowledge/internal/port"
)

// RetrieveParams are the knobs of a single retrieval pipeline instance.
type RetrieveParams struct {
	FinalK              int     // Passages returned to the caller
	MinSemanticScore    float64 // Vector hits below this are dropped before fusion
	CandidateMultiplier int     // Candidate pool = FinalK * this, floored at MinCandidates
	MinCandidates       int
	RerankEnabled       bool
	RerankMultiplier    int // Rerank pool = FinalK * this
}

// RetrieveUseCase runs the retrieval pipeline: memory lookup, query
// embedding, parallel vector and keyword search, score fusion, rerank,
// and response assembly. It never generates text; the result is a
// context package for whatever consumes it.
type RetrieveUseCase struct {
	corpus   *Corpus
	embedder port.Embedder
	fuser    *fusion.Fuser
	reranker port.Reranker // nil means fused order stands
	memory   *memory.SessionMemory
	cache    *cache.QueryCache // nil disables caching
	params   RetrieveParams
	logger   *zap.Logger
}

// NewRetrieveUseCase wires the retrieval pipeline. reranker and cache
// may be nil.
func NewRetrieveUseCase(
	corpus *Corpus,
	embedder port.Embedder,
	fuser *fusion.Fuser,
	reranker port.Reranker,
	mem *memory.SessionMemory,
	queryCache *cache.QueryCache,
	params RetrieveParams,
	logger *zap.Logger,
) *RetrieveUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if params.FinalK <= 0 {
		params.FinalK = 5
	}
	if params.CandidateMultiplier <= 0 {
		params.CandidateMultiplier = 3
	}
	if params.MinCandidates <= 0 {
		params.MinCandidates = 20
	}
	if params.RerankMultiplier <= 0 {
		params.RerankMultiplier = 2
	}
	return &RetrieveUseCase{
		corpus:   corpus,
		embedder: embedder,
		fuser:    fuser,
		reranker: reranker,
		memory:   mem,
		cache:    queryCache,
		params:   params,
		logger:   logger,
	}
}

// Retrieve answers one query against the active corpus snapshot.
//
// The memory lookup always runs, even when the corpus is empty, so the
// caller sees the conversation context regardless of what the indexes
// hold. An embedding failure aborts the request; a rerank failure only
// degrades the ordering to the fused ranking.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string) (*domain.RetrievalResult, error) {
	snap := u.corpus.Snapshot()

	memoryContext := ""
	if u.memory != nil {
		memoryContext = u.memory.WindowContext()
	}

	if u.cache != nil {
		if cached, ok := u.cache.Get(query, u.params.FinalK, snap.Generation); ok {
			u.logger.Debug("query cache hit", zap.String("query", query))
			// Memory moves between identical queries; only the ranking is cached.
			return &domain.RetrievalResult{
				Query:         query,
				MemoryContext: memoryContext,
				Passages:      cached.Passages,
			}, nil
		}
	}

	queryEmbedding, err := u.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	u.logger.Debug("query embedded",
		zap.String("model", u.embedder.ModelName()),
		zap.Int("dimension", len(queryEmbedding)))

	candidateK := u.params.FinalK * u.params.CandidateMultiplier
	if candidateK < u.params.MinCandidates {
		candidateK = u.params.MinCandidates
	}

	var semanticScores, lexicalScores map[string]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scores, err := u.semanticSearch(gctx, snap, queryEmbedding, candidateK)
		if err != nil {
			return err
		}
		semanticScores = scores
		return nil
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		lexicalScores = topLexical(snap.Keyword.ScoreQuery(query), candidateK)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := u.fuser.Fuse(semanticScores, lexicalScores)
	u.logger.Debug("signals fused",
		zap.Int("semantic", len(semanticScores)),
		zap.Int("lexical", len(lexicalScores)),
		zap.Int("candidates", len(candidates)))

	final, err := u.rerank(ctx, snap, query, candidates)
	if err != nil {
		return nil, err
	}
	if len(final) > u.params.FinalK {
		final = final[:u.params.FinalK]
	}

	ranked, err := u.assemble(snap, final)
	if err != nil {
		return nil, err
	}
	result := &domain.RetrievalResult{
		Query:         query,
		MemoryContext: memoryContext,
		Passages:      ranked,
	}
	if u.cache != nil {
		u.cache.Put(query, u.params.FinalK, snap.Generation, result)
	}
	u.logger.Debug("response ready",
		zap.String("query", query),
		zap.Int("passages", len(result.Passages)),
		zap.Uint64("generation", snap.Generation))
	return result, nil
}

// RecordTurn appends a completed exchange to session memory.
func (u *RetrieveUseCase) RecordTurn(query, answer string, references []string, action domain.Action) {
	if u.memory == nil {
		return
	}
	if action == "" {
		action = domain.ActionNone
	}
	u.memory.AddTurn(domain.ConversationTurn{
		Query:      query,
		Answer:     answer,
		References: references,
		Action:     action,
		Timestamp:  time.Now(),
	})
}

// Stats describes the active corpus snapshot.
func (u *RetrieveUseCase) Stats() domain.CorpusStats {
	return u.corpus.Stats()
}

// Memory exposes the session memory for callers that clear or inspect it.
func (u *RetrieveUseCase) Memory() *memory.SessionMemory {
	return u.memory
}

func (u *RetrieveUseCase) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := u.embedder.Embed(ctx, []string{query})
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		return nil, fmt.Errorf("embedding query: %w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embedding query: %w: got %d vectors", domain.ErrEmbeddingUnavailable, len(embeddings))
	}
	return embeddings[0], nil
}

func (u *RetrieveUseCase) semanticSearch(ctx context.Context, snap *Snapshot, queryEmbedding []float32, k int) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hits, err := snap.Vector.Search(queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		if h.Score < u.params.MinSemanticScore {
			continue
		}
		scores[h.Passage.ID] = h.Score
	}
	return scores, nil
}

// rerank reorders the head of the fused candidate list by reranker
// score. A reranker API failure keeps the fused order; a candidate ID
// missing from the snapshot is an index misalignment and fails the
// request instead of returning a partially resolved ranking.
func (u *RetrieveUseCase) rerank(ctx context.Context, snap *Snapshot, query string, candidates []domain.ScoredCandidate) ([]domain.ScoredCandidate, error) {
	if !u.params.RerankEnabled || u.reranker == nil || len(candidates) == 0 {
		return candidates, nil
	}

	pool := u.params.FinalK * u.params.RerankMultiplier
	if pool > len(candidates) {
		pool = len(candidates)
	}
	head := candidates[:pool]

	texts := make([]string, len(head))
	for i, c := range head {
		p, ok := snap.Passage(c.PassageID)
		if !ok {
			return nil, fmt.Errorf("passage %q scored but missing from snapshot generation %d", c.PassageID, snap.Generation)
		}
		texts[i] = p.Text
	}

	ranked, err := u.reranker.Rerank(ctx, query, texts)
	if err != nil {
		u.logger.Warn("rerank failed, keeping fused order", zap.Error(err))
		return candidates, nil
	}
	if len(ranked) != len(head) {
		u.logger.Warn("rerank returned wrong count, keeping fused order",
			zap.Int("want", len(head)), zap.Int("got", len(ranked)))
		return candidates, nil
	}

	reordered := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, r := range ranked {
		c := head[r.Index]
		c.RerankScore = r.Score
		c.Reranked = true
		reordered = append(reordered, c)
	}
	return append(reordered, candidates[pool:]...), nil
}

func (u *RetrieveUseCase) assemble(snap *Snapshot, candidates []domain.ScoredCandidate) ([]domain.RankedPassage, error) {
	passages := make([]domain.RankedPassage, 0, len(candidates))
	for _, c := range candidates {
		p, ok := snap.Passage(c.PassageID)
		if !ok {
			return nil, fmt.Errorf("passage %q scored but missing from snapshot generation %d", c.PassageID, snap.Generation)
		}
		score := c.FusedScore
		if c.Reranked {
			score = c.RerankScore
		}
		passages = append(passages, domain.RankedPassage{
			Passage:       p,
			Score:         score,
			SemanticScore: c.SemanticScore,
			LexicalScore:  c.LexicalScore,
			FusedScore:    c.FusedScore,
			RerankScore:   c.RerankScore,
		})
	}
	return passages, nil
}

// topLexical keeps the k best BM25 scores. Ties break on passage ID so
// the candidate pool is deterministic.
func topLexical(scores map[string]float64, k int) map[string]float64 {
	if len(scores) <= k {
		return scores
	}
	type pair struct {
		id    string
		score float64
	}
	pairs := make([]pair, 0, len(scores))
	for id, s := range scores {
		pairs = append(pairs, pair{id, s})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		return pairs[i].id < pairs[j].id
	})
	top := make(map[string]float64, k)
	for _, p := range pairs[:k] {
		top[p.id] = p.score
	}
	return top
}
