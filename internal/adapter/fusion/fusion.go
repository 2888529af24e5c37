package fusion

import (
	"fmt"
	"math"
	"sort"

	"knowledge/internal/domain"
)

// Fuser merges a semantic ranking and a lexical ranking into one candidate
// list. Each input is min-max normalized to [0,1] independently before
// weighting, so raw inner-product and raw BM25 magnitudes never compete at
// incompatible scales.
type Fuser struct {
	semanticWeight float64
	lexicalWeight  float64
}

// NewFuser creates a fuser. Weights must sum to 1.0; anything else is a
// configuration error, never silently renormalized.
func NewFuser(semanticWeight, lexicalWeight float64) (*Fuser, error) {
	if semanticWeight < 0 || lexicalWeight < 0 {
		return nil, fmt.Errorf("%w: weights must be non-negative", domain.ErrInvalidFusionWeights)
	}
	if math.Abs(semanticWeight+lexicalWeight-1.0) > 1e-9 {
		return nil, fmt.Errorf("%w: semantic=%v lexical=%v", domain.ErrInvalidFusionWeights, semanticWeight, lexicalWeight)
	}
	return &Fuser{
		semanticWeight: semanticWeight,
		lexicalWeight:  lexicalWeight,
	}, nil
}

// Fuse combines the two score maps into a deduplicated candidate list
// ordered by fused score descending. A passage present in only one input
// uses 0 for the missing signal. Ties order by passage ID ascending, so
// identical inputs always produce identical output.
func (f *Fuser) Fuse(semantic, lexical map[string]float64) []domain.ScoredCandidate {
	normSemantic := minMaxNormalize(semantic)
	normLexical := minMaxNormalize(lexical)

	ids := make(map[string]struct{}, len(semantic)+len(lexical))
	for id := range semantic {
		ids[id] = struct{}{}
	}
	for id := range lexical {
		ids[id] = struct{}{}
	}

	candidates := make([]domain.ScoredCandidate, 0, len(ids))
	for id := range ids {
		sem := normSemantic[id]
		lex := normLexical[id]
		candidates = append(candidates, domain.ScoredCandidate{
			PassageID:     id,
			SemanticScore: sem,
			LexicalScore:  lex,
			FusedScore:    f.semanticWeight*sem + f.lexicalWeight*lex,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].FusedScore != candidates[j].FusedScore {
			return candidates[i].FusedScore > candidates[j].FusedScore
		}
		return candidates[i].PassageID < candidates[j].PassageID
	})

	return candidates
}

// SemanticWeight returns the configured semantic weight.
func (f *Fuser) SemanticWeight() float64 { return f.semanticWeight }

// LexicalWeight returns the configured lexical weight.
func (f *Fuser) LexicalWeight() float64 { return f.lexicalWeight }

// minMaxNormalize scales the scores to [0,1]. When all scores are equal
// every entry maps to 0.5, keeping the signal neutral rather than
// arbitrarily extreme.
func minMaxNormalize(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}

	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	out := make(map[string]float64, len(scores))
	if max == min {
		for id := range scores {
			out[id] = 0.5
		}
		return out
	}
	for id, s := range scores {
		out[id] = (s - min) / (max - min)
	}
	return out
}
