package index

import (
	"math"

	"knowledge/internal/adapter/analyzer"
	"knowledge/internal/domain"
)

// KeywordIndex holds the document-frequency table and per-passage term
// frequencies for BM25 scoring. It indexes the same passage set, in the
// same order, as the VectorIndex built alongside it, so fused scores join
// unambiguously by passage ID.
type KeywordIndex struct {
	k1 float64
	b  float64

	tokenizer *analyzer.Tokenizer
	ids       []string
	termFreqs []map[string]int
	lengths   []int
	avgLength float64
	docFreqs  map[string]int
	idf       map[string]float64
}

// NewKeywordIndex creates a keyword index with the given BM25 parameters.
func NewKeywordIndex(k1, b float64, tokenizer *analyzer.Tokenizer) *KeywordIndex {
	if tokenizer == nil {
		tokenizer = analyzer.NewTokenizer()
	}
	return &KeywordIndex{
		k1:        k1,
		b:         b,
		tokenizer: tokenizer,
		docFreqs:  make(map[string]int),
		idf:       make(map[string]float64),
	}
}

// Index builds term statistics over the passage set. Title and body text
// are indexed together, matching what the vector side embeds.
func (ix *KeywordIndex) Index(passages []domain.Passage) {
	ix.ids = make([]string, len(passages))
	ix.termFreqs = make([]map[string]int, len(passages))
	ix.lengths = make([]int, len(passages))
	ix.docFreqs = make(map[string]int)

	total := 0
	for i, p := range passages {
		tokens := ix.tokenizer.Tokenize(p.EmbeddingText())

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			tf[tok]++
		}

		ix.ids[i] = p.ID
		ix.termFreqs[i] = tf
		ix.lengths[i] = len(tokens)
		total += len(tokens)

		for term := range tf {
			ix.docFreqs[term]++
		}
	}

	n := len(passages)
	if n > 0 {
		ix.avgLength = float64(total) / float64(n)
	}

	ix.idf = make(map[string]float64, len(ix.docFreqs))
	for term, df := range ix.docFreqs {
		ix.idf[term] = math.Log((float64(n)-float64(df)+0.5)/(float64(df)+0.5) + 1)
	}
}

// Score computes a BM25 score per indexed passage for the query tokens.
// Every passage gets an entry; passages containing none of the terms score
// zero rather than being omitted.
func (ix *KeywordIndex) Score(queryTokens []string) map[string]float64 {
	scores := make(map[string]float64, len(ix.ids))
	for _, id := range ix.ids {
		scores[id] = 0
	}

	for i, id := range ix.ids {
		dl := float64(ix.lengths[i])
		for _, term := range queryTokens {
			idf, known := ix.idf[term]
			if !known {
				continue
			}
			tf := float64(ix.termFreqs[i][term])
			if tf == 0 {
				continue
			}
			scores[id] += idf * (tf * (ix.k1 + 1)) / (tf + ix.k1*(1-ix.b+ix.b*dl/ix.avgLength))
		}
	}

	return scores
}

// ScoreQuery tokenizes the query text and scores it.
func (ix *KeywordIndex) ScoreQuery(query string) map[string]float64 {
	return ix.Score(ix.tokenizer.Tokenize(query))
}

// Len returns the number of indexed passages.
func (ix *KeywordIndex) Len() int {
	return len(ix.ids)
}

// Terms returns the number of unique terms in the index.
func (ix *KeywordIndex) Terms() int {
	return len(ix.docFreqs)
}

// AvgLength returns the average passage length in tokens.
func (ix *KeywordIndex) AvgLength() float64 {
	return ix.avgLength
}
