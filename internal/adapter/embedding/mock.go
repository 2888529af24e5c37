package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder produces deterministic pseudo-random unit vectors derived
// from the input text. Identical input always yields identical output, so
// fusion and rerank results stay reproducible in tests and offline demos.
// Texts sharing many words land near each other because each word
// contributes the same component vector.
type MockEmbedder struct {
	dimension int
}

// NewMockEmbedder creates a mock embedder with the given dimension.
func NewMockEmbedder(dimension int) *MockEmbedder {
	return &MockEmbedder{dimension: dimension}
}

// Embed generates deterministic embeddings for the given texts.
func (e *MockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *MockEmbedder) embedOne(text string) []float32 {
	vec := make([]float64, e.dimension)

	// Sum a deterministic component vector per word.
	word := make([]rune, 0, 16)
	flush := func() {
		if len(word) == 0 {
			return
		}
		h := fnv.New64a()
		for _, r := range word {
			h.Write([]byte(string(r)))
		}
		state := h.Sum64()
		for j := 0; j < e.dimension; j++ {
			state = state*6364136223846793005 + 1442695040888963407
			vec[j] += float64(int64(state>>33))/float64(1<<31) - 0.5
		}
		word = word[:0]
	}
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			flush()
		} else {
			word = append(word, r)
		}
	}
	flush()

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		norm = 1
	}

	out := make([]float32, e.dimension)
	for j, v := range vec {
		out[j] = float32(v / norm)
	}
	return out
}

// Ready always succeeds.
func (e *MockEmbedder) Ready(ctx context.Context) error {
	return ctx.Err()
}

// Dimension returns the embedding vector dimension.
func (e *MockEmbedder) Dimension() int {
	return e.dimension
}

// ModelName returns the model name.
func (e *MockEmbedder) ModelName() string {
	return "mock"
}
