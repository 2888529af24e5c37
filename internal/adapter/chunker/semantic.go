package chunker

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"knowledge/internal/domain"
	"knowledge/internal/port"
)

// SemanticChunker splits documents at topic boundaries detected from
// sentence embeddings. It never splits inside a sentence, and it never
// falls back to fixed-length splitting: if the embedder fails, chunking
// fails and the caller decides what to do.
type SemanticChunker struct {
	embedder     port.Embedder
	threshold    float64
	minChunkSize int
	maxChunkSize int
	bufferSize   int
	overlap      int
	logger       *zap.Logger
}

// Options configures a SemanticChunker.
type Options struct {
	SimilarityThreshold float64 // Breakpoint when adjacent similarity falls below this
	MinChunkSize        int     // Characters; smaller chunks merge into a neighbor
	MaxChunkSize        int     // Characters; larger chunks split at weak boundaries
	BufferSize          int     // Sentences averaged on each side when smoothing similarity
	OverlapSentences    int     // Sentences prepended from the previous chunk; 0 disables
}

// NewSemanticChunker creates a semantic chunker.
func NewSemanticChunker(embedder port.Embedder, opts Options, logger *zap.Logger) *SemanticChunker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = 0.5
	}
	if opts.MinChunkSize == 0 {
		opts.MinChunkSize = 100
	}
	if opts.MaxChunkSize == 0 {
		opts.MaxChunkSize = 1500
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = 1
	}
	return &SemanticChunker{
		embedder:     embedder,
		threshold:    opts.SimilarityThreshold,
		minChunkSize: opts.MinChunkSize,
		maxChunkSize: opts.MaxChunkSize,
		bufferSize:   opts.BufferSize,
		overlap:      opts.OverlapSentences,
		logger:       logger,
	}
}

// Chunk splits text into topically coherent passage texts. When the
// chunker was configured with OverlapSentences > 0, each chunk is
// prefixed with the trailing sentences of the previous one.
func (c *SemanticChunker) Chunk(ctx context.Context, text string) ([]string, error) {
	if c.overlap > 0 {
		return c.ChunkWithOverlap(ctx, text, c.overlap)
	}
	sentences, bounds, err := c.boundaries(ctx, text)
	if err != nil {
		return nil, err
	}
	return renderChunks(sentences, bounds), nil
}

// ChunkWithOverlap chunks text and prepends the last overlap sentences of
// each chunk to the following one, preserving local context across
// boundaries. overlap <= 0 behaves exactly like Chunk.
func (c *SemanticChunker) ChunkWithOverlap(ctx context.Context, text string, overlap int) ([]string, error) {
	sentences, bounds, err := c.boundaries(ctx, text)
	if err != nil {
		return nil, err
	}
	if overlap <= 0 || len(bounds) <= 1 {
		return renderChunks(sentences, bounds), nil
	}

	chunks := make([]string, len(bounds))
	for i, b := range bounds {
		start := b[0]
		if i > 0 {
			prev := bounds[i-1]
			start = b[0] - overlap
			if start < prev[0] {
				start = prev[0]
			}
		}
		chunks[i] = strings.Join(sentences[start:b[1]], " ")
	}
	return chunks, nil
}

// boundaries computes the sentence list and the chunk boundaries over it.
func (c *SemanticChunker) boundaries(ctx context.Context, text string) ([]string, [][2]int, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, nil, domain.ErrNoChunks
	}

	// Too short for boundary detection: the whole document is one chunk.
	if len(sentences) == 1 {
		return sentences, [][2]int{{0, 1}}, nil
	}

	embeddings, err := c.embedder.Embed(ctx, sentences)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding %d sentences: %w", len(sentences), err)
	}
	if len(embeddings) != len(sentences) {
		return nil, nil, fmt.Errorf("%w: embedder returned %d vectors for %d sentences",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(sentences))
	}

	sims := c.similarities(embeddings)
	breakpoints := c.findBreakpoints(sims)

	c.logger.Debug("semantic chunking",
		zap.Int("sentences", len(sentences)),
		zap.Int("breakpoints", len(breakpoints)))

	bounds := initialBounds(len(sentences), breakpoints)
	bounds = c.mergeSmall(sentences, bounds)

	var split [][2]int
	for _, b := range bounds {
		split = append(split, c.splitLarge(sentences, sims, b[0], b[1])...)
	}

	if len(split) == 0 {
		return nil, nil, domain.ErrNoChunks
	}
	return sentences, split, nil
}

// similarities computes smoothed cosine similarity between each pair of
// adjacent sentences. Each side is the mean of a small window of
// embeddings so a single noisy sentence does not fake a topic change.
func (c *SemanticChunker) similarities(embeddings [][]float32) []float64 {
	n := len(embeddings)
	sims := make([]float64, n-1)

	for i := 0; i < n-1; i++ {
		start := i - c.bufferSize
		if start < 0 {
			start = 0
		}
		end := i + c.bufferSize + 2
		if end > n {
			end = n
		}

		left := meanVector(embeddings[start : i+1])
		right := meanVector(embeddings[i+1 : end])
		sims[i] = cosine(left, right)
	}
	return sims
}

// findBreakpoints returns boundary indices where a topic change is
// detected: similarity below the threshold, or a local minimum close
// enough to it.
func (c *SemanticChunker) findBreakpoints(sims []float64) []int {
	set := make(map[int]struct{})

	for i, s := range sims {
		if s < c.threshold {
			set[i] = struct{}{}
		}
	}
	for i := 1; i < len(sims)-1; i++ {
		if sims[i] < sims[i-1] && sims[i] < sims[i+1] && sims[i] < c.threshold+0.1 {
			set[i] = struct{}{}
		}
	}

	breakpoints := make([]int, 0, len(set))
	for i := range sims {
		if _, ok := set[i]; ok {
			breakpoints = append(breakpoints, i)
		}
	}
	return breakpoints
}

// initialBounds partitions [0,n) at the given breakpoints. A breakpoint at
// i separates sentence i from sentence i+1.
func initialBounds(n int, breakpoints []int) [][2]int {
	if len(breakpoints) == 0 {
		return [][2]int{{0, n}}
	}

	bounds := make([][2]int, 0, len(breakpoints)+1)
	start := 0
	for _, bp := range breakpoints {
		bounds = append(bounds, [2]int{start, bp + 1})
		start = bp + 1
	}
	bounds = append(bounds, [2]int{start, n})
	return bounds
}

// mergeSmall merges chunks shorter than the minimum size into the
// following chunk; a trailing small chunk merges into the preceding one.
func (c *SemanticChunker) mergeSmall(sentences []string, bounds [][2]int) [][2]int {
	if len(bounds) <= 1 {
		return bounds
	}

	var merged [][2]int
	cur := bounds[0]
	curLen := chunkLen(sentences, cur[0], cur[1])

	for _, b := range bounds[1:] {
		if curLen < c.minChunkSize {
			cur[1] = b[1]
			curLen = chunkLen(sentences, cur[0], cur[1])
		} else {
			merged = append(merged, cur)
			cur = b
			curLen = chunkLen(sentences, cur[0], cur[1])
		}
	}
	merged = append(merged, cur)

	// Last chunk too small: fold it back into the preceding one.
	if len(merged) > 1 {
		last := merged[len(merged)-1]
		if chunkLen(sentences, last[0], last[1]) < c.minChunkSize {
			merged[len(merged)-2][1] = last[1]
			merged = merged[:len(merged)-1]
		}
	}

	return merged
}

// splitLarge subdivides an oversized chunk at its weakest internal
// similarity boundary, recursively, until every piece fits. Preference
// goes to boundaries leaving both sides above the minimum size; when none
// qualifies the boundary closest to the character midpoint is used. A
// single sentence is never split.
func (c *SemanticChunker) splitLarge(sentences []string, sims []float64, start, end int) [][2]int {
	if end-start <= 1 || chunkLen(sentences, start, end) <= c.maxChunkSize {
		return [][2]int{{start, end}}
	}

	best := -1
	bestSim := math.Inf(1)
	for i := start; i < end-1; i++ {
		left := chunkLen(sentences, start, i+1)
		right := chunkLen(sentences, i+1, end)
		if left < c.minChunkSize || right < c.minChunkSize {
			continue
		}
		if sims[i] < bestSim {
			bestSim = sims[i]
			best = i
		}
	}

	if best == -1 {
		total := chunkLen(sentences, start, end)
		bestDiff := total + 1
		acc := 0
		for i := start; i < end-1; i++ {
			acc += len(sentences[i]) + 1
			diff := total - 2*acc
			if diff < 0 {
				diff = -diff
			}
			if diff < bestDiff {
				bestDiff = diff
				best = i
			}
		}
	}

	out := c.splitLarge(sentences, sims, start, best+1)
	return append(out, c.splitLarge(sentences, sims, best+1, end)...)
}

func renderChunks(sentences []string, bounds [][2]int) []string {
	chunks := make([]string, len(bounds))
	for i, b := range bounds {
		chunks[i] = strings.Join(sentences[b[0]:b[1]], " ")
	}
	return chunks
}

// chunkLen is the character length of the joined sentences, spaces included.
func chunkLen(sentences []string, start, end int) int {
	n := 0
	for i := start; i < end; i++ {
		n += len(sentences[i])
	}
	if end > start {
		n += end - start - 1
	}
	return n
}

// splitSentences segments text with a punctuation+capitalization heuristic:
// a sentence ends at . ! or ? followed by whitespace and an uppercase
// letter. Not a full parser; abbreviations before lowercase words survive.
func splitSentences(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Consume any run of closing punctuation.
		j := i + 1
		for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?' || runes[j] == '"' || runes[j] == ')') {
			j++
		}
		if j >= len(runes) {
			break
		}
		if runes[j] != ' ' {
			continue
		}
		k := j
		for k < len(runes) && runes[k] == ' ' {
			k++
		}
		if k < len(runes) && unicode.IsUpper(runes[k]) {
			sentences = append(sentences, string(runes[start:j]))
			start = k
			i = k - 1
		}
	}

	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}

func meanVector(vectors [][]float32) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i, x := range v {
			mean[i] += float64(x)
		}
	}
	for i := range mean {
		mean[i] /= float64(len(vectors))
	}
	return mean
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + 1e-8)
}
