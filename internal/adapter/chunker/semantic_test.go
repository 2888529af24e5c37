package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"knowledge/internal/domain"
)

// topicEmbedder maps sentences to fixed topic vectors so boundary
// placement is fully deterministic.
type topicEmbedder struct {
	calls int
	fail  error
}

func (e *topicEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.fail != nil {
		return nil, e.fail
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		switch {
		case strings.Contains(strings.ToLower(t), "domain"):
			out[i] = []float32{1, 0, 0}
		case strings.Contains(strings.ToLower(t), "billing"):
			out[i] = []float32{0, 1, 0}
		default:
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

func (e *topicEmbedder) Dimension() int    { return 3 }
func (e *topicEmbedder) ModelName() string { return "topic-test" }

func twoTopicDoc() string {
	domainSentences := []string{
		"Your domain was suspended for verification failure.",
		"The domain can be reactivated within thirty days.",
		"Every domain must carry accurate contact details.",
		"A suspended domain stops resolving immediately.",
	}
	billingSentences := []string{
		"Billing disputes are handled by the billing team.",
		"Every billing invoice is emailed on the first.",
		"Refunds for billing errors take five business days.",
		"The billing portal accepts cards and transfers.",
	}
	return strings.Join(append(domainSentences, billingSentences...), " ")
}

func newTestChunker(emb *topicEmbedder, minSize, maxSize int) *SemanticChunker {
	return NewSemanticChunker(emb, Options{
		SimilarityThreshold: 0.5,
		MinChunkSize:        minSize,
		MaxChunkSize:        maxSize,
		BufferSize:          1,
	}, nil)
}

func TestChunkSingleSentence(t *testing.T) {
	emb := &topicEmbedder{}
	c := newTestChunker(emb, 100, 1500)

	chunks, err := c.Chunk(context.Background(), "A single sentence without a boundary")
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if emb.calls != 0 {
		t.Errorf("boundary detection should not run for a single sentence, embedder called %d times", emb.calls)
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := newTestChunker(&topicEmbedder{}, 100, 1500)

	_, err := c.Chunk(context.Background(), "   \n\t  ")
	if !errors.Is(err, domain.ErrNoChunks) {
		t.Fatalf("expected ErrNoChunks, got %v", err)
	}
}

func TestChunkTopicBoundary(t *testing.T) {
	c := newTestChunker(&topicEmbedder{}, 50, 1500)

	chunks, err := c.Chunk(context.Background(), twoTopicDoc())
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks at the topic boundary, got %d: %q", len(chunks), chunks)
	}
	if strings.Contains(strings.ToLower(chunks[0]), "billing") {
		t.Errorf("first chunk crossed the topic boundary: %q", chunks[0])
	}
	if strings.Contains(strings.ToLower(chunks[1]), "domain") {
		t.Errorf("second chunk crossed the topic boundary: %q", chunks[1])
	}
}

func TestChunkBoundaryIntegrity(t *testing.T) {
	doc := twoTopicDoc()
	c := newTestChunker(&topicEmbedder{}, 50, 1500)

	chunks, err := c.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	// Concatenating all chunks must reconstruct the sentence sequence.
	want := strings.Join(splitSentences(doc), " ")
	got := strings.Join(chunks, " ")
	if got != want {
		t.Errorf("chunk concatenation does not reconstruct the document:\n got %q\nwant %q", got, want)
	}
}

func TestChunkMaxSizeSplit(t *testing.T) {
	// Single-topic document around 2000 characters: no similarity
	// breakpoints exist, so any split is forced purely by the size rule.
	sentence := "The domain registry keeps authoritative records for every single active zone in service today."
	var sentences []string
	for len(strings.Join(sentences, " ")) < 2000 {
		sentences = append(sentences, sentence)
	}
	doc := strings.Join(sentences, " ")

	c := newTestChunker(&topicEmbedder{}, 100, 1500)
	chunks, err := c.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) < 2 {
		t.Fatalf("expected the max-size rule to split the document, got %d chunk(s)", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) > 1500 {
			t.Errorf("chunk %d exceeds max size: %d chars", i, len(ch))
		}
		if len(ch) < 100 {
			t.Errorf("chunk %d below min size: %d chars", i, len(ch))
		}
	}

	want := strings.Join(splitSentences(doc), " ")
	if got := strings.Join(chunks, " "); got != want {
		t.Error("size-rule split broke sentence integrity")
	}
}

func TestChunkEmbedderFailure(t *testing.T) {
	emb := &topicEmbedder{fail: domain.ErrEmbeddingUnavailable}
	c := newTestChunker(emb, 50, 1500)

	_, err := c.Chunk(context.Background(), twoTopicDoc())
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("expected embedding failure to propagate, got %v", err)
	}
}

func TestChunkWithOverlap(t *testing.T) {
	doc := twoTopicDoc()
	c := newTestChunker(&topicEmbedder{}, 50, 1500)

	plain, err := c.Chunk(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	overlapped, err := c.ChunkWithOverlap(context.Background(), doc, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(overlapped) != len(plain) {
		t.Fatalf("overlap changed chunk count: %d vs %d", len(overlapped), len(plain))
	}
	if overlapped[0] != plain[0] {
		t.Errorf("first chunk must be unchanged by overlap")
	}

	sentences := splitSentences(doc)
	lastOfFirst := sentences[3]
	if !strings.HasPrefix(overlapped[1], lastOfFirst) {
		t.Errorf("second chunk should start with the previous chunk's last sentence:\n got %q", overlapped[1])
	}

	zero, err := c.ChunkWithOverlap(context.Background(), doc, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range zero {
		if zero[i] != plain[i] {
			t.Errorf("overlap 0 must match plain chunking at %d", i)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First sentence here. Second one follows! Is this the third? Yes.")
	want := []string{"First sentence here.", "Second one follows!", "Is this the third?", "Yes."}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}

	// Abbreviation followed by lowercase must not split.
	got = splitSentences("Contact support at e.g. the portal. Then wait.")
	if len(got) != 2 {
		t.Errorf("abbreviation split wrongly: %q", got)
	}
}
