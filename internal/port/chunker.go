package port

import "context"

// Chunker splits document text into ordered passage texts. Chunking failure
// fails the whole operation; fallback strategy selection belongs to the
// caller.
type Chunker interface {
	Chunk(ctx context.Context, text string) ([]string, error)
}
