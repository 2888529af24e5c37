package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"knowledge/internal/adapter/store"
	"knowledge/internal/domain"
	"knowledge/internal/port"
)

// IngestUseCase turns source documents into an indexed corpus: chunk,
// embed, build both indexes, swap the snapshot, and optionally persist.
type IngestUseCase struct {
	chunker   port.Chunker
	embedder  port.Embedder
	corpus    *Corpus
	snapshots *store.SnapshotStore // nil disables persistence
	logger    *zap.Logger
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	DocumentsIngested int
	DocumentsFailed   int
	PassagesCreated   int
	Failures          []string
}

// ProgressFunc reports per-document ingestion progress.
type ProgressFunc func(done, total int, source string)

// NewIngestUseCase wires the ingestion pipeline. snapshots may be nil
// when persistence is not wanted.
func NewIngestUseCase(chunker port.Chunker, embedder port.Embedder, corpus *Corpus, snapshots *store.SnapshotStore, logger *zap.Logger) *IngestUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IngestUseCase{
		chunker:   chunker,
		embedder:  embedder,
		corpus:    corpus,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Ingest chunks and indexes the given documents, replacing the active
// corpus snapshot. A document that fails to chunk is skipped and
// recorded in the result; the rest of the batch still goes through.
// Embedding or index-build failures abort the whole run and leave the
// previous snapshot active.
func (u *IngestUseCase) Ingest(ctx context.Context, docs []domain.SourceDocument, progress ProgressFunc) (*IngestResult, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("ingest: no documents")
	}

	result := &IngestResult{}
	var passages []domain.Passage

	for i, doc := range docs {
		texts, err := u.chunker.Chunk(ctx, doc.Text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			u.logger.Warn("skipping document",
				zap.String("source", doc.Source),
				zap.Error(err))
			result.DocumentsFailed++
			result.Failures = append(result.Failures, fmt.Sprintf("%s: %v", doc.Source, err))
			continue
		}

		docKey := passageKeyPrefix(doc)
		for pos, text := range texts {
			passages = append(passages, domain.Passage{
				ID:       fmt.Sprintf("%s-p%03d", docKey, pos),
				Title:    doc.Title,
				Text:     text,
				Source:   doc.Source,
				Category: doc.Category,
				Position: pos,
			})
		}
		result.DocumentsIngested++
		if progress != nil {
			progress(i+1, len(docs), doc.Source)
		}
	}

	if len(passages) == 0 {
		return result, fmt.Errorf("ingest: no passages produced from %d documents: %w", len(docs), domain.ErrNoChunks)
	}
	result.PassagesCreated = len(passages)

	embeddings, err := u.embedPassages(ctx, passages)
	if err != nil {
		return result, err
	}

	snap, err := u.corpus.Rebuild(passages, embeddings)
	if err != nil {
		return result, err
	}
	u.logger.Info("corpus rebuilt",
		zap.Uint64("generation", snap.Generation),
		zap.Int("documents", result.DocumentsIngested),
		zap.Int("passages", result.PassagesCreated))

	if u.snapshots != nil {
		// Persist the normalized vectors so a reload is bit-identical.
		if err := u.snapshots.Save(snap.Vector.Passages(), snap.Vector.Embeddings()); err != nil {
			return result, fmt.Errorf("persisting snapshot: %w", err)
		}
	}
	return result, nil
}

// LoadSnapshot restores the corpus from the persisted snapshot without
// re-embedding anything.
func (u *IngestUseCase) LoadSnapshot(ctx context.Context) (*IngestResult, error) {
	if u.snapshots == nil {
		return nil, fmt.Errorf("load snapshot: no snapshot store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	passages, embeddings, err := u.snapshots.Load()
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("load snapshot: store is empty")
	}
	snap, err := u.corpus.Rebuild(passages, embeddings)
	if err != nil {
		return nil, err
	}
	u.logger.Info("corpus restored",
		zap.Uint64("generation", snap.Generation),
		zap.Int("passages", len(passages)))
	return &IngestResult{PassagesCreated: len(passages)}, nil
}

// embedPassages embeds all passage texts in embedder-sized batches.
func (u *IngestUseCase) embedPassages(ctx context.Context, passages []domain.Passage) ([][]float32, error) {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.EmbeddingText()
	}
	embeddings, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d passages: %w", len(passages), err)
	}
	if len(embeddings) != len(passages) {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for %d passages",
			domain.ErrEmbeddingUnavailable, len(embeddings), len(passages))
	}
	return embeddings, nil
}

// passageKeyPrefix derives a stable short key for a document so passage
// IDs survive re-ingestion of the same source.
func passageKeyPrefix(doc domain.SourceDocument) string {
	sum := sha256.Sum256([]byte(doc.Source + "\x00" + doc.Title))
	return hex.EncodeToString(sum[:6])
}
