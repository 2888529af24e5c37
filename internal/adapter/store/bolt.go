package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"go.etcd.io/bbolt"

	"knowledge/internal/domain"
)

var (
	bucketPassages   = []byte("passages")
	bucketEmbeddings = []byte("embeddings")
	bucketMeta       = []byte("meta")
	keyOrder         = []byte("order")
	keyDimension     = []byte("dimension")
)

// SnapshotStore persists one corpus snapshot: the passage set and its
// normalized embeddings, keyed by passage ID with an explicit order record.
// Loading reconstructs the exact passage order with embeddings bit-for-bit,
// so the vector and keyword indices rebuilt from it align across restarts.
type SnapshotStore struct {
	db *bbolt.DB
}

// Open opens (creating if needed) a snapshot store at the given path.
func Open(path string) (*SnapshotStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketPassages, bucketEmbeddings, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db}, nil
}

// Save replaces the stored snapshot with the given passages and their
// embeddings. Both slices must be aligned; the write is transactional.
func (s *SnapshotStore) Save(passages []domain.Passage, embeddings [][]float32) error {
	if len(passages) != len(embeddings) {
		return fmt.Errorf("passage/embedding count mismatch: %d vs %d", len(passages), len(embeddings))
	}

	dimension := 0
	if len(embeddings) > 0 {
		dimension = len(embeddings[0])
	}

	order := make([]string, len(passages))
	for i, p := range passages {
		order[i] = p.ID
	}
	orderData, err := json.Marshal(order)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		// Full replace: drop the previous snapshot first.
		for _, name := range [][]byte{bucketPassages, bucketEmbeddings} {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return err
			}
		}

		pb := tx.Bucket(bucketPassages)
		eb := tx.Bucket(bucketEmbeddings)
		for i, p := range passages {
			if len(embeddings[i]) != dimension {
				return fmt.Errorf("%w: passage %q has dimension %d, snapshot has %d",
					domain.ErrDimensionMismatch, p.ID, len(embeddings[i]), dimension)
			}

			data, err := json.Marshal(p)
			if err != nil {
				return err
			}
			if err := pb.Put([]byte(p.ID), data); err != nil {
				return err
			}
			if err := eb.Put([]byte(p.ID), encodeVector(embeddings[i])); err != nil {
				return err
			}
		}

		mb := tx.Bucket(bucketMeta)
		if err := mb.Put(keyOrder, orderData); err != nil {
			return err
		}
		dim := make([]byte, 4)
		binary.LittleEndian.PutUint32(dim, uint32(dimension))
		return mb.Put(keyDimension, dim)
	})
}

// Load reads back the stored snapshot in its original passage order.
// An empty store returns empty slices and no error.
func (s *SnapshotStore) Load() ([]domain.Passage, [][]float32, error) {
	var passages []domain.Passage
	var embeddings [][]float32

	err := s.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(bucketMeta)
		orderData := mb.Get(keyOrder)
		if orderData == nil {
			return nil
		}

		var order []string
		if err := json.Unmarshal(orderData, &order); err != nil {
			return fmt.Errorf("corrupt order record: %w", err)
		}

		pb := tx.Bucket(bucketPassages)
		eb := tx.Bucket(bucketEmbeddings)

		passages = make([]domain.Passage, 0, len(order))
		embeddings = make([][]float32, 0, len(order))
		for _, id := range order {
			data := pb.Get([]byte(id))
			vec := eb.Get([]byte(id))
			if data == nil || vec == nil {
				return fmt.Errorf("snapshot misaligned: passage %q missing", id)
			}

			var p domain.Passage
			if err := json.Unmarshal(data, &p); err != nil {
				return fmt.Errorf("corrupt passage %q: %w", id, err)
			}
			passages = append(passages, p)
			embeddings = append(embeddings, decodeVector(vec))
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return passages, embeddings, nil
}

// Dimension returns the stored embedding dimension, 0 when empty.
func (s *SnapshotStore) Dimension() (int, error) {
	dim := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyDimension)
		if data != nil {
			dim = int(binary.LittleEndian.Uint32(data))
		}
		return nil
	})
	return dim, err
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// encodeVector writes float32 values as little-endian bytes, preserving
// every bit of the normalized embedding.
func encodeVector(v []float32) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(x))
	}
	return out
}

func decodeVector(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
