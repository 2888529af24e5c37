package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"knowledge/internal/domain"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadFusionWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Retrieve.SemanticWeight = 0.7
	cfg.Retrieve.LexicalWeight = 0.4

	err := cfg.Validate()
	if !errors.Is(err, domain.ErrInvalidFusionWeights) {
		t.Fatalf("err = %v, want ErrInvalidFusionWeights", err)
	}
}

func TestLoadRejectsBadWeightsInFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	data := []byte("retrieve:\n  semantic_weight: 0.9\n  lexical_weight: 0.3\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, domain.ErrInvalidFusionWeights) {
		t.Fatalf("err = %v, want ErrInvalidFusionWeights", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieve.FinalK != 5 || cfg.Memory.Capacity != 10 {
		t.Fatalf("defaults not applied: %+v", cfg.Retrieve)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	data := []byte("retrieve:\n  final_k: 8\nchunking:\n  max_chunk_size: 2000\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retrieve.FinalK != 8 {
		t.Fatalf("final_k = %d, want 8", cfg.Retrieve.FinalK)
	}
	if cfg.Chunking.MaxChunkSize != 2000 {
		t.Fatalf("max_chunk_size = %d, want 2000", cfg.Chunking.MaxChunkSize)
	}
	// Untouched sections keep their defaults.
	if cfg.Index.K1 != 1.5 {
		t.Fatalf("k1 = %v, want default 1.5", cfg.Index.K1)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "knowledge.yaml")

	cfg := DefaultConfig()
	cfg.Retrieve.FinalK = 7
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir: %v", err)
	}
	if loaded.Retrieve.FinalK != 7 {
		t.Fatalf("final_k = %d, want 7", loaded.Retrieve.FinalK)
	}
}
