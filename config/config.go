package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"knowledge/internal/domain"
)

// Config holds all configuration for the retrieval core.
type Config struct {
	Ingest    IngestConfig    `yaml:"ingest"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Index     IndexConfig     `yaml:"index"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Memory    MemoryConfig    `yaml:"memory"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IngestConfig controls document discovery for the ingest command.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// ChunkingConfig holds semantic chunker parameters.
type ChunkingConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"` // Split below this adjacent similarity
	MinChunkSize        int     `yaml:"min_chunk_size"`       // Characters; smaller chunks merge forward
	MaxChunkSize        int     `yaml:"max_chunk_size"`       // Characters; larger chunks split
	BufferSize          int     `yaml:"buffer_size"`          // Sentences averaged on each side for smoothing
	OverlapSentences    int     `yaml:"overlap_sentences"`    // 0 disables overlap mode
}

// IndexConfig holds lexical scoring parameters.
type IndexConfig struct {
	K1 float64 `yaml:"k1"`
	B  float64 `yaml:"b"`
}

// RetrieveConfig holds retrieval pipeline parameters.
type RetrieveConfig struct {
	FinalK              int     `yaml:"final_k"`
	SemanticWeight      float64 `yaml:"semantic_weight"`
	LexicalWeight       float64 `yaml:"lexical_weight"`
	MinSemanticScore    float64 `yaml:"min_semantic_score"`   // Drop semantic hits below this similarity
	CandidateMultiplier int     `yaml:"candidate_multiplier"` // Candidate pool = final_k * this, per signal
	MinCandidates       int     `yaml:"min_candidates"`
	RerankEnabled       bool    `yaml:"rerank_enabled"`
	RerankMultiplier    int     `yaml:"rerank_multiplier"` // Rerank pool = final_k * this
	CacheSize           int     `yaml:"cache_size"`
	CacheTTLSeconds     int     `yaml:"cache_ttl_seconds"`
}

// MemoryConfig holds session memory parameters.
type MemoryConfig struct {
	Capacity      int `yaml:"capacity"`
	ContextWindow int `yaml:"context_window"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"` // "openai", "ollama", "mock"
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	BaseURL        string `yaml:"base_url"`
	Dimension      int    `yaml:"dimension"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			Includes: []string{"**/*.txt", "**/*.md"},
			Excludes: []string{"**/.git/**", "**/node_modules/**"},
		},
		Chunking: ChunkingConfig{
			SimilarityThreshold: 0.5,
			MinChunkSize:        100,
			MaxChunkSize:        1500,
			BufferSize:          1,
			OverlapSentences:    0,
		},
		Index: IndexConfig{
			K1: 1.5,
			B:  0.75,
		},
		Retrieve: RetrieveConfig{
			FinalK:              5,
			SemanticWeight:      0.7,
			LexicalWeight:       0.3,
			MinSemanticScore:    0.3,
			CandidateMultiplier: 3,
			MinCandidates:       20,
			RerankEnabled:       true,
			RerankMultiplier:    2,
			CacheSize:           100,
			CacheTTLSeconds:     300,
		},
		Memory: MemoryConfig{
			Capacity:      10,
			ContextWindow: 3,
		},
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKeyEnv:      "OPENAI_API_KEY",
			BaseURL:        "https://api.openai.com/v1",
			Dimension:      1536,
			BatchSize:      100,
			TimeoutSeconds: 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that must fail at startup rather than
// per query.
func (c *Config) Validate() error {
	sum := c.Retrieve.SemanticWeight + c.Retrieve.LexicalWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: semantic=%v lexical=%v",
			domain.ErrInvalidFusionWeights, c.Retrieve.SemanticWeight, c.Retrieve.LexicalWeight)
	}
	if c.Retrieve.SemanticWeight < 0 || c.Retrieve.LexicalWeight < 0 {
		return fmt.Errorf("%w: weights must be non-negative", domain.ErrInvalidFusionWeights)
	}
	if c.Chunking.MinChunkSize <= 0 || c.Chunking.MaxChunkSize <= c.Chunking.MinChunkSize {
		return fmt.Errorf("chunking: min_chunk_size must be positive and below max_chunk_size")
	}
	if c.Chunking.SimilarityThreshold < 0 || c.Chunking.SimilarityThreshold > 1 {
		return fmt.Errorf("chunking: similarity_threshold must be in [0,1]")
	}
	if c.Memory.Capacity <= 0 || c.Memory.ContextWindow <= 0 {
		return fmt.Errorf("memory: capacity and context_window must be positive")
	}
	if c.Retrieve.FinalK <= 0 {
		return fmt.Errorf("retrieve: final_k must be positive")
	}
	if c.Retrieve.RerankMultiplier < 2 {
		return fmt.Errorf("retrieve: rerank_multiplier must be at least 2")
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding: dimension must be positive")
	}
	return nil
}

// Load loads configuration from a YAML file, applying defaults for
// anything unset.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for knowledge.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "knowledge.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".knowledge", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the index snapshot database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".knowledge", "index.db")
}

// EnsureDataDir ensures the .knowledge directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".knowledge"), 0755)
}
