package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval engine.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Ranker    RankerConfig    `yaml:"ranker"`
	Cache     CacheConfig     `yaml:"cache"`
	Expansion ExpansionConfig `yaml:"expansion"`
	Source    SourceConfig    `yaml:"source"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StoreConfig holds storage paths.
type StoreConfig struct {
	DataDir string `yaml:"data_dir"`
}

// ChunkingConfig holds per-source-type chunk limits.
type ChunkingConfig struct {
	Statute     ChunkLimits `yaml:"statute"`
	CaseLaw     ChunkLimits `yaml:"case_law"`
	StorePolicy ChunkLimits `yaml:"store_policy"`
}

type ChunkLimits struct {
	MaxSize int `yaml:"max_size"`
	Overlap int `yaml:"overlap"`
}

// RankerConfig holds fusion and weighting knobs.
type RankerConfig struct {
	TopK             int     `yaml:"top_k"`
	ScoreThreshold   float64 `yaml:"score_threshold"`
	RRFOffset        int     `yaml:"rrf_offset"`
	SemanticWeight   float64 `yaml:"semantic_weight"`
	KeywordWeight    float64 `yaml:"keyword_weight"`
	ThresholdOnFused bool    `yaml:"threshold_on_fused"`

	SourceWeights map[string]float64 `yaml:"source_weights"`
}

// CacheConfig holds the result cache TTL in seconds (0 = default).
type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// ExpansionConfig points at an optional synonym table override.
type ExpansionConfig struct {
	SynonymsFile string `yaml:"synonyms_file"`
}

// SourceConfig holds document loader patterns.
type SourceConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DataDir: ".legalrag",
		},
		Chunking: ChunkingConfig{
			Statute:     ChunkLimits{MaxSize: 800, Overlap: 150},
			CaseLaw:     ChunkLimits{MaxSize: 1200, Overlap: 300},
			StorePolicy: ChunkLimits{MaxSize: 800, Overlap: 150},
		},
		Ranker: RankerConfig{
			TopK:           5,
			ScoreThreshold: 0.7,
			RRFOffset:      60,
			SemanticWeight: 0.7,
			KeywordWeight:  0.3,
			SourceWeights: map[string]float64{
				"statute":      1.0,
				"case_law":     0.9,
				"store_policy": 0.8,
			},
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Source: SourceConfig{
			Includes: []string{"**/*.yaml", "**/*.yml"},
			Excludes: []string{"**/.git/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
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

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// legalrag.yaml, then .legalrag/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "legalrag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".legalrag", "config.yaml")
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

// StoreDir returns the directory holding the collection databases.
func (c *Config) StoreDir() string {
	return filepath.Join(c.Store.DataDir, "collections")
}

// KeywordDBPath returns the path of the full-text index database.
func (c *Config) KeywordDBPath() string {
	return filepath.Join(c.Store.DataDir, "keyword.db")
}

// EnsureDataDir creates the data directory tree.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.StoreDir(), 0755)
}
