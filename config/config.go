package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the clinic assistant.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`    // "hash", "ollama", "openai"
	Model       string `yaml:"model"`       // e.g., "all-minilm"
	APIKeyEnv   string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL     string `yaml:"base_url"`
	Dimension   int    `yaml:"dimension"`
	BatchSize   int    `yaml:"batch_size"`
	Concurrency int    `yaml:"concurrency"`
	Stemming    bool   `yaml:"stemming"` // hash provider only
}

// CorpusConfig holds corpus build and load configuration.
type CorpusConfig struct {
	Path        string   `yaml:"path"` // corpus file; empty means <dir>/.clinicbot/corpus.db
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	ChunkTokens int      `yaml:"chunk_tokens"`
	Metric      string   `yaml:"metric"` // "cosine", "l2", "ip"
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK           int           `yaml:"top_k"`
	MinScore       float64       `yaml:"min_score"` // Filter results below this score (0 = disabled)
	MaxQueryLength int           `yaml:"max_query_length"`
	CacheSize      int           `yaml:"cache_size"` // 0 disables the query cache
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Includes:    []string{"**/*.md", "**/*.txt", "**/*.json"},
			Excludes:    []string{"**/.git/**", "**/.clinicbot/**", "**/node_modules/**"},
			ChunkTokens: 256,
			Metric:      "cosine",
		},
		Retrieve: RetrieveConfig{
			TopK:           3,
			MaxQueryLength: 2000,
			CacheSize:      128,
			CacheTTL:       10 * time.Minute,
		},
		Embedding: EmbeddingConfig{
			Provider:    "hash",
			Model:       "hash-v1",
			APIKeyEnv:   "OPENAI_API_KEY",
			Dimension:   384,
			BatchSize:   32,
			Concurrency: 4,
			Stemming:    true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for clinicbot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "clinicbot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".clinicbot", "config.yaml")
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

// CorpusPath resolves the corpus file for dir, honoring corpus.path.
func (c *Config) CorpusPath(dir string) string {
	if c.Corpus.Path == "" {
		return CorpusDBPath(dir)
	}
	if filepath.IsAbs(c.Corpus.Path) {
		return c.Corpus.Path
	}
	return filepath.Join(dir, c.Corpus.Path)
}

// CorpusDBPath returns the default path to the corpus database.
func CorpusDBPath(dir string) string {
	return filepath.Join(dir, ".clinicbot", "corpus.db")
}

// EnsureDataDir ensures the .clinicbot directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".clinicbot"), 0755)
}
