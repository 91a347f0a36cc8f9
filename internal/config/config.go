package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmbedderConfig configures the provider embedding path. The
// term-frequency fallback needs no configuration beyond the dimension.
type EmbedderConfig struct {
	APIKeyEnv         string  `yaml:"api_key_env"`
	Model             string  `yaml:"model"`
	Dimension         int     `yaml:"dimension"`
	TimeoutSecs       int     `yaml:"timeout_secs"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TruncateAt        int     `yaml:"truncate_at"`
	Disabled          bool    `yaml:"disabled"`
}

// ChunkerConfig configures how paper content is split into windows.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// ChatConfig configures answer synthesis.
type ChatConfig struct {
	Model           string `yaml:"model"`
	MaxTokens       int    `yaml:"max_tokens"`
	MaxContextChars int    `yaml:"max_context_chars"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// SummarizerConfig configures the extractive summarizer used for
// catalog abstracts.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	StoreDir    string           `yaml:"store_dir"`
	LibraryPath string           `yaml:"library_path"`
	Server      ServerConfig     `yaml:"server"`
	Chunker     ChunkerConfig    `yaml:"chunker"`
	Embedder    EmbedderConfig   `yaml:"embedder"`
	Chat        ChatConfig       `yaml:"chat"`
	Summarizer  SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then
// ~/.config/research-agent/config.yaml. If neither exists, it writes
// defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "research-agent", "config.yaml"), nil
}

func defaultDataDir(sub string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", sub)
	}
	return filepath.Join(home, ".local", "share", "research-agent", sub)
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.StoreDir == "" {
		cfg.StoreDir = defaultDataDir("index")
	}
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = filepath.Join(defaultDataDir("catalog"), "library.db")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 200
	}
	if cfg.Embedder.APIKeyEnv == "" {
		cfg.Embedder.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.Dimension == 0 {
		cfg.Embedder.Dimension = 1536
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Embedder.TruncateAt == 0 {
		cfg.Embedder.TruncateAt = 8000
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "gpt-4"
	}
	if cfg.Chat.MaxTokens == 0 {
		cfg.Chat.MaxTokens = 600
	}
	if cfg.Chat.MaxContextChars == 0 {
		cfg.Chat.MaxContextChars = 3000
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
}
