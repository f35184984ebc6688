// Package config provides configuration loading for the vanban server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml strings like
// "30s" or "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Upload    UploadConfig    `yaml:"upload"`
	Output    OutputConfig    `yaml:"output"`
	OCR       OCRConfig       `yaml:"ocr"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// UploadConfig holds upload intake settings.
type UploadConfig struct {
	Dir         string `yaml:"dir"`
	MaxFileSize int64  `yaml:"max_file_size"`
}

// OutputConfig holds export output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// OCRConfig holds recognition pipeline settings.
type OCRConfig struct {
	Endpoint         string   `yaml:"endpoint"`
	DPI              int      `yaml:"dpi"`
	BatchSize        int      `yaml:"batch_size"`
	Workers          int      `yaml:"workers"`
	MaxPages         int      `yaml:"max_pages"`
	PdftoppmPath     string   `yaml:"pdftoppm_path"`
	RecognitionSlots int      `yaml:"recognition_slots"`
	Timeout          Duration `yaml:"timeout"`
}

// StoreConfig holds paths for the database, search index and cache
// behavior.
type StoreConfig struct {
	DatabasePath    string   `yaml:"database_path"`
	SearchIndexPath string   `yaml:"search_index_path"`
	CacheTTL        Duration `yaml:"cache_ttl"`
	CacheSweep      Duration `yaml:"cache_sweep"`
}

// EmbeddingConfig holds ONNX embedder settings. An empty ModelPath
// disables the embedder.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
}

// WatchConfig holds inbox directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
}

// Load reads and parses the config file at path, expands paths, and
// applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Upload.Dir = expandPath(cfg.Upload.Dir, configDir)
	cfg.Output.Dir = expandPath(cfg.Output.Dir, configDir)
	cfg.Store.DatabasePath = expandPath(cfg.Store.DatabasePath, configDir)
	cfg.Store.SearchIndexPath = expandPath(cfg.Store.SearchIndexPath, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
