package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// FileName is the project configuration file.
const FileName = "standardizer.yaml"

// Config represents the top-level standardizer.yaml configuration.
type Config struct {
	Classifier ClassifierConfig `yaml:"classifier"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Cache      CacheConfig      `yaml:"cache"`
	Export     ExportConfig     `yaml:"export"`
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
}

// ClassifierConfig controls remote classification. An empty Endpoint
// selects the local keyword heuristic.
type ClassifierConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	Timeout     time.Duration `yaml:"timeout"`
	Attempts    int           `yaml:"attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	Concurrency int           `yaml:"concurrency"`
}

// IngestConfig controls header location and extraction.
type IngestConfig struct {
	HeaderScanRows  int  `yaml:"header_scan_rows"`
	SkipSummaryRows bool `yaml:"skip_summary_rows"`
}

// CatalogConfig locates the chart of categories.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig locates the persistent cache.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// ExportConfig controls workbook export. An empty SheetName names the
// sheet after the export file.
type ExportConfig struct {
	SheetName string `yaml:"sheet_name"`
}

// LoggingConfig sets the log level (debug, info, warn, error).
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig controls `standardizer serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a standardizer.yaml file from disk. Keys absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, falling back to defaults when the file is missing.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Classifier: ClassifierConfig{
			Timeout:     5 * time.Second,
			Attempts:    3,
			BaseDelay:   500 * time.Millisecond,
			Concurrency: 8,
		},
		Ingest: IngestConfig{
			HeaderScanRows:  10,
			SkipSummaryRows: true,
		},
		Catalog: CatalogConfig{
			Path: filepath.Join("catalog", "chart-of-categories.csv"),
		},
		Cache: CacheConfig{
			Path: filepath.Join(".standardizer-cache", "cache.db"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":5000",
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Classifier.Endpoint != "" && !strings.HasPrefix(c.Classifier.Endpoint, "http://") && !strings.HasPrefix(c.Classifier.Endpoint, "https://") {
		problems = append(problems, fmt.Sprintf("classifier.endpoint %q must be an http(s) URL", c.Classifier.Endpoint))
	}
	if c.Classifier.Timeout <= 0 {
		problems = append(problems, "classifier.timeout must be positive")
	}
	if c.Classifier.Attempts < 1 {
		problems = append(problems, "classifier.attempts must be at least 1")
	}
	if c.Classifier.BaseDelay < 0 {
		problems = append(problems, "classifier.base_delay must not be negative")
	}
	if c.Classifier.Concurrency < 1 {
		problems = append(problems, "classifier.concurrency must be at least 1")
	}
	if c.Ingest.HeaderScanRows < 1 {
		problems = append(problems, "ingest.header_scan_rows must be at least 1")
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		problems = append(problems, "catalog.path is required")
	}
	if strings.TrimSpace(c.Cache.Path) == "" {
		problems = append(problems, "cache.path is required")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		problems = append(problems, "server.addr is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// Resolve makes a configured path absolute relative to the project root.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
