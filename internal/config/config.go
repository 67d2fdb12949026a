package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the implres.yaml project configuration.
type Config struct {
	// ReportDB is the SQLite database the pass results are written to.
	// Empty disables the report.
	ReportDB string `yaml:"report_db,omitempty"`

	// GraphOut is where the dependency graph is written in DOT format by the graph command.
	// Empty means stdout.
	GraphOut string `yaml:"graph_out,omitempty"`

	// Color is one of auto, always, never. Defaults to auto.
	Color string `yaml:"color,omitempty"`

	// Verbose enables pass logging on stderr.
	Verbose bool `yaml:"verbose,omitempty"`

	// Print renders the transformed declarations after resolution.
	Print bool `yaml:"print,omitempty"`
}

// Default returns the configuration used when no implres.yaml exists.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses an implres.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// LoadProjectConfig looks for implres.yaml in dir. A missing file yields the defaults.
func LoadProjectConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ParseConfig parses implres.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// Validate checks a configuration assembled from flags.
func (c *Config) Validate() error {
	return c.validate("configuration")
}

func (c *Config) validate(path string) error {
	switch c.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: unsupported color %q (expected auto|always|never)", path, c.Color)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Color == "" {
		c.Color = ColorAuto
	}
}

// IsDeclarationFile reports whether path has a recognized declaration extension.
// The project config itself is never a declaration file.
func IsDeclarationFile(path string) bool {
	if filepath.Base(path) == ConfigFileName {
		return false
	}
	ext := filepath.Ext(path)
	for _, e := range SourceFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
