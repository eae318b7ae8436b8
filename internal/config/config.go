// Package config holds the application settings and their file format
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/dir-walker/internal/logger"
)

// Output formats
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatTree     = "tree"
)

// DefaultConfigFile is looked up in the working directory when --config is not given
const DefaultConfigFile = ".dir-walker.yaml"

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir string `yaml:"-"`

	// Logging settings
	Verbose     bool   `yaml:"verbose"`
	Quiet       bool   `yaml:"quiet"`
	LogLevel    string `yaml:"log_level"`
	NoColor     bool   `yaml:"no_color"`
	UseColors   bool   `yaml:"-"`
	OutputFile  string `yaml:"output"`
	ShowSkipped bool   `yaml:"show_skipped"`

	// Walk settings
	IgnoreFiles      []string      `yaml:"ignore_files"`
	FollowSymlinks   bool          `yaml:"follow_symlinks"`
	MaxDepth         int           `yaml:"max_depth"`
	MaxEntries       int           `yaml:"max_entries"`
	IncludeEmptyDirs bool          `yaml:"include_empty_dirs"`
	ShowProgress     bool          `yaml:"progress"`
	Timeout          time.Duration `yaml:"-"`

	// Filtering settings
	IgnoreHidden  bool     `yaml:"hidden"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	CustomIgnore  string   `yaml:"ignore"`
	Filters       []string `yaml:"filters"`

	// Output format
	Format string `yaml:"format"`
}

// Default returns the settings used when neither a file nor a flag says otherwise
func Default() *Config {
	return &Config{
		RootDir:     ".",
		IgnoreFiles: []string{".gitignore"},
		Format:      FormatText,
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	// timeout is kept as a string in the file so "30s" style values parse
	var file struct {
		Timeout string `yaml:"timeout"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if file.Timeout != "" {
		timeout, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return nil, fmt.Errorf("config: invalid timeout format %q: %w", file.Timeout, err)
		}
		cfg.Timeout = timeout
	}

	return cfg, nil
}

// Validate rejects settings the walk cannot run with
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("config: max_depth must be >= 0, got %d", c.MaxDepth)
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("config: max_entries must be >= 0, got %d", c.MaxEntries)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must be >= 0, got %v", c.Timeout)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatMarkdown, FormatTree:
	default:
		return fmt.Errorf("config: invalid format %q, must be one of: text, json, markdown, tree", c.Format)
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// CustomPatterns splits the comma-separated custom ignore patterns
func (c *Config) CustomPatterns() []string {
	if strings.TrimSpace(c.CustomIgnore) == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(c.CustomIgnore, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// DetectColors decides whether log and text output are colored
func (c *Config) DetectColors() {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	c.UseColors = !c.NoColor && tty && c.OutputFile == ""
}
