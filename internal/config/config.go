// Package config loads codescope settings with the priority
// defaults → .codescope.yaml → CODESCOPE_* environment variables.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// DefaultInclude lists the extension glob patterns indexed when no
// override is configured.
var DefaultInclude = []string{"*.py", "*.js", "*.html", "*.css", "*.json"}

// DefaultSkipDirs lists directory names never descended into.
var DefaultSkipDirs = []string{
	"__pycache__",
	"node_modules",
	".git",
	".hg",
	".svn",
	"venv",
	".venv",
	"env",
	".env",
	"build",
	"dist",
	".tox",
	".mypy_cache",
	".ruff_cache",
	".pytest_cache",
}

const defaultMaxFileSize = 1_000_000 // 1 MB

// Config holds all tunable settings.
type Config struct {
	Include     []string `yaml:"include" mapstructure:"include"`             // filename glob patterns to index
	SkipDirs    []string `yaml:"skip_dirs" mapstructure:"skip_dirs"`         // directory names to skip
	MaxFileSize int64    `yaml:"max_file_size" mapstructure:"max_file_size"` // skip files larger than this many bytes
	Workers     int      `yaml:"workers" mapstructure:"workers"`             // per-file worker goroutines
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Include:     DefaultInclude,
		SkipDirs:    DefaultSkipDirs,
		MaxFileSize: defaultMaxFileSize,
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// Load reads configuration for a project rooted at rootDir.
// A missing config file is not an error; defaults and environment
// variables still apply.
func Load(rootDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".codescope")
	v.SetConfigType("yaml")
	v.AddConfigPath(rootDir)

	v.SetEnvPrefix("CODESCOPE")
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("include", def.Include)
	v.SetDefault("skip_dirs", def.SkipDirs)
	v.SetDefault("max_file_size", def.MaxFileSize)
	v.SetDefault("workers", def.Workers)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if len(c.Include) == 0 {
		return fmt.Errorf("include: at least one glob pattern is required")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size: must be positive, got %d", c.MaxFileSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers: must be positive, got %d", c.Workers)
	}
	return nil
}
