// Package config loads the optional YAML configuration file for the tool.
// Every value has a default; command line flags override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for an instrumentation run.
type Config struct {
	Version string `yaml:"version"`

	// Markers lists the marker identifiers to instrument.
	Markers []string `yaml:"markers"`

	Output OutputConfig `yaml:"output"`
	Files  FilesConfig  `yaml:"files"`
}

type OutputConfig struct {
	// DiffFile is the path the unified diff is written to. Empty means a
	// default path inside the instrumented application.
	DiffFile string `yaml:"diff_file,omitempty"`

	// Colors controls colorized console findings.
	Colors bool `yaml:"colors"`
}

type FilesConfig struct {
	// Exclude patterns are matched against watched paths in watch mode.
	Exclude []string `yaml:"exclude"`

	// IncludeTests controls whether test files trigger re-instrumentation
	// in watch mode.
	IncludeTests bool `yaml:"include_tests"`
}

func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Markers: []string{"deprecated"},
		Output: OutputConfig{
			Colors: true,
		},
		Files: FilesConfig{
			Exclude:      []string{"vendor/**", ".git/**"},
			IncludeTests: false,
		},
	}
}

// LoadConfig loads configuration from file or returns the default. An empty
// path searches the conventional config file locations.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func findConfigFile() string {
	possiblePaths := []string{
		".deprecation-instrumentation.yml",
		".deprecation-instrumentation.yaml",
		"deprecation-instrumentation.yml",
		"deprecation-instrumentation.yaml",
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Markers) == 0 {
		return fmt.Errorf("at least one marker must be enabled")
	}
	for _, marker := range c.Markers {
		if marker == "" {
			return fmt.Errorf("marker identifiers must be non-empty")
		}
	}
	return nil
}
