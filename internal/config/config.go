package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable ng-tooltip settings.
type Config struct {
	MarkerAttr  string `json:"marker_attr"`  // tooltip marker attribute on page elements
	DatasetPath string `json:"dataset_path"` // default YAML dataset file
	DataDir     string `json:"data_dir"`     // override snapshot storage directory
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		MarkerAttr: "data-tooltip-id",
	}
}

// LoadGlobal reads ~/.config/ng-tooltip/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "ng-tooltip", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .ngtooltiprc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".ngtooltiprc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.MarkerAttr != "" {
			result.MarkerAttr = global.MarkerAttr
		}
		if global.DatasetPath != "" {
			result.DatasetPath = global.DatasetPath
		}
		if global.DataDir != "" {
			result.DataDir = global.DataDir
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.MarkerAttr != "" {
			result.MarkerAttr = project.MarkerAttr
		}
		if project.DatasetPath != "" {
			result.DatasetPath = project.DatasetPath
		}
		if project.DataDir != "" {
			result.DataDir = project.DataDir
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
