// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/blendexport/internal/xform"
)

// ErrInvalid is returned by Validate for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig holds settings for a single export run.
type ExportConfig struct {
	Profile    string        `yaml:"profile"`     // coordinate profile name
	Output     string        `yaml:"output"`      // script path
	PackImages bool          `yaml:"pack_images"` // pack images into the .blend as PNG
	Workers    int           `yaml:"workers"`     // goroutines for mesh content keys
	Emitter    EmitterConfig `yaml:"emitter"`
}

// EmitterConfig holds particle emitter defaults for values a source leaves unset.
type EmitterConfig struct {
	Texture string `yaml:"texture"`
	Count   int    `yaml:"count"`
}

// AssetsConfig holds texture lookup settings.
type AssetsConfig struct {
	SearchPaths []string `yaml:"search_paths"` // extra directories for relative texture paths
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Profile:    xform.DefaultProfile,
			Output:     "export.py",
			PackImages: true,
			Workers:    4,
			Emitter: EmitterConfig{
				Texture: "sprites/Steam_A.png",
				Count:   100,
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

var levels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks settings that would otherwise fail deep inside an export.
func (c *Config) Validate() error {
	if _, err := xform.Lookup(c.Export.Profile); err != nil {
		return fmt.Errorf("%w: export.profile: %w", ErrInvalid, err)
	}
	if c.Export.Output == "" {
		return fmt.Errorf("%w: export.output is empty", ErrInvalid)
	}
	if c.Export.Workers < 1 {
		return fmt.Errorf("%w: export.workers must be at least 1, got %d", ErrInvalid, c.Export.Workers)
	}
	if c.Export.Emitter.Count < 1 {
		return fmt.Errorf("%w: export.emitter.count must be at least 1, got %d", ErrInvalid, c.Export.Emitter.Count)
	}
	if !levels[c.Logging.Level] {
		return fmt.Errorf("%w: logging.level %q", ErrInvalid, c.Logging.Level)
	}
	return nil
}
