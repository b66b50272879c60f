package app

import (
	"errors"
	"time"

	"github.com/SuramyaVimal/dag-cd/internal/config"
)

// StdinPath selects standard input as the source.
const StdinPath = "-"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// InputPath is a source file, a directory of .tac files, or StdinPath.
	InputPath string
	// Serve starts the server instead of analyzing InputPath.
	Serve bool
	// RemoteURL, when set, sends sources to a dagcd server instead of
	// analyzing them locally.
	RemoteURL     string
	RemoteTimeout time.Duration
	// Color enables ANSI colors in diagnostics.
	Color bool

	Settings *config.Config
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	if cfg.Serve && cfg.RemoteURL != "" {
		return nil, errors.New("serve and remote modes are mutually exclusive")
	}
	if !cfg.Serve && cfg.InputPath == "" {
		return nil, errors.New("InputPath is a required configuration field and cannot be empty")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
