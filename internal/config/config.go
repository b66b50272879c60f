// Package config holds the settings of a dagcd run and loads them from an
// optional HCL file.
//
// A settings file looks like this:
//
//	log_level  = "debug"
//	output     = "json"
//	operators  = ["+", "-", "*", "/", "%", "<<"]
//
//	cache {
//	  backend     = "gcs"
//	  bucket      = env.DAGCD_BUCKET
//	  max_entries = 512
//	}
//
//	server {
//	  listen = ":9090"
//	}
//
// Every attribute is optional; missing ones keep the value from Default.
// The process environment is available as the `env` object.
package config

import (
	"fmt"
	"strings"

	"github.com/SuramyaVimal/dag-cd/internal/export"
	"github.com/SuramyaVimal/dag-cd/internal/tac"
)

// Config is the complete set of settings.
type Config struct {
	LogLevel  string
	LogFormat string
	// Output is the report format: text, json or dot.
	Output string
	// Operators restricts the accepted operators. Empty accepts any
	// symbolic token.
	Operators []string
	Cache     Cache
	Server    Server
}

// Cache selects and sizes the analysis cache.
type Cache struct {
	// Backend is memory, gcs or none.
	Backend    string
	MaxEntries int
	Bucket     string
	Prefix     string
}

// Server configures `dagcd -serve`.
type Server struct {
	Listen string
}

const (
	CacheMemory = "memory"
	CacheGCS    = "gcs"
	CacheNone   = "none"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
	outputs    = export.Formats
	backends   = []string{CacheMemory, CacheGCS, CacheNone}
)

// Default returns the settings used when nothing else is configured.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Output:    export.FormatText,
		Cache: Cache{
			Backend:    CacheMemory,
			MaxEntries: 256,
			Prefix:     "dagcd/",
		},
		Server: Server{
			Listen: ":8080",
		},
	}
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if err := oneOf("log_level", c.LogLevel, logLevels); err != nil {
		return err
	}
	if err := oneOf("log_format", c.LogFormat, logFormats); err != nil {
		return err
	}
	if err := oneOf("output", c.Output, outputs); err != nil {
		return err
	}
	if err := oneOf("cache backend", c.Cache.Backend, backends); err != nil {
		return err
	}
	if c.Cache.Backend == CacheGCS && c.Cache.Bucket == "" {
		return fmt.Errorf("cache backend %q requires a bucket", CacheGCS)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must not be negative, got %d", c.Cache.MaxEntries)
	}
	for _, op := range c.Operators {
		if !tac.IsOperatorToken(op) {
			return fmt.Errorf("invalid operator %q", op)
		}
	}
	return nil
}

// ParserOptions returns the tac options matching the configured operators.
func (c *Config) ParserOptions() []tac.Option {
	if len(c.Operators) == 0 {
		return nil
	}
	ops := make([]tac.Operator, len(c.Operators))
	for i, op := range c.Operators {
		ops[i] = tac.Operator(op)
	}
	return []tac.Option{tac.WithOperators(ops...)}
}

// SplitOperators parses a comma separated operator list such as "+,-,*".
func SplitOperators(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func oneOf(name, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q: must be one of %s", name, value, strings.Join(allowed, ", "))
}
