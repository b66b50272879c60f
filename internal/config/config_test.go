package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SuramyaVimal/dag-cd/internal/tac"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Empty(t, cfg.Operators, "any symbolic operator is accepted by default")
}

func TestParse(t *testing.T) {
	src := `
log_level = "debug"
output    = "json"
operators = ["+", "<<"]

cache {
  backend     = "gcs"
  bucket      = env.DAGCD_BUCKET
  max_entries = 16
}

server {
  listen = "127.0.0.1:${env.DAGCD_PORT}"
}
`
	cfg, err := Parse("dagcd.hcl", []byte(src), []string{"DAGCD_BUCKET=tac-cache", "DAGCD_PORT=9000", "IGNORED"})

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat, "unset attributes keep defaults")
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, []string{"+", "<<"}, cfg.Operators)
	assert.Equal(t, Cache{Backend: CacheGCS, Bucket: "tac-cache", MaxEntries: 16, Prefix: "dagcd/"}, cfg.Cache)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{name: "syntax error", src: `log_level = `, wantErr: "failed to parse HCL file"},
		{name: "unknown attribute", src: `workers = 4`, wantErr: "failed to decode HCL file"},
		{name: "missing env variable", src: `cache { bucket = env.NOPE }`, wantErr: "failed to decode HCL file"},
		{name: "bad log level", src: `log_level = "loud"`, wantErr: "invalid log_level"},
		{name: "bad output", src: `output = "svg"`, wantErr: "invalid output"},
		{name: "gcs without bucket", src: `cache { backend = "gcs" }`, wantErr: "requires a bucket"},
		{name: "identifier operator", src: `operators = ["and"]`, wantErr: "invalid operator"},
		{name: "equals operator", src: `operators = ["="]`, wantErr: "invalid operator"},
		{name: "negative max entries", src: `cache { max_entries = -1 }`, wantErr: "must not be negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("dagcd.hcl", []byte(tc.src), nil)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(`output = "dot"`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dot", cfg.Output)

	_, err = Load(filepath.Join(dir, "missing.hcl"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestParserOptions(t *testing.T) {
	cfg := Default()
	cfg.Operators = []string{"^"}

	p := tac.NewParser(cfg.ParserOptions()...)

	assert.Equal(t, []tac.Operator{"^"}, p.Operators())
	assert.Nil(t, (&Config{}).ParserOptions())
}

func TestSplitOperators(t *testing.T) {
	assert.Equal(t, []string{"+", "-", "<<"}, SplitOperators(" +, -,,<< "))
	assert.Nil(t, SplitOperators(""))
}
