package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = "dagcd.hcl"

// hclFile is the decoding target for a settings file.
type hclFile struct {
	LogLevel  *string    `hcl:"log_level,optional"`
	LogFormat *string    `hcl:"log_format,optional"`
	Output    *string    `hcl:"output,optional"`
	Operators []string   `hcl:"operators,optional"`
	Cache     *hclCache  `hcl:"cache,block"`
	Server    *hclServer `hcl:"server,block"`
}

type hclCache struct {
	Backend    *string `hcl:"backend,optional"`
	MaxEntries *int    `hcl:"max_entries,optional"`
	Bucket     *string `hcl:"bucket,optional"`
	Prefix     *string `hcl:"prefix,optional"`
}

type hclServer struct {
	Listen *string `hcl:"listen,optional"`
}

// Load reads the settings file at path on top of Default. Environment
// variables are exposed to expressions as `env.NAME`.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(path, src, os.Environ())
}

// Parse decodes settings from src. filename is only used in messages; environ
// has the form of os.Environ.
func Parse(filename string, src []byte, environ []string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, evalContext(environ), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	cfg := Default()
	parsed.applyTo(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

func evalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (f *hclFile) applyTo(cfg *Config) {
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogFormat, f.LogFormat)
	setString(&cfg.Output, f.Output)
	if f.Operators != nil {
		cfg.Operators = f.Operators
	}
	if f.Cache != nil {
		setString(&cfg.Cache.Backend, f.Cache.Backend)
		setString(&cfg.Cache.Bucket, f.Cache.Bucket)
		setString(&cfg.Cache.Prefix, f.Cache.Prefix)
		if f.Cache.MaxEntries != nil {
			cfg.Cache.MaxEntries = *f.Cache.MaxEntries
		}
	}
	if f.Server != nil {
		setString(&cfg.Server.Listen, f.Server.Listen)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
