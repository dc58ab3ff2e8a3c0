// Package config loads rawline settings from an HCL file.
//
//	max_depth  = 256
//	strict     = env.RAWLINE_STRICT == "1"
//	log_level  = "debug"
//	log_format = "json"
//	workers    = 8
//
//	schema {
//	  entities = ["IFCMYCUSTOMENTITY"]
//	}
//
// Expressions may read environment variables through env.NAME.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/opal-lang/rawline/runtime/decoder"
)

// DefaultPath is read when no --config flag is given. A missing default
// file is not an error.
const DefaultPath = "rawline.hcl"

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config is the resolved configuration.
type Config struct {
	MaxDepth  int
	Strict    bool
	LogLevel  string
	LogFormat string
	Workers   int
	Entities  []string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		MaxDepth:  decoder.DefaultMaxDepth,
		LogLevel:  "warn",
		LogFormat: "text",
		Workers:   4,
	}
}

type fileConfig struct {
	MaxDepth  *int         `hcl:"max_depth,optional"`
	Strict    *bool        `hcl:"strict,optional"`
	LogLevel  *string      `hcl:"log_level,optional"`
	LogFormat *string      `hcl:"log_format,optional"`
	Workers   *int         `hcl:"workers,optional"`
	Schema    *schemaBlock `hcl:"schema,block"`
}

type schemaBlock struct {
	Entities []string `hcl:"entities,optional"`
}

// LoadFile reads path on top of Default. If path is DefaultPath and does
// not exist, Default is returned unchanged.
func LoadFile(path string, env map[string]string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if path == DefaultPath && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path, env)
}

// Parse decodes HCL source on top of Default.
func Parse(src []byte, filename string, env map[string]string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}

	var fc fileConfig
	if diags := gohcl.DecodeBody(file.Body, evalContext(env), &fc); diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode config %s: %w", filename, diags)
	}

	cfg := Default()
	if fc.MaxDepth != nil {
		cfg.MaxDepth = *fc.MaxDepth
	}
	if fc.Strict != nil {
		cfg.Strict = *fc.Strict
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(*fc.LogLevel)
	}
	if fc.LogFormat != nil {
		cfg.LogFormat = strings.ToLower(*fc.LogFormat)
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	if fc.Schema != nil {
		cfg.Entities = fc.Schema.Entities
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.MaxDepth < 2 {
		return fmt.Errorf("max_depth must be at least 2, got %d", c.MaxDepth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("log_level must be one of %s, got %q", strings.Join(logLevels, ", "), c.LogLevel)
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("log_format must be one of %s, got %q", strings.Join(logFormats, ", "), c.LogFormat)
	}
	return nil
}

// DecoderOptions translates the decode settings.
func (c Config) DecoderOptions() []decoder.Option {
	opts := []decoder.Option{decoder.WithMaxDepth(c.MaxDepth)}
	if c.Strict {
		opts = append(opts, decoder.WithStrict())
	}
	return opts
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		vars[k] = cty.StringVal(v)
	}
	envVal := cty.EmptyObjectVal
	if len(vars) > 0 {
		envVal = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": envVal},
	}
}
