// Package config holds the settings of the avm driver
package config

import (
	"avm/eval"
	"avm/trace"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the driver configuration. Zero-valued fields in a file fall
// back to the defaults.
type Config struct {
	// MaxDepth bounds nested function calls
	MaxDepth int `yaml:"max_depth,omitempty"`

	// CheckRedundancy rejects functions with clauses covered by earlier ones
	CheckRedundancy *bool `yaml:"check_redundancy,omitempty"`

	// AllowNonLinear lets a variable appear more than once in a pattern
	AllowNonLinear bool `yaml:"allow_nonlinear,omitempty"`

	// Trace enables the execution tracer; TraceFilter restricts it to
	// function bodies matching a comma-separated list of globs
	Trace       bool   `yaml:"trace,omitempty"`
	TraceFilter string `yaml:"trace_filter,omitempty"`

	// Conformance is the directory of conformance suites used by `avm test`
	Conformance string `yaml:"conformance,omitempty"`
}

// Default returns the built-in configuration
func Default() *Config {
	check := true
	return &Config{
		MaxDepth:        eval.DefaultMaxDepth,
		CheckRedundancy: &check,
		Conformance:     "conformance/testdata",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate reports settings the machine cannot run with
func (c *Config) Validate() error {
	if c.MaxDepth <= 0 {
		return errors.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	return nil
}

// Apply copies the machine settings onto st
func (c *Config) Apply(st *eval.State) {
	st.MaxDepth = c.MaxDepth
	if c.CheckRedundancy != nil {
		st.CheckRedundancy = *c.CheckRedundancy
	}
	st.AllowNonLinear = c.AllowNonLinear
}

// InitTrace configures the global tracer, writing to w
func (c *Config) InitTrace(w io.Writer) {
	if !c.Trace {
		trace.Init(false, nil, nil)
		return
	}
	trace.Init(true, trace.ParseFilters(c.TraceFilter), w)
}
