package conformance

import "gopkg.in/yaml.v3"

// TestSuite represents a complete YAML test file
type TestSuite struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Requires    Requirements `yaml:"requires,omitempty"`
	Functions   yaml.Node    `yaml:"functions,omitempty"` // shared by every test
	Setup       yaml.Node    `yaml:"setup,omitempty"`     // statements run before each test
	Tests       []TestCase   `yaml:"tests"`
}

// Requirements specifies what the machine must provide for this suite
type Requirements struct {
	AVM      string   `yaml:"avm,omitempty"`      // semver range, e.g. ">=0.4.0"
	Features []string `yaml:"features,omitempty"` // builtins
}

// Options tune the machine for a single test
type Options struct {
	MaxDepth        int   `yaml:"max_depth,omitempty"`
	CheckRedundancy *bool `yaml:"check_redundancy,omitempty"`
	AllowNonLinear  bool  `yaml:"allow_nonlinear,omitempty"`
}

// TestCase represents a single test within a suite
type TestCase struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Skip        interface{} `yaml:"skip,omitempty"` // bool or string
	Options     Options     `yaml:"options,omitempty"`
	Functions   yaml.Node   `yaml:"functions,omitempty"`
	Program     yaml.Node   `yaml:"program"`
	Expect      Expectation `yaml:"expect"`
}

// Expectation defines what result is expected from a test
type Expectation struct {
	Value   yaml.Node `yaml:"value,omitempty"`   // node compared with structural equality
	Error   string    `yaml:"error,omitempty"`   // ValueError, PatternMatchFailed, etc.
	Message string    `yaml:"message,omitempty"` // substring of the error message
	Type    string    `yaml:"type,omitempty"`    // integer, list, a struct name, ...
	Output  *string   `yaml:"output,omitempty"`  // exact program output
}

// IsEmpty reports whether no expectation is given
func (e *Expectation) IsEmpty() bool {
	return e.Value.Kind == 0 && e.Error == "" && e.Type == "" && e.Output == nil
}

// IsSkipped returns true if this test should be skipped
func (tc *TestCase) IsSkipped() (bool, string) {
	if tc.Skip == nil {
		return false, ""
	}

	switch v := tc.Skip.(type) {
	case bool:
		if v {
			return true, "skipped"
		}
		return false, ""
	case string:
		return true, v
	default:
		return false, ""
	}
}

// HasFeature reports whether the suite requires a named feature
func (r Requirements) HasFeature(name string) bool {
	for _, f := range r.Features {
		if f == name {
			return true
		}
	}
	return false
}
