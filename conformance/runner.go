package conformance

import (
	"avm/builtins"
	"avm/eval"
	"avm/loader"
	"avm/types"
	"avm/version"
	"bytes"
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// TestResult represents the outcome of running a single test
type TestResult struct {
	Test       LoadedTest
	Passed     bool
	Skipped    bool
	SkipReason string
	Error      error
}

// Runner executes conformance tests. Every test runs on a fresh State.
type Runner struct {
	version semver.Version
}

// NewRunner creates a runner for the current machine version
func NewRunner() *Runner {
	return &Runner{version: semver.MustParse(version.Version)}
}

// NewRunnerWithVersion creates a runner that reports the given version to
// `requires.avm` checks
func NewRunnerWithVersion(v semver.Version) *Runner {
	return &Runner{version: v}
}

// Run executes a single test case
func (r *Runner) Run(test LoadedTest) TestResult {
	if skipped, reason := test.Test.IsSkipped(); skipped {
		return TestResult{Test: test, Skipped: true, SkipReason: reason}
	}
	if req := test.Suite.Requires.AVM; req != "" {
		rng, err := semver.ParseRange(req)
		if err != nil {
			return TestResult{Test: test, Error: errors.Wrapf(err, "invalid requires.avm %q", req)}
		}
		if !rng(r.version) {
			return TestResult{
				Test:       test,
				Skipped:    true,
				SkipReason: fmt.Sprintf("requires avm %s (have %s)", req, r.version),
			}
		}
	}

	prog, err := buildProgram(test)
	if err != nil {
		return TestResult{Test: test, Error: errors.Wrap(err, "load error")}
	}

	st := eval.NewState()
	var out bytes.Buffer
	st.Stdout = &out
	applyOptions(st, test.Test.Options)
	if test.Suite.Requires.HasFeature("builtins") {
		builtins.Install(st)
	}

	val, runErr := prog.Run(st)
	if err := checkExpectation(test.Test.Expect, val, runErr, out.String()); err != nil {
		return TestResult{Test: test, Error: err}
	}
	return TestResult{Test: test, Passed: true}
}

// RunAll executes all loaded tests
func (r *Runner) RunAll(tests []LoadedTest) []TestResult {
	results := make([]TestResult, len(tests))
	for i, test := range tests {
		results[i] = r.Run(test)
	}
	return results
}

// buildProgram combines the suite's functions and setup with the test's own
func buildProgram(test LoadedTest) (*loader.Program, error) {
	module := strings.TrimSuffix(test.File, ".yaml")

	functions, err := loader.DecodeFunctions(module, &test.Suite.Functions)
	if err != nil {
		return nil, errors.Wrap(err, "suite functions")
	}
	own, err := loader.DecodeFunctions(module, &test.Test.Functions)
	if err != nil {
		return nil, errors.Wrap(err, "test functions")
	}
	functions = append(functions, own...)

	setup, err := loader.DecodeStatements(module, &test.Suite.Setup)
	if err != nil {
		return nil, errors.Wrap(err, "suite setup")
	}
	body, err := loader.DecodeStatements(module, &test.Test.Program)
	if err != nil {
		return nil, errors.Wrap(err, "program")
	}
	return loader.NewProgram(module, functions, append(setup, body...)), nil
}

func applyOptions(st *eval.State, opts Options) {
	if opts.MaxDepth > 0 {
		st.MaxDepth = opts.MaxDepth
	}
	if opts.CheckRedundancy != nil {
		st.CheckRedundancy = *opts.CheckRedundancy
	}
	st.AllowNonLinear = opts.AllowNonLinear
}

// checkExpectation checks if the result matches the expected outcome
func checkExpectation(expect Expectation, val types.Node, runErr error, output string) error {
	if expect.Error != "" {
		if runErr == nil {
			return errors.Errorf("expected error %s, got value: %s", expect.Error, types.Display(val))
		}
		exc, ok := types.AsException(runErr)
		if !ok {
			return errors.Errorf("expected error %s, got host error: %v", expect.Error, runErr)
		}
		kind, msg, ok := exc.Parts()
		if !ok {
			return errors.Errorf("expected error %s, got raised value %s", expect.Error, types.Display(exc.Value))
		}
		if kind != expect.Error {
			return errors.Errorf("expected error %s, got %s: %s", expect.Error, kind, msg)
		}
		if expect.Message != "" && !strings.Contains(msg, expect.Message) {
			return errors.Errorf("error message mismatch: %s", renderDiff(expect.Message, msg))
		}
		return checkOutput(expect, output)
	}

	if runErr != nil {
		return errors.Errorf("unexpected error: %v", runErr)
	}

	if expect.Value.Kind != 0 {
		expected, err := loader.DecodeNode(&expect.Value)
		if err != nil {
			return errors.Wrap(err, "failed to decode expected value")
		}
		if val == nil || !types.Equal(expected, val) {
			return errors.Errorf("value mismatch: %s", renderDiff(types.Display(expected), types.Display(val)))
		}
	}

	if expect.Type != "" {
		if got := types.TypeName(val); got != expect.Type {
			return errors.Errorf("expected type %s, got %s", expect.Type, got)
		}
	}

	return checkOutput(expect, output)
}

func checkOutput(expect Expectation, output string) error {
	if expect.Output != nil && *expect.Output != output {
		return errors.Errorf("output mismatch: %s", renderDiff(*expect.Output, output))
	}
	return nil
}

// renderDiff shows how got differs from expected: [-removed-]{+added+}
func renderDiff(expected, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, got, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// SummaryStats computes statistics from test results
type SummaryStats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// ComputeStats generates statistics from test results
func ComputeStats(results []TestResult) SummaryStats {
	stats := SummaryStats{Total: len(results)}
	for _, r := range results {
		if r.Skipped {
			stats.Skipped++
		} else if r.Passed {
			stats.Passed++
		} else {
			stats.Failed++
		}
	}
	return stats
}

// FormatStats returns a human-readable summary
func FormatStats(stats SummaryStats) string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped (%d total)",
		stats.Passed, stats.Failed, stats.Skipped, stats.Total)
}
