package conformance

import (
	"testing"

	"github.com/blang/semver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	tests, err := LoadDir(TestPath)
	require.NoError(t, err)
	require.NotEmpty(t, tests, "no tests loaded")

	runner := NewRunner()
	results := runner.RunAll(tests)
	stats := ComputeStats(results)

	// Group results by file for organized output
	fileGroups := make(map[string][]TestResult)
	for _, result := range results {
		fileGroups[result.Test.File] = append(fileGroups[result.Test.File], result)
	}

	for file, fileResults := range fileGroups {
		t.Run(file, func(t *testing.T) {
			for _, result := range fileResults {
				t.Run(result.Test.Test.Name, func(t *testing.T) {
					if result.Skipped {
						t.Skipf("Skipped: %s", result.SkipReason)
					} else if !result.Passed {
						t.Errorf("Test failed: %v", result.Error)
					}
				})
			}
		})
	}

	t.Logf("\n=== Summary ===\n%s", FormatStats(stats))
}

func TestLoadDir(t *testing.T) {
	tests, err := LoadDir(TestPath)
	require.NoError(t, err)

	files := make(map[string]bool)
	for _, test := range tests {
		assert.NotEmpty(t, test.Test.Name)
		assert.NotNil(t, test.Suite)
		files[test.File] = true
	}
	assert.Contains(t, files, "unify.yaml")
	assert.Contains(t, files, "functions.yaml")
	assert.GreaterOrEqual(t, len(files), 6)
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir("no_such_dir")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conformance directory")
}

func TestParseSuiteValidation(t *testing.T) {
	_, err := parseSuite([]byte(`
tests:
  - name: no_program
    expect: {value: 1}
  - name: no_expectation
    program: [{expr: 1}]
  - program: [{expr: 1}]
    expect: {value: 1}
`))
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "suite has no name")
	assert.Contains(t, msg, "test no_program has no program")
	assert.Contains(t, msg, "test no_expectation has no expectation")
	assert.Contains(t, msg, "test 2 has no name")
}

func runSuite(t *testing.T, runner *Runner, suite string) []TestResult {
	t.Helper()
	tests, err := parseSuite([]byte(suite))
	require.NoError(t, err)
	for i := range tests {
		tests[i].File = "inline.yaml"
	}
	return runner.RunAll(tests)
}

func TestRunnerReportsMismatch(t *testing.T) {
	results := runSuite(t, NewRunner(), `
name: mismatches
tests:
  - name: wrong_value
    program: [{expr: [1, 2, 3]}]
    expect: {value: [1, 5, 3]}
  - name: wrong_error
    program: [{expr: {id: nope}}]
    expect: {error: PatternMatchFailed}
  - name: missing_error
    program: [{expr: 1}]
    expect: {error: ValueError}
  - name: wrong_type
    program: [{expr: 1.5}]
    expect: {type: integer}
`)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.False(t, r.Passed, r.Test.Test.Name)
		require.Error(t, r.Error, r.Test.Test.Name)
	}
	assert.Equal(t, "value mismatch: [1,[-5-]{+2+},3]", results[0].Error.Error())
	assert.Contains(t, results[1].Error.Error(), "expected error PatternMatchFailed, got ValueError")
	assert.Contains(t, results[2].Error.Error(), "expected error ValueError, got value: 1")
	assert.Equal(t, "expected type integer, got real", results[3].Error.Error())

	stats := ComputeStats(results)
	assert.Equal(t, SummaryStats{Total: 4, Failed: 4}, stats)
	assert.Equal(t, "0 passed, 4 failed, 0 skipped (4 total)", FormatStats(stats))
}

func TestRunnerOutputDiff(t *testing.T) {
	results := runSuite(t, NewRunner(), `
name: output
requires: {features: [builtins]}
tests:
  - name: output
    program: [{expr: {call: [print, hello]}}]
    expect: {output: help}
`)
	require.Len(t, results, 1)
	require.Error(t, results[0].Error)
	assert.Equal(t, "output mismatch: hel[-p-]{+lo+}", results[0].Error.Error())
}

func TestRunnerSkips(t *testing.T) {
	suite := `
name: future
requires: {avm: ">=2.0.0"}
tests:
  - name: needs_v2
    program: [{expr: 1}]
    expect: {value: 1}
  - name: skipped
    skip: not yet
    program: [{expr: 1}]
    expect: {value: 1}
`
	results := runSuite(t, NewRunnerWithVersion(semver.MustParse("1.0.0")), suite)
	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, "requires avm >=2.0.0 (have 1.0.0)", results[0].SkipReason)
	assert.True(t, results[1].Skipped)
	assert.Equal(t, "not yet", results[1].SkipReason)

	results = runSuite(t, NewRunnerWithVersion(semver.MustParse("2.1.0")), suite)
	assert.True(t, results[0].Passed, "%v", results[0].Error)
}

func TestRunnerFreshStatePerTest(t *testing.T) {
	results := runSuite(t, NewRunner(), `
name: isolation
tests:
  - name: binds
    program: [{expr: 1, let: {id: leaked}}]
    expect: {value: 1}
  - name: does_not_see_binding
    program: [{expr: {id: leaked}}]
    expect: {error: ValueError}
`)
	for _, r := range results {
		assert.True(t, r.Passed, "%s: %v", r.Test.Test.Name, r.Error)
	}
}
