package conformance

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TestPath is the bundled conformance suite directory, relative to this package
const TestPath = "testdata"

// LoadedTest represents a test with its source file path
type LoadedTest struct {
	File  string
	Suite *TestSuite
	Test  TestCase
}

// LoadDir walks dir and loads every test case of every .yaml suite. Suites
// that fail to load are skipped; their errors are returned together
// alongside the tests that did load.
func LoadDir(dir string) ([]LoadedTest, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, errors.Wrap(err, "conformance directory")
	}

	var loaded []LoadedTest
	var result *multierror.Error

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		relPath, _ := filepath.Rel(dir, path)
		tests, err := loadTestFile(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrap(err, relPath))
			return nil
		}
		for _, test := range tests {
			test.File = relPath
			loaded = append(loaded, test)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loaded, result.ErrorOrNil()
}

// loadTestFile parses a single YAML file and returns all test cases
func loadTestFile(path string) ([]LoadedTest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSuite(data)
}

func parseSuite(data []byte) ([]LoadedTest, error) {
	suite := &TestSuite{}
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, err
	}
	if err := validate(suite); err != nil {
		return nil, err
	}

	tests := make([]LoadedTest, 0, len(suite.Tests))
	for _, test := range suite.Tests {
		tests = append(tests, LoadedTest{Suite: suite, Test: test})
	}
	return tests, nil
}

// validate checks every test has a name, a program and an expectation
func validate(suite *TestSuite) error {
	var result *multierror.Error
	if suite.Name == "" {
		result = multierror.Append(result, errors.New("suite has no name"))
	}
	for i, tc := range suite.Tests {
		if tc.Name == "" {
			result = multierror.Append(result, errors.Errorf("test %d has no name", i))
			continue
		}
		if tc.Program.Kind == 0 {
			result = multierror.Append(result, errors.Errorf("test %s has no program", tc.Name))
		}
		if tc.Expect.IsEmpty() {
			result = multierror.Append(result, errors.Errorf("test %s has no expectation", tc.Name))
		}
	}
	return result.ErrorOrNil()
}
