package eval

import (
	"avm/types"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExit(t *testing.T) {
	located := types.NewException(types.ArithmeticError, "integer division by zero")
	located.Locate(types.LineInfo{Module: "lib", Line: 7})

	tests := []struct {
		name     string
		err      error
		line     types.LineInfo
		code     int
		expected string
	}{
		{"no error", nil, types.LineInfo{}, 0, ""},
		{"exception", types.NewException(types.ValueError, "bad arity"), types.LineInfo{}, 1,
			"ERROR: ValueError: bad arity\n"},
		{"exception with current line", types.NewException(types.VMError, "broken"), types.LineInfo{Module: "main", Line: 3}, 1,
			"ERROR: VMError: broken (main:3)\n"},
		{"exception with its own line", located, types.LineInfo{Module: "main", Line: 3}, 1,
			"ERROR: ArithmeticError: integer division by zero (lib:7)\n"},
		{"raised value", types.Raise(&types.Integer{Val: 5}), types.LineInfo{}, 1,
			"ERROR: Unknown Error Type: 5\n"},
		{"host error", errors.New("disk on fire"), types.LineInfo{}, 1,
			"ERROR: disk on fire\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			st.Line = tt.line
			var out bytes.Buffer
			assert.Equal(t, tt.code, st.Exit(tt.err, &out))
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestExitAfterRun(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Run([]Statement{
		do(&types.LineInfo{Module: "prog", Line: 2}),
		let(list(id("a"), id("b")), list(num(1))),
	})

	var out bytes.Buffer
	assert.Equal(t, 1, st.Exit(err, &out))
	assert.Equal(t, "ERROR: PatternMatchFailed: term and pattern lists are not the same length: 1 and 2 (prog:2)\n", out.String())
}
