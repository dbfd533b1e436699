package eval

import (
	"avm/types"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// Node builders for hand-written ASTs

func num(v int64) types.Node    { return &types.Integer{Val: v} }
func flt(v float64) types.Node  { return &types.Real{Val: v} }
func str(v string) types.Node   { return &types.String{Val: v} }
func boolean(v bool) types.Node { return &types.Bool{Val: v} }
func id(name string) *types.ID  { return &types.ID{Name: name} }

func list(elems ...types.Node) *types.List   { return &types.List{Elems: elems} }
func tuple(elems ...types.Node) *types.Tuple { return &types.Tuple{Elems: elems} }

func apply(fn, arg types.Node) *types.Apply { return &types.Apply{Func: fn, Arg: arg} }

func op(name string, left, right types.Node) *types.Apply {
	return apply(id(name), tuple(left, right))
}

func index(structure, idx types.Node) *types.Index {
	return &types.Index{Structure: structure, Index: idx}
}

func let(pattern, expr types.Node) Statement { return Statement{Expr: expr, Pattern: pattern} }
func do(e types.Node) Statement              { return Statement{Expr: e} }

// newTestState returns a state whose program output is captured
func newTestState() (*State, *bytes.Buffer) {
	st := NewState()
	out := &bytes.Buffer{}
	st.Stdout = out
	return st, out
}

// run executes statements on a fresh state and returns the last value
func run(t *testing.T, stmts ...Statement) types.Node {
	t.Helper()
	st, _ := newTestState()
	v, err := st.Run(stmts)
	require.NoError(t, err)
	return v
}

// requireKind asserts that err is a language exception of kind
func requireKind(t *testing.T, err error, kind types.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	exc, ok := types.AsException(err)
	require.True(t, ok, "expected a language exception, got %v", err)
	got, ok := exc.Kind()
	require.True(t, ok, "exception has no kind: %v", err)
	require.Equal(t, kind, got, "unexpected exception: %v", err)
}

// bound returns the bindings as a name → display map
func bound(bindings []Binding) map[string]string {
	m := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if name, ok := b.Pattern.(*types.ID); ok {
			m[name.Name] = types.Display(b.Term)
		}
	}
	return m
}
