package eval

import (
	"avm/types"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test literal evaluation
func TestWalkLiterals(t *testing.T) {
	tests := []struct {
		name string
		node types.Node
	}{
		{"integer", num(42)},
		{"real", flt(3.14)},
		{"string", str("hello")},
		{"boolean", boolean(true)},
		{"none", &types.None{}},
		{"nil", &types.Nil{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			v, err := st.Walk(tt.node)
			require.NoError(t, err)
			assert.Same(t, tt.node, v)
		})
	}
}

// Test arithmetic operations
func TestWalkArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		node     types.Node
		expected string
		kind     types.Kind
	}{
		{"integer addition", op("__plus__", num(1), num(1)), "2", types.KindInteger},
		{"real promotion", op("__plus__", num(1), flt(1.5)), "2.5", types.KindReal},
		{"string concatenation", op("__plus__", str("a"), num(1)), "a1", types.KindString},
		{"string on the right", op("__plus__", num(1), str("a")), "1a", types.KindString},
		{"list concatenation", op("__plus__", list(num(1), num(2)), list(num(3), num(4))), "[1,2,3,4]", types.KindList},
		{"subtraction", op("__minus__", num(10), num(3)), "7", types.KindInteger},
		{"multiplication", op("__times__", num(4), num(5)), "20", types.KindInteger},
		{"integer division truncates", op("__divide__", num(7), num(2)), "3", types.KindInteger},
		{"negative division truncates", op("__divide__", num(-7), num(2)), "-3", types.KindInteger},
		{"real division", op("__divide__", flt(7), num(2)), "3.5", types.KindReal},
		{"negation", apply(id("__uminus__"), num(5)), "-5", types.KindInteger},
		{"nested", op("__plus__", num(1), op("__times__", num(2), num(3))), "7", types.KindInteger},
		{"pair argument", apply(id("__plus__"), &types.Pair{First: num(2), Second: num(3)}), "5", types.KindInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			v, err := st.Walk(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.expected, types.Display(v))
		})
	}
}

func TestWalkRealAddition(t *testing.T) {
	st, _ := newTestState()
	v, err := st.Walk(op("__plus__", num(1), flt(1.1)))
	require.NoError(t, err)
	r, ok := v.(*types.Real)
	require.True(t, ok)
	assert.InDelta(t, 2.1, r.Val, 1e-12)
}

func TestWalkComparisonAndLogic(t *testing.T) {
	tests := []struct {
		name     string
		node     types.Node
		expected bool
	}{
		{"less", op("__lt__", num(1), num(2)), true},
		{"less or equal", op("__le__", num(2), flt(2.0)), true},
		{"greater", op("__gt__", num(1), num(2)), false},
		{"greater or equal", op("__ge__", flt(2.5), num(2)), true},
		{"string order", op("__lt__", str("abc"), str("abd")), true},
		{"numeric equality", op("__eq__", num(1), flt(1.0)), true},
		{"structural equality", op("__eq__", list(num(1), str("a")), list(num(1), str("a"))), true},
		{"string inequality", op("__ne__", str("a"), str("b")), true},
		{"mixed kinds are unequal", op("__eq__", str("1"), num(1)), false},
		{"or", op("__or__", boolean(false), num(1)), true},
		{"and", op("__and__", boolean(true), list()), false},
		{"not", apply(id("__not__"), str("")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			v, err := st.Walk(tt.node)
			require.NoError(t, err)
			b, ok := v.(*types.Bool)
			require.True(t, ok, "expected a boolean, got %s", v.Kind())
			assert.Equal(t, tt.expected, b.Val)
		})
	}
}

func TestWalkContainers(t *testing.T) {
	st, _ := newTestState()
	st.Symtab.EnterSym("x", num(3))

	ast := list(id("x"), tuple(id("x"), num(1)))
	v, err := st.Walk(ast)
	require.NoError(t, err)
	assert.Equal(t, "[3,(3,1)]", types.Display(v))
	assert.NotSame(t, ast, v)
	assert.Equal(t, "[x,(x,1)]", types.Display(ast), "walking must not overwrite the AST")

	v, err = st.Walk(&types.Pair{First: id("x"), Second: num(2)})
	require.NoError(t, err)
	assert.Equal(t, "(3,2)", types.Display(v))
}

func TestWalkRanges(t *testing.T) {
	tests := []struct {
		name     string
		node     types.Node
		expected string
	}{
		{"ascending", &types.ToList{Start: num(1), Stop: num(4)}, "[1,2,3,4]"},
		{"stride", &types.RawToList{Start: num(0), Stop: num(10), Stride: num(5)}, "[0,5,10]"},
		{"descending", &types.ToList{Start: num(3), Stop: num(1), Stride: num(-1)}, "[3,2,1]"},
		{"empty", &types.ToList{Start: num(3), Stop: num(1)}, "[]"},
		{"computed bounds", &types.RawToList{Start: op("__plus__", num(1), num(1)), Stop: num(3)}, "[2,3]"},
		{"ends at max int", &types.ToList{Start: num(math.MaxInt64 - 1), Stop: num(math.MaxInt64)},
			"[9223372036854775806,9223372036854775807]"},
		{"ends at min int", &types.ToList{Start: num(math.MinInt64 + 1), Stop: num(math.MinInt64), Stride: num(-1)},
			"[-9223372036854775807,-9223372036854775808]"},
		{"stride past max int", &types.ToList{Start: num(math.MaxInt64 - 3), Stop: num(math.MaxInt64), Stride: num(3)},
			"[9223372036854775804,9223372036854775807]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			v, err := st.Walk(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, types.Display(v))
		})
	}

	st, _ := newTestState()
	_, err := st.Walk(&types.ToList{Start: num(1), Stop: num(3), Stride: num(0)})
	requireKind(t, err, types.ValueError)

	_, err = st.Walk(&types.ToList{Start: str("a"), Stop: num(3)})
	requireKind(t, err, types.ValueError)
}

func TestWalkHeadTailBuildsList(t *testing.T) {
	st, _ := newTestState()
	v, err := st.Walk(&types.HeadTail{Head: num(1), Tail: list(num(2), num(3))})
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", types.Display(v))

	_, err = st.Walk(&types.HeadTail{Head: num(1), Tail: num(2)})
	requireKind(t, err, types.ValueError)
}

func TestWalkIf(t *testing.T) {
	st, _ := newTestState()

	v, err := st.Walk(&types.If{Cond: num(1), Then: str("yes"), Else: str("no")})
	require.NoError(t, err)
	assert.Equal(t, "yes", types.Display(v))

	v, err = st.Walk(&types.If{Cond: list(), Then: str("yes"), Else: str("no")})
	require.NoError(t, err)
	assert.Equal(t, "no", types.Display(v))

	// Only the chosen branch is evaluated
	v, err = st.Walk(&types.If{Cond: boolean(true), Then: num(1), Else: id("undefined")})
	require.NoError(t, err)
	assert.Equal(t, "1", types.Display(v))

	v, err = st.Walk(&types.If{Cond: boolean(false), Then: num(1)})
	require.NoError(t, err)
	assert.Equal(t, types.KindNone, v.Kind())
}

func TestWalkIs(t *testing.T) {
	st, _ := newTestState()

	v, err := st.Walk(&types.Is{Pattern: list(id("a"), id("b")), Term: list(num(1), num(2))})
	require.NoError(t, err)
	assert.True(t, v.(*types.Bool).Val)
	a, ok := st.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "1", types.Display(a))

	v, err = st.Walk(&types.Is{Pattern: list(id("c")), Term: list(num(1), num(2))})
	require.NoError(t, err, "a failed match is false, not an exception")
	assert.False(t, v.(*types.Bool).Val)
	_, ok = st.Lookup("c")
	assert.False(t, ok)

	_, err = st.Walk(&types.Is{Pattern: str("("), Term: str("x")})
	requireKind(t, err, types.ValueError)
}

func TestWalkIn(t *testing.T) {
	st, _ := newTestState()

	v, err := st.Walk(&types.In{Expr: list(num(1)), List: list(num(0), list(num(1)))})
	require.NoError(t, err)
	assert.True(t, v.(*types.Bool).Val)

	v, err = st.Walk(&types.In{Expr: num(5), List: list(num(0), flt(1.0))})
	require.NoError(t, err)
	assert.False(t, v.(*types.Bool).Val)

	_, err = st.Walk(&types.In{Expr: num(5), List: num(5)})
	requireKind(t, err, types.ValueError)
}

func TestWalkQuoteAndEval(t *testing.T) {
	st, _ := newTestState()
	st.Symtab.EnterSym("x", num(2))

	quoted := &types.Quote{Expr: op("__plus__", id("x"), num(1))}
	v, err := st.Walk(quoted)
	require.NoError(t, err)
	assert.Same(t, quoted, v, "quote is self-evaluating")

	st.Symtab.EnterSym("q", quoted)
	v, err = st.Walk(&types.Eval{Expr: id("q")})
	require.NoError(t, err)
	assert.Equal(t, "3", types.Display(v))
	assert.False(t, st.IgnoreQuote)

	v, err = st.Walk(&types.Eval{Expr: quoted})
	require.NoError(t, err)
	assert.Equal(t, "3", types.Display(v))
}

func TestWalkLineInfo(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Walk(&types.LineInfo{Module: "main", Line: 12})
	require.NoError(t, err)
	assert.Equal(t, types.LineInfo{Module: "main", Line: 12}, st.Line)
}

func TestWalkFunctionCapturesClosure(t *testing.T) {
	st, _ := newTestState()
	st.Symtab.PushScope()
	v, err := st.Walk(&types.Function{Body: "f"})
	require.NoError(t, err)
	fn, ok := v.(*types.FunctionVal)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Body)
	assert.Equal(t, 1, fn.Closure.Level)
	assert.Len(t, fn.Closure.Scopes, 2)
}

func TestWalkIndex(t *testing.T) {
	st, _ := newTestState()
	st.Symtab.EnterSym("xs", list(num(10), num(20), num(30)))
	st.Symtab.EnterSym("t", tuple(str("a"), str("b")))
	st.Symtab.EnterSym("s", str("héllo"))

	tests := []struct {
		name     string
		node     types.Node
		expected string
	}{
		{"list element", index(id("xs"), num(1)), "20"},
		{"negative index", index(id("xs"), num(-1)), "30"},
		{"computed index", index(id("xs"), op("__minus__", num(2), num(2))), "10"},
		{"several elements", index(id("xs"), list(num(0), num(2))), "[10,30]"},
		{"tuple element", index(id("t"), num(0)), "a"},
		{"string grapheme", index(id("s"), num(1)), "é"},
		{"string selection", index(id("s"), list(num(0), num(4))), "ho"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := st.Walk(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, types.Display(v))
		})
	}

	_, err := st.Walk(index(id("xs"), num(3)))
	requireKind(t, err, types.ValueError)

	_, err = st.Walk(index(id("xs"), str("a")))
	requireKind(t, err, types.ValueError)

	_, err = st.Walk(index(num(1), num(0)))
	requireKind(t, err, types.ValueError)
}

func TestIndexWriteNested(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Run([]Statement{
		let(id("grid"), list(list(num(1), num(2)), list(num(3), num(4)))),
		let(index(index(id("grid"), num(1)), num(0)), num(9)),
	})
	require.NoError(t, err)

	grid, _ := st.Lookup("grid")
	assert.Equal(t, "[[1,2],[9,4]]", types.Display(grid))

	_, err = st.Run([]Statement{
		let(id("s"), str("abc")),
		let(index(id("s"), num(0)), str("z")),
	})
	requireKind(t, err, types.ValueError)
}

func TestWalkPatternOnlyNodes(t *testing.T) {
	tests := []struct {
		name string
		node types.Node
		kind types.ErrorKind
	}{
		{"named pattern", &types.NamedPattern{Name: "x", Pattern: num(1)}, types.ValueError},
		{"type match", &types.TypeMatch{Type: "integer"}, types.ValueError},
		{"constraint", &types.Constraint{Expr: num(1)}, types.ValueError},
		{"data outside struct", &types.Data{Value: id("a")}, types.VMError},
		{"unify outside struct", &types.Unify{Term: num(1), Pattern: id("a")}, types.VMError},
		{"missing node", nil, types.VMError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			_, err := st.Walk(tt.node)
			requireKind(t, err, tt.kind)
		})
	}
}

func TestWalkDeref(t *testing.T) {
	st, _ := newTestState()
	st.Symtab.EnterSym("p", num(4))
	v, err := st.Walk(&types.Deref{Expr: id("p")})
	require.NoError(t, err)
	assert.Equal(t, "4", types.Display(v))
}

func TestWalkEscape(t *testing.T) {
	st, out := newTestState()
	st.Register("hello", func(arg types.Node, st *State) (types.Node, error) {
		assert.Equal(t, types.KindNone, arg.Kind())
		who, _ := st.Lookup("who")
		out.WriteString("hello " + types.Display(who))
		return st.Arena.None(), nil
	})
	st.Symtab.EnterSym("who", str("world"))

	_, err := st.Walk(&types.Escape{Name: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", out.String())

	_, err = st.Walk(&types.Escape{Name: "missing"})
	requireKind(t, err, types.VMError)
}
