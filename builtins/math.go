package builtins

import (
	"avm/eval"
	"avm/types"
	"math"
)

// ============================================================================
// MATH BUILTINS
// ============================================================================

// builtinAbs returns absolute value
// abs(x) -> integer|real
func builtinAbs(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}

	switch v := x.(type) {
	case *types.Integer:
		if v.Val < 0 {
			return st.Arena.Integer(-v.Val), nil
		}
		return v, nil
	case *types.Real:
		return st.Arena.Real(math.Abs(v.Val)), nil
	default:
		return nil, types.NewException(types.ValueError, "abs expects a number, got %s", types.TypeName(x))
	}
}

// builtinMin returns the smallest element of a list or tuple of numbers
// min(xs) -> integer|real
func builtinMin(_ types.Node, st *eval.State) (types.Node, error) {
	return extremum(st, "min", func(a, b float64) bool { return a < b })
}

// builtinMax returns the largest element of a list or tuple of numbers
// max(xs) -> integer|real
func builtinMax(_ types.Node, st *eval.State) (types.Node, error) {
	return extremum(st, "max", func(a, b float64) bool { return a > b })
}

func extremum(st *eval.State, name string, better func(a, b float64) bool) (types.Node, error) {
	xs, err := formal(st, "xs")
	if err != nil {
		return nil, err
	}
	elems, ok := elements(xs)
	if !ok || len(elems) == 0 {
		return nil, types.NewException(types.ValueError, "%s expects a non-empty list, got %s", name, types.Display(xs))
	}

	best := elems[0]
	bestF, _, _, ok := types.Numeric(best)
	if !ok {
		return nil, types.NewException(types.ValueError, "%s expects numbers, got %s", name, types.TypeName(best))
	}
	for _, e := range elems[1:] {
		f, _, _, ok := types.Numeric(e)
		if !ok {
			return nil, types.NewException(types.ValueError, "%s expects numbers, got %s", name, types.TypeName(e))
		}
		if better(f, bestF) {
			best, bestF = e, f
		}
	}
	return best, nil
}

// builtinSqrt returns the square root of a non-negative number
// sqrt(x) -> real
func builtinSqrt(_ types.Node, st *eval.State) (types.Node, error) {
	f, err := realFormal(st, "sqrt")
	if err != nil {
		return nil, err
	}
	if f < 0 {
		return nil, types.NewException(types.ArithmeticError, "square root of negative number %s", types.Display(st.Arena.Real(f)))
	}
	return st.Arena.Real(math.Sqrt(f)), nil
}

// builtinFloor rounds toward negative infinity
// floor(x) -> integer
func builtinFloor(_ types.Node, st *eval.State) (types.Node, error) {
	f, err := realFormal(st, "floor")
	if err != nil {
		return nil, err
	}
	return st.Arena.Integer(int64(math.Floor(f))), nil
}

// builtinCeil rounds toward positive infinity
// ceil(x) -> integer
func builtinCeil(_ types.Node, st *eval.State) (types.Node, error) {
	f, err := realFormal(st, "ceil")
	if err != nil {
		return nil, err
	}
	return st.Arena.Integer(int64(math.Ceil(f))), nil
}

// realFormal reads the numeric formal x as a float64
func realFormal(st *eval.State, name string) (float64, error) {
	x, err := formal(st, "x")
	if err != nil {
		return 0, err
	}
	f, _, _, ok := types.Numeric(x)
	if !ok {
		return 0, types.NewException(types.ValueError, "%s expects a number, got %s", name, types.TypeName(x))
	}
	return f, nil
}
