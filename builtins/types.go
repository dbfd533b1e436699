package builtins

import (
	"avm/eval"
	"avm/types"

	"github.com/rivo/uniseg"
	"github.com/spf13/cast"
)

// builtinTypeof returns the type name of x, as matched by %type patterns
// typeof(x) -> string
func builtinTypeof(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	return st.Arena.String(types.TypeName(x)), nil
}

// builtinTostring returns the display form of x
// tostring(x) -> string
func builtinTostring(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	return st.Arena.String(types.Display(x)), nil
}

// builtinTointeger converts a number, boolean or numeric string to an
// integer. Reals truncate toward zero.
// tointeger(x) -> integer
func builtinTointeger(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	host, ok := hostScalar(x)
	if !ok {
		return nil, types.NewException(types.ValueError, "cannot convert %s to integer", types.TypeName(x))
	}
	if s, isStr := host.(string); isStr {
		// Accept "2.0" as well as "2"
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, types.NewException(types.ValueError, "cannot convert %q to integer", s)
		}
		return st.Arena.Integer(int64(f)), nil
	}
	i, err := cast.ToInt64E(host)
	if err != nil {
		return nil, types.NewException(types.ValueError, "cannot convert %s to integer", types.Display(x))
	}
	return st.Arena.Integer(i), nil
}

// builtinToreal converts a number, boolean or numeric string to a real
// toreal(x) -> real
func builtinToreal(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	host, ok := hostScalar(x)
	if !ok {
		return nil, types.NewException(types.ValueError, "cannot convert %s to real", types.TypeName(x))
	}
	f, err := cast.ToFloat64E(host)
	if err != nil {
		return nil, types.NewException(types.ValueError, "cannot convert %s to real", types.Display(x))
	}
	return st.Arena.Real(f), nil
}

// hostScalar unwraps a scalar node into its Go value
func hostScalar(n types.Node) (any, bool) {
	switch v := n.(type) {
	case *types.Integer:
		return v.Val, true
	case *types.Real:
		return v.Val, true
	case *types.Bool:
		return v.Val, true
	case *types.String:
		return v.Val, true
	default:
		return nil, false
	}
}

// builtinLen returns the number of elements of a list or tuple, the number
// of grapheme clusters in a string, or the number of data members of an
// object
// len(x) -> integer
func builtinLen(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	switch v := x.(type) {
	case *types.List:
		return st.Arena.Integer(int64(len(v.Elems))), nil
	case *types.Tuple:
		return st.Arena.Integer(int64(len(v.Elems))), nil
	case *types.Pair:
		return st.Arena.Integer(2), nil
	case *types.String:
		return st.Arena.Integer(int64(uniseg.GraphemeClusterCount(v.Val))), nil
	case *types.Object:
		if v.Struct == nil {
			return st.Arena.Integer(0), nil
		}
		return st.Arena.Integer(int64(len(v.Struct.DataSlots()))), nil
	default:
		return nil, types.NewException(types.ValueError, "value of type %s has no length", types.TypeName(x))
	}
}
