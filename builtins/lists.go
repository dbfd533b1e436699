package builtins

import (
	"avm/eval"
	"avm/types"
	"sort"
	"strings"
)

// ============================================================================
// LIST BUILTINS
// ============================================================================

// elements returns the elements of a list or tuple
func elements(n types.Node) ([]types.Node, bool) {
	switch v := n.(type) {
	case *types.List:
		return v.Elems, true
	case *types.Tuple:
		return v.Elems, true
	default:
		return nil, false
	}
}

func listFormal(st *eval.State, fn string) ([]types.Node, error) {
	xs, err := formal(st, "xs")
	if err != nil {
		return nil, err
	}
	elems, ok := elements(xs)
	if !ok {
		return nil, types.NewException(types.ValueError, "%s expects a list, got %s", fn, types.TypeName(xs))
	}
	return elems, nil
}

// builtinReverse reverses a list
// reverse(xs) -> list
func builtinReverse(_ types.Node, st *eval.State) (types.Node, error) {
	elems, err := listFormal(st, "reverse")
	if err != nil {
		return nil, err
	}
	out := make([]types.Node, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return st.Arena.List(out), nil
}

// builtinSort sorts a list of numbers or a list of strings, stably
// sort(xs) -> list
func builtinSort(_ types.Node, st *eval.State) (types.Node, error) {
	elems, err := listFormal(st, "sort")
	if err != nil {
		return nil, err
	}
	out := make([]types.Node, len(elems))
	copy(out, elems)

	var cmpErr error
	sort.SliceStable(out, func(i, j int) bool {
		c, err := compareValues(out[i], out[j])
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}
	return st.Arena.List(out), nil
}

// builtinUnique removes duplicate elements, keeping first occurrences
// unique(xs) -> list
func builtinUnique(_ types.Node, st *eval.State) (types.Node, error) {
	elems, err := listFormal(st, "unique")
	if err != nil {
		return nil, err
	}
	var out []types.Node
	for _, e := range elems {
		if indexOf(out, e) < 0 {
			out = append(out, e)
		}
	}
	return st.Arena.List(out), nil
}

// builtinMember reports whether x is structurally equal to an element of xs
// member(x, xs) -> boolean
func builtinMember(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	elems, err := listFormal(st, "member")
	if err != nil {
		return nil, err
	}
	return st.Arena.Bool(indexOf(elems, x) >= 0), nil
}

func indexOf(elems []types.Node, x types.Node) int {
	for i, e := range elems {
		if types.Equal(e, x) {
			return i
		}
	}
	return -1
}

// ============================================================================
// HELPER FUNCTIONS
// ============================================================================

// compareValues orders two numbers or two strings
// Returns: -1 if a < b, 0 if a == b, 1 if a > b
func compareValues(a, b types.Node) (int, error) {
	if as, ok := a.(*types.String); ok {
		bs, ok := b.(*types.String)
		if !ok {
			return 0, types.NewException(types.ValueError, "cannot compare string with %s", types.TypeName(b))
		}
		return strings.Compare(as.Val, bs.Val), nil
	}

	af, ai, aInt, aOK := types.Numeric(a)
	bf, bi, bInt, bOK := types.Numeric(b)
	if !aOK || !bOK {
		return 0, types.NewException(types.ValueError, "cannot compare %s with %s", types.TypeName(a), types.TypeName(b))
	}
	if aInt && bInt {
		switch {
		case ai < bi:
			return -1, nil
		case ai > bi:
			return 1, nil
		}
		return 0, nil
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	}
	return 0, nil
}
