package builtins

import (
	"avm/eval"
	"avm/types"
	"strings"

	"github.com/rivo/uniseg"
)

// ============================================================================
// STRING BUILTINS
// ============================================================================

// stringFormal reads a string formal
func stringFormal(st *eval.State, fn, name string) (string, error) {
	v, err := formal(st, name)
	if err != nil {
		return "", err
	}
	s, ok := v.(*types.String)
	if !ok {
		return "", types.NewException(types.ValueError, "%s expects a string, got %s", fn, types.TypeName(v))
	}
	return s.Val, nil
}

// builtinUpcase converts string to uppercase
// upcase(s) -> string
func builtinUpcase(_ types.Node, st *eval.State) (types.Node, error) {
	s, err := stringFormal(st, "upcase", "s")
	if err != nil {
		return nil, err
	}
	return st.Arena.String(strings.ToUpper(s)), nil
}

// builtinDowncase converts string to lowercase
// downcase(s) -> string
func builtinDowncase(_ types.Node, st *eval.State) (types.Node, error) {
	s, err := stringFormal(st, "downcase", "s")
	if err != nil {
		return nil, err
	}
	return st.Arena.String(strings.ToLower(s)), nil
}

// builtinTrim removes leading and trailing whitespace
// trim(s) -> string
func builtinTrim(_ types.Node, st *eval.State) (types.Node, error) {
	s, err := stringFormal(st, "trim", "s")
	if err != nil {
		return nil, err
	}
	return st.Arena.String(strings.TrimSpace(s)), nil
}

// builtinIndex finds the first occurrence of sub in s. Positions count
// grapheme clusters from 0, the way string indexing does; -1 if absent.
// index(s, sub) -> integer
func builtinIndex(_ types.Node, st *eval.State) (types.Node, error) {
	s, err := stringFormal(st, "index", "s")
	if err != nil {
		return nil, err
	}
	sub, err := stringFormal(st, "index", "sub")
	if err != nil {
		return nil, err
	}
	off := strings.Index(s, sub)
	if off < 0 {
		return st.Arena.Integer(-1), nil
	}
	return st.Arena.Integer(int64(uniseg.GraphemeClusterCount(s[:off]))), nil
}

// builtinExplode splits s on sep. An empty separator splits on runs of
// whitespace.
// explode(s, sep) -> list
func builtinExplode(_ types.Node, st *eval.State) (types.Node, error) {
	s, err := stringFormal(st, "explode", "s")
	if err != nil {
		return nil, err
	}
	sep, err := stringFormal(st, "explode", "sep")
	if err != nil {
		return nil, err
	}

	var parts []string
	if sep == "" {
		parts = strings.Fields(s)
	} else {
		parts = strings.Split(s, sep)
	}
	elems := make([]types.Node, len(parts))
	for i, p := range parts {
		elems[i] = st.Arena.String(p)
	}
	return st.Arena.List(elems), nil
}

// builtinImplode joins a list of strings with sep
// implode(xs, sep) -> string
func builtinImplode(_ types.Node, st *eval.State) (types.Node, error) {
	xs, err := formal(st, "xs")
	if err != nil {
		return nil, err
	}
	sep, err := stringFormal(st, "implode", "sep")
	if err != nil {
		return nil, err
	}
	elems, ok := elements(xs)
	if !ok {
		return nil, types.NewException(types.ValueError, "implode expects a list, got %s", types.TypeName(xs))
	}

	parts := make([]string, len(elems))
	for i, e := range elems {
		s, ok := e.(*types.String)
		if !ok {
			return nil, types.NewException(types.ValueError, "implode expects strings, got %s", types.TypeName(e))
		}
		parts[i] = s.Val
	}
	return st.Arena.String(strings.Join(parts, sep)), nil
}
