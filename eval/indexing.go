package eval

import (
	"avm/types"
	"strings"

	"github.com/rivo/uniseg"
)

// ============================================================================
// INDEX READ
// ============================================================================

// evalIndex evaluates structure@index
func (st *State) evalIndex(n *types.Index) (types.Node, error) {
	structure, err := st.Walk(n.Structure)
	if err != nil {
		return nil, err
	}
	return st.readIndex(structure, n.Index)
}

// readIndex reads from an evaluated structure. Object member names are
// taken literally; every other index is evaluated first.
func (st *State) readIndex(structure, index types.Node) (types.Node, error) {
	if obj, ok := structure.(*types.Object); ok {
		return st.readMember(obj, index)
	}

	idx, err := st.Walk(index)
	if err != nil {
		return nil, err
	}

	switch s := structure.(type) {
	case *types.List:
		one, many, err := selectElems(s.Elems, idx)
		if err != nil || one != nil {
			return one, err
		}
		return st.Arena.List(many), nil
	case *types.Tuple:
		one, many, err := selectElems(s.Elems, idx)
		if err != nil || one != nil {
			return one, err
		}
		return st.Arena.Tuple(many), nil
	case *types.String:
		return st.indexString(s, idx)
	default:
		return nil, raise(types.ValueError, "value of type %s cannot be indexed", types.TypeName(structure))
	}
}

// selectElems picks from elems: one element for an integer index, several
// for a list of integer indices
func selectElems(elems []types.Node, idx types.Node) (types.Node, []types.Node, error) {
	switch i := idx.(type) {
	case *types.Integer:
		pos, err := position(i.Val, len(elems))
		if err != nil {
			return nil, nil, err
		}
		return elems[pos], nil, nil
	case *types.List:
		selected := make([]types.Node, 0, len(i.Elems))
		for _, e := range i.Elems {
			n, ok := e.(*types.Integer)
			if !ok {
				return nil, nil, raise(types.ValueError, "list index must be an integer, got %s", types.TypeName(e))
			}
			pos, err := position(n.Val, len(elems))
			if err != nil {
				return nil, nil, err
			}
			selected = append(selected, elems[pos])
		}
		return nil, selected, nil
	default:
		return nil, nil, raise(types.ValueError, "index must be an integer, got %s", types.TypeName(idx))
	}
}

// position converts an index into a 0-based position. Negative indices
// count from the end.
func position(i int64, length int) (int, error) {
	pos := i
	if pos < 0 {
		pos += int64(length)
	}
	if pos < 0 || pos >= int64(length) {
		return 0, raise(types.ValueError, "index %d is out of bounds for length %d", i, length)
	}
	return int(pos), nil
}

// indexString selects grapheme clusters from a string
func (st *State) indexString(s *types.String, idx types.Node) (types.Node, error) {
	clusters := graphemes(s.Val)
	switch i := idx.(type) {
	case *types.Integer:
		pos, err := position(i.Val, len(clusters))
		if err != nil {
			return nil, err
		}
		return st.Arena.String(clusters[pos]), nil
	case *types.List:
		var b strings.Builder
		for _, e := range i.Elems {
			n, ok := e.(*types.Integer)
			if !ok {
				return nil, raise(types.ValueError, "string index must be an integer, got %s", types.TypeName(e))
			}
			pos, err := position(n.Val, len(clusters))
			if err != nil {
				return nil, err
			}
			b.WriteString(clusters[pos])
		}
		return st.Arena.String(b.String()), nil
	default:
		return nil, raise(types.ValueError, "string index must be an integer, got %s", types.TypeName(idx))
	}
}

func graphemes(s string) []string {
	var clusters []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return clusters
}

// readMember returns an object's member. Methods come back bound to the
// object.
func (st *State) readMember(obj *types.Object, index types.Node) (types.Node, error) {
	name, err := st.memberName(index)
	if err != nil {
		return nil, err
	}
	v, ok := obj.Get(name)
	if !ok {
		return nil, raise(types.ValueError, "struct %s has no member %s", obj.StructName(), name)
	}
	if fn, ok := v.(*types.FunctionVal); ok {
		return st.Arena.MemberFunctionVal(obj, fn), nil
	}
	return v, nil
}

// memberName resolves an object index: a bare identifier names the member
// directly, any other expression must evaluate to a string
func (st *State) memberName(index types.Node) (string, error) {
	if id, ok := index.(*types.ID); ok {
		return id.Name, nil
	}
	v, err := st.Walk(index)
	if err != nil {
		return "", err
	}
	s, ok := v.(*types.String)
	if !ok {
		return "", raise(types.ValueError, "object member must be an identifier, got %s", types.TypeName(v))
	}
	return s.Val, nil
}

// ============================================================================
// INDEX WRITE
// ============================================================================

// writeIndex stores value at target. Nested chains such as a@i@j work
// because walking the inner structure yields the interior container itself.
func (st *State) writeIndex(target *types.Index, value types.Node) error {
	structure, err := st.Walk(target.Structure)
	if err != nil {
		return err
	}

	switch s := structure.(type) {
	case *types.Object:
		name, err := st.memberName(target.Index)
		if err != nil {
			return err
		}
		if !s.Set(name, value) {
			return raise(types.ValueError, "struct %s has no member %s", s.StructName(), name)
		}
		return nil
	case *types.List:
		return st.writeElem(s.Elems, target.Index, value)
	case *types.Tuple:
		return st.writeElem(s.Elems, target.Index, value)
	case *types.String:
		return raise(types.ValueError, "strings are immutable")
	default:
		return raise(types.ValueError, "value of type %s cannot be indexed", types.TypeName(structure))
	}
}

func (st *State) writeElem(elems []types.Node, index, value types.Node) error {
	idx, err := st.Walk(index)
	if err != nil {
		return err
	}
	i, ok := idx.(*types.Integer)
	if !ok {
		return raise(types.ValueError, "index must be an integer, got %s", types.TypeName(idx))
	}
	pos, err := position(i.Val, len(elems))
	if err != nil {
		return err
	}
	elems[pos] = value
	return nil
}
