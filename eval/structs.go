package eval

import (
	"avm/types"
)

// BuildStruct creates a struct template from its member declarations.
// Data{id} declares a data slot holding none; Unify{term, id} declares a
// slot initialised to the value of term, which makes it a method when term
// is a function.
func (st *State) BuildStruct(name string, members []types.Node) (*types.Struct, error) {
	var names []string
	var memory []types.Node
	seen := make(map[string]bool, len(members))

	for _, m := range members {
		var member string
		var value types.Node
		switch d := m.(type) {
		case *types.LineInfo:
			st.Line = *d
			continue
		case *types.Data:
			id, ok := d.Value.(*types.ID)
			if !ok {
				return nil, raise(types.VMError, "data member of %s must be an identifier", name)
			}
			member, value = id.Name, st.Arena.None()
		case *types.Unify:
			id, ok := d.Pattern.(*types.ID)
			if !ok {
				return nil, raise(types.VMError, "initialised member of %s must be an identifier", name)
			}
			v, err := st.Walk(d.Term)
			if err != nil {
				return nil, err
			}
			member, value = id.Name, v
		default:
			return nil, raise(types.VMError, "invalid member %s in struct %s", m.Kind(), name)
		}

		if seen[member] {
			return nil, raise(types.ValueError, "struct %s declares member %s more than once", name, member)
		}
		seen[member] = true
		names = append(names, member)
		memory = append(memory, value)
	}
	return st.Arena.Struct(name, names, memory), nil
}

// Construct instantiates s. An __init__ method receives the argument with
// the new object bound to this; otherwise the argument's elements fill the
// data slots in member order.
func (st *State) Construct(s *types.Struct, arg types.Node) (types.Node, error) {
	obj := st.Arena.Object(s)

	if init, ok := obj.Get("__init__"); ok {
		if fn, ok := init.(*types.FunctionVal); ok {
			if _, err := st.Call(obj, fn, arg); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}

	slots := s.DataSlots()
	values, ok := tupleElems(arg)
	if !ok {
		values = []types.Node{arg}
		if _, none := arg.(*types.None); none && len(slots) == 0 {
			values = nil
		}
	}
	if len(values) != len(slots) {
		return nil, raise(types.ValueError,
			"%s takes %d arguments but %d were given", s.Name, len(slots), len(values))
	}
	for i, slot := range slots {
		obj.Memory.Elems[slot] = values[i]
	}
	return obj, nil
}
