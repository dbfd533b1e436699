package eval

import (
	"avm/types"
)

// DeclareUnifiers commits the bindings produced by Unify: identifiers are
// entered into the symbol table, index expressions are written through.
func (st *State) DeclareUnifiers(bindings []Binding) error {
	for _, b := range bindings {
		switch p := b.Pattern.(type) {
		case *types.ID:
			switch p.Name {
			case "_":
				continue
			case "this":
				return raise(types.ValueError, "this cannot be bound by a pattern")
			}
			st.Symtab.EnterSym(p.Name, b.Term)
		case *types.Index:
			if err := st.writeIndex(p, b.Term); err != nil {
				return err
			}
		default:
			return raise(types.VMError, "cannot declare a binding for %s", p.Kind())
		}
	}
	return nil
}
