package eval

import (
	"avm/types"
)

// Statement is one step of a program. The common form evaluates Expr and,
// when Pattern is set, unifies the value with it and declares the bindings
// (`let pattern = expr`). Struct and Globals select the two declaration forms.
type Statement struct {
	Expr    types.Node
	Pattern types.Node

	Struct  *StructDef
	Globals []string
}

// StructDef declares a struct and binds it under Name
type StructDef struct {
	Name    string
	Members []types.Node
}

// Exec runs one statement and returns its value
func (st *State) Exec(stmt Statement) (types.Node, error) {
	switch {
	case stmt.Struct != nil:
		s, err := st.BuildStruct(stmt.Struct.Name, stmt.Struct.Members)
		if err != nil {
			return nil, err
		}
		st.Symtab.EnterSym(s.Name, s)
		return s, nil
	case len(stmt.Globals) > 0:
		for _, name := range stmt.Globals {
			st.Symtab.DeclareGlobal(name)
		}
		return st.Arena.None(), nil
	case stmt.Expr == nil:
		return nil, raise(types.VMError, "statement has no expression")
	}

	v, err := st.Walk(stmt.Expr)
	if err != nil {
		return nil, err
	}
	if stmt.Pattern == nil {
		return v, nil
	}
	bindings, err := st.Unify(v, stmt.Pattern, true)
	if err != nil {
		return nil, err
	}
	if err := st.DeclareUnifiers(bindings); err != nil {
		return nil, err
	}
	return v, nil
}

// execBlock runs statements in order and returns the last value, or none
// for an empty block
func (st *State) execBlock(stmts []Statement) (types.Node, error) {
	var result types.Node = st.Arena.None()
	for _, stmt := range stmts {
		v, err := st.Exec(stmt)
		if err != nil {
			if exc, ok := types.AsException(err); ok {
				exc.Locate(st.Line)
			}
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Run executes a top-level program and returns the value of its last
// statement
func (st *State) Run(program []Statement) (types.Node, error) {
	return st.execBlock(program)
}
