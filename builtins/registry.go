package builtins

import (
	"avm/eval"
	"avm/types"
	"sort"
)

// Builtin is a native function exposed to programs. Formals is the pattern
// its argument is unified with; Impl reads the bound formals back from the
// symbol table.
type Builtin struct {
	Name    string
	Formals types.Node
	Impl    eval.NativeFunc
}

// Registry holds all builtin functions by name
type Registry struct {
	funcs map[string]Builtin
}

// NewRegistry creates a registry with every builtin registered
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Builtin)}

	// Output and control
	r.Register("print", param("x"), builtinPrint)
	r.Register("println", param("x"), builtinPrintln)
	r.Register("raise", param("x"), builtinRaise)

	// Type conversion
	r.Register("typeof", param("x"), builtinTypeof)
	r.Register("tostring", param("x"), builtinTostring)
	r.Register("tointeger", param("x"), builtinTointeger)
	r.Register("toreal", param("x"), builtinToreal)
	r.Register("len", param("x"), builtinLen)

	// Math
	r.Register("abs", param("x"), builtinAbs)
	r.Register("sqrt", param("x"), builtinSqrt)
	r.Register("floor", param("x"), builtinFloor)
	r.Register("ceil", param("x"), builtinCeil)
	r.Register("min", param("xs"), builtinMin)
	r.Register("max", param("xs"), builtinMax)

	// Strings
	r.Register("upcase", param("s"), builtinUpcase)
	r.Register("downcase", param("s"), builtinDowncase)
	r.Register("trim", param("s"), builtinTrim)
	r.Register("index", params("s", "sub"), builtinIndex)
	r.Register("explode", params("s", "sep"), builtinExplode)
	r.Register("implode", params("xs", "sep"), builtinImplode)

	// Lists
	r.Register("reverse", param("xs"), builtinReverse)
	r.Register("sort", param("xs"), builtinSort)
	r.Register("unique", param("xs"), builtinUnique)
	r.Register("member", params("x", "xs"), builtinMember)

	// Hashing
	r.Register("hash", params("data", "algo"), builtinHash)

	return r
}

// Register adds a builtin
func (r *Registry) Register(name string, formals types.Node, impl eval.NativeFunc) {
	r.funcs[name] = Builtin{Name: name, Formals: formals, Impl: impl}
}

// Get retrieves a builtin by name
func (r *Registry) Get(name string) (Builtin, bool) {
	b, ok := r.funcs[name]
	return b, ok
}

// Names returns all builtin names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EscapeName is the dispatch-table name of a builtin's native half
func EscapeName(name string) string {
	return "__" + name + "__"
}

// Install makes every builtin callable from programs run on st. Each
// builtin becomes a one-clause function whose body escapes to the native
// implementation, bound globally under its name. Call Install while st is
// at global level.
func (r *Registry) Install(st *eval.State) {
	closure := st.Symtab.GetClosure()
	for _, name := range r.Names() {
		b := r.funcs[name]
		escape := EscapeName(name)
		st.Register(escape, b.Impl)
		st.Register(name, eval.ClauseBody(name, []eval.Clause{{
			Pattern: b.Formals,
			Body:    []eval.Statement{{Expr: &types.Escape{Name: escape}}},
		}}))
		st.Symtab.EnterSym(name, st.Arena.FunctionVal(name, closure))
	}
}

// Install registers the default builtins on st
func Install(st *eval.State) {
	NewRegistry().Install(st)
}

func param(name string) types.Node {
	return &types.ID{Name: name}
}

func params(names ...string) types.Node {
	elems := make([]types.Node, len(names))
	for i, n := range names {
		elems[i] = &types.ID{Name: n}
	}
	return &types.Tuple{Elems: elems}
}

// formal reads a bound formal parameter
func formal(st *eval.State, name string) (types.Node, error) {
	v, ok := st.Lookup(name)
	if !ok {
		return nil, types.NewException(types.VMError, "formal parameter %s is not bound", name)
	}
	return v, nil
}
