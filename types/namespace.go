package types

import "sort"

// Namespace is one level of the scope stack. Namespaces are shared by
// pointer between the live symbol table and every closure that captured
// them, so a write through one is visible through all.
type Namespace struct {
	vars map[string]Node
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{vars: make(map[string]Node)}
}

// Get looks up a name in this namespace only
func (ns *Namespace) Get(name string) (Node, bool) {
	v, ok := ns.vars[name]
	return v, ok
}

// Set binds a name in this namespace
func (ns *Namespace) Set(name string, v Node) {
	ns.vars[name] = v
}

// Has reports whether name is bound here
func (ns *Namespace) Has(name string) bool {
	_, ok := ns.vars[name]
	return ok
}

// Names returns the bound names in sorted order
func (ns *Namespace) Names() []string {
	names := make([]string, 0, len(ns.vars))
	for n := range ns.vars {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bindings
func (ns *Namespace) Len() int { return len(ns.vars) }

// GlobalSet records the names declared global at one scope level
type GlobalSet struct {
	names map[string]struct{}
}

// NewGlobalSet creates an empty set
func NewGlobalSet() *GlobalSet {
	return &GlobalSet{names: make(map[string]struct{})}
}

// Add declares name global
func (g *GlobalSet) Add(name string) { g.names[name] = struct{}{} }

// Contains reports whether name was declared global
func (g *GlobalSet) Contains(name string) bool {
	_, ok := g.names[name]
	return ok
}

// Closure is a snapshot of the scope-stack configuration. Scopes and
// Globals are shallow copies: the slices are private to the snapshot,
// the namespaces they point to are shared.
type Closure struct {
	Scopes  []*Namespace
	Globals []*GlobalSet
	Level   int // Index of the innermost scope
}
