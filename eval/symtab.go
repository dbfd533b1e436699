package eval

import (
	"avm/contract"
	"avm/types"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// SymbolTable is a stack of namespaces, index 0 being the global scope,
// plus a parallel stack of the names declared global at each level
type SymbolTable struct {
	scopes  []*types.Namespace
	globals []*types.GlobalSet
}

// NewSymbolTable creates a table holding only the global scope
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		scopes:  []*types.Namespace{types.NewNamespace()},
		globals: []*types.GlobalSet{types.NewGlobalSet()},
	}
}

// Depth returns the number of scope levels
func (s *SymbolTable) Depth() int {
	return len(s.scopes)
}

// Level returns the index of the innermost scope
func (s *SymbolTable) Level() int {
	return len(s.scopes) - 1
}

// PushScope opens a new innermost scope
func (s *SymbolTable) PushScope() {
	s.scopes = append(s.scopes, types.NewNamespace())
	s.globals = append(s.globals, types.NewGlobalSet())
}

// PopScope closes the innermost scope. Popping the global scope is fatal.
func (s *SymbolTable) PopScope() {
	contract.Assertf(len(s.scopes) > 1, "cannot pop the global scope")
	s.scopes = s.scopes[:len(s.scopes)-1]
	s.globals = s.globals[:len(s.globals)-1]
}

// DeclareGlobal marks name as global at the current level: later EnterSym
// calls for it at this level write to the global scope
func (s *SymbolTable) DeclareGlobal(name string) {
	s.globals[s.Level()].Add(name)
}

// IsGlobal reports whether name is declared global at the current level
func (s *SymbolTable) IsGlobal(name string) bool {
	return s.globals[s.Level()].Contains(name)
}

// EnterSym binds name in the innermost scope, or in the global scope if
// name was declared global at the current level
func (s *SymbolTable) EnterSym(name string, value types.Node) {
	if s.IsGlobal(name) {
		s.scopes[0].Set(name, value)
		return
	}
	s.scopes[s.Level()].Set(name, value)
}

// FindSym returns the innermost level binding name, or -1
func (s *SymbolTable) FindSym(name string) int {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].Has(name) {
			return i
		}
	}
	return -1
}

// LookupSym resolves name. With strict set an unbound name is fatal.
func (s *SymbolTable) LookupSym(name string, strict bool) (types.Node, bool) {
	level := s.FindSym(name)
	if level < 0 {
		contract.Assertf(!strict, "%q is not defined", name)
		return nil, false
	}
	v, _ := s.scopes[level].Get(name)
	return v, true
}

// GetClosure snapshots the scope-stack configuration. The snapshot's slices
// are private; the namespaces are shared with the live table.
func (s *SymbolTable) GetClosure() *types.Closure {
	scopes := make([]*types.Namespace, len(s.scopes))
	copy(scopes, s.scopes)
	globals := make([]*types.GlobalSet, len(s.globals))
	copy(globals, s.globals)
	return &types.Closure{
		Scopes:  scopes,
		Globals: globals,
		Level:   len(scopes) - 1,
	}
}

// SetConfig installs a closure as the active configuration. The table
// copies the slices so that later pushes never write into the closure.
func (s *SymbolTable) SetConfig(c *types.Closure) {
	contract.Assertf(c != nil && len(c.Scopes) > 0, "closure has no global scope")
	n := c.Level + 1
	if n > len(c.Scopes) || n < 1 {
		n = len(c.Scopes)
	}
	s.scopes = make([]*types.Namespace, n)
	copy(s.scopes, c.Scopes[:n])
	s.globals = make([]*types.GlobalSet, n)
	for i := 0; i < n; i++ {
		if i < len(c.Globals) && c.Globals[i] != nil {
			s.globals[i] = c.Globals[i]
		} else {
			s.globals[i] = types.NewGlobalSet()
		}
	}
}

// Names returns every visible name, innermost bindings shadowing outer ones
func (s *SymbolTable) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for i := len(s.scopes) - 1; i >= 0; i-- {
		for _, n := range s.scopes[i].Names() {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Suggest returns the visible name closest to name, if any is close enough
// to be a plausible typo
func (s *SymbolTable) Suggest(name string) string {
	const maxDistance = 2
	match := ""
	closest := maxDistance + 1
	for _, candidate := range s.Names() {
		if strings.HasPrefix(candidate, "__") {
			continue
		}
		d := levenshtein.DistanceForStrings(
			[]rune(strings.ToLower(name)),
			[]rune(strings.ToLower(candidate)),
			levenshtein.DefaultOptionsWithSub,
		)
		if d < closest {
			closest = d
			match = candidate
		}
	}
	return match
}
