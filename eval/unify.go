package eval

import (
	"avm/trace"
	"avm/types"
	"regexp"

	"github.com/golang/glog"
)

// Binding pairs a pattern-side location (an *types.ID or *types.Index) with
// the term bound to it
type Binding struct {
	Pattern types.Node
	Term    types.Node
}

// Unify matches term against pattern.
//
// With unifying set it produces the bindings needed to make them equal (used
// by assignment, argument matching and `is`). With unifying clear it is a
// subsumption check: term is a later clause's pattern, pattern an earlier
// one, and success means the earlier clause already covers the later one.
// Subsumption has no side effects other than the one-time guard warning.
//
// Failure is a PatternMatchFailed exception; other kinds signal errors in
// the program (ValueError, NonLinearPattern) or in the interpreter (VMError).
func (st *State) Unify(term, pattern types.Node, unifying bool) ([]Binding, error) {
	if term == nil || pattern == nil {
		return nil, raise(types.VMError, "unify called with a missing node")
	}
	if glog.V(5) {
		glog.Infof("unify term=%s pattern=%s unifying=%v", types.Display(term), types.Display(pattern), unifying)
	}

	// A bare identifier binds anything; _ binds nothing
	if id, ok := pattern.(*types.ID); ok {
		if id.Name == "_" {
			return nil, nil
		}
		return []Binding{{Pattern: id, Term: term}}, nil
	}

	// Subsumption looks through first-class patterns on the term side
	if !unifying {
		switch t := term.(type) {
		case *types.NamedPattern:
			return st.Unify(t.Pattern, pattern, unifying)
		case *types.Deref:
			inner, err := st.derefPattern(t)
			if err != nil {
				return nil, err
			}
			return st.Unify(inner, pattern, unifying)
		}
	}

	switch term.(type) {
	case *types.ToList, *types.RawToList, *types.Escape, *types.Is, *types.In:
		return nil, raise(types.PatternMatchFailed,
			"term of type %s is not allowed in pattern matching", term.Kind())
	}
	switch pattern.(type) {
	case *types.ToList, *types.RawToList, *types.Escape, *types.Is, *types.In, *types.Foreign, *types.Function:
		return nil, raise(types.PatternMatchFailed,
			"pattern of type %s is not allowed in pattern matching", pattern.Kind())
	}

	// Objects against objects: same struct, memory pairwise
	if to, ok := term.(*types.Object); ok {
		if po, ok := pattern.(*types.Object); ok {
			if to.StructName() != po.StructName() {
				return nil, raise(types.PatternMatchFailed,
					"pattern type %s and term type %s do not agree", po.StructName(), to.StructName())
			}
			if len(to.Memory.Elems) != len(po.Memory.Elems) {
				return nil, raise(types.PatternMatchFailed,
					"objects of type %s have different layouts", to.StructName())
			}
			return st.unifyLinear(to.Memory.Elems, po.Memory.Elems, unifying)
		}
	}

	// String patterns are anchored regular expressions
	if ps, ok := pattern.(*types.String); ok {
		return st.unifyString(term, ps, unifying)
	}

	switch p := pattern.(type) {
	case *types.NamedPattern:
		bindings, err := st.Unify(term, p.Pattern, unifying)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{Pattern: st.Arena.ID(p.Name), Term: term})
		if err := st.checkLinear(bindings, unifying); err != nil {
			return nil, err
		}
		return bindings, nil

	case *types.TypeMatch:
		return st.unifyTypeMatch(term, p, unifying)

	case *types.If:
		return st.unifyGuard(term, p, unifying)
	}

	// A guarded later clause is covered if its guarded pattern is
	if !unifying {
		if tif, ok := term.(*types.If); ok {
			return st.Unify(tif.Then, pattern, unifying)
		}
	}

	// Numbers and booleans compare under promotion
	if eq, ok := types.NumericEqual(term, pattern); ok {
		if eq {
			return nil, nil
		}
		return nil, raise(types.PatternMatchFailed,
			"%s is not the same as %s", types.Display(term), types.Display(pattern))
	}

	switch pattern.(type) {
	case *types.None:
		if _, ok := term.(*types.None); ok {
			return nil, nil
		}
	case *types.Nil:
		if _, ok := term.(*types.Nil); ok {
			return nil, nil
		}
	}

	// Quote is transparent on the pattern side
	if pq, ok := pattern.(*types.Quote); ok {
		if tq, ok := term.(*types.Quote); ok {
			return st.Unify(tq.Expr, pq.Expr, unifying)
		}
		return st.Unify(term, pq.Expr, unifying)
	}
	if tq, ok := term.(*types.Quote); ok {
		switch tq.Expr.(type) {
		case *types.ID, *types.Index:
		default:
			return st.Unify(tq.Expr, pattern, unifying)
		}
	}

	switch p := pattern.(type) {
	case *types.HeadTail:
		return st.unifyHeadTail(term, p.Head, p.Tail, unifying)
	case *types.RawHeadTail:
		return st.unifyHeadTail(term, p.Head, p.Tail, unifying)

	case *types.Index:
		// An index pattern is an assignment target when binding
		if unifying {
			return []Binding{{Pattern: p, Term: term}}, nil
		}
		v, err := st.Walk(p)
		if err != nil {
			return nil, err
		}
		return st.Unify(term, v, unifying)

	case *types.Deref:
		inner, err := st.derefPattern(p)
		if err != nil {
			return nil, err
		}
		return st.Unify(term, inner, unifying)

	case *types.Constraint:
		// Constraints only assert matchability; their bindings are dropped
		st.ConstraintDepth++
		if glog.V(3) {
			glog.Infof("constraint depth %d: %s against %s",
				st.ConstraintDepth, types.Display(term), types.Display(p.Expr))
		}
		_, err := st.Unify(term, p.Expr, unifying)
		st.ConstraintDepth--
		if err != nil {
			return nil, err
		}
		return nil, nil
	}

	// Lists on either side
	tl, termIsList := term.(*types.List)
	pl, patternIsList := pattern.(*types.List)
	if termIsList || patternIsList {
		if !termIsList || !patternIsList {
			return nil, raise(types.PatternMatchFailed,
				"term and pattern do not have the same type: %s and %s", term.Kind(), pattern.Kind())
		}
		if len(tl.Elems) != len(pl.Elems) {
			return nil, raise(types.PatternMatchFailed,
				"term and pattern lists are not the same length: %d and %d", len(tl.Elems), len(pl.Elems))
		}
		return st.unifyLinear(tl.Elems, pl.Elems, unifying)
	}

	// Tuples and pairs
	if te, ok := tupleElems(term); ok {
		if pe, ok := tupleElems(pattern); ok {
			if len(te) != len(pe) {
				return nil, raise(types.PatternMatchFailed,
					"term and pattern tuples are not the same length: %d and %d", len(te), len(pe))
			}
			return st.unifyLinear(te, pe, unifying)
		}
	}

	// Constructor-shaped patterns against objects
	if pa, ok := pattern.(*types.Apply); ok {
		switch t := term.(type) {
		case *types.Object:
			return st.unifyConstructor(t, pa, unifying)
		case *types.Apply:
			if !unifying {
				return st.unifyApplies(t, pa)
			}
		}
	}

	if term.Kind() == pattern.Kind() && types.Equal(term, pattern) {
		return nil, nil
	}

	return nil, raise(types.PatternMatchFailed,
		"pattern %s of type %s does not match term %s of type %s",
		types.Display(pattern), pattern.Kind(), types.Display(term), term.Kind())
}

// unifyString matches term against an anchored regular expression. Any
// non-string term is matched through its display form.
func (st *State) unifyString(term types.Node, pattern *types.String, unifying bool) ([]Binding, error) {
	ts, ok := term.(*types.String)
	if !ok {
		if !unifying && isPatternOnly(term) {
			return nil, raise(types.PatternMatchFailed,
				"pattern %s does not subsume string %q", types.Display(term), pattern.Val)
		}
		return st.unifyString(st.Arena.String(types.Display(term)), pattern, unifying)
	}
	re, err := st.anchoredRegexp(pattern.Val)
	if err != nil {
		return nil, raise(types.ValueError, "invalid regular expression %q: %v", pattern.Val, err)
	}
	if !re.MatchString(ts.Val) {
		return nil, raise(types.PatternMatchFailed,
			"regular expression %q did not match %q", pattern.Val, ts.Val)
	}
	return nil, nil
}

func (st *State) anchoredRegexp(expr string) (*regexp.Regexp, error) {
	if re, ok := st.regexps[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, err
	}
	if st.regexps == nil {
		st.regexps = make(map[string]*regexp.Regexp)
	}
	st.regexps[expr] = re
	return re, nil
}

// unifyTypeMatch checks the runtime type of term against %type
func (st *State) unifyTypeMatch(term types.Node, pattern *types.TypeMatch, unifying bool) ([]Binding, error) {
	if !unifying {
		if tm, ok := term.(*types.TypeMatch); ok {
			if tm.Type == pattern.Type {
				return nil, nil
			}
			return nil, raise(types.PatternMatchFailed,
				"type pattern %%%s does not subsume %%%s", pattern.Type, tm.Type)
		}
	}

	switch pattern.Type {
	case "function":
		switch term.(type) {
		case *types.FunctionVal, *types.MemberFunctionVal:
			return nil, nil
		}
	case "pattern":
		if _, ok := term.(*types.Quote); ok {
			return nil, nil
		}
	default:
		if types.IsPrimitiveTypeName(pattern.Type) {
			if types.TypeName(term) == pattern.Type {
				return nil, nil
			}
			break
		}
		v, found := st.Lookup(pattern.Type)
		s, isStruct := v.(*types.Struct)
		if !found || !isStruct {
			return nil, raise(types.PatternMatchFailed, "%s is not a valid type", pattern.Type)
		}
		if obj, ok := term.(*types.Object); ok && obj.StructName() == s.Name {
			return nil, nil
		}
	}
	return nil, raise(types.PatternMatchFailed,
		"expected a value of type %s but got %s", pattern.Type, types.TypeName(term))
}

// unifyGuard handles conditional patterns: `pattern if guard`
func (st *State) unifyGuard(term types.Node, pattern *types.If, unifying bool) ([]Binding, error) {
	if !isAbsent(pattern.Else) {
		return nil, raise(types.ValueError, "conditional patterns do not support else clauses")
	}

	if !unifying {
		if _, ok := term.(*types.If); ok {
			st.warnGuardSubsumption()
			return nil, raise(types.PatternMatchFailed,
				"cannot decide whether one conditional pattern subsumes another")
		}
		// The guard cannot be evaluated against a pattern, so the guarded
		// clause is never taken to cover a later one
		return nil, raise(types.PatternMatchFailed,
			"conditional pattern %s does not subsume %s", types.Display(pattern), types.Display(term))
	}

	bindings, err := st.Unify(term, pattern.Then, unifying)
	if err != nil {
		return nil, err
	}

	st.Symtab.PushScope()
	if err := st.DeclareUnifiers(bindings); err != nil {
		st.Symtab.PopScope()
		return nil, err
	}
	cond, err := st.Walk(pattern.Cond)
	st.Symtab.PopScope()
	if err != nil {
		return nil, err
	}

	if !types.Truthy(cond) {
		return nil, raise(types.PatternMatchFailed,
			"condition %s is not satisfied", types.Display(pattern.Cond))
	}
	return bindings, nil
}

func (st *State) warnGuardSubsumption() {
	if st.GuardWarningIssued {
		return
	}
	st.GuardWarningIssued = true
	msg := "redundancy between conditional patterns cannot be decided; assuming they are distinct"
	glog.Warning(msg)
	trace.Warning(msg)
}

// unifyHeadTail splits a non-empty list into its first element and the rest
func (st *State) unifyHeadTail(term, head, tail types.Node, unifying bool) ([]Binding, error) {
	var termHead, termTail types.Node
	switch t := term.(type) {
	case *types.List:
		if len(t.Elems) == 0 {
			return nil, raise(types.PatternMatchFailed, "head-tail operator expected a non-empty list")
		}
		rest := make([]types.Node, len(t.Elems)-1)
		copy(rest, t.Elems[1:])
		termHead, termTail = t.Elems[0], st.Arena.List(rest)
	case *types.HeadTail:
		if unifying {
			return nil, raise(types.PatternMatchFailed, "head-tail operator expected a list")
		}
		termHead, termTail = t.Head, t.Tail
	case *types.RawHeadTail:
		if unifying {
			return nil, raise(types.PatternMatchFailed, "head-tail operator expected a list")
		}
		termHead, termTail = t.Head, t.Tail
	default:
		return nil, raise(types.PatternMatchFailed,
			"head-tail operator expected a list but got %s", types.TypeName(term))
	}
	return st.unifyLinear([]types.Node{termHead, termTail}, []types.Node{head, tail}, unifying)
}

// unifyConstructor matches an object against a constructor-call pattern
// such as A(x, y), positionally over the object's data slots
func (st *State) unifyConstructor(term *types.Object, pattern *types.Apply, unifying bool) ([]Binding, error) {
	id, ok := pattern.Func.(*types.ID)
	if !ok {
		return nil, raise(types.PatternMatchFailed,
			"constructor pattern %s does not name a struct", types.Display(pattern.Func))
	}
	if id.Name != term.StructName() {
		return nil, raise(types.PatternMatchFailed,
			"expected type %s but got type %s", id.Name, term.StructName())
	}
	if term.Struct == nil {
		return nil, raise(types.VMError, "object has no struct")
	}

	slots := term.Struct.DataSlots()
	if args, ok := tupleElems(pattern.Arg); ok {
		if len(args) != len(slots) {
			return nil, raise(types.PatternMatchFailed,
				"struct %s has %d data members but the pattern has %d", id.Name, len(slots), len(args))
		}
		values := make([]types.Node, len(slots))
		for i, slot := range slots {
			values[i] = term.Memory.Elems[slot]
		}
		return st.unifyLinear(values, args, unifying)
	}
	if len(slots) == 0 {
		return nil, raise(types.PatternMatchFailed, "struct %s has no data members", id.Name)
	}
	return st.Unify(term.Memory.Elems[slots[0]], pattern.Arg, unifying)
}

// unifyApplies compares two constructor patterns during subsumption
func (st *State) unifyApplies(term, pattern *types.Apply) ([]Binding, error) {
	tid, tOK := term.Func.(*types.ID)
	pid, pOK := pattern.Func.(*types.ID)
	if !tOK || !pOK || tid.Name != pid.Name {
		return nil, raise(types.PatternMatchFailed,
			"constructor %s does not subsume %s", types.Display(pattern.Func), types.Display(term.Func))
	}
	return st.Unify(term.Arg, pattern.Arg, false)
}

// derefPattern evaluates a first-class pattern reference
func (st *State) derefPattern(d *types.Deref) (types.Node, error) {
	v, err := st.Walk(d.Expr)
	if err != nil {
		return nil, err
	}
	if q, ok := v.(*types.Quote); ok {
		return q.Expr, nil
	}
	return v, nil
}

func (st *State) unifyElems(terms, patterns []types.Node, unifying bool) ([]Binding, error) {
	var out []Binding
	for i := range terms {
		bindings, err := st.Unify(terms[i], patterns[i], unifying)
		if err != nil {
			return nil, err
		}
		out = append(out, bindings...)
	}
	return out, nil
}

// unifyLinear unifies element-wise and rejects patterns that bind the same
// variable twice
func (st *State) unifyLinear(terms, patterns []types.Node, unifying bool) ([]Binding, error) {
	bindings, err := st.unifyElems(terms, patterns, unifying)
	if err != nil {
		return nil, err
	}
	if err := st.checkLinear(bindings, unifying); err != nil {
		return nil, err
	}
	return bindings, nil
}

// checkLinear rejects a binding list that binds the same variable twice
func (st *State) checkLinear(bindings []Binding, unifying bool) error {
	if unifying && !st.AllowNonLinear {
		if name, repeated := repeatedName(bindings); repeated {
			return raise(types.NonLinearPattern,
				"variable %q is bound more than once in the same pattern", name)
		}
	}
	return nil
}

func repeatedName(bindings []Binding) (string, bool) {
	seen := make(map[string]bool, len(bindings))
	for _, b := range bindings {
		id, ok := b.Pattern.(*types.ID)
		if !ok {
			continue
		}
		if seen[id.Name] {
			return id.Name, true
		}
		seen[id.Name] = true
	}
	return "", false
}

// tupleElems returns the elements of a tuple, or of a pair as a 2-tuple
func tupleElems(n types.Node) ([]types.Node, bool) {
	switch v := n.(type) {
	case *types.Tuple:
		return v.Elems, true
	case *types.Pair:
		return []types.Node{v.First, v.Second}, true
	default:
		return nil, false
	}
}

// isPatternOnly reports whether n can only be a pattern, never a value
func isPatternOnly(n types.Node) bool {
	switch n.(type) {
	case *types.ID, *types.NamedPattern, *types.TypeMatch, *types.Constraint,
		*types.Deref, *types.If, *types.HeadTail, *types.RawHeadTail, *types.Apply, *types.Index:
		return true
	}
	return false
}

func isAbsent(n types.Node) bool {
	if n == nil {
		return true
	}
	_, ok := n.(*types.None)
	return ok
}
