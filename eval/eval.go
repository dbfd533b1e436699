package eval

import (
	"avm/types"
)

// Walk evaluates a node and returns its value.
//
// Literals and runtime values evaluate to themselves. Containers evaluate
// their components left to right into a fresh container, so that an AST
// walked repeatedly (a function body on every call) is never overwritten.
func (st *State) Walk(node types.Node) (types.Node, error) {
	if node == nil {
		return nil, raise(types.VMError, "walk called with a missing node")
	}

	switch n := node.(type) {
	case *types.Integer, *types.Real, *types.Bool, *types.String, *types.None, *types.Nil,
		*types.Object, *types.Foreign, *types.MemberFunctionVal, *types.FunctionVal, *types.Struct:
		return node, nil
	case *types.LineInfo:
		st.Line = *n
		return st.Arena.None(), nil
	case *types.List:
		elems, err := st.walkElems(n.Elems)
		if err != nil {
			return nil, err
		}
		return st.Arena.List(elems), nil
	case *types.Tuple:
		elems, err := st.walkElems(n.Elems)
		if err != nil {
			return nil, err
		}
		return st.Arena.Tuple(elems), nil
	case *types.Pair:
		return st.evalPair(n)
	case *types.Sequence:
		return st.evalSequence(n)
	case *types.ToList:
		return st.evalRange(n.Start, n.Stop, n.Stride)
	case *types.RawToList:
		return st.evalRange(n.Start, n.Stop, n.Stride)
	case *types.HeadTail:
		return st.evalHeadTail(n.Head, n.Tail)
	case *types.RawHeadTail:
		return st.evalHeadTail(n.Head, n.Tail)
	case *types.Function:
		return st.Arena.FunctionVal(n.Body, st.Symtab.GetClosure()), nil
	case *types.Apply:
		return st.evalApply(n)
	case *types.Index:
		return st.evalIndex(n)
	case *types.If:
		return st.evalIf(n)
	case *types.Is:
		return st.evalIs(n)
	case *types.In:
		return st.evalIn(n)
	case *types.Eval:
		return st.evalEval(n)
	case *types.Escape:
		return st.evalEscape(n)
	case *types.Quote:
		if st.IgnoreQuote {
			return st.Walk(n.Expr)
		}
		return n, nil
	case *types.Deref:
		return st.Walk(n.Expr)
	case *types.ID:
		return st.evalID(n)
	case *types.NamedPattern, *types.TypeMatch, *types.Constraint:
		return nil, raise(types.ValueError,
			"%s is a pattern and cannot be evaluated", types.Display(node))
	case *types.Data, *types.Unify:
		return nil, raise(types.VMError,
			"%s is only valid inside a struct definition", node.Kind())
	default:
		return nil, raise(types.VMError, "unknown node type %T", node)
	}
}

func (st *State) walkElems(nodes []types.Node) ([]types.Node, error) {
	elems := make([]types.Node, len(nodes))
	for i, e := range nodes {
		v, err := st.Walk(e)
		if err != nil {
			return nil, err
		}
		elems[i] = v
	}
	return elems, nil
}

func (st *State) evalPair(n *types.Pair) (types.Node, error) {
	first, err := st.Walk(n.First)
	if err != nil {
		return nil, err
	}
	second, err := st.Walk(n.Second)
	if err != nil {
		return nil, err
	}
	return st.Arena.Pair(first, second), nil
}

func (st *State) evalSequence(n *types.Sequence) (types.Node, error) {
	first, err := st.Walk(n.First)
	if err != nil {
		return nil, err
	}
	second, err := st.Walk(n.Second)
	if err != nil {
		return nil, err
	}
	return st.Arena.Sequence(first, second), nil
}

// evalID resolves an identifier. Unbound names carry a spelling suggestion.
func (st *State) evalID(n *types.ID) (types.Node, error) {
	v, ok := st.Lookup(n.Name)
	if ok {
		return v, nil
	}
	if s := st.Symtab.Suggest(n.Name); s != "" {
		return nil, raise(types.ValueError, "%s is not defined (did you mean %s?)", n.Name, s)
	}
	return nil, raise(types.ValueError, "%s is not defined", n.Name)
}

// evalRange materialises an inclusive integer range
func (st *State) evalRange(start, stop, stride types.Node) (types.Node, error) {
	from, err := st.walkInt(start, "range start")
	if err != nil {
		return nil, err
	}
	to, err := st.walkInt(stop, "range end")
	if err != nil {
		return nil, err
	}
	step := int64(1)
	if !isAbsent(stride) {
		step, err = st.walkInt(stride, "range stride")
		if err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return nil, raise(types.ValueError, "range stride cannot be zero")
	}

	// Stop before the next step passes to, so i += step never wraps
	var elems []types.Node
	if step > 0 {
		for i := from; i <= to; i += step {
			elems = append(elems, st.Arena.Integer(i))
			if i > to-step {
				break
			}
		}
	} else {
		for i := from; i >= to; i += step {
			elems = append(elems, st.Arena.Integer(i))
			if i < to-step {
				break
			}
		}
	}
	return st.Arena.List(elems), nil
}

func (st *State) walkInt(n types.Node, what string) (int64, error) {
	v, err := st.Walk(n)
	if err != nil {
		return 0, err
	}
	i, ok := v.(*types.Integer)
	if !ok {
		return 0, raise(types.ValueError, "%s must be an integer, got %s", what, types.TypeName(v))
	}
	return i.Val, nil
}

// evalHeadTail builds [head] ++ tail
func (st *State) evalHeadTail(head, tail types.Node) (types.Node, error) {
	h, err := st.Walk(head)
	if err != nil {
		return nil, err
	}
	t, err := st.Walk(tail)
	if err != nil {
		return nil, err
	}
	rest, ok := t.(*types.List)
	if !ok {
		return nil, raise(types.ValueError, "tail of a head-tail expression must be a list, got %s", types.TypeName(t))
	}
	elems := make([]types.Node, 0, len(rest.Elems)+1)
	elems = append(elems, h)
	elems = append(elems, rest.Elems...)
	return st.Arena.List(elems), nil
}

// evalIf evaluates the condition and exactly one branch
func (st *State) evalIf(n *types.If) (types.Node, error) {
	cond, err := st.Walk(n.Cond)
	if err != nil {
		return nil, err
	}
	if types.Truthy(cond) {
		return st.Walk(n.Then)
	}
	if n.Else == nil {
		return st.Arena.None(), nil
	}
	return st.Walk(n.Else)
}

// evalIs matches a term against a pattern, declaring the bindings on
// success. A failed match is false, never an exception.
func (st *State) evalIs(n *types.Is) (types.Node, error) {
	term, err := st.Walk(n.Term)
	if err != nil {
		return nil, err
	}
	bindings, err := st.Unify(term, n.Pattern, true)
	if err != nil {
		if isPatternMatchFailed(err) {
			return st.Arena.Bool(false), nil
		}
		return nil, err
	}
	if err := st.DeclareUnifiers(bindings); err != nil {
		return nil, err
	}
	return st.Arena.Bool(true), nil
}

// evalIn tests membership by structural equality
func (st *State) evalIn(n *types.In) (types.Node, error) {
	v, err := st.Walk(n.Expr)
	if err != nil {
		return nil, err
	}
	container, err := st.Walk(n.List)
	if err != nil {
		return nil, err
	}

	var elems []types.Node
	switch c := container.(type) {
	case *types.List:
		elems = c.Elems
	case *types.Tuple:
		elems = c.Elems
	default:
		return nil, raise(types.ValueError, "in expects a list but got %s", types.TypeName(container))
	}
	for _, e := range elems {
		if types.Equal(v, e) {
			return st.Arena.Bool(true), nil
		}
	}
	return st.Arena.Bool(false), nil
}

// evalEval forces evaluation of a quoted term
func (st *State) evalEval(n *types.Eval) (types.Node, error) {
	saved := st.IgnoreQuote
	st.IgnoreQuote = true
	defer func() { st.IgnoreQuote = saved }()

	v, err := st.Walk(n.Expr)
	if err != nil {
		return nil, err
	}
	if q, ok := v.(*types.Quote); ok {
		return st.Walk(q.Expr)
	}
	return v, nil
}

// evalEscape invokes a native implementation; natives read their formals
// from the symbol table
func (st *State) evalEscape(n *types.Escape) (types.Node, error) {
	fn, ok := st.Dispatch[n.Name]
	if !ok {
		return nil, raise(types.VMError, "no native implementation registered for %q", n.Name)
	}
	return fn(st.Arena.None(), st)
}
