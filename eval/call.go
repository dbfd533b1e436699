package eval

import (
	"avm/contract"
	"avm/trace"
	"avm/types"

	"github.com/golang/glog"
)

// evalApply evaluates function application
func (st *State) evalApply(n *types.Apply) (types.Node, error) {
	// Built-in operators bypass the symbol table
	if id, ok := n.Func.(*types.ID); ok {
		if op, ok := builtinOperators[id.Name]; ok {
			arg, err := st.Walk(n.Arg)
			if err != nil {
				return nil, err
			}
			return op(st, arg)
		}
	}

	// Method-style call: the indexed structure becomes the receiver
	if idx, ok := n.Func.(*types.Index); ok {
		structure, err := st.Walk(idx.Structure)
		if err != nil {
			return nil, err
		}
		member, err := st.readIndex(structure, idx.Index)
		if err != nil {
			return nil, err
		}
		arg, err := st.Walk(n.Arg)
		if err != nil {
			return nil, err
		}
		if fn, ok := member.(*types.FunctionVal); ok {
			return st.Call(structure, fn, arg)
		}
		return st.Apply(member, arg)
	}

	fn, err := st.Walk(n.Func)
	if err != nil {
		return nil, err
	}
	arg, err := st.Walk(n.Arg)
	if err != nil {
		return nil, err
	}
	return st.Apply(fn, arg)
}

// Apply invokes an evaluated callable on an evaluated argument: a function
// value, a bound method or a struct (construction)
func (st *State) Apply(fn, arg types.Node) (types.Node, error) {
	switch f := fn.(type) {
	case *types.FunctionVal:
		return st.Call(nil, f, arg)
	case *types.MemberFunctionVal:
		body, ok := f.Body.(*types.FunctionVal)
		if !ok {
			return nil, raise(types.VMError, "bound method has no function body")
		}
		return st.Call(f.Arg, body, arg)
	case *types.Struct:
		return st.Construct(f, arg)
	default:
		return nil, raise(types.ValueError, "value of type %s is not callable", types.TypeName(fn))
	}
}

// Call runs a function value under its captured closure.
//
// The caller's scope configuration and line position are restored on every
// exit path. A nil receiver leaves `this` unbound. Nesting deeper than
// MaxDepth aborts the process.
func (st *State) Call(receiver types.Node, fn *types.FunctionVal, arg types.Node) (types.Node, error) {
	impl, ok := st.Dispatch[fn.Body]
	if !ok {
		return nil, raise(types.VMError, "no implementation registered for function %q", fn.Body)
	}
	if fn.Closure == nil {
		return nil, raise(types.VMError, "function %q has no closure", fn.Body)
	}

	st.depth++
	defer func() { st.depth-- }()
	if st.MaxDepth > 0 && st.depth > st.MaxDepth {
		contract.Failf("maximum call depth %d exceeded in %s at %s:%d",
			st.MaxDepth, fn.Body, st.Line.Module, st.Line.Line)
	}

	saved := st.Symtab.GetClosure()
	savedLine := st.Line
	defer func() {
		st.Symtab.SetConfig(saved)
		st.Line = savedLine
	}()

	st.Symtab.SetConfig(fn.Closure)
	st.Symtab.PushScope()
	if receiver != nil {
		st.Symtab.EnterSym("this", receiver)
	}

	if glog.V(3) {
		glog.Infof("call %s depth=%d arg=%s", fn.Body, st.depth, types.Display(arg))
	}
	trace.Call(fn.Body, arg, st.Line)

	result, err := impl(arg, st)
	if err != nil {
		if exc, ok := types.AsException(err); ok {
			exc.Locate(st.Line)
		}
		trace.Exception(fn.Body, err)
		return nil, err
	}
	trace.Return(fn.Body, result)
	return result, nil
}
