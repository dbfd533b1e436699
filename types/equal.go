package types

// Numeric returns the value of an integer, real or boolean node as a
// float64, along with whether it is an exact integer (bool counts as one)
func Numeric(n Node) (f float64, i int64, isInt bool, ok bool) {
	switch v := n.(type) {
	case *Integer:
		return float64(v.Val), v.Val, true, true
	case *Bool:
		if v.Val {
			return 1, 1, true, true
		}
		return 0, 0, true, true
	case *Real:
		return v.Val, 0, false, true
	default:
		return 0, 0, false, false
	}
}

// NumericEqual compares two numeric nodes under the language's promotion
// rules. ok is false if either node is not numeric.
func NumericEqual(a, b Node) (equal bool, ok bool) {
	af, ai, aInt, aOK := Numeric(a)
	bf, bi, bInt, bOK := Numeric(b)
	if !aOK || !bOK {
		return false, false
	}
	if aInt && bInt {
		return ai == bi, true
	}
	return af == bf, true
}

// Equal is structural equality. Numbers compare under promotion,
// containers element-wise, objects by struct and memory; functions,
// structs and foreign values by identity.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := NumericEqual(a, b); ok {
		return eq
	}

	switch av := a.(type) {
	case *String:
		bv, ok := b.(*String)
		return ok && av.Val == bv.Val
	case *None:
		_, ok := b.(*None)
		return ok
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *List:
		bv, ok := b.(*List)
		return ok && equalElems(av.Elems, bv.Elems)
	case *Tuple:
		bv, ok := b.(*Tuple)
		return ok && equalElems(av.Elems, bv.Elems)
	case *Pair:
		bv, ok := b.(*Pair)
		return ok && Equal(av.First, bv.First) && Equal(av.Second, bv.Second)
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		return av.StructName() == bv.StructName() && equalElems(av.Memory.Elems, bv.Memory.Elems)
	case *ID:
		bv, ok := b.(*ID)
		return ok && av.Name == bv.Name
	case *Quote:
		bv, ok := b.(*Quote)
		return ok && Equal(av.Expr, bv.Expr)
	case *FunctionVal:
		bv, ok := b.(*FunctionVal)
		return ok && (av == bv || (av.Body == bv.Body && av.Closure == bv.Closure))
	case *Foreign:
		bv, ok := b.(*Foreign)
		return ok && av == bv
	default:
		return a == b
	}
}

func equalElems(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
