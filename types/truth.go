package types

// Truthy maps a value to a boolean. Zero numbers, none, nil, false, the
// empty string and empty lists/tuples are false; everything else,
// including every object, is true.
func Truthy(n Node) bool {
	switch v := n.(type) {
	case *Integer:
		return v.Val != 0
	case *Real:
		return v.Val != 0
	case *Bool:
		return v.Val
	case *String:
		return v.Val != ""
	case *None, *Nil:
		return false
	case *List:
		return len(v.Elems) > 0
	case *Tuple:
		return len(v.Elems) > 0
	default:
		return true
	}
}
