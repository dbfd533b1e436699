package eval

import (
	"avm/types"
	"math"
	"strings"
)

// operatorFunc implements a built-in operator over an evaluated argument
type operatorFunc func(st *State, arg types.Node) (types.Node, error)

// builtinOperators is the fixed operator set dispatched before any symbol
// lookup. Binary operators take a Pair or a 2-tuple.
var builtinOperators map[string]operatorFunc

func init() {
	builtinOperators = map[string]operatorFunc{
		"__plus__":   binary("+", evalAdd),
		"__minus__":  binary("-", evalSubtract),
		"__times__":  binary("*", evalMultiply),
		"__divide__": binary("/", evalDivide),
		"__or__":     binary("or", evalOr),
		"__and__":    binary("and", evalAnd),
		"__eq__":     binary("==", evalEqual),
		"__ne__":     binary("!=", evalNotEqual),
		"__lt__":     binary("<", compareWith(func(c int) bool { return c < 0 })),
		"__le__":     binary("<=", compareWith(func(c int) bool { return c <= 0 })),
		"__gt__":     binary(">", compareWith(func(c int) bool { return c > 0 })),
		"__ge__":     binary(">=", compareWith(func(c int) bool { return c >= 0 })),
		"__uminus__": evalUnaryMinus,
		"__not__":    evalNot,
	}
}

// IsOperator reports whether name is a built-in operator
func IsOperator(name string) bool {
	_, ok := builtinOperators[name]
	return ok
}

func binary(symbol string, fn func(st *State, left, right types.Node) (types.Node, error)) operatorFunc {
	return func(st *State, arg types.Node) (types.Node, error) {
		operands, ok := tupleElems(arg)
		if !ok || len(operands) != 2 {
			return nil, raise(types.ValueError,
				"operator %s expects two operands but got %s", symbol, types.Display(arg))
		}
		return fn(st, operands[0], operands[1])
	}
}

// ============================================================================
// UNARY OPERATORS
// ============================================================================

// evalUnaryMinus implements negation: -x
func evalUnaryMinus(st *State, operand types.Node) (types.Node, error) {
	switch v := operand.(type) {
	case *types.Integer:
		return st.Arena.Integer(-v.Val), nil
	case *types.Real:
		return st.Arena.Real(-v.Val), nil
	default:
		return nil, raise(types.ValueError, "unsupported operand type for unary -: %s", types.TypeName(operand))
	}
}

// evalNot implements logical negation through the truth mapping
func evalNot(st *State, operand types.Node) (types.Node, error) {
	return st.Arena.Bool(!types.Truthy(operand)), nil
}

// ============================================================================
// ARITHMETIC OPERATORS
// ============================================================================

// evalAdd implements addition: left + right
// A string on either side concatenates display forms; two lists concatenate.
func evalAdd(st *State, left, right types.Node) (types.Node, error) {
	_, leftIsStr := left.(*types.String)
	_, rightIsStr := right.(*types.String)
	if leftIsStr || rightIsStr {
		return st.Arena.String(types.Display(left) + types.Display(right)), nil
	}

	if l, ok := left.(*types.List); ok {
		r, ok := right.(*types.List)
		if !ok {
			return nil, raise(types.ValueError, "cannot add %s to list", types.TypeName(right))
		}
		elems := make([]types.Node, 0, len(l.Elems)+len(r.Elems))
		elems = append(elems, l.Elems...)
		elems = append(elems, r.Elems...)
		return st.Arena.List(elems), nil
	}

	return arithmetic(st, "+", left, right,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b })
}

// evalSubtract implements subtraction: left - right
func evalSubtract(st *State, left, right types.Node) (types.Node, error) {
	return arithmetic(st, "-", left, right,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b })
}

// evalMultiply implements multiplication: left * right
func evalMultiply(st *State, left, right types.Node) (types.Node, error) {
	return arithmetic(st, "*", left, right,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b })
}

// evalDivide implements division: left / right
// Integer division truncates toward zero
func evalDivide(st *State, left, right types.Node) (types.Node, error) {
	lf, li, lInt, lOK := types.Numeric(left)
	rf, ri, rInt, rOK := types.Numeric(right)
	if !lOK {
		return nil, unsupportedOperand("/", left)
	}
	if !rOK {
		return nil, unsupportedOperand("/", right)
	}

	if lInt && rInt {
		if ri == 0 {
			return nil, raise(types.ArithmeticError, "integer division by zero")
		}
		if li == math.MinInt64 && ri == -1 {
			return nil, raise(types.ArithmeticError, "integer division overflow")
		}
		return st.Arena.Integer(li / ri), nil
	}
	if rf == 0 {
		return nil, raise(types.ArithmeticError, "division by zero")
	}
	return st.Arena.Real(lf / rf), nil
}

// arithmetic applies numeric promotion: integer op integer stays integer,
// anything involving a real is real. Booleans count as integers.
func arithmetic(st *State, symbol string, left, right types.Node,
	intOp func(a, b int64) int64, realOp func(a, b float64) float64) (types.Node, error) {
	lf, li, lInt, lOK := types.Numeric(left)
	rf, ri, rInt, rOK := types.Numeric(right)
	if !lOK {
		return nil, unsupportedOperand(symbol, left)
	}
	if !rOK {
		return nil, unsupportedOperand(symbol, right)
	}
	if lInt && rInt {
		return st.Arena.Integer(intOp(li, ri)), nil
	}
	return st.Arena.Real(realOp(lf, rf)), nil
}

func unsupportedOperand(symbol string, operand types.Node) error {
	return raise(types.ValueError,
		"unsupported operand type for %s: %s", symbol, types.TypeName(operand))
}

// ============================================================================
// LOGICAL OPERATORS
// ============================================================================

// evalOr and evalAnd operate on already-evaluated operands, so they do not
// short-circuit
func evalOr(st *State, left, right types.Node) (types.Node, error) {
	return st.Arena.Bool(types.Truthy(left) || types.Truthy(right)), nil
}

func evalAnd(st *State, left, right types.Node) (types.Node, error) {
	return st.Arena.Bool(types.Truthy(left) && types.Truthy(right)), nil
}

// ============================================================================
// COMPARISON OPERATORS
// ============================================================================

// evalEqual implements structural equality: left == right
func evalEqual(st *State, left, right types.Node) (types.Node, error) {
	return st.Arena.Bool(types.Equal(left, right)), nil
}

// evalNotEqual implements left != right
func evalNotEqual(st *State, left, right types.Node) (types.Node, error) {
	return st.Arena.Bool(!types.Equal(left, right)), nil
}

func compareWith(accept func(c int) bool) func(st *State, left, right types.Node) (types.Node, error) {
	return func(st *State, left, right types.Node) (types.Node, error) {
		c, err := compare(left, right)
		if err != nil {
			return nil, err
		}
		return st.Arena.Bool(accept(c)), nil
	}
}

// compare orders two numbers under promotion, or two strings lexically
func compare(left, right types.Node) (int, error) {
	if ls, ok := left.(*types.String); ok {
		rs, ok := right.(*types.String)
		if !ok {
			return 0, raise(types.ValueError,
				"cannot compare string with %s", types.TypeName(right))
		}
		return strings.Compare(ls.Val, rs.Val), nil
	}

	lf, li, lInt, lOK := types.Numeric(left)
	rf, ri, rInt, rOK := types.Numeric(right)
	if !lOK {
		return 0, unsupportedOperand("comparison", left)
	}
	if !rOK {
		return 0, unsupportedOperand("comparison", right)
	}
	if lInt && rInt {
		switch {
		case li < ri:
			return -1, nil
		case li > ri:
			return 1, nil
		}
		return 0, nil
	}
	switch {
	case lf < rf:
		return -1, nil
	case lf > rf:
		return 1, nil
	}
	return 0, nil
}
