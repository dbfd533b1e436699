package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Display returns the printed form of a node. Strings print unquoted at the
// top level and quoted inside containers; reals always carry a decimal point.
// This is also the form used when a term is matched against a string pattern.
func Display(n Node) string {
	var b strings.Builder
	display(&b, n, false)
	return b.String()
}

func display(b *strings.Builder, n Node, nested bool) {
	switch v := n.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Integer:
		b.WriteString(strconv.FormatInt(v.Val, 10))
	case *Real:
		b.WriteString(formatReal(v.Val))
	case *Bool:
		b.WriteString(strconv.FormatBool(v.Val))
	case *String:
		if nested {
			b.WriteString(strconv.Quote(v.Val))
		} else {
			b.WriteString(v.Val)
		}
	case *None:
		b.WriteString("none")
	case *Nil:
		b.WriteString("nil")
	case *List:
		b.WriteByte('[')
		displayElems(b, v.Elems)
		b.WriteByte(']')
	case *Tuple:
		b.WriteByte('(')
		displayElems(b, v.Elems)
		b.WriteByte(')')
	case *Pair:
		b.WriteByte('(')
		displayElems(b, []Node{v.First, v.Second})
		b.WriteByte(')')
	case *ToList:
		displayRange(b, v.Start, v.Stop, v.Stride)
	case *RawToList:
		displayRange(b, v.Start, v.Stop, v.Stride)
	case *HeadTail:
		displayHeadTail(b, v.Head, v.Tail)
	case *RawHeadTail:
		displayHeadTail(b, v.Head, v.Tail)
	case *Sequence:
		display(b, v.First, true)
		b.WriteString("; ")
		display(b, v.Second, true)
	case *Function:
		b.WriteString("function ")
		b.WriteString(v.Body)
	case *FunctionVal:
		b.WriteString("function ")
		b.WriteString(v.Body)
	case *Apply:
		display(b, v.Func, true)
		switch v.Arg.(type) {
		case *Tuple, *Pair:
			display(b, v.Arg, true)
		default:
			b.WriteByte('(')
			display(b, v.Arg, true)
			b.WriteByte(')')
		}
	case *Index:
		display(b, v.Structure, true)
		b.WriteByte('@')
		display(b, v.Index, true)
	case *If:
		if v.Else == nil {
			display(b, v.Then, true)
			b.WriteString(" if ")
			display(b, v.Cond, true)
			return
		}
		b.WriteString("if ")
		display(b, v.Cond, true)
		b.WriteString(" then ")
		display(b, v.Then, true)
		b.WriteString(" else ")
		display(b, v.Else, true)
	case *Is:
		display(b, v.Term, true)
		b.WriteString(" is ")
		display(b, v.Pattern, true)
	case *In:
		display(b, v.Expr, true)
		b.WriteString(" in ")
		display(b, v.List, true)
	case *Eval:
		b.WriteString("eval(")
		display(b, v.Expr, true)
		b.WriteByte(')')
	case *Escape:
		b.WriteString("escape ")
		b.WriteString(strconv.Quote(v.Name))
	case *NamedPattern:
		b.WriteString(v.Name)
		b.WriteByte(':')
		display(b, v.Pattern, true)
	case *TypeMatch:
		b.WriteByte('%')
		b.WriteString(v.Type)
	case *Constraint:
		b.WriteString("%[")
		display(b, v.Expr, true)
		b.WriteString("]%")
	case *Quote:
		b.WriteString("pattern ")
		display(b, v.Expr, true)
	case *Deref:
		b.WriteByte('*')
		display(b, v.Expr, true)
	case *ID:
		b.WriteString(v.Name)
	case *Struct:
		b.WriteString("struct ")
		b.WriteString(v.Name)
	case *Object:
		b.WriteString(v.StructName())
		b.WriteByte('(')
		var data []Node
		if v.Struct != nil {
			for _, i := range v.Struct.DataSlots() {
				if i < len(v.Memory.Elems) {
					data = append(data, v.Memory.Elems[i])
				}
			}
		} else {
			data = v.Memory.Elems
		}
		displayElems(b, data)
		b.WriteByte(')')
	case *MemberFunctionVal:
		b.WriteString("method ")
		display(b, v.Body, true)
	case *Data:
		b.WriteString("data ")
		display(b, v.Value, true)
	case *Unify:
		b.WriteString("let ")
		display(b, v.Pattern, true)
		b.WriteString(" = ")
		display(b, v.Term, true)
	case *Foreign:
		fmt.Fprintf(b, "<foreign %v>", v.Val)
	case *LineInfo:
		fmt.Fprintf(b, "%s:%d", v.Module, v.Line)
	default:
		b.WriteString(n.Kind().String())
	}
}

func displayElems(b *strings.Builder, elems []Node) {
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		display(b, e, true)
	}
}

func displayRange(b *strings.Builder, start, stop, stride Node) {
	b.WriteByte('[')
	display(b, start, true)
	b.WriteString(" to ")
	display(b, stop, true)
	if stride != nil {
		b.WriteString(" step ")
		display(b, stride, true)
	}
	b.WriteByte(']')
}

func displayHeadTail(b *strings.Builder, head, tail Node) {
	b.WriteByte('[')
	display(b, head, true)
	b.WriteByte('|')
	display(b, tail, true)
	b.WriteByte(']')
}

func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
