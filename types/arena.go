package types

import "strings"

// Small integers in [smallIntMin, smallIntMax] are shared handles
const (
	smallIntMin = -16
	smallIntMax = 255
)

var (
	theNone  = &None{}
	theNil   = &Nil{}
	theTrue  = &Bool{Val: true}
	theFalse = &Bool{Val: false}
)

// Arena owns the nodes produced during evaluation and hands out shared
// handles to them. Immutable leaves (none, nil, booleans, small integers)
// are interned; everything else is freshly allocated. Nodes are reclaimed
// once the last handle drops.
//
// An Arena is owned by exactly one execution State and is not safe for
// concurrent use.
type Arena struct {
	smallInts [smallIntMax - smallIntMin + 1]*Integer
	counts    [len(kindNames)]int64
}

// NewArena creates an empty arena
func NewArena() *Arena {
	a := &Arena{}
	for i := range a.smallInts {
		a.smallInts[i] = &Integer{Val: int64(i + smallIntMin)}
	}
	return a
}

func (a *Arena) count(k Kind) {
	a.counts[k]++
}

// Integer returns an integer handle
func (a *Arena) Integer(v int64) *Integer {
	if v >= smallIntMin && v <= smallIntMax {
		return a.smallInts[v-smallIntMin]
	}
	a.count(KindInteger)
	return &Integer{Val: v}
}

// Real returns a real handle
func (a *Arena) Real(v float64) *Real {
	a.count(KindReal)
	return &Real{Val: v}
}

// Bool returns the shared true or false handle
func (a *Arena) Bool(v bool) *Bool {
	if v {
		return theTrue
	}
	return theFalse
}

// String returns a string handle
func (a *Arena) String(v string) *String {
	a.count(KindString)
	return &String{Val: v}
}

// None returns the shared none handle
func (a *Arena) None() *None { return theNone }

// Nil returns the shared nil handle
func (a *Arena) Nil() *Nil { return theNil }

// List allocates a list owning elems
func (a *Arena) List(elems []Node) *List {
	a.count(KindList)
	if elems == nil {
		elems = []Node{}
	}
	return &List{Elems: elems}
}

// Tuple allocates a tuple owning elems
func (a *Arena) Tuple(elems []Node) *Tuple {
	a.count(KindTuple)
	if elems == nil {
		elems = []Node{}
	}
	return &Tuple{Elems: elems}
}

// Pair allocates a pair
func (a *Arena) Pair(first, second Node) *Pair {
	a.count(KindPair)
	return &Pair{First: first, Second: second}
}

// Sequence allocates a sequence
func (a *Arena) Sequence(first, second Node) *Sequence {
	a.count(KindSequence)
	return &Sequence{First: first, Second: second}
}

// FunctionVal allocates a function value over a captured closure
func (a *Arena) FunctionVal(body string, closure *Closure) *FunctionVal {
	a.count(KindFunctionVal)
	return &FunctionVal{Body: body, Closure: closure}
}

// MemberFunctionVal binds fn to a receiver
func (a *Arena) MemberFunctionVal(receiver Node, fn *FunctionVal) *MemberFunctionVal {
	a.count(KindMemberFunctionVal)
	return &MemberFunctionVal{Arg: receiver, Body: fn}
}

// Object instantiates s with a copy of its template memory
func (a *Arena) Object(s *Struct) *Object {
	a.count(KindObject)
	mem := make([]Node, len(s.Memory.Elems))
	copy(mem, s.Memory.Elems)
	return &Object{Struct: s, Memory: a.List(mem)}
}

// Struct allocates a struct template
func (a *Arena) Struct(name string, members []string, memory []Node) *Struct {
	a.count(KindStruct)
	return &Struct{Name: name, Members: members, Memory: a.List(memory)}
}

// Quote allocates a quote
func (a *Arena) Quote(expr Node) *Quote {
	a.count(KindQuote)
	return &Quote{Expr: expr}
}

// ID allocates an identifier
func (a *Arena) ID(name string) *ID {
	a.count(KindID)
	return &ID{Name: name}
}

// Foreign wraps a host value
func (a *Arena) Foreign(v any) *Foreign {
	a.count(KindForeign)
	return &Foreign{Val: v}
}

// Allocated returns the number of nodes allocated (interned handles excluded)
func (a *Arena) Allocated() int64 {
	var total int64
	for _, c := range a.counts {
		total += c
	}
	return total
}

// Stats renders the non-zero per-kind allocation counts
func (a *Arena) Stats() string {
	var b strings.Builder
	for k, c := range a.counts {
		if c == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(Kind(k).String())
		b.WriteString("=")
		b.WriteString(Display(&Integer{Val: c}))
	}
	if b.Len() == 0 {
		return "no allocations"
	}
	return b.String()
}
