package types

// Node is the interface every term, pattern and value implements.
// The variant set is closed: consumers switch on the concrete type.
type Node interface {
	Kind() Kind
	String() string // Display form, see Display
}

// ============================================================================
// LITERALS
// ============================================================================

// Integer is a machine-sized signed integer
type Integer struct {
	Val int64
}

// Real is a 64-bit float
type Real struct {
	Val float64
}

// Bool is a boolean
type Bool struct {
	Val bool
}

// String is an immutable string value
type String struct {
	Val string
}

// None is the unit value
type None struct{}

// Nil is the empty/absent value
type Nil struct{}

func (n *Integer) Kind() Kind { return KindInteger }
func (n *Real) Kind() Kind    { return KindReal }
func (n *Bool) Kind() Kind    { return KindBool }
func (n *String) Kind() Kind  { return KindString }
func (n *None) Kind() Kind    { return KindNone }
func (n *Nil) Kind() Kind     { return KindNil }

func (n *Integer) String() string { return Display(n) }
func (n *Real) String() string    { return Display(n) }
func (n *Bool) String() string    { return Display(n) }
func (n *String) String() string  { return n.Val }
func (n *None) String() string    { return "none" }
func (n *Nil) String() string     { return "nil" }

// ============================================================================
// COMPOSITES
// ============================================================================

// List is a mutable ordered sequence. Elems is the interior-mutable cell.
type List struct {
	Elems []Node
}

// Tuple is a mutable fixed-shape sequence
type Tuple struct {
	Elems []Node
}

// Pair is the binary-operator argument shape
type Pair struct {
	First  Node
	Second Node
}

// ToList is a range constructor over already-evaluated bounds
type ToList struct {
	Start  Node
	Stop   Node
	Stride Node
}

// RawToList is a range constructor whose bounds still need evaluation
type RawToList struct {
	Start  Node
	Stop   Node
	Stride Node
}

// HeadTail is the [head | tail] decomposition/construction shape
type HeadTail struct {
	Head Node
	Tail Node
}

// RawHeadTail is HeadTail before its operands are evaluated
type RawHeadTail struct {
	Head Node
	Tail Node
}

func (n *List) Kind() Kind        { return KindList }
func (n *Tuple) Kind() Kind       { return KindTuple }
func (n *Pair) Kind() Kind        { return KindPair }
func (n *ToList) Kind() Kind      { return KindToList }
func (n *RawToList) Kind() Kind   { return KindRawToList }
func (n *HeadTail) Kind() Kind    { return KindHeadTail }
func (n *RawHeadTail) Kind() Kind { return KindRawHeadTail }

func (n *List) String() string        { return Display(n) }
func (n *Tuple) String() string       { return Display(n) }
func (n *Pair) String() string        { return Display(n) }
func (n *ToList) String() string      { return Display(n) }
func (n *RawToList) String() string   { return Display(n) }
func (n *HeadTail) String() string    { return Display(n) }
func (n *RawHeadTail) String() string { return Display(n) }

// Len returns the number of elements
func (n *List) Len() int { return len(n.Elems) }

// Len returns the number of elements
func (n *Tuple) Len() int { return len(n.Elems) }

// ============================================================================
// PROGRAM CONSTRUCTS
// ============================================================================

// Sequence evaluates First then Second
type Sequence struct {
	First  Node
	Second Node
}

// Function is an unevaluated function definition. Body names the
// dispatch-table entry implementing it.
type Function struct {
	Body string
}

// FunctionVal is a function value: a body reference plus the closure
// captured when the Function node was walked
type FunctionVal struct {
	Body    string
	Closure *Closure
}

// Apply is function application
type Apply struct {
	Func Node
	Arg  Node
}

// Index is structure@index
type Index struct {
	Structure Node
	Index     Node
}

// If is a conditional expression, or a guarded pattern when it appears on
// the pattern side (Cond is the guard, Then the guarded pattern)
type If struct {
	Cond Node
	Then Node
	Else Node
}

// Is tests Term against Pattern, binding on success
type Is struct {
	Pattern Node
	Term    Node
}

// In tests list membership
type In struct {
	Expr Node
	List Node
}

// Eval forces evaluation of a quoted term
type Eval struct {
	Expr Node
}

// Escape invokes a native implementation by name
type Escape struct {
	Name string
}

func (n *Sequence) Kind() Kind    { return KindSequence }
func (n *Function) Kind() Kind    { return KindFunction }
func (n *FunctionVal) Kind() Kind { return KindFunctionVal }
func (n *Apply) Kind() Kind       { return KindApply }
func (n *Index) Kind() Kind       { return KindIndex }
func (n *If) Kind() Kind          { return KindIf }
func (n *Is) Kind() Kind          { return KindIs }
func (n *In) Kind() Kind          { return KindIn }
func (n *Eval) Kind() Kind        { return KindEval }
func (n *Escape) Kind() Kind      { return KindEscape }

func (n *Sequence) String() string    { return Display(n) }
func (n *Function) String() string    { return Display(n) }
func (n *FunctionVal) String() string { return Display(n) }
func (n *Apply) String() string       { return Display(n) }
func (n *Index) String() string       { return Display(n) }
func (n *If) String() string          { return Display(n) }
func (n *Is) String() string          { return Display(n) }
func (n *In) String() string          { return Display(n) }
func (n *Eval) String() string        { return Display(n) }
func (n *Escape) String() string      { return Display(n) }

// ============================================================================
// PATTERN-ONLY CONSTRUCTS
// ============================================================================

// NamedPattern is name:pattern
type NamedPattern struct {
	Name    string
	Pattern Node
}

// TypeMatch asserts the runtime type (or struct name) of a term
type TypeMatch struct {
	Type string
}

// Constraint asserts matchability without producing bindings
type Constraint struct {
	Expr Node
}

// Quote suspends evaluation of Expr, making it a first-class pattern
type Quote struct {
	Expr Node
}

// Deref re-evaluates Expr at match time to obtain a pattern
type Deref struct {
	Expr Node
}

// ID is an identifier
type ID struct {
	Name string
}

func (n *NamedPattern) Kind() Kind { return KindNamedPattern }
func (n *TypeMatch) Kind() Kind    { return KindTypeMatch }
func (n *Constraint) Kind() Kind   { return KindConstraint }
func (n *Quote) Kind() Kind        { return KindQuote }
func (n *Deref) Kind() Kind        { return KindDeref }
func (n *ID) Kind() Kind           { return KindID }

func (n *NamedPattern) String() string { return Display(n) }
func (n *TypeMatch) String() string    { return Display(n) }
func (n *Constraint) String() string   { return Display(n) }
func (n *Quote) String() string        { return Display(n) }
func (n *Deref) String() string        { return Display(n) }
func (n *ID) String() string           { return n.Name }

// ============================================================================
// STRUCTURES AND OBJECTS
// ============================================================================

// Struct is a memory template of named slots. Members and Memory.Elems are
// parallel: Members[i] names slot i, Memory.Elems[i] holds its value.
type Struct struct {
	Name    string
	Members []string
	Memory  *List
}

// Object is an instance of a Struct with its own copy of the template memory
type Object struct {
	Struct *Struct
	Memory *List
}

// MemberFunctionVal is a method bound to a receiver. Arg is the receiver,
// Body the *FunctionVal to invoke.
type MemberFunctionVal struct {
	Arg  Node
	Body Node
}

// Data declares a data slot while building a Struct
type Data struct {
	Value Node
}

// Unify declares an initialised slot while building a Struct: Pattern names
// the slot, Term produces its value
type Unify struct {
	Term    Node
	Pattern Node
}

// Foreign carries an opaque host value
type Foreign struct {
	Val any
}

// LineInfo marks the current source position
type LineInfo struct {
	Module string
	Line   int
}

func (n *Struct) Kind() Kind            { return KindStruct }
func (n *Object) Kind() Kind            { return KindObject }
func (n *MemberFunctionVal) Kind() Kind { return KindMemberFunctionVal }
func (n *Data) Kind() Kind              { return KindData }
func (n *Unify) Kind() Kind             { return KindUnify }
func (n *Foreign) Kind() Kind           { return KindForeign }
func (n *LineInfo) Kind() Kind          { return KindLineInfo }

func (n *Struct) String() string            { return Display(n) }
func (n *Object) String() string            { return Display(n) }
func (n *MemberFunctionVal) String() string { return Display(n) }
func (n *Data) String() string              { return Display(n) }
func (n *Unify) String() string             { return Display(n) }
func (n *Foreign) String() string           { return Display(n) }
func (n *LineInfo) String() string          { return Display(n) }

// MemberIndex returns the slot index of a member name, or -1
func (s *Struct) MemberIndex(name string) int {
	for i, m := range s.Members {
		if m == name {
			return i
		}
	}
	return -1
}

// DataSlots returns the indices of the slots that hold data rather than
// methods, in member order
func (s *Struct) DataSlots() []int {
	var slots []int
	for i, v := range s.Memory.Elems {
		if _, isFunc := v.(*FunctionVal); isFunc {
			continue
		}
		slots = append(slots, i)
	}
	return slots
}

// StructName returns the name of the object's struct, or "" for a detached object
func (o *Object) StructName() string {
	if o.Struct == nil {
		return ""
	}
	return o.Struct.Name
}

// Get returns the object's slot for a member name
func (o *Object) Get(member string) (Node, bool) {
	if o.Struct == nil {
		return nil, false
	}
	i := o.Struct.MemberIndex(member)
	if i < 0 || i >= len(o.Memory.Elems) {
		return nil, false
	}
	return o.Memory.Elems[i], true
}

// Set writes the object's slot for a member name
func (o *Object) Set(member string, v Node) bool {
	if o.Struct == nil {
		return false
	}
	i := o.Struct.MemberIndex(member)
	if i < 0 || i >= len(o.Memory.Elems) {
		return false
	}
	o.Memory.Elems[i] = v
	return true
}
