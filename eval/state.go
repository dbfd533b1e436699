package eval

import (
	"avm/types"
	"io"
	"os"
	"regexp"
)

// NativeFunc is the signature of every dispatch-table entry: function
// bodies, escapes and struct constructors alike
type NativeFunc func(arg types.Node, st *State) (types.Node, error)

// DefaultMaxDepth bounds nested calls before the interpreter aborts
const DefaultMaxDepth = 10000

// State is the mutable execution context threaded through every walk and
// unify call. A State, its Arena and its SymbolTable belong to a single
// thread of control.
type State struct {
	Symtab *SymbolTable
	Arena  *types.Arena

	// Line is the current source position, updated by LineInfo nodes
	Line types.LineInfo

	// IgnoreQuote makes Quote nodes evaluate their payload (set by Eval)
	IgnoreQuote bool

	// ConstraintDepth counts nested Constraint patterns being matched. It
	// only feeds the V(3) unify log.
	ConstraintDepth int

	// Dispatch maps function body ids and escape names to implementations
	Dispatch map[string]NativeFunc

	// Stdout receives program output from native functions
	Stdout io.Writer

	// MaxDepth limits nested calls; exceeding it aborts the process
	MaxDepth int

	// CheckRedundancy enables the subsumption check in DefineFunction
	CheckRedundancy bool

	// AllowNonLinear disables the repeated-variable check in list patterns
	AllowNonLinear bool

	// GuardWarningIssued is set once the undecidable guarded-clause
	// subsumption warning has been emitted
	GuardWarningIssued bool

	depth   int
	regexps map[string]*regexp.Regexp
}

// NewState creates a fresh execution state with the built-in Exception
// struct bound in the global scope
func NewState() *State {
	st := &State{
		Symtab:          NewSymbolTable(),
		Arena:           types.NewArena(),
		Dispatch:        make(map[string]NativeFunc),
		Stdout:          os.Stdout,
		MaxDepth:        DefaultMaxDepth,
		CheckRedundancy: true,
	}
	st.Symtab.EnterSym(types.ExceptionStruct.Name, types.ExceptionStruct)
	return st
}

// Register installs a native implementation under name
func (st *State) Register(name string, fn NativeFunc) {
	st.Dispatch[name] = fn
}

// Lookup resolves a name in the current scope configuration
func (st *State) Lookup(name string) (types.Node, bool) {
	return st.Symtab.LookupSym(name, false)
}

// CallDepth returns the number of calls currently in progress
func (st *State) CallDepth() int {
	return st.depth
}

// raise builds a language exception of the given kind
func raise(kind types.ErrorKind, format string, args ...any) error {
	return types.NewException(kind, format, args...)
}

// isPatternMatchFailed reports whether err is a recoverable match failure
func isPatternMatchFailed(err error) bool {
	return types.IsKind(err, types.PatternMatchFailed)
}
