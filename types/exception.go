package types

import (
	"errors"
	"fmt"
)

// ErrorKind is the taxonomy carried in the kind slot of an Exception object
type ErrorKind int

const (
	PatternMatchFailed ErrorKind = iota
	ValueError
	ArithmeticError
	VMError
	FileNotFound
	NonLinearPattern
	RedundantPatternFound
)

// String returns the kind name as it appears in the exception object
func (k ErrorKind) String() string {
	switch k {
	case PatternMatchFailed:
		return "PatternMatchFailed"
	case ValueError:
		return "ValueError"
	case ArithmeticError:
		return "ArithmeticError"
	case VMError:
		return "VMError"
	case FileNotFound:
		return "FileNotFound"
	case NonLinearPattern:
		return "NonLinearPattern"
	case RedundantPatternFound:
		return "RedundantPatternFound"
	default:
		return "UnknownError"
	}
}

// Message returns a short description of the kind
func (k ErrorKind) Message() string {
	switch k {
	case PatternMatchFailed:
		return "Pattern match failed"
	case ValueError:
		return "Invalid value"
	case ArithmeticError:
		return "Arithmetic error"
	case VMError:
		return "Internal virtual machine error"
	case FileNotFound:
		return "File not found"
	case NonLinearPattern:
		return "Non-linear pattern"
	case RedundantPatternFound:
		return "Redundant pattern"
	default:
		return "Unknown error"
	}
}

// KindFromString converts a name like "ValueError" to an ErrorKind
func KindFromString(s string) (ErrorKind, bool) {
	switch s {
	case "PatternMatchFailed":
		return PatternMatchFailed, true
	case "ValueError":
		return ValueError, true
	case "ArithmeticError":
		return ArithmeticError, true
	case "VMError":
		return VMError, true
	case "FileNotFound":
		return FileNotFound, true
	case "NonLinearPattern":
		return NonLinearPattern, true
	case "RedundantPatternFound":
		return RedundantPatternFound, true
	default:
		return PatternMatchFailed, false
	}
}

// ExceptionStruct is the built-in struct every raised error instantiates
var ExceptionStruct = &Struct{
	Name:    "Exception",
	Members: []string{"kind", "val"},
	Memory:  &List{Elems: []Node{theNone, theNone}},
}

// Exception is the Go error carrying a raised language value. Value is
// normally an Exception object, but any value may be raised.
type Exception struct {
	Value Node

	// Line is the source position where the exception was first seen
	// leaving a statement or call; nil until then
	Line *LineInfo
}

// Locate records line as the origin of the exception unless one is set
func (e *Exception) Locate(line LineInfo) {
	if e.Line == nil {
		e.Line = &line
	}
}

// NewException builds an Exception object for kind with a formatted message
func NewException(kind ErrorKind, format string, args ...any) *Exception {
	obj := &Object{
		Struct: ExceptionStruct,
		Memory: &List{Elems: []Node{
			&String{Val: kind.String()},
			&String{Val: fmt.Sprintf(format, args...)},
		}},
	}
	return &Exception{Value: obj}
}

// Raise wraps an arbitrary value as an exception
func Raise(v Node) *Exception {
	return &Exception{Value: v}
}

// Error renders "Kind: message" for exception objects and the value's
// display form otherwise
func (e *Exception) Error() string {
	if kind, msg, ok := e.Parts(); ok {
		return kind + ": " + msg
	}
	return Display(e.Value)
}

// Parts returns the kind and message slots if the value has the Exception shape
func (e *Exception) Parts() (kind, msg string, ok bool) {
	obj, isObj := e.Value.(*Object)
	if !isObj || obj.StructName() != ExceptionStruct.Name || len(obj.Memory.Elems) != 2 {
		return "", "", false
	}
	k, kOK := obj.Memory.Elems[0].(*String)
	if !kOK {
		return "", "", false
	}
	return k.Val, Display(obj.Memory.Elems[1]), true
}

// Kind returns the taxonomy kind, if the exception carries a known one
func (e *Exception) Kind() (ErrorKind, bool) {
	k, _, ok := e.Parts()
	if !ok {
		return PatternMatchFailed, false
	}
	return KindFromString(k)
}

// IsKind reports whether err is an Exception of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var exc *Exception
	if !errors.As(err, &exc) {
		return false
	}
	k, ok := exc.Kind()
	return ok && k == kind
}

// AsException extracts the Exception from err
func AsException(err error) (*Exception, bool) {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc, true
	}
	return nil, false
}
