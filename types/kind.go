package types

// Kind is the closed discriminant of every Node variant
type Kind int

const (
	KindInteger Kind = iota
	KindReal
	KindBool
	KindString
	KindNone
	KindNil
	KindList
	KindTuple
	KindPair
	KindToList
	KindRawToList
	KindHeadTail
	KindRawHeadTail
	KindSequence
	KindFunction
	KindFunctionVal
	KindApply
	KindIndex
	KindIf
	KindIs
	KindIn
	KindEval
	KindEscape
	KindNamedPattern
	KindTypeMatch
	KindConstraint
	KindQuote
	KindDeref
	KindID
	KindStruct
	KindObject
	KindMemberFunctionVal
	KindData
	KindUnify
	KindForeign
	KindLineInfo
)

var kindNames = [...]string{
	KindInteger:           "Integer",
	KindReal:              "Real",
	KindBool:              "Bool",
	KindString:            "String",
	KindNone:              "None",
	KindNil:               "Nil",
	KindList:              "List",
	KindTuple:             "Tuple",
	KindPair:              "Pair",
	KindToList:            "ToList",
	KindRawToList:         "RawToList",
	KindHeadTail:          "HeadTail",
	KindRawHeadTail:       "RawHeadTail",
	KindSequence:          "Sequence",
	KindFunction:          "Function",
	KindFunctionVal:       "FunctionVal",
	KindApply:             "Apply",
	KindIndex:             "Index",
	KindIf:                "If",
	KindIs:                "Is",
	KindIn:                "In",
	KindEval:              "Eval",
	KindEscape:            "Escape",
	KindNamedPattern:      "NamedPattern",
	KindTypeMatch:         "TypeMatch",
	KindConstraint:        "Constraint",
	KindQuote:             "Quote",
	KindDeref:             "Deref",
	KindID:                "ID",
	KindStruct:            "Struct",
	KindObject:            "Object",
	KindMemberFunctionVal: "MemberFunctionVal",
	KindData:              "Data",
	KindUnify:             "Unify",
	KindForeign:           "Foreign",
	KindLineInfo:          "LineInfo",
}

// String returns the node kind name used in diagnostics
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// TypeName returns the language-level type name of a value, as matched by
// TypeMatch patterns (%integer, %string, ...). Objects report their struct
// name; pattern-only and program-construct nodes report their kind.
func TypeName(n Node) string {
	switch v := n.(type) {
	case *Integer:
		return "integer"
	case *Real:
		return "real"
	case *Bool:
		return "boolean"
	case *String:
		return "string"
	case *List:
		return "list"
	case *Tuple:
		return "tuple"
	case *Pair:
		return "pair"
	case *None:
		return "none"
	case *Nil:
		return "nil"
	case *FunctionVal, *MemberFunctionVal:
		return "function"
	case *Quote:
		return "pattern"
	case *Foreign:
		return "foreign"
	case *Struct:
		return "struct"
	case *Object:
		if v.Struct != nil {
			return v.Struct.Name
		}
		return "object"
	default:
		return n.Kind().String()
	}
}

// IsPrimitiveTypeName reports whether name is one of the built-in type names
// understood by TypeMatch without a struct lookup
func IsPrimitiveTypeName(name string) bool {
	switch name {
	case "integer", "real", "boolean", "string", "list", "tuple", "pair", "none", "nil", "foreign":
		return true
	}
	return false
}
