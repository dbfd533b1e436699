package loader

import (
	"avm/eval"
	"avm/types"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// decoder turns YAML node trees into AST nodes. module names the source for
// line markers.
type decoder struct {
	module string
}

type decodeFunc func(d *decoder, n *yaml.Node) (types.Node, error)

// nodeDecoders maps the single key of a node mapping to its decoder
var nodeDecoders map[string]decodeFunc

// operatorNames maps operator spellings accepted by `op` to built-in operator ids
var operatorNames = map[string]string{
	"+":   "__plus__",
	"-":   "__minus__",
	"*":   "__times__",
	"/":   "__divide__",
	"or":  "__or__",
	"and": "__and__",
	"==":  "__eq__",
	"!=":  "__ne__",
	"<":   "__lt__",
	"<=":  "__le__",
	">":   "__gt__",
	">=":  "__ge__",
	"neg": "__uminus__",
	"not": "__not__",
}

func init() {
	nodeDecoders = map[string]decodeFunc{
		// Literals
		"int":  (*decoder).decodeInt,
		"real": (*decoder).decodeReal,
		"bool": (*decoder).decodeBool,
		"str":  (*decoder).decodeStr,
		"none": func(*decoder, *yaml.Node) (types.Node, error) { return &types.None{}, nil },
		"nil":  func(*decoder, *yaml.Node) (types.Node, error) { return &types.Nil{}, nil },

		// Composites
		"list":          (*decoder).decodeList,
		"tuple":         (*decoder).decodeTuple,
		"pair":          (*decoder).decodePair,
		"to_list":       (*decoder).decodeToList,
		"raw_to_list":   (*decoder).decodeRawToList,
		"head_tail":     (*decoder).decodeHeadTail,
		"raw_head_tail": (*decoder).decodeRawHeadTail,

		// Program constructs
		"seq":      (*decoder).decodeSeq,
		"function": (*decoder).decodeFunction,
		"apply":    (*decoder).decodeApply,
		"call":     (*decoder).decodeCall,
		"op":       (*decoder).decodeOp,
		"index":    (*decoder).decodeIndex,
		"if":       (*decoder).decodeIf,
		"is":       (*decoder).decodeIs,
		"in":       (*decoder).decodeIn,
		"eval":     (*decoder).decodeEval,
		"escape":   (*decoder).decodeEscape,

		// Patterns
		"named":      (*decoder).decodeNamed,
		"type":       (*decoder).decodeType,
		"constraint": (*decoder).decodeConstraint,
		"quote":      (*decoder).decodeQuote,
		"deref":      (*decoder).decodeDeref,
		"id":         (*decoder).decodeID,

		// Struct building and host values
		"line":    (*decoder).decodeLine,
		"data":    (*decoder).decodeData,
		"unify":   (*decoder).decodeUnify,
		"foreign": (*decoder).decodeForeign,
	}
}

// DecodeNode decodes a single YAML node into an AST node
func DecodeNode(n *yaml.Node) (types.Node, error) {
	d := &decoder{}
	return d.decode(n)
}

// ParseNode decodes a YAML document holding a single node
func ParseNode(data []byte) (types.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parsing node")
	}
	return DecodeNode(&root)
}

func errorf(n *yaml.Node, format string, args ...any) error {
	return errors.Errorf("line %d: "+format, append([]any{n.Line}, args...)...)
}

func (d *decoder) decode(n *yaml.Node) (types.Node, error) {
	if n == nil {
		return nil, errors.New("missing node")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, errorf(n, "empty document")
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		elems, err := d.decodeElems(n)
		if err != nil {
			return nil, err
		}
		return &types.List{Elems: elems}, nil
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, errorf(n, "a node mapping must have exactly one key, got %d", len(n.Content)/2)
		}
		key := n.Content[0].Value
		dec, ok := nodeDecoders[key]
		if !ok {
			return nil, errorf(n.Content[0], "unknown node kind %q", key)
		}
		return dec(d, n.Content[1])
	default:
		return nil, errorf(n, "unsupported YAML node")
	}
}

// decodeScalar maps bare YAML scalars to literals by their resolved tag
func decodeScalar(n *yaml.Node) (types.Node, error) {
	switch n.ShortTag() {
	case "!!int":
		v, err := cast.ToInt64E(n.Value)
		if err != nil {
			return nil, errorf(n, "invalid integer %q", n.Value)
		}
		return &types.Integer{Val: v}, nil
	case "!!float":
		v, err := cast.ToFloat64E(n.Value)
		if err != nil {
			return nil, errorf(n, "invalid real %q", n.Value)
		}
		return &types.Real{Val: v}, nil
	case "!!bool":
		v, err := cast.ToBoolE(n.Value)
		if err != nil {
			return nil, errorf(n, "invalid boolean %q", n.Value)
		}
		return &types.Bool{Val: v}, nil
	case "!!null":
		return &types.None{}, nil
	default:
		return &types.String{Val: n.Value}, nil
	}
}

// ============================================================================
// OPERAND HELPERS
// ============================================================================

func scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", errorf(n, "expected a scalar")
	}
	return n.Value, nil
}

func (d *decoder) decodeElems(n *yaml.Node) ([]types.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence")
	}
	elems := make([]types.Node, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := d.decode(c)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return elems, nil
}

// operands decodes a sequence of exactly count nodes
func (d *decoder) operands(n *yaml.Node, count int) ([]types.Node, error) {
	elems, err := d.decodeElems(n)
	if err != nil {
		return nil, err
	}
	if len(elems) != count {
		return nil, errorf(n, "expected %d operands, got %d", count, len(elems))
	}
	return elems, nil
}

// fields returns the values of a mapping by key, rejecting keys not in allowed
func fields(n *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "expected a mapping with keys %s", strings.Join(allowed, ", "))
	}
	out := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if !contains(allowed, key) {
			return nil, errorf(n.Content[i], "unexpected key %q", key)
		}
		out[key] = n.Content[i+1]
	}
	return out, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// field decodes one mapping value. Optional missing fields decode to nil.
func (d *decoder) field(parent *yaml.Node, m map[string]*yaml.Node, key string, required bool) (types.Node, error) {
	n, ok := m[key]
	if !ok {
		if required {
			return nil, errorf(parent, "missing key %q", key)
		}
		return nil, nil
	}
	return d.decode(n)
}

// ============================================================================
// LITERALS
// ============================================================================

func (d *decoder) decodeInt(n *yaml.Node) (types.Node, error) {
	s, err := scalar(n)
	if err != nil {
		return nil, err
	}
	v, err := cast.ToInt64E(s)
	if err != nil {
		return nil, errorf(n, "invalid integer %q", s)
	}
	return &types.Integer{Val: v}, nil
}

func (d *decoder) decodeReal(n *yaml.Node) (types.Node, error) {
	s, err := scalar(n)
	if err != nil {
		return nil, err
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return nil, errorf(n, "invalid real %q", s)
	}
	return &types.Real{Val: v}, nil
}

func (d *decoder) decodeBool(n *yaml.Node) (types.Node, error) {
	s, err := scalar(n)
	if err != nil {
		return nil, err
	}
	v, err := cast.ToBoolE(s)
	if err != nil {
		return nil, errorf(n, "invalid boolean %q", s)
	}
	return &types.Bool{Val: v}, nil
}

func (d *decoder) decodeStr(n *yaml.Node) (types.Node, error) {
	s, err := scalar(n)
	if err != nil {
		return nil, err
	}
	return &types.String{Val: s}, nil
}

// ============================================================================
// COMPOSITES
// ============================================================================

func (d *decoder) decodeList(n *yaml.Node) (types.Node, error) {
	elems, err := d.decodeElems(n)
	if err != nil {
		return nil, err
	}
	return &types.List{Elems: elems}, nil
}

func (d *decoder) decodeTuple(n *yaml.Node) (types.Node, error) {
	elems, err := d.decodeElems(n)
	if err != nil {
		return nil, err
	}
	return &types.Tuple{Elems: elems}, nil
}

func (d *decoder) decodePair(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.Pair{First: ops[0], Second: ops[1]}, nil
}

// rangeBounds decodes {start, stop, stride?}
func (d *decoder) rangeBounds(n *yaml.Node) (start, stop, stride types.Node, err error) {
	m, err := fields(n, "start", "stop", "stride")
	if err != nil {
		return nil, nil, nil, err
	}
	if start, err = d.field(n, m, "start", true); err != nil {
		return nil, nil, nil, err
	}
	if stop, err = d.field(n, m, "stop", true); err != nil {
		return nil, nil, nil, err
	}
	if stride, err = d.field(n, m, "stride", false); err != nil {
		return nil, nil, nil, err
	}
	return start, stop, stride, nil
}

func (d *decoder) decodeToList(n *yaml.Node) (types.Node, error) {
	start, stop, stride, err := d.rangeBounds(n)
	if err != nil {
		return nil, err
	}
	return &types.ToList{Start: start, Stop: stop, Stride: stride}, nil
}

func (d *decoder) decodeRawToList(n *yaml.Node) (types.Node, error) {
	start, stop, stride, err := d.rangeBounds(n)
	if err != nil {
		return nil, err
	}
	return &types.RawToList{Start: start, Stop: stop, Stride: stride}, nil
}

func (d *decoder) decodeHeadTail(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.HeadTail{Head: ops[0], Tail: ops[1]}, nil
}

func (d *decoder) decodeRawHeadTail(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.RawHeadTail{Head: ops[0], Tail: ops[1]}, nil
}

// ============================================================================
// PROGRAM CONSTRUCTS
// ============================================================================

func (d *decoder) decodeSeq(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.Sequence{First: ops[0], Second: ops[1]}, nil
}

func (d *decoder) decodeFunction(n *yaml.Node) (types.Node, error) {
	body, err := scalar(n)
	if err != nil {
		return nil, err
	}
	return &types.Function{Body: body}, nil
}

func (d *decoder) decodeApply(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.Apply{Func: ops[0], Arg: ops[1]}, nil
}

// decodeCall decodes [name, args...] into an application of the named
// function. No arguments pass none; several are passed as a tuple.
func (d *decoder) decodeCall(n *yaml.Node) (types.Node, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, errorf(n, "call expects [name, args...]")
	}
	name, err := scalar(n.Content[0])
	if err != nil {
		return nil, err
	}
	args := make([]types.Node, 0, len(n.Content)-1)
	for _, c := range n.Content[1:] {
		v, err := d.decode(c)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	var arg types.Node
	switch len(args) {
	case 0:
		arg = &types.None{}
	case 1:
		arg = args[0]
	default:
		arg = &types.Tuple{Elems: args}
	}
	return &types.Apply{Func: &types.ID{Name: name}, Arg: arg}, nil
}

// decodeOp decodes [operator, operand] or [operator, left, right]
func (d *decoder) decodeOp(n *yaml.Node) (types.Node, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) < 2 || len(n.Content) > 3 {
		return nil, errorf(n, "op expects [operator, operand] or [operator, left, right]")
	}
	sym, err := scalar(n.Content[0])
	if err != nil {
		return nil, err
	}
	name, ok := operatorNames[sym]
	if !ok {
		if !eval.IsOperator(sym) {
			return nil, errorf(n.Content[0], "unknown operator %q", sym)
		}
		name = sym
	}
	ops, err := d.operands(&yaml.Node{Kind: yaml.SequenceNode, Line: n.Line, Content: n.Content[1:]}, len(n.Content)-1)
	if err != nil {
		return nil, err
	}
	var arg types.Node = ops[0]
	if len(ops) == 2 {
		arg = &types.Tuple{Elems: ops}
	}
	return &types.Apply{Func: &types.ID{Name: name}, Arg: arg}, nil
}

func (d *decoder) decodeIndex(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.Index{Structure: ops[0], Index: ops[1]}, nil
}

func (d *decoder) decodeIf(n *yaml.Node) (types.Node, error) {
	m, err := fields(n, "cond", "then", "else")
	if err != nil {
		return nil, err
	}
	cond, err := d.field(n, m, "cond", true)
	if err != nil {
		return nil, err
	}
	then, err := d.field(n, m, "then", true)
	if err != nil {
		return nil, err
	}
	els, err := d.field(n, m, "else", false)
	if err != nil {
		return nil, err
	}
	return &types.If{Cond: cond, Then: then, Else: els}, nil
}

func (d *decoder) decodeIs(n *yaml.Node) (types.Node, error) {
	m, err := fields(n, "term", "pattern")
	if err != nil {
		return nil, err
	}
	term, err := d.field(n, m, "term", true)
	if err != nil {
		return nil, err
	}
	pattern, err := d.field(n, m, "pattern", true)
	if err != nil {
		return nil, err
	}
	return &types.Is{Term: term, Pattern: pattern}, nil
}

func (d *decoder) decodeIn(n *yaml.Node) (types.Node, error) {
	ops, err := d.operands(n, 2)
	if err != nil {
		return nil, err
	}
	return &types.In{Expr: ops[0], List: ops[1]}, nil
}

func (d *decoder) decodeEval(n *yaml.Node) (types.Node, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	return &types.Eval{Expr: v}, nil
}

func (d *decoder) decodeEscape(n *yaml.Node) (types.Node, error) {
	name, err := scalar(n)
	if err != nil {
		return nil, err
	}
	return &types.Escape{Name: name}, nil
}

// ============================================================================
// PATTERNS
// ============================================================================

func (d *decoder) decodeNamed(n *yaml.Node) (types.Node, error) {
	m, err := fields(n, "name", "pattern")
	if err != nil {
		return nil, err
	}
	nameNode, ok := m["name"]
	if !ok {
		return nil, errorf(n, "missing key %q", "name")
	}
	name, err := scalar(nameNode)
	if err != nil {
		return nil, err
	}
	pattern, err := d.field(n, m, "pattern", true)
	if err != nil {
		return nil, err
	}
	return &types.NamedPattern{Name: name, Pattern: pattern}, nil
}

func (d *decoder) decodeType(n *yaml.Node) (types.Node, error) {
	name, err := scalar(n)
	if err != nil {
		return nil, err
	}
	return &types.TypeMatch{Type: strings.TrimPrefix(name, "%")}, nil
}

func (d *decoder) decodeConstraint(n *yaml.Node) (types.Node, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	return &types.Constraint{Expr: v}, nil
}

func (d *decoder) decodeQuote(n *yaml.Node) (types.Node, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	return &types.Quote{Expr: v}, nil
}

func (d *decoder) decodeDeref(n *yaml.Node) (types.Node, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	return &types.Deref{Expr: v}, nil
}

func (d *decoder) decodeID(n *yaml.Node) (types.Node, error) {
	name, err := scalar(n)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errorf(n, "empty identifier")
	}
	return &types.ID{Name: name}, nil
}

// ============================================================================
// STRUCT BUILDING AND HOST VALUES
// ============================================================================

// decodeLine accepts a bare line number or {module, line}
func (d *decoder) decodeLine(n *yaml.Node) (types.Node, error) {
	if n.Kind == yaml.ScalarNode {
		line, err := cast.ToIntE(n.Value)
		if err != nil {
			return nil, errorf(n, "invalid line number %q", n.Value)
		}
		return &types.LineInfo{Module: d.module, Line: line}, nil
	}
	m, err := fields(n, "module", "line")
	if err != nil {
		return nil, err
	}
	info := &types.LineInfo{Module: d.module}
	if mod, ok := m["module"]; ok {
		if info.Module, err = scalar(mod); err != nil {
			return nil, err
		}
	}
	if ln, ok := m["line"]; ok {
		if info.Line, err = cast.ToIntE(ln.Value); err != nil {
			return nil, errorf(ln, "invalid line number %q", ln.Value)
		}
	}
	return info, nil
}

func (d *decoder) decodeData(n *yaml.Node) (types.Node, error) {
	v, err := d.decode(n)
	if err != nil {
		return nil, err
	}
	return &types.Data{Value: v}, nil
}

func (d *decoder) decodeUnify(n *yaml.Node) (types.Node, error) {
	m, err := fields(n, "term", "pattern")
	if err != nil {
		return nil, err
	}
	term, err := d.field(n, m, "term", true)
	if err != nil {
		return nil, err
	}
	pattern, err := d.field(n, m, "pattern", true)
	if err != nil {
		return nil, err
	}
	return &types.Unify{Term: term, Pattern: pattern}, nil
}

// decodeForeign wraps the plain YAML value as an opaque host value
func (d *decoder) decodeForeign(n *yaml.Node) (types.Node, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "line %d: decoding foreign value", n.Line)
	}
	return &types.Foreign{Val: v}, nil
}
