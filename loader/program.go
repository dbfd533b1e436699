package loader

import (
	"avm/eval"
	"avm/types"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FunctionDef is a named multi-clause function from a program file
type FunctionDef struct {
	Name    string
	Clauses []eval.Clause
}

// Program is a decoded program file: its function table and the top-level
// statements, in source order.
//
//	name: demo
//	functions:
//	  fact:
//	    - pattern: 0
//	      body: [{expr: 1}]
//	    - pattern: {id: n}
//	      body: [{expr: {op: ["*", {id: n}, {call: [fact, {op: ["-", {id: n}, 1]}]}]}}]
//	program:
//	  - line: 1
//	    expr: {call: [fact, 5]}
//	    let: {id: x}
type Program struct {
	Name       string
	Functions  []FunctionDef
	Statements []eval.Statement
}

// LoadFile reads and decodes a program file. A missing file is reported as
// a FileNotFound exception.
func LoadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, types.NewException(types.FileNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	prog, err := Parse(name, data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return prog, nil
}

// Parse decodes a program document. name is used when the document does not
// name itself.
func Parse(name string, data []byte) (*Program, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "parsing program")
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return DecodeProgram(name, root.Content[0])
	}
	return DecodeProgram(name, &root)
}

// DecodeProgram decodes a program mapping with optional keys name,
// functions, structs and program. Global declarations are statements
// (`global: [names]`) inside the function bodies that need them; at the top
// level every name is already global.
func DecodeProgram(name string, n *yaml.Node) (*Program, error) {
	if n.Kind == 0 {
		return &Program{Name: name}, nil
	}
	m, err := fields(n, "name", "functions", "structs", "program")
	if err != nil {
		return nil, err
	}
	if nameNode, ok := m["name"]; ok {
		if name, err = scalar(nameNode); err != nil {
			return nil, err
		}
	}

	d := &decoder{module: name}
	var functions []FunctionDef
	if fn, ok := m["functions"]; ok {
		if functions, err = d.decodeFunctions(fn); err != nil {
			return nil, err
		}
	}

	var stmts []eval.Statement
	if s, ok := m["structs"]; ok {
		if s.Kind != yaml.SequenceNode {
			return nil, errorf(s, "structs must be a sequence")
		}
		for _, sn := range s.Content {
			def, err := d.decodeStruct(sn)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, eval.Statement{Struct: def})
		}
	}

	if p, ok := m["program"]; ok {
		body, err := d.decodeStatements(p)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, body...)
	}
	return NewProgram(name, functions, stmts), nil
}

// NewProgram assembles a program from a function table and statements.
// Function definitions bind their names before anything else runs, the way
// a front end lowers `function f ...` into `let f = function f`.
func NewProgram(name string, functions []FunctionDef, stmts []eval.Statement) *Program {
	prog := &Program{Name: name, Functions: functions}
	for _, f := range functions {
		prog.Statements = append(prog.Statements, eval.Statement{
			Expr:    &types.Function{Body: f.Name},
			Pattern: &types.ID{Name: f.Name},
		})
	}
	prog.Statements = append(prog.Statements, stmts...)
	return prog
}

// DecodeFunctions decodes a function table (body id -> clauses)
func DecodeFunctions(module string, n *yaml.Node) ([]FunctionDef, error) {
	return (&decoder{module: module}).decodeFunctions(n)
}

// DecodeStatements decodes a statement sequence
func DecodeStatements(module string, n *yaml.Node) ([]eval.Statement, error) {
	return (&decoder{module: module}).decodeStatements(n)
}

// Define registers the program's functions on st. With redundancy checking
// enabled a redundant clause aborts the definition.
func (p *Program) Define(st *eval.State) error {
	for _, f := range p.Functions {
		if err := st.DefineFunction(f.Name, f.Clauses); err != nil {
			return errors.Wrapf(err, "defining %s", f.Name)
		}
	}
	return nil
}

// Run defines the functions and runs the statements on st
func (p *Program) Run(st *eval.State) (types.Node, error) {
	if err := p.Define(st); err != nil {
		return nil, err
	}
	return st.Run(p.Statements)
}

func scalars(n *yaml.Node) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence of names")
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		s, err := scalar(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) decodeFunctions(n *yaml.Node) ([]FunctionDef, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "functions must map body ids to clauses")
	}
	var defs []FunctionDef
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		clauses, err := d.decodeClauses(n.Content[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", name)
		}
		defs = append(defs, FunctionDef{Name: name, Clauses: clauses})
	}
	return defs, nil
}

func (d *decoder) decodeClauses(n *yaml.Node) ([]eval.Clause, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, errorf(n, "expected a non-empty sequence of clauses")
	}
	clauses := make([]eval.Clause, 0, len(n.Content))
	for _, cn := range n.Content {
		m, err := fields(cn, "pattern", "body")
		if err != nil {
			return nil, err
		}
		pattern, err := d.field(cn, m, "pattern", true)
		if err != nil {
			return nil, err
		}
		var body []eval.Statement
		if b, ok := m["body"]; ok {
			if body, err = d.decodeStatements(b); err != nil {
				return nil, err
			}
		}
		clauses = append(clauses, eval.Clause{Pattern: pattern, Body: body})
	}
	return clauses, nil
}

func (d *decoder) decodeStruct(n *yaml.Node) (*eval.StructDef, error) {
	m, err := fields(n, "name", "members")
	if err != nil {
		return nil, err
	}
	nameNode, ok := m["name"]
	if !ok {
		return nil, errorf(n, "struct without a name")
	}
	name, err := scalar(nameNode)
	if err != nil {
		return nil, err
	}
	var members []types.Node
	if mem, ok := m["members"]; ok {
		if members, err = d.decodeElems(mem); err != nil {
			return nil, errors.Wrapf(err, "struct %s", name)
		}
	}
	return &eval.StructDef{Name: name, Members: members}, nil
}

func (d *decoder) decodeStatements(n *yaml.Node) ([]eval.Statement, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errorf(n, "expected a sequence of statements")
	}
	var stmts []eval.Statement
	for _, sn := range n.Content {
		s, err := d.decodeStatement(sn)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s...)
	}
	return stmts, nil
}

// decodeStatement decodes one statement mapping. A `line` key becomes a
// line marker statement in front of it.
func (d *decoder) decodeStatement(n *yaml.Node) ([]eval.Statement, error) {
	m, err := fields(n, "line", "expr", "let", "struct", "global")
	if err != nil {
		return nil, err
	}

	var stmts []eval.Statement
	if ln, ok := m["line"]; ok {
		info, err := d.decodeLine(ln)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, eval.Statement{Expr: info})
	}

	switch {
	case m["struct"] != nil:
		def, err := d.decodeStruct(m["struct"])
		if err != nil {
			return nil, err
		}
		return append(stmts, eval.Statement{Struct: def}), nil
	case m["global"] != nil:
		names, err := scalars(m["global"])
		if err != nil {
			return nil, err
		}
		return append(stmts, eval.Statement{Globals: names}), nil
	case m["expr"] == nil && len(stmts) > 0:
		return stmts, nil
	}

	expr, err := d.field(n, m, "expr", true)
	if err != nil {
		return nil, err
	}
	pattern, err := d.field(n, m, "let", false)
	if err != nil {
		return nil, err
	}
	return append(stmts, eval.Statement{Expr: expr, Pattern: pattern}), nil
}
