package types

import "testing"

func TestDisplay(t *testing.T) {
	point := &Struct{
		Name:    "Point",
		Members: []string{"x", "y", "norm"},
		Memory:  &List{Elems: []Node{theNone, theNone, &FunctionVal{Body: "norm"}}},
	}
	x := &ID{Name: "x"}

	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{"integer", &Integer{Val: -42}, "-42"},
		{"whole real", &Real{Val: 2}, "2.0"},
		{"real", &Real{Val: 2.5}, "2.5"},
		{"exponent real", &Real{Val: 1e21}, "1e+21"},
		{"boolean", &Bool{Val: true}, "true"},
		{"top-level string is raw", &String{Val: "hi"}, "hi"},
		{"nested string is quoted", &List{Elems: []Node{&String{Val: "hi"}}}, `["hi"]`},
		{"none", &None{}, "none"},
		{"nil", &Nil{}, "nil"},
		{"list", &List{Elems: []Node{&Integer{Val: 1}, &Integer{Val: 2}}}, "[1,2]"},
		{"tuple", &Tuple{Elems: []Node{&Integer{Val: 1}, x}}, "(1,x)"},
		{"pair", &Pair{First: &Integer{Val: 1}, Second: &Integer{Val: 2}}, "(1,2)"},
		{"range", &ToList{Start: &Integer{Val: 1}, Stop: &Integer{Val: 5}}, "[1 to 5]"},
		{"head tail", &HeadTail{Head: x, Tail: &ID{Name: "rest"}}, "[x|rest]"},
		{"apply", &Apply{Func: &ID{Name: "f"}, Arg: &Integer{Val: 1}}, "f(1)"},
		{"apply tuple", &Apply{Func: &ID{Name: "f"}, Arg: &Tuple{Elems: []Node{x, x}}}, "f(x,x)"},
		{"index", &Index{Structure: &ID{Name: "a"}, Index: &Integer{Val: 0}}, "a@0"},
		{"guard", &If{Cond: &ID{Name: "c"}, Then: x}, "x if c"},
		{"conditional", &If{Cond: &ID{Name: "c"}, Then: x, Else: &Integer{Val: 0}}, "if c then x else 0"},
		{"named", &NamedPattern{Name: "n", Pattern: &TypeMatch{Type: "integer"}}, "n:%integer"},
		{"quote", &Quote{Expr: x}, "pattern x"},
		{"deref", &Deref{Expr: &ID{Name: "P"}}, "*P"},
		{"object shows data slots", &Object{Struct: point, Memory: &List{Elems: []Node{&Integer{Val: 1}, &Integer{Val: 2}, point.Memory.Elems[2]}}}, "Point(1,2)"},
		{"struct", point, "struct Point"},
		{"line", &LineInfo{Module: "main", Line: 3}, "main:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Display(tt.node); got != tt.expected {
				t.Errorf("Display() = %q, want %q", got, tt.expected)
			}
			if got := tt.node.String(); tt.name != "top-level string is raw" && got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
