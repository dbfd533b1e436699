package types

import (
	"testing"

	"pgregory.net/rapid"
)

func TestEqual(t *testing.T) {
	fn := &FunctionVal{Body: "f", Closure: &Closure{}}
	foreign := &Foreign{Val: []int{1}}

	tests := []struct {
		name  string
		a, b  Node
		equal bool
	}{
		{"integers", &Integer{Val: 1}, &Integer{Val: 1}, true},
		{"integer and real", &Integer{Val: 1}, &Real{Val: 1.0}, true},
		{"boolean and integer", &Bool{Val: true}, &Integer{Val: 1}, true},
		{"different numbers", &Integer{Val: 1}, &Integer{Val: 2}, false},
		{"strings", &String{Val: "a"}, &String{Val: "a"}, true},
		{"string and number", &String{Val: "1"}, &Integer{Val: 1}, false},
		{"none", &None{}, &None{}, true},
		{"none and nil", &None{}, &Nil{}, false},
		{"lists", &List{Elems: []Node{&Integer{Val: 1}}}, &List{Elems: []Node{&Real{Val: 1}}}, true},
		{"list lengths", &List{Elems: []Node{&Integer{Val: 1}}}, &List{}, false},
		{"list and tuple", &List{}, &Tuple{}, false},
		{"identifiers", &ID{Name: "x"}, &ID{Name: "x"}, true},
		{"same function", fn, fn, true},
		{"same body and closure", fn, &FunctionVal{Body: "f", Closure: fn.Closure}, true},
		{"different closure", fn, &FunctionVal{Body: "f", Closure: &Closure{}}, false},
		{"foreign by identity", foreign, foreign, true},
		{"foreign values", foreign, &Foreign{Val: []int{1}}, false},
		{"nil nodes", nil, nil, true},
		{"nil and node", nil, &None{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Errorf("Equal(%s, %s) = %v, want %v", Display(tt.a), Display(tt.b), got, tt.equal)
			}
		})
	}
}

func TestEqualObjects(t *testing.T) {
	s := &Struct{Name: "A", Members: []string{"a"}, Memory: &List{Elems: []Node{theNone}}}
	other := &Struct{Name: "B", Members: []string{"a"}, Memory: &List{Elems: []Node{theNone}}}
	a := &Object{Struct: s, Memory: &List{Elems: []Node{&Integer{Val: 1}}}}
	b := &Object{Struct: s, Memory: &List{Elems: []Node{&Integer{Val: 1}}}}
	c := &Object{Struct: other, Memory: &List{Elems: []Node{&Integer{Val: 1}}}}

	if !Equal(a, b) {
		t.Error("objects of the same struct and memory should be equal")
	}
	if Equal(a, c) {
		t.Error("objects of different structs should not be equal")
	}
}

func valueGen() *rapid.Generator[Node] {
	leaf := rapid.OneOf(
		rapid.Custom(func(t *rapid.T) Node { return &Integer{Val: rapid.Int64().Draw(t, "int")} }),
		rapid.Custom(func(t *rapid.T) Node { return &Real{Val: rapid.Float64Range(-1e9, 1e9).Draw(t, "real")} }),
		rapid.Custom(func(t *rapid.T) Node { return &String{Val: rapid.String().Draw(t, "str")} }),
		rapid.Just[Node](theNone),
		rapid.Just[Node](theNil),
	)
	return rapid.OneOf(
		leaf,
		rapid.Custom(func(t *rapid.T) Node {
			return &List{Elems: rapid.SliceOfN(leaf, 0, 4).Draw(t, "elems")}
		}),
		rapid.Custom(func(t *rapid.T) Node {
			return &Tuple{Elems: rapid.SliceOfN(leaf, 0, 4).Draw(t, "elems")}
		}),
	)
}

func TestEqualIsReflexiveAndSymmetricProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := valueGen().Draw(t, "a")
		b := valueGen().Draw(t, "b")
		if !Equal(a, a) {
			t.Fatalf("Equal(%s, %s) is false", Display(a), Display(a))
		}
		if Equal(a, b) != Equal(b, a) {
			t.Fatalf("Equal is not symmetric for %s and %s", Display(a), Display(b))
		}
	})
}
