package types

import "testing"

func TestTruthy(t *testing.T) {
	obj := &Object{Struct: ExceptionStruct, Memory: &List{}}

	tests := []struct {
		node   Node
		truthy bool
	}{
		{&Integer{Val: 0}, false},
		{&Integer{Val: -3}, true},
		{&Real{Val: 0}, false},
		{&Real{Val: 0.1}, true},
		{&Bool{Val: false}, false},
		{&Bool{Val: true}, true},
		{&String{Val: ""}, false},
		{&String{Val: "0"}, true},
		{&None{}, false},
		{&Nil{}, false},
		{&List{}, false},
		{&List{Elems: []Node{theNone}}, true},
		{&Tuple{}, false},
		{&Tuple{Elems: []Node{theNone}}, true},
		{obj, true},
		{&FunctionVal{Body: "f"}, true},
	}

	for _, tt := range tests {
		if got := Truthy(tt.node); got != tt.truthy {
			t.Errorf("Truthy(%s) = %v, want %v", Display(tt.node), got, tt.truthy)
		}
	}
}
