package builtins

import (
	"avm/eval"
	"avm/types"
	"fmt"
)

// builtinPrint writes the display form of x without a newline
// print(x) -> none
func builtinPrint(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	fmt.Fprint(st.Stdout, types.Display(x))
	return st.Arena.None(), nil
}

// builtinPrintln writes the display form of x and a newline
// println(x) -> none
func builtinPrintln(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(st.Stdout, types.Display(x))
	return st.Arena.None(), nil
}

// builtinRaise raises x as an exception. Exception objects keep their kind;
// any other value is raised as is.
// raise(x) -> never returns
func builtinRaise(_ types.Node, st *eval.State) (types.Node, error) {
	x, err := formal(st, "x")
	if err != nil {
		return nil, err
	}
	return nil, types.Raise(x)
}
