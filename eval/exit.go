package eval

import (
	"avm/types"
	"fmt"
	"io"
)

// exceptionShape is the pattern Exception(kind, val) used to render
// uncaught exceptions
var exceptionShape = &types.Apply{
	Func: &types.ID{Name: types.ExceptionStruct.Name},
	Arg: &types.Tuple{Elems: []types.Node{
		&types.ID{Name: "kind"},
		&types.ID{Name: "val"},
	}},
}

// Exit reports an uncaught error on w and returns the process exit code:
// 0 for nil, 1 otherwise
func (st *State) Exit(err error, w io.Writer) int {
	if err == nil {
		return 0
	}

	exc, ok := types.AsException(err)
	if !ok {
		fmt.Fprintf(w, "ERROR: %v\n", err)
		return 1
	}

	line := st.Line
	if exc.Line != nil {
		line = *exc.Line
	}

	bindings, uerr := st.Unify(exc.Value, exceptionShape, true)
	if uerr != nil {
		fmt.Fprintf(w, "ERROR: Unknown Error Type: %s%s\n", types.Display(exc.Value), location(line))
		return 1
	}

	var kind, val types.Node
	for _, b := range bindings {
		switch b.Pattern.(*types.ID).Name {
		case "kind":
			kind = b.Term
		case "val":
			val = b.Term
		}
	}
	fmt.Fprintf(w, "ERROR: %s: %s%s\n", types.Display(kind), types.Display(val), location(line))
	return 1
}

func location(line types.LineInfo) string {
	if line.Module == "" && line.Line == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s:%d)", line.Module, line.Line)
}
