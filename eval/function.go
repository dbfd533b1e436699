package eval

import (
	"avm/trace"
	"avm/types"

	"github.com/golang/glog"
)

// Clause is one equation of a multi-clause function: the formal pattern and
// the statements run when the argument matches it
type Clause struct {
	Pattern types.Node
	Body    []Statement
}

// ClauseBody builds the native implementation of a user function. Clauses
// are tried in order; a PatternMatchFailed from the formal pattern moves on
// to the next clause. The function's value is that of its last statement.
func ClauseBody(name string, clauses []Clause) NativeFunc {
	return func(arg types.Node, st *State) (types.Node, error) {
		for i, c := range clauses {
			bindings, err := st.Unify(arg, c.Pattern, true)
			if err != nil {
				if isPatternMatchFailed(err) {
					trace.Clause(name, i, c.Pattern, false)
					continue
				}
				return nil, err
			}
			trace.Clause(name, i, c.Pattern, true)
			if err := st.DeclareUnifiers(bindings); err != nil {
				return nil, err
			}
			return st.execBlock(c.Body)
		}
		return nil, raise(types.ValueError,
			"none of the function bodies of %s unified with the actual parameter %s", name, types.Display(arg))
	}
}

// DefineFunction registers a multi-clause function under bodyID. With
// CheckRedundancy set, a clause already covered by an earlier one is
// rejected with RedundantPatternFound.
func (st *State) DefineFunction(bodyID string, clauses []Clause) error {
	if st.CheckRedundancy {
		if err := st.CheckClauses(bodyID, clauses); err != nil {
			return err
		}
	}
	st.Register(bodyID, ClauseBody(bodyID, clauses))
	return nil
}

// CheckClauses runs the subsumption check over every ordered clause pair
func (st *State) CheckClauses(name string, clauses []Clause) error {
	for j := 1; j < len(clauses); j++ {
		for i := 0; i < j; i++ {
			_, err := st.Unify(clauses[j].Pattern, clauses[i].Pattern, false)
			if err == nil {
				return raise(types.RedundantPatternFound,
					"function %s: clause %d (%s) is unreachable, clause %d (%s) already matches it",
					name, j, types.Display(clauses[j].Pattern), i, types.Display(clauses[i].Pattern))
			}
			if !isPatternMatchFailed(err) && bool(glog.V(2)) {
				glog.Infof("redundancy check of %s clauses %d/%d skipped: %v", name, i, j, err)
			}
		}
	}
	return nil
}
