package eval

import (
	"avm/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func structDef(name string, members ...types.Node) Statement {
	return Statement{Struct: &StructDef{Name: name, Members: members}}
}

func data(name string) types.Node { return &types.Data{Value: id(name)} }

func member(name string, value types.Node) types.Node {
	return &types.Unify{Term: value, Pattern: id(name)}
}

func TestStructRoundTrip(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Run([]Statement{
		structDef("A", data("a"), data("b")),
		let(id("obj"), apply(id("A"), tuple(num(1), num(2)))),
	})
	require.NoError(t, err)

	v, _ := st.Lookup("obj")
	obj, ok := v.(*types.Object)
	require.True(t, ok)
	assert.Equal(t, "A", obj.StructName())
	assert.Equal(t, "[1,2]", types.Display(obj.Memory))

	_, err = st.Exec(let(index(id("obj"), id("b")), num(4)))
	require.NoError(t, err)
	assert.Equal(t, "[1,4]", types.Display(obj.Memory))

	got, err := st.Walk(index(id("obj"), id("a")))
	require.NoError(t, err)
	assert.Equal(t, "1", types.Display(got))
}

func TestObjectsHaveIndependentMemory(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Run([]Statement{
		structDef("P", data("x"), member("y", num(0))),
		let(id("p"), apply(id("P"), tuple(num(1), num(2)))),
		let(id("q"), apply(id("P"), tuple(num(3), num(4)))),
		let(index(id("p"), id("y")), num(9)),
	})
	require.NoError(t, err)

	p, _ := st.Lookup("p")
	q, _ := st.Lookup("q")
	s, _ := st.Lookup("P")
	assert.Equal(t, "P(1,9)", types.Display(p))
	assert.Equal(t, "P(3,4)", types.Display(q))
	assert.Equal(t, "[none,0]", types.Display(s.(*types.Struct).Memory))
}

func TestDefaultConstructorArity(t *testing.T) {
	tests := []struct {
		name string
		arg  types.Node
		ok   bool
	}{
		{"exact", tuple(num(1), num(2)), true},
		{"pair", &types.Pair{First: num(1), Second: num(2)}, true},
		{"too few", num(1), false},
		{"too many", tuple(num(1), num(2), num(3)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, _ := newTestState()
			_, err := st.Run([]Statement{
				structDef("A", data("a"), data("b")),
				do(apply(id("A"), tt.arg)),
			})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				requireKind(t, err, types.ValueError)
			}
		})
	}
}

func TestSingleSlotConstructor(t *testing.T) {
	st, _ := newTestState()
	v, err := st.Run([]Statement{
		structDef("Box", data("v")),
		do(apply(id("Box"), list(num(1), num(2)))),
	})
	require.NoError(t, err)
	assert.Equal(t, "Box([1,2])", types.Display(v))

	v, err = st.Run([]Statement{
		structDef("Unit"),
		do(apply(id("Unit"), &types.None{})),
	})
	require.NoError(t, err)
	assert.Equal(t, types.KindObject, v.Kind())
}

func TestMethodsBindThis(t *testing.T) {
	st, _ := newTestState()
	require.NoError(t, st.DefineFunction("counter_inc", []Clause{
		{Pattern: id("by"), Body: []Statement{
			let(index(id("this"), id("n")), op("__plus__", index(id("this"), id("n")), id("by"))),
			do(index(id("this"), id("n"))),
		}},
	}))

	v, err := st.Run([]Statement{
		structDef("Counter", data("n"), member("inc", &types.Function{Body: "counter_inc"})),
		let(id("c"), apply(id("Counter"), num(10))),
		do(apply(index(id("c"), id("inc")), num(5))),
		do(apply(index(id("c"), id("inc")), num(1))),
	})
	require.NoError(t, err)
	assert.Equal(t, "16", types.Display(v))

	// Reading a method yields a bound method value
	m, err := st.Walk(index(id("c"), id("inc")))
	require.NoError(t, err)
	bound, ok := m.(*types.MemberFunctionVal)
	require.True(t, ok)
	c, _ := st.Lookup("c")
	assert.Same(t, c, bound.Arg)

	v, err = st.Apply(bound, num(4))
	require.NoError(t, err)
	assert.Equal(t, "20", types.Display(v))
}

func TestInitMethod(t *testing.T) {
	st, _ := newTestState()
	require.NoError(t, st.DefineFunction("point_init", []Clause{
		{Pattern: id("v"), Body: []Statement{
			let(index(id("this"), id("x")), id("v")),
			let(index(id("this"), id("y")), op("__times__", id("v"), num(2))),
		}},
	}))

	v, err := st.Run([]Statement{
		structDef("Point", data("x"), data("y"), member("__init__", &types.Function{Body: "point_init"})),
		do(apply(id("Point"), num(3))),
	})
	require.NoError(t, err)
	assert.Equal(t, "Point(3,6)", types.Display(v))
}

func TestBuildStructErrors(t *testing.T) {
	st, _ := newTestState()

	_, err := st.BuildStruct("A", []types.Node{data("a"), data("a")})
	requireKind(t, err, types.ValueError)

	_, err = st.BuildStruct("A", []types.Node{&types.Data{Value: num(1)}})
	requireKind(t, err, types.VMError)

	_, err = st.BuildStruct("A", []types.Node{num(1)})
	requireKind(t, err, types.VMError)

	_, err = st.BuildStruct("A", []types.Node{member("a", id("undefined"))})
	requireKind(t, err, types.ValueError)
}

func TestMemberAccessErrors(t *testing.T) {
	st, _ := newTestState()
	_, err := st.Run([]Statement{
		structDef("A", data("a")),
		let(id("obj"), apply(id("A"), num(1))),
	})
	require.NoError(t, err)

	_, err = st.Walk(index(id("obj"), id("missing")))
	requireKind(t, err, types.ValueError)

	_, err = st.Exec(let(index(id("obj"), id("missing")), num(1)))
	requireKind(t, err, types.ValueError)

	v, err := st.Walk(index(id("obj"), str("a")))
	require.NoError(t, err)
	assert.Equal(t, "1", types.Display(v))
}
