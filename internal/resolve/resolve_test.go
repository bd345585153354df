package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wafer-lang/waferc/internal/parser"
)

func TestResolve_LocalIndexing(t *testing.T) {
	m := parser.Parse(`func main(x, y) { let z = 0; z }`)
	r := Resolve(m)
	syms := r.Symbols["main"]

	require.Equal(t, uint32(0), syms.Lookup("x").Index)
	require.Equal(t, uint32(1), syms.Lookup("y").Index)
	require.Equal(t, uint32(2), syms.Lookup("z").Index)
	require.Equal(t, Parameter, syms.Lookup("x").Kind)
	require.Equal(t, Local, syms.Lookup("z").Kind)
}

func TestResolve_FuncIndex_ImportsBeforeUserFunctions(t *testing.T) {
	m := parser.Parse(`
		extern func add(a, b);
		func helper() { 1 }
		func main() { 1 }
	`)
	r := Resolve(m)
	require.Equal(t, uint32(0), r.FuncIndex["add"])
	require.Equal(t, uint32(1), r.FuncIndex["helper"])
	require.Equal(t, uint32(2), r.FuncIndex["main"])
}

func TestResolve_ArrayAssignmentAddsTempOnce(t *testing.T) {
	m := parser.Parse(`func main() { __mem[0] := 1; __mem[1] := 2; 0 }`)
	r := Resolve(m)
	syms := r.Symbols["main"]
	require.True(t, syms.HasTemp())
	require.Len(t, syms.Locals(), 1)
}

func TestResolve_NoTempWithoutArrayAssignment(t *testing.T) {
	m := parser.Parse(`func main() { let x = 1; x }`)
	r := Resolve(m)
	require.False(t, r.Symbols["main"].HasTemp())
}

func TestStringTable_Offsets(t *testing.T) {
	m := parser.Parse(`func main() { let a = "foo"; let b = "bar"; 0 }`)
	r := Resolve(m)

	fooOffset := r.Strings.Offset("foo")
	barOffset := r.Strings.Offset("bar")
	require.Equal(t, int32(0), fooOffset)
	require.Equal(t, int32(4+4*3), barOffset) // 4-byte length + 4 bytes per rune
	require.Equal(t, r.Strings.Len(), barOffset+int32(4+4*3))
}

func TestStringTable_DeduplicatesLiterals(t *testing.T) {
	m := parser.Parse(`func main() { let a = "foo"; let b = "foo"; 0 }`)
	r := Resolve(m)
	require.Equal(t, r.Strings.Offset("foo"), r.Strings.Offset("foo"))
	require.Len(t, r.Strings.Bytes(), 4+4*3)
}
