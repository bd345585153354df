package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModule_AddFunction_AssignsSequentialIndices(t *testing.T) {
	m := NewModule()
	sig := FunctionType{Results: []ValueType{ValueTypeI32}}
	first := m.AddFunction(sig, Code{})
	second := m.AddFunction(sig, Code{})

	require.Equal(t, Index(0), first)
	require.Equal(t, Index(1), second)
}

func TestModule_AddImport_PrecedesLocalFunctions(t *testing.T) {
	m := NewModule()
	importIdx := m.AddImport("trap", FunctionType{})
	localIdx := m.AddFunction(FunctionType{}, Code{})

	require.Equal(t, Index(0), importIdx)
	require.Equal(t, Index(0), localIdx, "AddFunction returns a declaration-order index, not the global one")
	require.Equal(t, Index(1), m.GlobalFuncIndex(localIdx))
}

func TestModule_InternType_DistinctSignaturesGetDistinctIndices(t *testing.T) {
	m := NewModule()
	m.AddFunction(FunctionType{Results: []ValueType{ValueTypeI32}}, Code{})
	m.AddFunction(FunctionType{Params: []ValueType{ValueTypeI32}}, Code{})

	require.Len(t, m.Types(), 2)
}

func TestFunctionType_Equal(t *testing.T) {
	a := FunctionType{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}}
	b := FunctionType{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}}
	c := FunctionType{Params: []ValueType{ValueTypeI32}}

	require.True(t, a.equal(b))
	require.False(t, a.equal(c))
}

func TestModule_ExportFunctionAndMemory(t *testing.T) {
	m := NewModule()
	fnIdx := m.AddFunction(FunctionType{}, Code{})
	m.ExportFunction("main", fnIdx)
	m.SetMemory(MemoryLimits{Min: 1})
	m.ExportMemory("memory")

	require.Equal(t, []Export{
		{Name: "main", Kind: ExportKindFunc, Index: fnIdx},
		{Name: "memory", Kind: ExportKindMemory, Index: 0},
	}, m.Exports())
}
