package binary

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wafer-lang/waferc/internal/wasm"
)

var header = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestEncode_EmptyModule(t *testing.T) {
	require.Equal(t, header, Encode(wasm.NewModule()))
}

func TestEncode_TypeAndFunctionAndCodeSections(t *testing.T) {
	m := wasm.NewModule()
	m.AddFunction(wasm.FunctionType{
		Params:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32},
		Results: []wasm.ValueType{wasm.ValueTypeI32},
	}, wasm.Code{Instructions: []wasm.Instruction{
		wasm.LocalGet(0),
		wasm.LocalGet(1),
		wasm.AddI32(),
		wasm.End(),
	}})

	expected := append([]byte{}, header...)
	expected = append(expected,
		0x01, 0x07, // type section, size 7
		0x01,       // one type
		0x60,       // func
		0x02,       // two params
		0x7f, 0x7f, // i32 i32
		0x01, // one result
		0x7f, // i32
	)
	expected = append(expected,
		0x03, 0x02, // function section, size 2
		0x01, 0x00, // one function, type index 0
	)
	expected = append(expected,
		0x0a, 0x09, // code section, size 9
		0x01,       // one function body
		0x07,       // body size 7
		0x00,       // no local groups
		0x20, 0x00, // local.get 0
		0x20, 0x01, // local.get 1
		0x6a, // i32.add
		0x0b, // end
	)
	require.Equal(t, expected, Encode(m))
}

func TestEncode_DuplicateSignatureIsInterned(t *testing.T) {
	m := wasm.NewModule()
	sig := wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}}
	idxA := m.AddFunction(sig, wasm.Code{Instructions: []wasm.Instruction{wasm.ConstI32(1), wasm.End()}})
	idxB := m.AddFunction(sig, wasm.Code{Instructions: []wasm.Instruction{wasm.ConstI32(2), wasm.End()}})

	require.Len(t, m.Types(), 1, "identical signatures must share one type-section entry")
	require.Equal(t, wasm.Index(0), idxA)
	require.Equal(t, wasm.Index(1), idxB)
	require.Equal(t, []wasm.Index{0, 0}, m.FuncTypes())
}

func TestEncode_ImportSectionOccupiesLowFunctionIndices(t *testing.T) {
	m := wasm.NewModule()
	trapIdx := m.AddImport("trap", wasm.FunctionType{})
	fnIdx := m.AddFunction(wasm.FunctionType{}, wasm.Code{Instructions: []wasm.Instruction{wasm.End()}})

	require.Equal(t, wasm.Index(0), trapIdx)
	require.Equal(t, wasm.Index(0), fnIdx, "declaration-order index, not global")
	require.Equal(t, wasm.Index(1), m.GlobalFuncIndex(fnIdx))

	expected := append([]byte{}, header...)
	expected = append(expected,
		0x01, 0x04, // type section, size 4
		0x01,       // one type
		0x60,       // func
		0x00, 0x00, // no params, no results
	)
	expected = append(expected,
		0x02, 0x15, // import section, size 21
		0x01,                                                             // one import
		0x0c, 'w', 'a', 'f', 'e', 'r', 'I', 'm', 'p', 'o', 'r', 't', 's', // module "waferImports"
		0x04, 't', 'r', 'a', 'p', // name "trap"
		0x00, // import kind: func
		0x00, // type index 0
	)
	expected = append(expected,
		0x03, 0x02, // function section, size 2
		0x01, 0x00, // one function, type index 0
	)
	expected = append(expected,
		0x0a, 0x04, // code section, size 4
		0x01, // one body
		0x02, // body size 2
		0x00, // no local groups
		0x0b, // end
	)
	require.Equal(t, expected, Encode(m))
}

func TestEncode_MemoryAndExportSections(t *testing.T) {
	m := wasm.NewModule()
	m.SetMemory(wasm.MemoryLimits{Min: 1})
	m.ExportMemory("memory")

	expected := append([]byte{}, header...)
	expected = append(expected,
		0x05, 0x03, // memory section, size 3
		0x01,       // one memory
		0x00, 0x01, // no max, min=1
	)
	expected = append(expected,
		0x07, 0x0a, 0x01, // export section: one export
		0x06, 'm', 'e', 'm', 'o', 'r', 'y', // name "memory"
		0x02, // export kind: memory
		0x00, // index 0
	)
	require.Equal(t, expected, Encode(m))
}

func TestEncode_MemoryWithMax(t *testing.T) {
	max := uint32(4)
	m := wasm.NewModule()
	m.SetMemory(wasm.MemoryLimits{Min: 1, Max: &max})

	expected := append([]byte{}, header...)
	expected = append(expected, 0x05, 0x04, 0x01, 0x01, 0x01, 0x04) // one memory, flag=1, min=1, max=4
	require.Equal(t, expected, Encode(m))
}

func TestEncode_DataSection(t *testing.T) {
	m := wasm.NewModule()
	m.SetMemory(wasm.MemoryLimits{Min: 1})
	m.AddDataSegment(0, []byte("hi"))

	expected := append([]byte{}, header...)
	expected = append(expected, 0x05, 0x03, 0x01, 0x00, 0x01) // memory section
	expected = append(expected,
		0x0b, 0x08, 0x01, // data section, size 8: one segment
		0x00,             // memory index 0
		0x41, 0x00, 0x0b, // i32.const 0, end
		0x02, 'h', 'i', // byte vector
	)
	require.Equal(t, expected, Encode(m))
}

func TestEncode_OmitsEmptySections(t *testing.T) {
	m := wasm.NewModule()
	m.SetMemory(wasm.MemoryLimits{Min: 0})

	expected := append([]byte{}, header...)
	expected = append(expected, 0x05, 0x03, 0x01, 0x00, 0x00) // memory section only
	require.Equal(t, expected, Encode(m))
}
