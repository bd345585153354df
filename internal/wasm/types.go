package wasm

// FunctionType is an ordered pair of parameter and result value types.
// Function types are interned inside a Module's type section: adding the
// same (params, results) pair twice returns the index already assigned to
// it.
//
// See https://webassembly.github.io/spec/core/binary/types.html#function-types
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// equal reports whether t and other describe the same signature.
func (t FunctionType) equal(other FunctionType) bool {
	if len(t.Params) != len(other.Params) || len(t.Results) != len(other.Results) {
		return false
	}
	for i, p := range t.Params {
		if p != other.Params[i] {
			return false
		}
	}
	for i, r := range t.Results {
		if r != other.Results[i] {
			return false
		}
	}
	return true
}

// Index is a position in one of a module's index spaces (types,
// functions, memories).
type Index = uint32

// Import describes a single imported function. Wafer only imports
// functions (no tables, memories or globals are ever imported), so the
// descriptor is always a type index.
type Import struct {
	Module string
	Name   string
	Type   Index // index into the module's type section
}

// ExportKind distinguishes what an export descriptor refers to.
type ExportKind byte

const (
	ExportKindFunc   ExportKind = 0x00
	ExportKindMemory ExportKind = 0x02
)

// Export names a function or memory from the module's index space.
type Export struct {
	Name  string
	Kind  ExportKind
	Index Index
}

// MemoryLimits is the minimum (and optional maximum) page count of a
// linear memory. A page is 64 KiB.
type MemoryLimits struct {
	Min uint32
	Max *uint32
}

// DataSegment is an active data segment: at instantiation time, Bytes is
// copied into linear memory Memory at the constant offset Offset.
type DataSegment struct {
	Memory Index
	Offset int32
	Bytes  []byte
}

// Code is a single function body: its locals, grouped into runs of
// (count, type), followed by its lowered instruction stream.
type Code struct {
	Locals       []LocalGroup
	Instructions []Instruction
}

// LocalGroup is one run in a function's locals declaration: Count
// contiguous locals of type Type.
type LocalGroup struct {
	Count uint32
	Type  ValueType
}
