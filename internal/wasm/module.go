package wasm

// SectionID identifies a top-level section of a binary module. Wafer only
// ever emits the seven kinds below; table, global, element, start and
// custom/name sections never appear in a compiled Wafer module.
//
// See https://webassembly.github.io/spec/core/binary/modules.html#sections
type SectionID byte

const (
	SectionIDType     SectionID = 1
	SectionIDImport   SectionID = 2
	SectionIDFunction SectionID = 3
	SectionIDMemory   SectionID = 5
	SectionIDExport   SectionID = 7
	SectionIDCode     SectionID = 10
	SectionIDData     SectionID = 11
)

// Module is an in-memory, build-up representation of a WebAssembly 1.0
// binary module. Its builder methods maintain the index spaces the
// lowering pass (internal/lower) depends on: a function declared with
// AddImport or AddFunction keeps the index it's given for the lifetime of
// the module.
//
// Module is not safe for concurrent use; the compiler driver builds one
// per source file and discards it after Encode.
type Module struct {
	types     []FunctionType
	imports   []Import
	funcTypes []Index // funcTypes[i] is the type index of (non-imported) function i
	memory    *MemoryLimits
	exports   []Export
	code      []Code
	data      []DataSegment
}

// NewModule returns an empty module ready for incremental construction.
func NewModule() *Module {
	return &Module{}
}

// internType interns ft into the type section, returning its index. Two
// calls with an equal (params, results) pair always return the same
// index, matching spec's requirement that duplicate signatures not
// duplicate type-section entries.
func (m *Module) internType(ft FunctionType) Index {
	for i, existing := range m.types {
		if existing.equal(ft) {
			return Index(i)
		}
	}
	m.types = append(m.types, ft)
	return Index(len(m.types) - 1)
}

// importModule is the fixed module name every Wafer host import is
// declared under; the language has no syntax to name a different one.
const importModule = "waferImports"

// AddImport declares an imported function under the fixed waferImports
// module with the given name and signature, returning its function
// index. Imported functions occupy the low end of the function index
// space, before any AddFunction calls; callers must add every import
// before the first AddFunction.
func (m *Module) AddImport(name string, sig FunctionType) Index {
	typeIdx := m.internType(sig)
	m.imports = append(m.imports, Import{Module: importModule, Name: name, Type: typeIdx})
	return Index(len(m.imports) - 1)
}

// AddFunction declares a locally-defined function with the given
// signature and body, returning its declaration-order index among user
// functions (0-based, not the global function index). The caller adds
// the import count to get the global index, e.g. when exporting.
func (m *Module) AddFunction(sig FunctionType, body Code) Index {
	typeIdx := m.internType(sig)
	m.funcTypes = append(m.funcTypes, typeIdx)
	m.code = append(m.code, body)
	return Index(len(m.funcTypes) - 1)
}

// GlobalFuncIndex translates a declaration-order user-function index (as
// returned by AddFunction) to its index in the module-wide function
// space, which follows all imports.
func (m *Module) GlobalFuncIndex(userIndex Index) Index {
	return Index(len(m.imports)) + userIndex
}

// SetMemory declares the module's single linear memory, returning its
// memory index (always 0: Wafer never imports memory and never declares
// more than one).
func (m *Module) SetMemory(limits MemoryLimits) Index {
	m.memory = &limits
	return 0
}

// ExportFunction exports the function at funcIndex under name.
func (m *Module) ExportFunction(name string, funcIndex Index) {
	m.exports = append(m.exports, Export{Name: name, Kind: ExportKindFunc, Index: funcIndex})
}

// ExportMemory exports the module's memory (index 0) under name.
func (m *Module) ExportMemory(name string) {
	m.exports = append(m.exports, Export{Name: name, Kind: ExportKindMemory, Index: 0})
}

// AddDataSegment appends an active data segment that, at instantiation,
// copies bytes into the module's memory at the constant offset.
func (m *Module) AddDataSegment(offset int32, bytes []byte) {
	m.data = append(m.data, DataSegment{Memory: 0, Offset: offset, Bytes: bytes})
}

// Types returns the interned function types, in type-section order.
func (m *Module) Types() []FunctionType { return m.types }

// Imports returns the declared imports, in import-section order.
func (m *Module) Imports() []Import { return m.imports }

// FuncTypes returns, for each locally-defined function in declaration
// order, the type index assigned by AddFunction.
func (m *Module) FuncTypes() []Index { return m.funcTypes }

// Memory returns the module's memory limits, or nil if none was set.
func (m *Module) Memory() *MemoryLimits { return m.memory }

// Exports returns the declared exports, in export-section order.
func (m *Module) Exports() []Export { return m.exports }

// Code returns the locally-defined function bodies, in declaration order,
// aligned with FuncTypes.
func (m *Module) Code() []Code { return m.code }

// Data returns the declared data segments, in declaration order.
func (m *Module) Data() []DataSegment { return m.data }
