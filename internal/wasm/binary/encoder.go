// Package binary serializes an in-memory wasm.Module to the WebAssembly
// 1.0 binary format: the magic header, followed by sections in strictly
// ascending ID order, each length-prefixed and vector-encoded per the
// core specification.
//
// See https://webassembly.github.io/spec/core/binary/modules.html
package binary

import (
	"github.com/wafer-lang/waferc/internal/leb128"
	"github.com/wafer-lang/waferc/internal/wasm"
)

var (
	magic   = []byte{0x00, 0x61, 0x73, 0x6d}
	version = []byte{0x01, 0x00, 0x00, 0x00}
)

// Encode serializes m to a complete WebAssembly binary module. Sections
// with no content (no imports, no data segments, and so on) are omitted
// entirely, per the format's "sections are optional" rule.
func Encode(m *wasm.Module) []byte {
	out := make([]byte, 0, 256)
	out = append(out, magic...)
	out = append(out, version...)

	if types := m.Types(); len(types) > 0 {
		out = append(out, section(wasm.SectionIDType, encodeTypeSection(types))...)
	}
	if imports := m.Imports(); len(imports) > 0 {
		out = append(out, section(wasm.SectionIDImport, encodeImportSection(imports))...)
	}
	if funcTypes := m.FuncTypes(); len(funcTypes) > 0 {
		out = append(out, section(wasm.SectionIDFunction, encodeFunctionSection(funcTypes))...)
	}
	if mem := m.Memory(); mem != nil {
		out = append(out, section(wasm.SectionIDMemory, encodeMemorySection(*mem))...)
	}
	if exports := m.Exports(); len(exports) > 0 {
		out = append(out, section(wasm.SectionIDExport, encodeExportSection(exports))...)
	}
	if code := m.Code(); len(code) > 0 {
		out = append(out, section(wasm.SectionIDCode, encodeCodeSection(code))...)
	}
	if data := m.Data(); len(data) > 0 {
		out = append(out, section(wasm.SectionIDData, encodeDataSection(data))...)
	}
	return out
}

// section frames content with its ID byte and LEB128 byte length.
func section(id wasm.SectionID, content []byte) []byte {
	out := make([]byte, 0, len(content)+5)
	out = append(out, byte(id))
	out = append(out, leb128.EncodeUint32(uint32(len(content)))...)
	return append(out, content...)
}

// vector prefixes n items with their LEB128 count. Callers append the
// items themselves.
func vectorPrefix(n int) []byte {
	return leb128.EncodeUint32(uint32(n))
}

func encodeName(s string) []byte {
	out := vectorPrefix(len(s))
	return append(out, s...)
}

const functionTypeTag byte = 0x60

func encodeTypeSection(types []wasm.FunctionType) []byte {
	out := vectorPrefix(len(types))
	for _, ft := range types {
		out = append(out, functionTypeTag)
		out = append(out, vectorPrefix(len(ft.Params))...)
		for _, p := range ft.Params {
			out = append(out, p.Encode())
		}
		out = append(out, vectorPrefix(len(ft.Results))...)
		for _, r := range ft.Results {
			out = append(out, r.Encode())
		}
	}
	return out
}

const importKindFunc byte = 0x00

func encodeImportSection(imports []wasm.Import) []byte {
	out := vectorPrefix(len(imports))
	for _, im := range imports {
		out = append(out, encodeName(im.Module)...)
		out = append(out, encodeName(im.Name)...)
		out = append(out, importKindFunc)
		out = append(out, leb128.EncodeUint32(im.Type)...)
	}
	return out
}

func encodeFunctionSection(funcTypes []wasm.Index) []byte {
	out := vectorPrefix(len(funcTypes))
	for _, t := range funcTypes {
		out = append(out, leb128.EncodeUint32(t)...)
	}
	return out
}

func encodeMemorySection(limits wasm.MemoryLimits) []byte {
	out := vectorPrefix(1)
	return append(out, encodeLimits(limits)...)
}

func encodeLimits(limits wasm.MemoryLimits) []byte {
	if limits.Max == nil {
		out := []byte{0x00}
		return append(out, leb128.EncodeUint32(limits.Min)...)
	}
	out := []byte{0x01}
	out = append(out, leb128.EncodeUint32(limits.Min)...)
	out = append(out, leb128.EncodeUint32(*limits.Max)...)
	return out
}

func encodeExportSection(exports []wasm.Export) []byte {
	out := vectorPrefix(len(exports))
	for _, e := range exports {
		out = append(out, encodeName(e.Name)...)
		out = append(out, byte(e.Kind))
		out = append(out, leb128.EncodeUint32(e.Index)...)
	}
	return out
}

// encodeCodeSection encodes each function body as its own length-prefixed
// entry. Bodies are expected to already end with an explicit End
// instruction (0x0b); the lowering pass is responsible for appending it.
func encodeCodeSection(codes []wasm.Code) []byte {
	out := vectorPrefix(len(codes))
	for _, c := range codes {
		body := encodeFunctionBody(c)
		out = append(out, leb128.EncodeUint32(uint32(len(body)))...)
		out = append(out, body...)
	}
	return out
}

func encodeFunctionBody(c wasm.Code) []byte {
	out := vectorPrefix(len(c.Locals))
	for _, g := range c.Locals {
		out = append(out, leb128.EncodeUint32(g.Count)...)
		out = append(out, g.Type.Encode())
	}
	for _, instr := range c.Instructions {
		out = append(out, instr.Encode()...)
	}
	return out
}

func encodeDataSection(segments []wasm.DataSegment) []byte {
	out := vectorPrefix(len(segments))
	for _, d := range segments {
		out = append(out, leb128.EncodeUint32(d.Memory)...)
		// Active data segments carry a constant i32 offset expression,
		// terminated like any other expression by an explicit End opcode.
		out = append(out, wasm.ConstI32(d.Offset).Encode()...)
		out = append(out, wasm.OpcodeEnd)
		out = append(out, vectorPrefix(len(d.Bytes))...)
		out = append(out, d.Bytes...)
	}
	return out
}
