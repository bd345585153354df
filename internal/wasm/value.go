// Package wasm defines a typed, in-memory model of the WebAssembly 1.0
// binary format: value types, instructions, sections and a module
// assembler. Each type in this package knows how to encode itself to
// bytes; see the sibling binary package for the top-level Encode entry
// point.
package wasm

// ValueType describes a numeric type used in WebAssembly 1.0. Wafer only
// ever produces i32 values — locals, parameters, results and memory cells
// are all i32 — but the type remains an enumeration (rather than a bare
// constant) so the encoder has a single, extensible place to translate a
// type to its binary representation.
//
// See https://webassembly.github.io/spec/core/binary/types.html#value-types
type ValueType byte

const (
	// ValueTypeI32 is the 32-bit integer type, encoded as 0x7f.
	ValueTypeI32 ValueType = 0x7f
)

// Encode returns the single byte that represents t in the binary format.
func (t ValueType) Encode() byte {
	return byte(t)
}

// String returns the WebAssembly text-format name of t.
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	default:
		return "unknown"
	}
}
