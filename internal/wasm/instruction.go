package wasm

import "github.com/wafer-lang/waferc/internal/leb128"

// Opcode bytes for the subset of the WebAssembly 1.0 stack machine that
// Wafer's lowering pass emits.
//
// See https://webassembly.github.io/spec/core/binary/instructions.html
const (
	OpcodeUnreachable byte = 0x00
	OpcodeLoop        byte = 0x03
	OpcodeIf          byte = 0x04
	OpcodeElse        byte = 0x05
	OpcodeEnd         byte = 0x0b
	OpcodeBr          byte = 0x0c
	OpcodeCall        byte = 0x10
	OpcodeDrop        byte = 0x1a
	OpcodeLocalGet    byte = 0x20
	OpcodeLocalSet    byte = 0x21
	OpcodeLocalTee    byte = 0x22
	OpcodeI32Load     byte = 0x28
	OpcodeI32Store    byte = 0x36
	OpcodeI32Const    byte = 0x41
	OpcodeI32Eq       byte = 0x46
	OpcodeI32Ne       byte = 0x47
	OpcodeI32LtS      byte = 0x48
	OpcodeI32GtS      byte = 0x4a
	OpcodeI32LeS      byte = 0x4c
	OpcodeI32GeS      byte = 0x4e
	OpcodeI32Add      byte = 0x6a
	OpcodeI32Sub      byte = 0x6b
	OpcodeI32Mul      byte = 0x6c
	OpcodeI32DivS     byte = 0x6d
	OpcodeI32And      byte = 0x71
	OpcodeI32Or       byte = 0x72

	// blockTypeEmpty marks a control instruction ("Loop"/"If") as not
	// producing a value onto the stack.
	blockTypeEmpty byte = 0x40
)

// Instruction is a single WebAssembly stack-machine instruction, able to
// encode itself to its byte-exact binary representation. The lowering
// pass (internal/lower) appends these to a per-function buffer; the
// module assembler concatenates their encodings verbatim into the code
// section.
type Instruction interface {
	Encode() []byte
}

// op0 is a bare opcode with no operands: Unreachable, Else, End, Drop,
// and every i32 binary/comparison operator.
type op0 byte

func (o op0) Encode() []byte { return []byte{byte(o)} }

func Unreachable() Instruction { return op0(OpcodeUnreachable) }
func ElseOp() Instruction      { return op0(OpcodeElse) }
func End() Instruction         { return op0(OpcodeEnd) }
func Drop() Instruction        { return op0(OpcodeDrop) }
func AddI32() Instruction      { return op0(OpcodeI32Add) }
func SubI32() Instruction      { return op0(OpcodeI32Sub) }
func MulI32() Instruction      { return op0(OpcodeI32Mul) }
func DivSI32() Instruction     { return op0(OpcodeI32DivS) }
func EqI32() Instruction       { return op0(OpcodeI32Eq) }
func NeI32() Instruction       { return op0(OpcodeI32Ne) }
func LtSI32() Instruction      { return op0(OpcodeI32LtS) }
func LeSI32() Instruction      { return op0(OpcodeI32LeS) }
func GtSI32() Instruction      { return op0(OpcodeI32GtS) }
func GeSI32() Instruction      { return op0(OpcodeI32GeS) }
func AndI32() Instruction      { return op0(OpcodeI32And) }
func OrI32() Instruction       { return op0(OpcodeI32Or) }

// blockInstruction is Loop or If, each optionally producing an i32 result.
type blockInstruction struct {
	op     byte
	result *ValueType
}

func (b blockInstruction) Encode() []byte {
	if b.result == nil {
		return []byte{b.op, blockTypeEmpty}
	}
	return []byte{b.op, b.result.Encode()}
}

// Loop opens a loop block. ret is nil for a statement loop (Wafer's while
// lowering never produces a value).
func Loop(ret *ValueType) Instruction { return blockInstruction{OpcodeLoop, ret} }

// If opens an if block. ret is non-nil only when lowering an if
// *expression*, which must leave exactly one i32 value on the stack.
func If(ret *ValueType) Instruction { return blockInstruction{OpcodeIf, ret} }

// indexInstruction carries a single LEB128-encoded unsigned operand:
// Break's relative depth, Call's function index, or a local index.
type indexInstruction struct {
	op    byte
	index uint32
}

func (i indexInstruction) Encode() []byte {
	return append([]byte{i.op}, leb128.EncodeUint32(i.index)...)
}

func Break(depth uint32) Instruction     { return indexInstruction{OpcodeBr, depth} }
func Call(funcIndex uint32) Instruction  { return indexInstruction{OpcodeCall, funcIndex} }
func LocalGet(index uint32) Instruction { return indexInstruction{OpcodeLocalGet, index} }
func LocalSet(index uint32) Instruction { return indexInstruction{OpcodeLocalSet, index} }
func LocalTee(index uint32) Instruction { return indexInstruction{OpcodeLocalTee, index} }

// memInstruction is LoadI32/StoreI32: opcode followed by LEB128 align
// then LEB128 offset, both unsigned.
type memInstruction struct {
	op     byte
	align  uint32
	offset uint32
}

func (m memInstruction) Encode() []byte {
	out := []byte{m.op}
	out = append(out, leb128.EncodeUint32(m.align)...)
	out = append(out, leb128.EncodeUint32(m.offset)...)
	return out
}

// LoadI32 reads a 4-byte value from linear memory. align is the log2 of
// the natural alignment (2 for 4-byte accesses).
func LoadI32(align, offset uint32) Instruction { return memInstruction{OpcodeI32Load, align, offset} }

// StoreI32 writes a 4-byte value to linear memory.
func StoreI32(align, offset uint32) Instruction {
	return memInstruction{OpcodeI32Store, align, offset}
}

// constI32 is ConstI32: opcode followed by a signed LEB128 literal.
type constI32 int32

func (c constI32) Encode() []byte {
	return append([]byte{OpcodeI32Const}, leb128.EncodeInt32(int32(c))...)
}

// ConstI32 pushes a literal i32 value. v must fit in a signed 32-bit
// range; the front end rejects out-of-range literals before this is
// reached (see internal/parser).
func ConstI32(v int32) Instruction { return constI32(v) }
