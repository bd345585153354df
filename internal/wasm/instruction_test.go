package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInstruction_Encode(t *testing.T) {
	i32 := ValueTypeI32
	for name, c := range map[string]struct {
		instr    Instruction
		expected []byte
	}{
		"unreachable":    {Unreachable(), []byte{0x00}},
		"end":            {End(), []byte{0x0b}},
		"drop":           {Drop(), []byte{0x1a}},
		"add i32":        {AddI32(), []byte{0x6a}},
		"loop no result": {Loop(nil), []byte{0x03, 0x40}},
		"loop i32":       {Loop(&i32), []byte{0x03, 0x7f}},
		"if no result":   {If(nil), []byte{0x04, 0x40}},
		"br 2":           {Break(2), []byte{0x0c, 0x02}},
		"call 300":       {Call(300), []byte{0x10, 0xac, 0x02}},
		"local.get 1":    {LocalGet(1), []byte{0x20, 0x01}},
		"local.set 1":    {LocalSet(1), []byte{0x21, 0x01}},
		"local.tee 1":    {LocalTee(1), []byte{0x22, 0x01}},
		"i32.load":       {LoadI32(2, 0), []byte{0x28, 0x02, 0x00}},
		"i32.store":      {StoreI32(2, 4), []byte{0x36, 0x02, 0x04}},
		"i32.const -1":   {ConstI32(-1), []byte{0x41, 0x7f}},
		"i32.const 128":  {ConstI32(128), []byte{0x41, 0x80, 0x01}},
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, c.expected, c.instr.Encode())
		})
	}
}
