package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var wasmHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestCompile_OutputStartsWithWasmHeader(t *testing.T) {
	for _, src := range []string{
		`func main() { 123 }`,
		`func main() { 123 + 456 }`,
		`extern func add(a, b); func main() { add(1, 2) }`,
		`func main() { __mem[0] := 64; __mem[0] }`,
	} {
		out := Compile(src)
		require.True(t, len(out) >= 8)
		require.Equal(t, wasmHeader, out[:8])
	}
}

func TestCompile_IsIdempotent(t *testing.T) {
	src := `func main() { let x = 13; let y = 15; x := 10; x + y }`
	require.Equal(t, Compile(src), Compile(src))
}

func TestCompile_RecursiveFibonacci(t *testing.T) {
	src := `
		func fib(n) {
			if n < 2 {
				n
			} else {
				fib(n - 1) + fib(n - 2)
			}
		}
		public func main() {
			fib(10)
		}
	`
	out := Compile(src)
	require.Equal(t, wasmHeader, out[:8])
}

func TestCompile_LoopFibonacci(t *testing.T) {
	src := `
		public func main() {
			let a = 0;
			let b = 1;
			let i = 0;
			while i < 10 {
				let next = a + b;
				a := b;
				b := next;
				i := i + 1;
			}
			a
		}
	`
	out := Compile(src)
	require.Equal(t, wasmHeader, out[:8])
}

func TestCompile_MalformedSourcePanics(t *testing.T) {
	require.Panics(t, func() { Compile(`func main( { }`) })
}

func TestCompile_UnknownFunctionPanics(t *testing.T) {
	require.Panics(t, func() { Compile(`func main() { ghost(1) }`) })
}

func TestCompile_PublicFunctionIsExported(t *testing.T) {
	out := Compile(`public func main() { 1 }`)
	require.Contains(t, string(out), "main")
	require.Contains(t, string(out), waferMemoryExportName)
}

func TestCompile_StringLiteralRoundTrip(t *testing.T) {
	out := Compile(`func main() { let a = "foo"; let b = "bar"; 0 }`)
	require.Equal(t, wasmHeader, out[:8])
	// Both literals land, in order, in the strings data segment, each as a
	// 4-byte length followed by one 4-byte code unit per character.
	require.Contains(t, string(out),
		"\x03\x00\x00\x00f\x00\x00\x00o\x00\x00\x00o\x00\x00\x00"+
			"\x03\x00\x00\x00b\x00\x00\x00a\x00\x00\x00r\x00\x00\x00")
}
