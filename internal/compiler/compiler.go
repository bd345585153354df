// Package compiler is the top-level driver: it concatenates the prelude
// with user source, runs the front end, and assembles the final
// WebAssembly binary module. Compile is a pure function of its input — no
// I/O, no process-wide mutation — so concurrent calls on distinct inputs
// never interfere.
package compiler

import (
	_ "embed"

	"go.uber.org/zap"

	"github.com/wafer-lang/waferc/internal/ast"
	"github.com/wafer-lang/waferc/internal/compileerr"
	"github.com/wafer-lang/waferc/internal/lower"
	"github.com/wafer-lang/waferc/internal/parser"
	"github.com/wafer-lang/waferc/internal/resolve"
	"github.com/wafer-lang/waferc/internal/telemetry"
	"github.com/wafer-lang/waferc/internal/wasm"
	"github.com/wafer-lang/waferc/internal/wasm/binary"
)

//go:embed prelude.wafer
var prelude string

// CompileError is re-exported so callers at the process boundary don't
// need to import internal/compileerr directly to type-switch on it.
type CompileError = compileerr.CompileError

// memoryMinPages is the minimum linear memory size the driver allocates:
// one 64 KiB page.
const memoryMinPages = 1

// waferMemoryExportName is the fixed name every compiled module exports
// its linear memory under.
const waferMemoryExportName = "$waferMemory"

// Compile translates Wafer source text to a complete WebAssembly 1.0
// binary module. It panics with a *CompileError on any malformed input;
// callers that want a non-aborting API should recover at their boundary
// (see internal/cmd for the reference recovery points).
func Compile(source string) []byte {
	log := telemetry.Logger()
	ctx, span := telemetry.Tracer().Start(contextBackground(), "compiler.Compile")
	defer span.End()
	log.Debug("compile started", zap.Int("source_bytes", len(source)))

	full := prelude + "\n" + source

	mod := traced(ctx, "parse", func() *ast.Module {
		return parser.Parse(full)
	})
	log.Debug("parse complete", zap.Int("functions", len(mod.Functions)))

	resolved := traced(ctx, "resolve", func() *resolve.Module {
		return resolve.Resolve(mod)
	})
	log.Debug("resolve complete", zap.Int("strings_bytes", int(resolved.Strings.Len())))

	out := traced(ctx, "assemble", func() *wasm.Module {
		return assemble(mod, resolved)
	})

	encoded := traced(ctx, "encode", func() []byte {
		return binary.Encode(out)
	})
	log.Debug("compile finished", zap.Int("output_bytes", len(encoded)))
	return encoded
}

// assemble lowers every function and builds the module's sections; it is
// the syntax-directed part of §4.6 between resolution and encoding.
func assemble(mod *ast.Module, resolved *resolve.Module) *wasm.Module {
	m := wasm.NewModule()

	for _, fn := range mod.Functions {
		if fn.Extern {
			m.AddImport(fn.Name, signatureOf(fn))
		}
	}

	declIndex := map[string]wasm.Index{}
	for _, fn := range mod.Functions {
		if fn.Extern {
			continue
		}
		locals, instrs := lower.Function(fn, resolved)
		idx := m.AddFunction(signatureOf(fn), wasm.Code{Locals: locals, Instructions: instrs})
		declIndex[fn.Name] = idx
	}

	for _, fn := range mod.Functions {
		if fn.Extern || !fn.Public {
			continue
		}
		m.ExportFunction(fn.Name, m.GlobalFuncIndex(declIndex[fn.Name]))
	}

	m.SetMemory(wasm.MemoryLimits{Min: memoryMinPages})
	m.ExportMemory(waferMemoryExportName)

	heapBase := resolved.Strings.Len()
	m.AddDataSegment(0, resolved.Strings.Bytes())
	m.AddDataSegment(heapBase, bumpPointerCell(heapBase))

	return m
}

// signatureOf returns the fixed-shape function type every Wafer function
// has: one i32 parameter per declared name, one i32 result.
func signatureOf(fn *ast.FuncDecl) wasm.FunctionType {
	params := make([]wasm.ValueType, len(fn.Params))
	for i := range params {
		params[i] = wasm.ValueTypeI32
	}
	return wasm.FunctionType{Params: params, Results: []wasm.ValueType{wasm.ValueTypeI32}}
}

// bumpPointerCell encodes the initial value of the heap's bump-allocator
// pointer, a single little-endian i32 one cell past its own location.
func bumpPointerCell(heapBase int32) []byte {
	v := heapBase + 4
	return []byte{
		byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24),
	}
}
