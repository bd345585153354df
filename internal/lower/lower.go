// Package lower implements the syntax-directed translation from a
// resolved *ast.FuncDecl body to a WebAssembly instruction stream. It is
// a single recursive walk; precedence and grouping are already resolved
// by the parser, so lowering never re-climbs precedence.
package lower

import (
	"github.com/wafer-lang/waferc/internal/ast"
	"github.com/wafer-lang/waferc/internal/compileerr"
	"github.com/wafer-lang/waferc/internal/resolve"
	"github.com/wafer-lang/waferc/internal/wasm"
)

const stage = "lower"

var i32 = wasm.ValueTypeI32

// binaryOps maps a source operator to the instruction that implements it.
var binaryOps = map[string]func() wasm.Instruction{
	"+":  wasm.AddI32,
	"-":  wasm.SubI32,
	"*":  wasm.MulI32,
	"/":  wasm.DivSI32,
	"==": wasm.EqI32,
	"!=": wasm.NeI32,
	"<":  wasm.LtSI32,
	">":  wasm.GtSI32,
	"<=": wasm.LeSI32,
	">=": wasm.GeSI32,
	"&":  wasm.AndI32,
	"|":  wasm.OrI32,
}

// readHelper and writeHelper are the prelude function names the array ABI
// lowers non-__mem index reads and array assignments through.
const (
	readHelper  = "__readInt32Array"
	writeHelper = "__writeInt32Array"
)

// funcBody accumulates one function's instruction stream during lowering.
type funcBody struct {
	syms      *resolve.FuncSymbols
	funcIndex map[string]uint32
	strings   *resolve.StringTable
	instrs    []wasm.Instruction
}

func (b *funcBody) emit(i wasm.Instruction) { b.instrs = append(b.instrs, i) }

// Function lowers fn's body to its instruction stream and local-group
// list. Locals() are laid out in a single run per distinct type, in
// resolution order; since Wafer has exactly one value type, this is
// always zero or one run.
func Function(fn *ast.FuncDecl, mod *resolve.Module) (locals []wasm.LocalGroup, instrs []wasm.Instruction) {
	syms := mod.Symbols[fn.Name]
	b := &funcBody{syms: syms, funcIndex: mod.FuncIndex, strings: mod.Strings}
	b.block(fn.Body)
	b.emit(wasm.End())
	return localGroups(syms), b.instrs
}

// localGroups collapses a function's non-parameter symbols into
// run-length (count, type) groups. All Wafer locals are i32, so this is
// at most one group.
func localGroups(syms *resolve.FuncSymbols) []wasm.LocalGroup {
	n := len(syms.Locals())
	if n == 0 {
		return nil
	}
	return []wasm.LocalGroup{{Count: uint32(n), Type: i32}}
}

func (b *funcBody) block(block *ast.Block) {
	for _, stmt := range block.Stmts {
		b.stmt(stmt)
	}
	if block.Tail != nil {
		b.expr(block.Tail)
	}
}

func (b *funcBody) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		b.expr(s.Value)
		b.emit(wasm.LocalSet(b.syms.Lookup(s.Name).Index))

	case *ast.IfStmt:
		b.expr(s.Cond)
		b.emit(wasm.If(nil))
		b.block(s.Then)
		if s.Else != nil {
			b.emit(wasm.ElseOp())
			b.block(s.Else)
		}
		b.emit(wasm.End())

	case *ast.WhileStmt:
		// Loop(None); cond; If(None); body; Break(1); End; End
		b.emit(wasm.Loop(nil))
		b.expr(s.Cond)
		b.emit(wasm.If(nil))
		b.block(s.Body)
		b.emit(wasm.Break(1))
		b.emit(wasm.End())
		b.emit(wasm.End())

	case *ast.ExprStmt:
		b.expr(s.Value)
		b.emit(wasm.Drop())

	default:
		compileerr.Fail(stage, "unhandled statement variant %T", s)
	}
}

func (b *funcBody) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IntLit:
		b.emit(wasm.ConstI32(e.Value))

	case *ast.StringLit:
		b.emit(wasm.ConstI32(b.strings.Offset(e.Value)))

	case *ast.Ident:
		if e.Name == ast.HeapBaseSigil {
			b.emit(wasm.ConstI32(b.strings.Len()))
			return
		}
		b.emit(wasm.LocalGet(b.syms.Lookup(e.Name).Index))

	case *ast.BinaryExpr:
		b.expr(e.Left)
		for _, op := range e.Ops {
			b.expr(op.Right)
			fn, ok := binaryOps[op.Op]
			if !ok {
				compileerr.Fail(stage, "unhandled binary operator %q", op.Op)
			}
			b.emit(fn())
		}

	case *ast.IfExpr:
		b.expr(e.Cond)
		b.emit(wasm.If(&i32))
		b.block(e.Then)
		b.emit(wasm.ElseOp())
		b.block(e.Else)
		b.emit(wasm.End())

	case *ast.CallExpr:
		if e.Name == ast.TrapSigil {
			b.emit(wasm.Unreachable())
			return
		}
		for _, a := range e.Args {
			b.expr(a)
		}
		idx, ok := b.funcIndex[e.Name]
		if !ok {
			compileerr.Fail(stage, "unknown function %q", e.Name)
		}
		b.emit(wasm.Call(idx))

	case *ast.IndexExpr:
		if e.Target == ast.MemSigil {
			b.expr(e.Index)
			b.emit(wasm.LoadI32(2, 0))
			return
		}
		b.emit(wasm.LocalGet(b.syms.Lookup(e.Target).Index))
		b.expr(e.Index)
		b.emitHelperCall(readHelper)

	case *ast.AssignExpr:
		b.expr(e.Value)
		b.emit(wasm.LocalTee(b.syms.Lookup(e.Name).Index))

	case *ast.ArrayAssignExpr:
		if e.Target == ast.MemSigil {
			b.expr(e.Index)
			b.expr(e.Value)
			temp := b.syms.Lookup(ast.TempLocal).Index
			b.emit(wasm.LocalTee(temp))
			b.emit(wasm.StoreI32(2, 0))
			b.emit(wasm.LocalGet(temp))
			return
		}
		b.emit(wasm.LocalGet(b.syms.Lookup(e.Target).Index))
		b.expr(e.Index)
		b.expr(e.Value)
		b.emitHelperCall(writeHelper)

	default:
		compileerr.Fail(stage, "unhandled expression variant %T", e)
	}
}

func (b *funcBody) emitHelperCall(name string) {
	idx, ok := b.funcIndex[name]
	if !ok {
		compileerr.Fail(stage, "prelude helper %q not declared", name)
	}
	b.emit(wasm.Call(idx))
}
