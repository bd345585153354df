// Package resolve implements the two-pass front-end resolution described
// in the specification: a symbol pass assigning dense per-function local
// indices (and the global function index table), and a string pass
// interning string literals at linear-memory offsets. Both run once,
// before lowering, over the same *ast.Module.
package resolve

import (
	"github.com/wafer-lang/waferc/internal/ast"
	"github.com/wafer-lang/waferc/internal/compileerr"
)

const stage = "resolve"

// SymbolKind distinguishes a function parameter from a let-bound or
// synthesized local.
type SymbolKind int

const (
	Parameter SymbolKind = iota
	Local
)

// Symbol is one entry in a function's symbol table.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Index uint32
}

// FuncSymbols is the per-function symbol table: parameter and local
// names mapped to their dense indices, in [0, NumParams+len(Locals())).
type FuncSymbols struct {
	byName    map[string]*Symbol
	order     []*Symbol
	NumParams int
}

func newFuncSymbols() *FuncSymbols {
	return &FuncSymbols{byName: map[string]*Symbol{}}
}

func (f *FuncSymbols) declare(name string, kind SymbolKind) *Symbol {
	if sym, ok := f.byName[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Kind: kind, Index: uint32(len(f.order))}
	f.byName[name] = sym
	f.order = append(f.order, sym)
	return sym
}

// Lookup returns the symbol named name, panicking with an "unknown
// identifier" compile error if it isn't declared in this function.
func (f *FuncSymbols) Lookup(name string) *Symbol {
	sym, ok := f.byName[name]
	if !ok {
		compileerr.Fail(stage, "unknown identifier %q", name)
	}
	return sym
}

// HasTemp reports whether this function declared the reserved $temp
// scratch local.
func (f *FuncSymbols) HasTemp() bool {
	_, ok := f.byName[ast.TempLocal]
	return ok
}

// Locals returns the non-parameter symbols in declaration order, for
// building the binary format's run-length locals list.
func (f *FuncSymbols) Locals() []*Symbol {
	return f.order[f.NumParams:]
}

// Module is the resolved front-end state for an entire compilation: the
// global function index table and each function's symbol table.
type Module struct {
	// FuncIndex maps a function name to its index in the module-wide
	// function space: imports first in source order, then user functions
	// in declaration order.
	FuncIndex map[string]uint32
	// Symbols maps a function's name to its resolved symbol table. Extern
	// functions have no body and so no entry.
	Symbols map[string]*FuncSymbols
	Strings *StringTable
}

// Resolve runs both passes over m, returning the resolved tables.
func Resolve(m *ast.Module) *Module {
	r := &Module{
		FuncIndex: map[string]uint32{},
		Symbols:   map[string]*FuncSymbols{},
		Strings:   newStringTable(),
	}
	r.resolveFuncIndex(m)
	for _, fn := range m.Functions {
		if fn.Extern {
			continue
		}
		r.Symbols[fn.Name] = r.resolveFunc(fn)
	}
	for _, fn := range m.Functions {
		if !fn.Extern {
			r.Strings.walkBlock(fn.Body)
		}
	}
	return r
}

func (r *Module) resolveFuncIndex(m *ast.Module) {
	var idx uint32
	for _, fn := range m.Functions {
		if !fn.Extern {
			continue
		}
		if _, dup := r.FuncIndex[fn.Name]; dup {
			compileerr.Fail(stage, "duplicate function declaration %q", fn.Name)
		}
		r.FuncIndex[fn.Name] = idx
		idx++
	}
	for _, fn := range m.Functions {
		if fn.Extern {
			continue
		}
		if _, dup := r.FuncIndex[fn.Name]; dup {
			compileerr.Fail(stage, "duplicate function declaration %q", fn.Name)
		}
		r.FuncIndex[fn.Name] = idx
		idx++
	}
}

// resolveFunc builds fn's symbol table: parameters first, then locals
// introduced by let-statements and array-assignment expressions, in tree
// walk order. Repeated names (including repeated $temp insertions)
// collapse to one slot.
func (r *Module) resolveFunc(fn *ast.FuncDecl) *FuncSymbols {
	syms := newFuncSymbols()
	for _, p := range fn.Params {
		syms.declare(p, Parameter)
	}
	syms.NumParams = len(syms.order)
	walkLocals(fn.Body, syms)
	return syms
}

func walkLocals(b *ast.Block, syms *FuncSymbols) {
	for _, stmt := range b.Stmts {
		walkStmtLocals(stmt, syms)
	}
	if b.Tail != nil {
		walkExprLocals(b.Tail, syms)
	}
}

func walkStmtLocals(s ast.Stmt, syms *FuncSymbols) {
	switch s := s.(type) {
	case *ast.LetStmt:
		walkExprLocals(s.Value, syms)
		syms.declare(s.Name, Local)
	case *ast.IfStmt:
		walkExprLocals(s.Cond, syms)
		walkLocals(s.Then, syms)
		if s.Else != nil {
			walkLocals(s.Else, syms)
		}
	case *ast.WhileStmt:
		walkExprLocals(s.Cond, syms)
		walkLocals(s.Body, syms)
	case *ast.ExprStmt:
		walkExprLocals(s.Value, syms)
	}
}

func walkExprLocals(e ast.Expr, syms *FuncSymbols) {
	switch e := e.(type) {
	case *ast.BinaryExpr:
		walkExprLocals(e.Left, syms)
		for _, op := range e.Ops {
			walkExprLocals(op.Right, syms)
		}
	case *ast.IfExpr:
		walkExprLocals(e.Cond, syms)
		walkLocals(e.Then, syms)
		walkLocals(e.Else, syms)
	case *ast.CallExpr:
		for _, a := range e.Args {
			walkExprLocals(a, syms)
		}
	case *ast.IndexExpr:
		walkExprLocals(e.Index, syms)
	case *ast.AssignExpr:
		walkExprLocals(e.Value, syms)
	case *ast.ArrayAssignExpr:
		walkExprLocals(e.Index, syms)
		walkExprLocals(e.Value, syms)
		syms.declare(ast.TempLocal, Local)
	}
}
