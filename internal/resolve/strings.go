package resolve

import (
	"encoding/binary"

	"github.com/wafer-lang/waferc/internal/ast"
)

// StringTable interns string literals to byte offsets inside the strings
// initializer, in ascending order of first occurrence. Each literal is
// stored as a 4-byte little-endian length followed by one 4-byte
// little-endian code unit per character (effectively UTF-32), matching
// the array ABI the prelude's __readInt32Array/__writeInt32Array expect.
type StringTable struct {
	offsets map[string]int32
	order   []string
	buf     []byte
}

func newStringTable() *StringTable {
	return &StringTable{offsets: map[string]int32{}}
}

// Offset returns the byte offset of literal within the strings
// initializer, interning it on first sight.
func (s *StringTable) Offset(literal string) int32 {
	if off, ok := s.offsets[literal]; ok {
		return off
	}
	off := int32(len(s.buf))
	s.offsets[literal] = off
	s.order = append(s.order, literal)

	runes := []rune(literal)
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(runes)))
	s.buf = append(s.buf, header[:]...)
	for _, r := range runes {
		var unit [4]byte
		binary.LittleEndian.PutUint32(unit[:], uint32(r))
		s.buf = append(s.buf, unit[:]...)
	}
	return off
}

// Bytes returns the complete strings initializer built so far.
func (s *StringTable) Bytes() []byte { return s.buf }

// Len is the total size of the strings initializer, i.e. heap_base.
func (s *StringTable) Len() int32 { return int32(len(s.buf)) }

func (s *StringTable) walkBlock(b *ast.Block) {
	for _, stmt := range b.Stmts {
		s.walkStmt(stmt)
	}
	if b.Tail != nil {
		s.walkExpr(b.Tail)
	}
}

func (s *StringTable) walkStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.LetStmt:
		s.walkExpr(stmt.Value)
	case *ast.IfStmt:
		s.walkExpr(stmt.Cond)
		s.walkBlock(stmt.Then)
		if stmt.Else != nil {
			s.walkBlock(stmt.Else)
		}
	case *ast.WhileStmt:
		s.walkExpr(stmt.Cond)
		s.walkBlock(stmt.Body)
	case *ast.ExprStmt:
		s.walkExpr(stmt.Value)
	}
}

func (s *StringTable) walkExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.StringLit:
		s.Offset(e.Value)
	case *ast.BinaryExpr:
		s.walkExpr(e.Left)
		for _, op := range e.Ops {
			s.walkExpr(op.Right)
		}
	case *ast.IfExpr:
		s.walkExpr(e.Cond)
		s.walkBlock(e.Then)
		s.walkBlock(e.Else)
	case *ast.CallExpr:
		for _, a := range e.Args {
			s.walkExpr(a)
		}
	case *ast.IndexExpr:
		s.walkExpr(e.Index)
	case *ast.AssignExpr:
		s.walkExpr(e.Value)
	case *ast.ArrayAssignExpr:
		s.walkExpr(e.Index)
		s.walkExpr(e.Value)
	}
}
