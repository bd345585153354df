// Package parser implements a hand-written recursive-descent parser for
// Wafer, standing in for the PEG grammar the reference implementation
// expresses with a parser-generator library. On malformed input it
// panics via internal/compileerr rather than returning a parse error,
// matching the fail-fast philosophy the rest of the front end follows.
package parser

import (
	"strconv"

	"github.com/wafer-lang/waferc/internal/ast"
	"github.com/wafer-lang/waferc/internal/compileerr"
	"github.com/wafer-lang/waferc/internal/lexer"
)

const stage = "parse"

// Parser consumes a token stream and builds an *ast.Module.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	peek lexer.Token
}

// Parse tokenizes and parses src, returning its module AST. It panics
// with a *compileerr.CompileError on any malformed input.
func Parse(src string) *ast.Module {
	p := &Parser{lex: lexer.New(src)}
	p.tok = p.lex.Next()
	p.peek = p.lex.Next()
	return p.parseModule()
}

func (p *Parser) advance() {
	p.tok = p.peek
	p.peek = p.lex.Next()
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.tok.Type != t {
		compileerr.Fail(stage, "expected %s, got %s %q at offset %d", t, p.tok.Type, p.tok.Lit, p.tok.Offset)
	}
	tok := p.tok
	p.advance()
	return tok
}

func (p *Parser) at(t lexer.TokenType) bool { return p.tok.Type == t }

func (p *Parser) parseModule() *ast.Module {
	m := &ast.Module{}
	for !p.at(lexer.EOF) {
		m.Functions = append(m.Functions, p.parseFuncDecl())
	}
	return m
}

func (p *Parser) parseFuncDecl() *ast.FuncDecl {
	fn := &ast.FuncDecl{}
	if p.at(lexer.KwExtern) {
		fn.Extern = true
		p.advance()
	} else if p.at(lexer.KwPublic) {
		fn.Public = true
		p.advance()
	}
	p.expect(lexer.KwFunc)
	fn.Name = p.expect(lexer.Ident).Lit
	fn.Params = p.parseParamList()

	if fn.Extern {
		p.expect(lexer.Semicolon)
		return fn
	}
	fn.Body = p.parseBlock()
	return fn
}

func (p *Parser) parseParamList() []string {
	p.expect(lexer.LParen)
	var params []string
	for !p.at(lexer.RParen) {
		params = append(params, p.expect(lexer.Ident).Lit)
		if p.at(lexer.Comma) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RParen)
	return params
}

func (p *Parser) parseBlock() *ast.Block {
	p.expect(lexer.LBrace)
	block := &ast.Block{}
	for !p.at(lexer.RBrace) {
		stmt, tail := p.parseBlockItem()
		if tail != nil {
			block.Tail = tail
			break
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.expect(lexer.RBrace)
	return block
}

// parseBlockItem parses one statement, or — if an expression is
// immediately followed by the block's closing brace rather than a
// semicolon — the block's trailing value expression.
func (p *Parser) parseBlockItem() (ast.Stmt, ast.Expr) {
	switch p.tok.Type {
	case lexer.KwLet:
		return p.parseLetStmt(), nil
	case lexer.KwIf:
		cond, then, elseBlock, hasElse := p.parseIfParts()
		if p.at(lexer.RBrace) && hasElse {
			// Last item in the block: an if/else in this position is the
			// block's value, same as any other trailing expression. An if
			// without an else stays a statement.
			return nil, &ast.IfExpr{Cond: cond, Then: then, Else: elseBlock}
		}
		return &ast.IfStmt{Cond: cond, Then: then, Else: elseBlock}, nil
	case lexer.KwWhile:
		return p.parseWhileStmt(), nil
	}

	expr := p.parseAssignOrExpr()
	if p.at(lexer.RBrace) {
		return nil, expr
	}
	p.expect(lexer.Semicolon)
	return &ast.ExprStmt{Value: expr}, nil
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	p.advance() // let
	name := p.expect(lexer.Ident).Lit
	p.expect(lexer.Assign)
	value := p.parseExpr()
	p.expect(lexer.Semicolon)
	return &ast.LetStmt{Name: name, Value: value}
}

// parseIfParts parses the shared shape of `if cond { ... } else? { ... }`,
// common to both the statement and trailing-value forms; the caller
// decides which AST node to wrap it in based on block position.
func (p *Parser) parseIfParts() (cond ast.Expr, then, elseBlock *ast.Block, hasElse bool) {
	p.advance() // if
	cond = p.parseExpr()
	then = p.parseBlock()
	if p.at(lexer.KwElse) {
		p.advance()
		elseBlock = p.parseBlock()
		hasElse = true
	}
	return cond, then, elseBlock, hasElse
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	p.advance() // while
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body}
}

// parseAssignOrExpr parses an expression and, if followed by `:=`,
// reinterprets it as an assignment target.
func (p *Parser) parseAssignOrExpr() ast.Expr {
	lhs := p.parseExpr()
	if !p.at(lexer.Assign) {
		return lhs
	}
	p.advance()
	value := p.parseExpr()

	switch target := lhs.(type) {
	case *ast.Ident:
		return &ast.AssignExpr{Name: target.Name, Value: value}
	case *ast.IndexExpr:
		return &ast.ArrayAssignExpr{Target: target.Target, Index: target.Index, Value: value}
	default:
		compileerr.Fail(stage, "invalid assignment target")
		panic("unreachable")
	}
}

// Expression grammar, precedence loosest to tightest:
//   logical (& |) > comparison (== != < > <= >=) > additive (+ -) > multiplicative (* /)
// matching §4.5: "multiplicative over additive over comparison over logical".

func (p *Parser) parseExpr() ast.Expr { return p.parseLogical() }

func (p *Parser) parseLogical() ast.Expr {
	left := p.parseComparison()
	var ops []ast.BinOp
	for p.at(lexer.Amp) || p.at(lexer.Pipe) {
		op := p.tok.Lit
		p.advance()
		ops = append(ops, ast.BinOp{Op: op, Right: p.parseComparison()})
	}
	if ops == nil {
		return left
	}
	return &ast.BinaryExpr{Left: left, Ops: ops}
}

func (p *Parser) parseComparison() ast.Expr {
	left := p.parseAdditive()
	var ops []ast.BinOp
	for p.at(lexer.Eq) || p.at(lexer.Ne) || p.at(lexer.Lt) || p.at(lexer.Gt) || p.at(lexer.Le) || p.at(lexer.Ge) {
		op := p.tok.Lit
		p.advance()
		ops = append(ops, ast.BinOp{Op: op, Right: p.parseAdditive()})
	}
	if ops == nil {
		return left
	}
	return &ast.BinaryExpr{Left: left, Ops: ops}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	var ops []ast.BinOp
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := p.tok.Lit
		p.advance()
		ops = append(ops, ast.BinOp{Op: op, Right: p.parseMultiplicative()})
	}
	if ops == nil {
		return left
	}
	return &ast.BinaryExpr{Left: left, Ops: ops}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePrimary()
	var ops []ast.BinOp
	for p.at(lexer.Star) || p.at(lexer.Slash) {
		op := p.tok.Lit
		p.advance()
		ops = append(ops, ast.BinOp{Op: op, Right: p.parsePrimary()})
	}
	if ops == nil {
		return left
	}
	return &ast.BinaryExpr{Left: left, Ops: ops}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.tok.Type {
	case lexer.Int:
		return p.parseIntLit()
	case lexer.String:
		lit := p.tok.Lit
		p.advance()
		return &ast.StringLit{Value: lit}
	case lexer.LParen:
		p.advance()
		expr := p.parseExpr()
		p.expect(lexer.RParen)
		return expr
	case lexer.KwIf:
		return p.parseIfExpr()
	case lexer.Ident:
		return p.parseIdentOrCallOrIndex()
	}
	compileerr.Fail(stage, "unexpected token %s %q at offset %d", p.tok.Type, p.tok.Lit, p.tok.Offset)
	panic("unreachable")
}

func (p *Parser) parseIntLit() *ast.IntLit {
	lit := p.tok.Lit
	offset := p.tok.Offset
	p.advance()
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil || v > 1<<31-1 || v < -(1<<31) {
		compileerr.Fail(stage, "integer literal %q at offset %d outside signed 32-bit range", lit, offset)
	}
	return &ast.IntLit{Value: int32(v)}
}

func (p *Parser) parseIfExpr() *ast.IfExpr {
	offset := p.tok.Offset
	cond, then, elseBlock, hasElse := p.parseIfParts()
	if !hasElse {
		compileerr.Fail(stage, "if-expression at offset %d requires an else branch", offset)
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseIdentOrCallOrIndex() ast.Expr {
	name := p.expect(lexer.Ident).Lit

	if p.at(lexer.LParen) {
		p.advance()
		var args []ast.Expr
		for !p.at(lexer.RParen) {
			args = append(args, p.parseExpr())
			if p.at(lexer.Comma) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RParen)
		return &ast.CallExpr{Name: name, Args: args}
	}

	if p.at(lexer.LBracket) {
		p.advance()
		index := p.parseExpr()
		p.expect(lexer.RBracket)
		return &ast.IndexExpr{Target: name, Index: index}
	}

	return &ast.Ident{Name: name}
}
