// Package parser is a recursive-descent parser with a Pratt precedence-climbing
// loop for expressions (SPEC_FULL.md §4.1). It adapts the donor compiler's
// parseRule{prefix, infix, precedence} table and parsePresedence loop
// (compiler/compiler.go in the donor tree) into an infix precedence map
// keyed by token kind plus a prefix switch in factor, produces ast.* nodes
// directly rather than emitting bytecode, and is driven off the precedence
// table in SPEC_FULL.md §4.1 instead of Monkey's.
package parser

import (
	"fmt"

	"nanoc/ast"
	"nanoc/diag"
	"nanoc/token"
)

// Precedence levels, taken directly from SPEC_FULL.md §4.1. Higher binds
// tighter.
const (
	precNone       = 0
	precAssign     = 1
	precTernary    = 3
	precLogicalOr  = 5
	precLogicalAnd = 10
	precEquality   = 30
	precRelational = 35
	precAdditive   = 45
	precFactor     = 50
)

var binaryOps = map[token.TokenType]ast.BinaryOp{
	token.PLUS:       ast.Add,
	token.MINUS:      ast.Sub,
	token.STAR:       ast.Mul,
	token.SLASH:      ast.Div,
	token.PERCENT:    ast.Mod,
	token.AND_AND:    ast.LogicalAnd,
	token.OR_OR:      ast.LogicalOr,
	token.EQ_EQ:      ast.Equal,
	token.NOT_EQ:     ast.NotEqual,
	token.LESS:       ast.Less,
	token.LESS_EQ:    ast.LessEqual,
	token.GREATER:    ast.Greater,
	token.GREATER_EQ: ast.GreaterEqual,
}

// infixPrecedence is the binding power table keyed by token kind. A token
// absent from this map has no infix rule: hitting it in infix position is a
// ParseError, not a panic — this is how the grammar fence from SPEC_FULL.md
// §3 (28 lexical operator forms, fewer grammar productions) is enforced.
var infixPrecedence = map[token.TokenType]int{
	token.ASSIGN:     precAssign,
	token.QUESTION:   precTernary,
	token.OR_OR:      precLogicalOr,
	token.AND_AND:    precLogicalAnd,
	token.EQ_EQ:      precEquality,
	token.NOT_EQ:     precEquality,
	token.LESS:       precRelational,
	token.LESS_EQ:    precRelational,
	token.GREATER:    precRelational,
	token.GREATER_EQ: precRelational,
	token.PLUS:       precAdditive,
	token.MINUS:      precAdditive,
	token.STAR:       precFactor,
	token.SLASH:      precFactor,
	token.PERCENT:    precFactor,
}

// Parser holds the token stream and the parser's current position, always
// one unit ahead of the current token per the donor's own convention.
type Parser struct {
	tokens   []token.Token
	position int
}

// New returns a Parser ready to consume tokens.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) check(t token.TokenType) bool {
	return !p.isFinished() && p.peek().Type == t
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) expect(t token.TokenType) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	cur := p.peek()
	return token.Token{}, &diag.ParseError{Line: cur.Line, Expected: string(t), Actual: string(cur.Type)}
}

// Parse parses the whole token stream into a Program (SPEC_FULL.md §4.1's
// top level: a sequence of functions).
func Parse(tokens []token.Token) (*ast.Program, error) {
	p := New(tokens)
	prog := &ast.Program{}
	for !p.isFinished() {
		fn, err := p.function()
		if err != nil {
			return nil, err
		}
		prog.Functions = append(prog.Functions, fn)
	}
	return prog, nil
}

// function parses `int IDENT ( void ) { block }`.
func (p *Parser) function() (*ast.Function, error) {
	line := p.peek().Line
	if _, err := p.expect(token.INT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.VOID); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name.Lexeme, Body: body, Line: line}, nil
}

// block parses block items until the closing brace, which it consumes.
func (p *Parser) block() (*ast.Block, error) {
	blk := &ast.Block{}
	for !p.check(token.RBRACE) && !p.isFinished() {
		item, err := p.blockItem()
		if err != nil {
			return nil, err
		}
		blk.Items = append(blk.Items, item)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return blk, nil
}

// blockItem parses a declaration (lookahead on `int`) or a statement.
func (p *Parser) blockItem() (ast.BlockItem, error) {
	if p.check(token.INT) {
		return p.declaration()
	}
	return p.statement()
}

func (p *Parser) declaration() (*ast.Declaration, error) {
	line := p.peek().Line
	if _, err := p.expect(token.INT); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	decl := &ast.Declaration{Name: name.Lexeme, Symbol: name.Lexeme, Line: line}
	if p.match(token.ASSIGN) {
		init, err := p.expression(precAssign)
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

// statement dispatches on lookahead per SPEC_FULL.md §4.1.
func (p *Parser) statement() (ast.Statement, error) {
	line := p.peek().Line
	switch {
	case p.match(token.RETURN):
		expr, err := p.expression(precAssign)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Return{Expr: expr, Line: line}, nil

	case p.match(token.SEMICOLON):
		return &ast.Null{Line: line}, nil

	case p.match(token.IF):
		return p.ifStatement(line)

	case p.check(token.LBRACE):
		p.advance()
		blk, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Compound{Body: blk, Line: line}, nil

	case p.match(token.WHILE):
		return p.whileStatement(line)

	case p.match(token.DO):
		return p.doWhileStatement(line)

	case p.match(token.FOR):
		return p.forStatement(line)

	case p.match(token.BREAK):
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Break{Line: line}, nil

	case p.match(token.CONTINUE):
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.Continue{Line: line}, nil

	default:
		expr, err := p.expression(precAssign)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ExpressionStmt{Expr: expr, Line: line}, nil
	}
}

func (p *Parser) ifStatement(line int) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	ifStmt := &ast.If{Cond: cond, Then: then, Line: line}
	if p.match(token.ELSE) {
		elseStmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		ifStmt.Else = elseStmt
	}
	return ifStmt, nil
}

func (p *Parser) whileStatement(line int) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body, Line: line}, nil
}

func (p *Parser) doWhileStatement(line int) (ast.Statement, error) {
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.expression(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.DoWhile{Cond: cond, Body: body, Line: line}, nil
}

func (p *Parser) forStatement(line int) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	init, err := p.forInit()
	if err != nil {
		return nil, err
	}
	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond, err = p.expression(precAssign)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	var post ast.Expr
	if !p.check(token.RPAREN) {
		post, err = p.expression(precAssign)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ast.For{Init: init, Cond: cond, Post: post, Body: body, Line: line}, nil
}

// forInit parses the init clause of a for-loop: a declaration, an
// expression, or nothing, and consumes the ';' that ends it (a declaration
// consumes its own ';'; for the empty and expression forms this consumes
// it here, so every arm leaves the caller at the condition clause).
func (p *Parser) forInit() (ast.ForInit, error) {
	if p.check(token.INT) {
		decl, err := p.declaration()
		if err != nil {
			return nil, err
		}
		return decl, nil
	}
	if p.match(token.SEMICOLON) {
		return nil, nil
	}
	line := p.peek().Line
	expr, err := p.expression(precAssign)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStmt{Expr: expr, Line: line}, nil
}

// expression parses with minimum binding power minPrec (SPEC_FULL.md §4.1's
// precedence-climbing algorithm): parse a factor, then while the lookahead
// is a binary operator with precedence >= minPrec, consume and fold it in.
func (p *Parser) expression(minPrec int) (ast.Expr, error) {
	left, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		prec, ok := infixPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}
		switch tok.Type {
		case token.ASSIGN:
			p.advance()
			right, err := p.expression(prec) // right-assoc: same precedence
			if err != nil {
				return nil, err
			}
			left = &ast.Assignment{Lvalue: left, Rvalue: right, Line: tok.Line}
		case token.QUESTION:
			p.advance()
			mid, err := p.expression(precAssign) // unbounded: reparse from the top
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.COLON); err != nil {
				return nil, err
			}
			right, err := p.expression(prec) // right-assoc
			if err != nil {
				return nil, err
			}
			left = &ast.Conditional{Cond: left, IfTrue: mid, IfFalse: right, Line: tok.Line}
		default:
			op, ok := binaryOps[tok.Type]
			if !ok {
				return nil, &diag.ParseError{Line: tok.Line, Expected: "binary operator", Actual: string(tok.Type)}
			}
			p.advance()
			right, err := p.expression(prec + 1) // left-assoc
			if err != nil {
				return nil, err
			}
			left = &ast.Binary{Op: op, Left: left, Right: right, Line: tok.Line}
		}
	}
	return left, nil
}

// factor parses a constant, a parenthesized expression, a prefix unary, or
// an identifier (SPEC_FULL.md §4.1).
func (p *Parser) factor() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case token.INT_LIT:
		p.advance()
		return &ast.NumLiteral{Value: tok.Literal, Line: tok.Line}, nil

	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Name: tok.Lexeme, Symbol: tok.Lexeme, Line: tok.Line}, nil

	case token.TILDE, token.MINUS, token.BANG:
		p.advance()
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: unaryOpFor(tok.Type), Operand: operand, Line: tok.Line}, nil

	case token.LPAREN:
		p.advance()
		expr, err := p.expression(precAssign)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, &diag.ParseError{Line: tok.Line, Expected: "expression", Actual: string(tok.Type)}
}

func unaryOpFor(t token.TokenType) ast.UnaryOp {
	switch t {
	case token.TILDE:
		return ast.Complement
	case token.MINUS:
		return ast.Negate
	case token.BANG:
		return ast.Not
	}
	panic(fmt.Sprintf("parser: unreachable unary token %s", t))
}
