// Package ast defines the tagged-variant tree produced by the parser and
// rewritten in place by the variable resolver and loop labeler
// (SPEC_FULL.md §3, §9). Each tier (expression, statement/declaration) is a
// closed sum of concrete node types; every node implements Accept, dispatching
// to one method per variant on the relevant visitor interface. This follows
// the teacher's visitor design (ast/interfaces.go in the donor compiler) but,
// because the set of node kinds here is closed and every visitor interface
// must implement every Visit method to compile, a caller can never silently
// fall through an unhandled kind the way the donor's `switch(kind)` +
// downcast style (or a non-exhaustive default case) would allow.
package ast

// ExprVisitor operates over every Expr variant.
type ExprVisitor interface {
	VisitNumLiteral(e *NumLiteral) any
	VisitVariable(e *Variable) any
	VisitUnary(e *Unary) any
	VisitBinary(e *Binary) any
	VisitAssignment(e *Assignment) any
	VisitConditional(e *Conditional) any
}

// Expr is the closed set of expression node kinds (SPEC_FULL.md §3).
type Expr interface {
	Accept(v ExprVisitor) any
	Pos() int
}

// StmtVisitor operates over every BlockItem variant: the ten statement
// kinds plus Declaration, which shares a block's item sequence but is not
// itself a Statement.
type StmtVisitor interface {
	VisitDeclaration(s *Declaration) any
	VisitReturn(s *Return) any
	VisitExpressionStmt(s *ExpressionStmt) any
	VisitIf(s *If) any
	VisitCompound(s *Compound) any
	VisitWhile(s *While) any
	VisitDoWhile(s *DoWhile) any
	VisitFor(s *For) any
	VisitBreak(s *Break) any
	VisitContinue(s *Continue) any
	VisitNull(s *Null) any
}

// BlockItem is either a Declaration or a Statement (SPEC_FULL.md §3).
type BlockItem interface {
	Accept(v StmtVisitor) any
	Pos() int
}

// Statement is the BlockItem subset that is not a Declaration.
type Statement interface {
	BlockItem
	isStatement()
}

// ForInit is either a Declaration, an Expr, or empty (represented by a nil
// ForInit).
type ForInit interface {
	isForInit()
}
