package ast

// NumLiteral is a base-10 non-negative integer constant.
type NumLiteral struct {
	Value int32
	Line  int
}

func (e *NumLiteral) Accept(v ExprVisitor) any { return v.VisitNumLiteral(e) }
func (e *NumLiteral) Pos() int                 { return e.Line }

// Variable is an identifier reference. Symbol starts out equal to Name and
// is rewritten to a globally unique name by the variable resolver
// (SPEC_FULL.md §4.2).
type Variable struct {
	Name   string
	Symbol string
	Line   int
}

func (e *Variable) Accept(v ExprVisitor) any { return v.VisitVariable(e) }
func (e *Variable) Pos() int                 { return e.Line }

// UnaryOp is one of the three prefix unary operators.
type UnaryOp int

const (
	Complement UnaryOp = iota // ~
	Negate                    // -
	Not                       // !
)

type Unary struct {
	Op      UnaryOp
	Operand Expr
	Line    int
}

func (e *Unary) Accept(v ExprVisitor) any { return v.VisitUnary(e) }
func (e *Unary) Pos() int                 { return e.Line }

// BinaryOp is one of the binary operators, including the short-circuit
// logical operators and the relational operators.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	LogicalAnd
	LogicalOr
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

type Binary struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	Line  int
}

func (e *Binary) Accept(v ExprVisitor) any { return v.VisitBinary(e) }
func (e *Binary) Pos() int                 { return e.Line }

// Assignment is `lvalue = rvalue`. Lvalue is syntactically any Expr until
// the variable resolver rejects anything but a Variable (SPEC_FULL.md §4.2).
type Assignment struct {
	Lvalue Expr
	Rvalue Expr
	Line   int
}

func (e *Assignment) Accept(v ExprVisitor) any { return v.VisitAssignment(e) }
func (e *Assignment) Pos() int                 { return e.Line }

// Conditional is the ternary `cond ? ifTrue : ifFalse`.
type Conditional struct {
	Cond    Expr
	IfTrue  Expr
	IfFalse Expr
	Line    int
}

func (e *Conditional) Accept(v ExprVisitor) any { return v.VisitConditional(e) }
func (e *Conditional) Pos() int                 { return e.Line }
