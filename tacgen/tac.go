// Package tacgen lowers a resolved, loop-labeled AST to the three-address
// code (TAC) intermediate form described in SPEC_FULL.md §3/§4.4: a flat
// per-function instruction list with explicit labels and jumps standing in
// for structured control flow. Temporaries are named "temp.v<n>", containing
// a '.' that no source identifier can contain, so they never collide with
// source variables; labels ("end_<n>", "<loop>_break", ...) contain no '.'.
package tacgen

import "fmt"

// Value is either a Constant or a Variable reference.
type Value interface {
	isValue()
	fmt.Stringer
}

// Constant is a literal 32-bit value.
type Constant struct {
	Value int32
}

func (Constant) isValue()         {}
func (c Constant) String() string { return fmt.Sprintf("%d", c.Value) }

// Variable is a reference to a symbol: either a source variable's unique
// name (assigned by resolve.Resolve) or a compiler-generated temporary in
// the "temp.v<n>" namespace.
type Variable struct {
	Symbol string
}

func (Variable) isValue()         {}
func (v Variable) String() string { return v.Symbol }

// Instruction is the closed set of TAC instruction kinds (SPEC_FULL.md §3).
type Instruction interface {
	isInstruction()
}

type Return struct{ Val Value }
type Unary struct {
	Op  UnaryOp
	Src Value
	Dst Variable
}
type Binary struct {
	Op         BinaryOp
	Src1, Src2 Value
	Dst        Variable
}
type Copy struct {
	Src Value
	Dst Variable
}
type Jump struct{ Target string }
type JumpIfZero struct {
	Cond   Value
	Target string
}
type JumpIfNotZero struct {
	Cond   Value
	Target string
}
type Label struct{ Name string }

func (Return) isInstruction()        {}
func (Unary) isInstruction()         {}
func (Binary) isInstruction()        {}
func (Copy) isInstruction()          {}
func (Jump) isInstruction()          {}
func (JumpIfZero) isInstruction()    {}
func (JumpIfNotZero) isInstruction() {}
func (Label) isInstruction()         {}

// UnaryOp mirrors ast.UnaryOp; kept as its own type so this package's wire
// format does not change shape if the AST's enum ever does.
type UnaryOp int

const (
	Complement UnaryOp = iota
	Negate
	Not
)

// BinaryOp is every ast.BinaryOp except the short-circuit forms, which
// never survive to a TAC Binary instruction (they desugar to jumps).
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Equal
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

// Function is one function's flat instruction list.
type Function struct {
	Name string
	Body []Instruction
}

// Program is the whole translation unit's TAC.
type Program struct {
	Functions []*Function
}
