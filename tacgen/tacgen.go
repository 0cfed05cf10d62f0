package tacgen

import (
	"fmt"

	"nanoc/ast"
)

var unaryOpTable = map[ast.UnaryOp]UnaryOp{
	ast.Complement: Complement,
	ast.Negate:     Negate,
	ast.Not:        Not,
}

var binaryOpTable = map[ast.BinaryOp]BinaryOp{
	ast.Add:          Add,
	ast.Sub:          Sub,
	ast.Mul:          Mul,
	ast.Div:          Div,
	ast.Mod:          Mod,
	ast.Equal:        Equal,
	ast.NotEqual:     NotEqual,
	ast.Less:         Less,
	ast.LessEqual:    LessEqual,
	ast.Greater:      Greater,
	ast.GreaterEqual: GreaterEqual,
}

// generator holds per-function counters and the instruction list under
// construction. Counters are single-writer and reset per function, per
// SPEC_FULL.md §9.
type generator struct {
	tempCounter  int
	labelCounter int
	instrs       []Instruction
}

// Generate lowers a resolved, loop-labeled AST to TAC (SPEC_FULL.md §4.4).
// The AST must already have passed resolve.Resolve and looplabel.Label.
func Generate(prog *ast.Program) *Program {
	out := &Program{}
	for _, fn := range prog.Functions {
		g := &generator{}
		g.block(fn.Body)
		out.Functions = append(out.Functions, &Function{Name: fn.Name, Body: g.instrs})
	}
	return out
}

func (g *generator) emit(instr Instruction) {
	g.instrs = append(g.instrs, instr)
}

func (g *generator) freshTemp() Variable {
	g.tempCounter++
	return Variable{Symbol: fmt.Sprintf("temp.v%d", g.tempCounter)}
}

func (g *generator) freshLabel(prefix string) string {
	g.labelCounter++
	return fmt.Sprintf("%s_%d", prefix, g.labelCounter)
}

func (g *generator) block(b *ast.Block) {
	for _, item := range b.Items {
		g.blockItem(item)
	}
}

func (g *generator) blockItem(item ast.BlockItem) {
	switch it := item.(type) {
	case *ast.Declaration:
		g.declaration(it)
	case ast.Statement:
		g.statement(it)
	default:
		panic(fmt.Sprintf("tacgen: unreachable block item %T", item))
	}
}

func (g *generator) declaration(d *ast.Declaration) {
	if d.Init == nil {
		return
	}
	v := g.expr(d.Init)
	g.emit(Copy{Src: v, Dst: Variable{Symbol: d.Symbol}})
}

func (g *generator) statement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.Return:
		v := g.expr(st.Expr)
		g.emit(Return{Val: v})

	case *ast.ExpressionStmt:
		g.expr(st.Expr)

	case *ast.If:
		g.ifStmt(st)

	case *ast.Compound:
		g.block(st.Body)

	case *ast.While:
		g.whileStmt(st)

	case *ast.DoWhile:
		g.doWhileStmt(st)

	case *ast.For:
		g.forStmt(st)

	case *ast.Break:
		g.emit(Jump{Target: st.Label + "_break"})

	case *ast.Continue:
		g.emit(Jump{Target: st.Label + "_continue"})

	case *ast.Null:
		// nothing

	default:
		panic(fmt.Sprintf("tacgen: unreachable statement %T", s))
	}
}

func (g *generator) ifStmt(s *ast.If) {
	cond := g.expr(s.Cond)
	if s.Else == nil {
		end := g.freshLabel("end")
		g.emit(JumpIfZero{Cond: cond, Target: end})
		g.statement(s.Then)
		g.emit(Label{Name: end})
		return
	}
	elseLabel := g.freshLabel("else")
	end := g.freshLabel("end")
	g.emit(JumpIfZero{Cond: cond, Target: elseLabel})
	g.statement(s.Then)
	g.emit(Jump{Target: end})
	g.emit(Label{Name: elseLabel})
	g.statement(s.Else)
	g.emit(Label{Name: end})
}

func (g *generator) whileStmt(s *ast.While) {
	continueLabel := s.Label + "_continue"
	breakLabel := s.Label + "_break"
	g.emit(Label{Name: continueLabel})
	cond := g.expr(s.Cond)
	g.emit(JumpIfZero{Cond: cond, Target: breakLabel})
	g.statement(s.Body)
	g.emit(Jump{Target: continueLabel})
	g.emit(Label{Name: breakLabel})
}

func (g *generator) doWhileStmt(s *ast.DoWhile) {
	startLabel := s.Label + "_start"
	continueLabel := s.Label + "_continue"
	breakLabel := s.Label + "_break"
	g.emit(Label{Name: startLabel})
	g.statement(s.Body)
	g.emit(Label{Name: continueLabel})
	cond := g.expr(s.Cond)
	g.emit(JumpIfNotZero{Cond: cond, Target: startLabel})
	g.emit(Label{Name: breakLabel})
}

func (g *generator) forStmt(s *ast.For) {
	startLabel := s.Label + "_start"
	continueLabel := s.Label + "_continue"
	breakLabel := s.Label + "_break"

	switch init := s.Init.(type) {
	case *ast.Declaration:
		g.declaration(init)
	case *ast.ExpressionStmt:
		g.expr(init.Expr)
	}

	g.emit(Label{Name: startLabel})
	if s.Cond != nil {
		cond := g.expr(s.Cond)
		g.emit(JumpIfZero{Cond: cond, Target: breakLabel})
	}
	g.statement(s.Body)
	g.emit(Label{Name: continueLabel})
	if s.Post != nil {
		g.expr(s.Post)
	}
	g.emit(Jump{Target: startLabel})
	g.emit(Label{Name: breakLabel})
}

func (g *generator) expr(e ast.Expr) Value {
	switch ex := e.(type) {
	case *ast.NumLiteral:
		return Constant{Value: ex.Value}

	case *ast.Variable:
		return Variable{Symbol: ex.Symbol}

	case *ast.Unary:
		src := g.expr(ex.Operand)
		dst := g.freshTemp()
		g.emit(Unary{Op: unaryOpTable[ex.Op], Src: src, Dst: dst})
		return dst

	case *ast.Binary:
		return g.binary(ex)

	case *ast.Assignment:
		v, ok := ex.Lvalue.(*ast.Variable)
		if !ok {
			panic(fmt.Sprintf("tacgen: assignment lvalue is not a Variable (got %T); resolve should have rejected this", ex.Lvalue))
		}
		rhs := g.expr(ex.Rvalue)
		dst := Variable{Symbol: v.Symbol}
		g.emit(Copy{Src: rhs, Dst: dst})
		return dst

	case *ast.Conditional:
		return g.conditional(ex)

	default:
		panic(fmt.Sprintf("tacgen: unreachable expression %T", e))
	}
}

func (g *generator) binary(ex *ast.Binary) Value {
	switch ex.Op {
	case ast.LogicalAnd:
		return g.logicalAnd(ex)
	case ast.LogicalOr:
		return g.logicalOr(ex)
	}

	s1 := g.expr(ex.Left)
	s2 := g.expr(ex.Right)
	dst := g.freshTemp()
	g.emit(Binary{Op: binaryOpTable[ex.Op], Src1: s1, Src2: s2, Dst: dst})
	return dst
}

func (g *generator) logicalAnd(ex *ast.Binary) Value {
	falseLabel := g.freshLabel("false")
	end := g.freshLabel("end")
	result := g.freshTemp()

	left := g.expr(ex.Left)
	g.emit(JumpIfZero{Cond: left, Target: falseLabel})
	right := g.expr(ex.Right)
	g.emit(JumpIfZero{Cond: right, Target: falseLabel})
	g.emit(Copy{Src: Constant{Value: 1}, Dst: result})
	g.emit(Jump{Target: end})
	g.emit(Label{Name: falseLabel})
	g.emit(Copy{Src: Constant{Value: 0}, Dst: result})
	g.emit(Label{Name: end})
	return result
}

func (g *generator) logicalOr(ex *ast.Binary) Value {
	trueLabel := g.freshLabel("true")
	end := g.freshLabel("end")
	result := g.freshTemp()

	left := g.expr(ex.Left)
	g.emit(JumpIfNotZero{Cond: left, Target: trueLabel})
	right := g.expr(ex.Right)
	g.emit(JumpIfNotZero{Cond: right, Target: trueLabel})
	g.emit(Copy{Src: Constant{Value: 0}, Dst: result})
	g.emit(Jump{Target: end})
	g.emit(Label{Name: trueLabel})
	g.emit(Copy{Src: Constant{Value: 1}, Dst: result})
	g.emit(Label{Name: end})
	return result
}

func (g *generator) conditional(ex *ast.Conditional) Value {
	elseLabel := g.freshLabel("else")
	end := g.freshLabel("end")
	result := g.freshTemp()

	cond := g.expr(ex.Cond)
	g.emit(JumpIfZero{Cond: cond, Target: elseLabel})
	ifTrue := g.expr(ex.IfTrue)
	g.emit(Copy{Src: ifTrue, Dst: result})
	g.emit(Jump{Target: end})
	g.emit(Label{Name: elseLabel})
	ifFalse := g.expr(ex.IfFalse)
	g.emit(Copy{Src: ifFalse, Dst: result})
	g.emit(Label{Name: end})
	return result
}
