package compiler

import (
	"fmt"
	"strings"

	"nanoc/ast"
	"nanoc/codegen"
	"nanoc/tacgen"
	"nanoc/token"
)

// FormatTokens renders a token stream one token per line, for the --lex
// stage flag and the debug shell (SPEC_FULL.md §6: "exact format not
// specified").
func FormatTokens(tokens []token.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		fmt.Fprintln(&b, t.String())
	}
	return b.String()
}

// FormatAST renders an indented tree for the --parse/--validate stage
// flags.
func FormatAST(prog *ast.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "function %s\n", fn.Name)
		formatBlock(&b, fn.Body, 1)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func formatBlock(b *strings.Builder, blk *ast.Block, depth int) {
	for _, item := range blk.Items {
		formatBlockItem(b, item, depth)
	}
}

func formatBlockItem(b *strings.Builder, item ast.BlockItem, depth int) {
	indent(b, depth)
	switch it := item.(type) {
	case *ast.Declaration:
		fmt.Fprintf(b, "Declaration %s (symbol=%s) init=%v\n", it.Name, it.Symbol, formatExprInline(it.Init))
	case *ast.Return:
		fmt.Fprintf(b, "Return %s\n", formatExprInline(it.Expr))
	case *ast.ExpressionStmt:
		fmt.Fprintf(b, "ExpressionStmt %s\n", formatExprInline(it.Expr))
	case *ast.If:
		fmt.Fprintf(b, "If %s\n", formatExprInline(it.Cond))
		formatBlockItem(b, it.Then, depth+1)
		if it.Else != nil {
			indent(b, depth)
			b.WriteString("Else\n")
			formatBlockItem(b, it.Else, depth+1)
		}
	case *ast.Compound:
		b.WriteString("Compound\n")
		formatBlock(b, it.Body, depth+1)
	case *ast.While:
		fmt.Fprintf(b, "While[%s] %s\n", it.Label, formatExprInline(it.Cond))
		formatBlockItem(b, it.Body, depth+1)
	case *ast.DoWhile:
		fmt.Fprintf(b, "DoWhile[%s] %s\n", it.Label, formatExprInline(it.Cond))
		formatBlockItem(b, it.Body, depth+1)
	case *ast.For:
		fmt.Fprintf(b, "For[%s]\n", it.Label)
		formatBlockItem(b, it.Body, depth+1)
	case *ast.Break:
		fmt.Fprintf(b, "Break -> %s\n", it.Label)
	case *ast.Continue:
		fmt.Fprintf(b, "Continue -> %s\n", it.Label)
	case *ast.Null:
		b.WriteString("Null\n")
	default:
		fmt.Fprintf(b, "<unknown block item %T>\n", item)
	}
}

func formatExprInline(e ast.Expr) string {
	if e == nil {
		return "<none>"
	}
	switch ex := e.(type) {
	case *ast.NumLiteral:
		return fmt.Sprintf("%d", ex.Value)
	case *ast.Variable:
		return fmt.Sprintf("%s(%s)", ex.Name, ex.Symbol)
	case *ast.Unary:
		return fmt.Sprintf("(unary %v)", formatExprInline(ex.Operand))
	case *ast.Binary:
		return fmt.Sprintf("(%s %s %s)", formatExprInline(ex.Left), binOpSymbol(ex.Op), formatExprInline(ex.Right))
	case *ast.Assignment:
		return fmt.Sprintf("(%s = %s)", formatExprInline(ex.Lvalue), formatExprInline(ex.Rvalue))
	case *ast.Conditional:
		return fmt.Sprintf("(%s ? %s : %s)", formatExprInline(ex.Cond), formatExprInline(ex.IfTrue), formatExprInline(ex.IfFalse))
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func binOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.Add:
		return "+"
	case ast.Sub:
		return "-"
	case ast.Mul:
		return "*"
	case ast.Div:
		return "/"
	case ast.Mod:
		return "%"
	case ast.LogicalAnd:
		return "&&"
	case ast.LogicalOr:
		return "||"
	case ast.Equal:
		return "=="
	case ast.NotEqual:
		return "!="
	case ast.Less:
		return "<"
	case ast.LessEqual:
		return "<="
	case ast.Greater:
		return ">"
	case ast.GreaterEqual:
		return ">="
	}
	return "?"
}

// FormatTAC renders one line per TAC instruction, for the --tacky stage
// flag.
func FormatTAC(prog *tacgen.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "function %s\n", fn.Name)
		for _, instr := range fn.Body {
			fmt.Fprintf(&b, "  %s\n", formatTACInstr(instr))
		}
	}
	return b.String()
}

func formatTACInstr(instr tacgen.Instruction) string {
	switch in := instr.(type) {
	case tacgen.Return:
		return fmt.Sprintf("Return(%s)", in.Val)
	case tacgen.Unary:
		return fmt.Sprintf("%s = Unary(%s)", in.Dst, in.Src)
	case tacgen.Binary:
		return fmt.Sprintf("%s = Binary(%s, %s)", in.Dst, in.Src1, in.Src2)
	case tacgen.Copy:
		return fmt.Sprintf("%s = Copy(%s)", in.Dst, in.Src)
	case tacgen.Jump:
		return fmt.Sprintf("Jump(%s)", in.Target)
	case tacgen.JumpIfZero:
		return fmt.Sprintf("JumpIfZero(%s, %s)", in.Cond, in.Target)
	case tacgen.JumpIfNotZero:
		return fmt.Sprintf("JumpIfNotZero(%s, %s)", in.Cond, in.Target)
	case tacgen.Label:
		return fmt.Sprintf("Label(%s)", in.Name)
	default:
		return fmt.Sprintf("<unknown tac instruction %T>", instr)
	}
}

// FormatAsm renders one line per asm instruction, for the --codegen stage
// flag. It is intentionally distinct from emit.Program: this is a debug
// dump of the tree's shape in Go %#v syntax, not the final AT&T text. Its
// callers pass the tree Codegen returns, after stack assignment and
// legalization, so Pseudo operands only appear if a tree is dumped earlier.
func FormatAsm(prog *codegen.Program) string {
	var b strings.Builder
	for _, fn := range prog.Functions {
		fmt.Fprintf(&b, "function %s\n", fn.Name)
		for _, instr := range fn.Body {
			fmt.Fprintf(&b, "  %#v\n", instr)
		}
	}
	return b.String()
}
