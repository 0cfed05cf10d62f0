// Package emit serializes the final asm tree to AT&T-syntax text
// (SPEC_FULL.md §4.8). It is a "walk a tree, build a string" pass in the
// same mechanical idiom as the donor's parser/printer.go, adapted from
// printing a JSON-ish AST dump to printing assembly mnemonics.
//
// The function prologue/epilogue emitted here is the corrected
// `pushq %rbp; movq %rsp, %rbp` form, per SPEC_FULL.md §9's open-question
// decision (the donor's own out-of-scope external emitter has a probable
// `pushq %rsp` typo that this implementation does not replicate).
package emit

import (
	"fmt"
	"strings"

	"nanoc/codegen"
	"nanoc/diag"
)

// Program serializes the whole asm tree to text.
func Program(prog *codegen.Program) (string, error) {
	var b strings.Builder
	for _, fn := range prog.Functions {
		if err := function(&b, fn); err != nil {
			return "", err
		}
	}
	b.WriteString(".section .note.GNU-stack,\"\",@progbits\n")
	return b.String(), nil
}

func function(b *strings.Builder, fn *codegen.Function) error {
	fmt.Fprintf(b, ".globl %s\n", fn.Name)
	fmt.Fprintf(b, "%s:\n", fn.Name)
	b.WriteString("    pushq %rbp\n")
	b.WriteString("    movq %rsp, %rbp\n")
	for _, instr := range fn.Body {
		if err := instruction(b, instr); err != nil {
			return err
		}
	}
	return nil
}

func instruction(b *strings.Builder, instr codegen.Instruction) error {
	switch in := instr.(type) {
	case codegen.Mov:
		fmt.Fprintf(b, "    movl %s, %s\n", operand(in.Src, 4), operand(in.Dst, 4))
	case codegen.UnaryOp:
		fmt.Fprintf(b, "    %s %s\n", unaryMnemonic(in.Op), operand(in.Operand, 4))
	case codegen.BinaryOp:
		fmt.Fprintf(b, "    %s %s, %s\n", binaryMnemonic(in.Op), operand(in.Src, 4), operand(in.Dst, 4))
	case codegen.Cmp:
		fmt.Fprintf(b, "    cmpl %s, %s\n", operand(in.A, 4), operand(in.B, 4))
	case codegen.Idiv:
		fmt.Fprintf(b, "    idivl %s\n", operand(in.Operand, 4))
	case codegen.Cdq:
		b.WriteString("    cdq\n")
	case codegen.Jmp:
		fmt.Fprintf(b, "    jmp .L%s\n", in.Target)
	case codegen.JmpCC:
		fmt.Fprintf(b, "    j%s .L%s\n", condSuffix(in.Cond), in.Target)
	case codegen.SetCC:
		fmt.Fprintf(b, "    set%s %s\n", condSuffix(in.Cond), operand(in.Operand, 1))
	case codegen.Label:
		fmt.Fprintf(b, ".L%s:\n", in.Name)
	case codegen.AllocateStack:
		fmt.Fprintf(b, "    subq $%d, %%rsp\n", in.Bytes)
	case codegen.Ret:
		b.WriteString("    movq %rbp, %rsp\n")
		b.WriteString("    popq %rbp\n")
		b.WriteString("    ret\n")
	default:
		return &diag.EmissionError{Message: fmt.Sprintf("unrecognized asm instruction %T", instr)}
	}
	return nil
}

// operand renders an operand in AT&T syntax. width is 4 for the ordinary
// 32-bit forms and 1 for SetCC's byte-register destination.
func operand(op codegen.Operand, width int) string {
	switch o := op.(type) {
	case codegen.Imm:
		return fmt.Sprintf("$%d", o.Value)
	case codegen.Reg:
		return regName(o.Name, width)
	case codegen.Stack:
		return fmt.Sprintf("%d(%%rbp)", o.Offset)
	case codegen.Pseudo:
		// Should never survive past codegen.AssignStack; printed literally
		// so a bug upstream is visible rather than silently miscompiled.
		return fmt.Sprintf("%%pseudo_%s", o.Symbol)
	default:
		panic(fmt.Sprintf("emit: unrecognized operand %T", op))
	}
}

func regName(r codegen.RegName, width int) string {
	if width == 1 {
		switch r {
		case codegen.AX:
			return "%al"
		case codegen.DX:
			return "%dl"
		case codegen.R10:
			return "%r10b"
		case codegen.R11:
			return "%r11b"
		}
	}
	switch r {
	case codegen.AX:
		return "%eax"
	case codegen.DX:
		return "%edx"
	case codegen.R10:
		return "%r10d"
	case codegen.R11:
		return "%r11d"
	}
	panic(fmt.Sprintf("emit: unrecognized register %d", r))
}

func unaryMnemonic(op codegen.UnaryOpKind) string {
	switch op {
	case codegen.Not:
		return "notl"
	case codegen.Neg:
		return "negl"
	}
	panic(fmt.Sprintf("emit: unrecognized unary op %d", op))
}

func binaryMnemonic(op codegen.BinaryOpKind) string {
	switch op {
	case codegen.Add:
		return "addl"
	case codegen.Sub:
		return "subl"
	case codegen.Mul:
		return "imull"
	}
	panic(fmt.Sprintf("emit: unrecognized binary op %d", op))
}

func condSuffix(c codegen.CondCode) string {
	switch c {
	case codegen.E:
		return "e"
	case codegen.NE:
		return "ne"
	case codegen.L:
		return "l"
	case codegen.LE:
		return "le"
	case codegen.G:
		return "g"
	case codegen.GE:
		return "ge"
	}
	panic(fmt.Sprintf("emit: unrecognized condition code %d", c))
}
