package codegen

import (
	"fmt"

	"nanoc/diag"
	"nanoc/tacgen"
)

var condCodeTable = map[tacgen.BinaryOp]CondCode{
	tacgen.Equal:        E,
	tacgen.NotEqual:     NE,
	tacgen.Less:         L,
	tacgen.LessEqual:    LE,
	tacgen.Greater:      G,
	tacgen.GreaterEqual: GE,
}

var binaryOpKindTable = map[tacgen.BinaryOp]BinaryOpKind{
	tacgen.Add: Add,
	tacgen.Sub: Sub,
	tacgen.Mul: Mul,
}

var unaryOpKindTable = map[tacgen.UnaryOp]UnaryOpKind{
	tacgen.Complement: Not,
	tacgen.Negate:     Neg,
}

func operand(v tacgen.Value) Operand {
	switch val := v.(type) {
	case tacgen.Constant:
		return Imm{Value: val.Value}
	case tacgen.Variable:
		return Pseudo{Symbol: val.Symbol}
	default:
		panic(&diag.CodegenError{Message: fmt.Sprintf("unrecognized TAC value %T", v)})
	}
}

// Select lowers TAC to an asm tree with Pseudo operands standing for TAC
// Variables (SPEC_FULL.md §4.5).
func Select(prog *tacgen.Program) *Program {
	out := &Program{}
	for _, fn := range prog.Functions {
		var body []Instruction
		for _, instr := range fn.Body {
			body = append(body, selectInstr(instr)...)
		}
		out.Functions = append(out.Functions, &Function{Name: fn.Name, Body: body})
	}
	return out
}

func selectInstr(instr tacgen.Instruction) []Instruction {
	switch in := instr.(type) {
	case tacgen.Return:
		return []Instruction{
			Mov{Src: operand(in.Val), Dst: Reg{Name: AX}},
			Ret{},
		}

	case tacgen.Unary:
		dst := Pseudo{Symbol: in.Dst.Symbol}
		if in.Op == tacgen.Not {
			return []Instruction{
				Cmp{A: Imm{Value: 0}, B: operand(in.Src)},
				Mov{Src: Imm{Value: 0}, Dst: dst},
				SetCC{Cond: E, Operand: dst},
			}
		}
		return []Instruction{
			Mov{Src: operand(in.Src), Dst: dst},
			UnaryOp{Op: unaryOpKindTable[in.Op], Operand: dst},
		}

	case tacgen.Binary:
		return selectBinary(in)

	case tacgen.Copy:
		return []Instruction{Mov{Src: operand(in.Src), Dst: Pseudo{Symbol: in.Dst.Symbol}}}

	case tacgen.Jump:
		return []Instruction{Jmp{Target: in.Target}}

	case tacgen.JumpIfZero:
		return []Instruction{
			Cmp{A: Imm{Value: 0}, B: operand(in.Cond)},
			JmpCC{Cond: E, Target: in.Target},
		}

	case tacgen.JumpIfNotZero:
		return []Instruction{
			Cmp{A: Imm{Value: 0}, B: operand(in.Cond)},
			JmpCC{Cond: NE, Target: in.Target},
		}

	case tacgen.Label:
		return []Instruction{Label{Name: in.Name}}

	default:
		panic(&diag.CodegenError{Message: fmt.Sprintf("unrecognized TAC instruction %T", instr)})
	}
}

func selectBinary(in tacgen.Binary) []Instruction {
	dst := Pseudo{Symbol: in.Dst.Symbol}

	switch in.Op {
	case tacgen.Div, tacgen.Mod:
		result := Reg{Name: AX}
		if in.Op == tacgen.Mod {
			result = Reg{Name: DX}
		}
		return []Instruction{
			Mov{Src: operand(in.Src1), Dst: Reg{Name: AX}},
			Cdq{},
			Idiv{Operand: operand(in.Src2)},
			Mov{Src: result, Dst: dst},
		}

	case tacgen.Equal, tacgen.NotEqual, tacgen.Less, tacgen.LessEqual, tacgen.Greater, tacgen.GreaterEqual:
		// Operand order to Cmp is reversed (s2, s1) so the condition code
		// reads naturally with respect to `s1 op s2` (SPEC_FULL.md §4.5).
		return []Instruction{
			Cmp{A: operand(in.Src2), B: operand(in.Src1)},
			Mov{Src: Imm{Value: 0}, Dst: dst},
			SetCC{Cond: condCodeTable[in.Op], Operand: dst},
		}

	default: // Add, Sub, Mul
		return []Instruction{
			Mov{Src: operand(in.Src1), Dst: dst},
			BinaryOp{Op: binaryOpKindTable[in.Op], Src: operand(in.Src2), Dst: dst},
		}
	}
}
