package codegen

// Legalize rewrites the instruction list so every surviving instruction is
// encodable by the target ISA, inserting scratch-register shuttles through
// R10/R11 for forbidden operand combinations (SPEC_FULL.md §4.7). One
// forward pass; for each instruction the first matching rule applies. R10
// and R11 are reserved exclusively for this pass, so no live value is ever
// held in them across instructions.
func Legalize(prog *Program) *Program {
	for _, fn := range prog.Functions {
		var body []Instruction
		for _, instr := range fn.Body {
			body = append(body, legalizeInstr(instr)...)
		}
		fn.Body = body
	}
	return prog
}

func isStack(op Operand) bool {
	_, ok := op.(Stack)
	return ok
}

func isImm(op Operand) bool {
	_, ok := op.(Imm)
	return ok
}

func legalizeInstr(instr Instruction) []Instruction {
	switch in := instr.(type) {
	case Mov:
		if isStack(in.Src) && isStack(in.Dst) {
			return []Instruction{
				Mov{Src: in.Src, Dst: Reg{Name: R10}},
				Mov{Src: Reg{Name: R10}, Dst: in.Dst},
			}
		}
		return []Instruction{in}

	case Cmp:
		if isImm(in.B) {
			return []Instruction{
				Mov{Src: in.B, Dst: Reg{Name: R11}},
				Cmp{A: in.A, B: Reg{Name: R11}},
			}
		}
		if isStack(in.A) && isStack(in.B) {
			return []Instruction{
				Mov{Src: in.A, Dst: Reg{Name: R10}},
				Cmp{A: Reg{Name: R10}, B: in.B},
			}
		}
		return []Instruction{in}

	case Idiv:
		if isImm(in.Operand) {
			return []Instruction{
				Mov{Src: in.Operand, Dst: Reg{Name: R10}},
				Idiv{Operand: Reg{Name: R10}},
			}
		}
		return []Instruction{in}

	case BinaryOp:
		return legalizeBinaryOp(in)

	default:
		return []Instruction{instr}
	}
}

func legalizeBinaryOp(in BinaryOp) []Instruction {
	switch in.Op {
	case Mul:
		// Multiply can never write memory directly.
		if isStack(in.Dst) {
			return []Instruction{
				Mov{Src: in.Dst, Dst: Reg{Name: R11}},
				BinaryOp{Op: Mul, Src: in.Src, Dst: Reg{Name: R11}},
				Mov{Src: Reg{Name: R11}, Dst: in.Dst},
			}
		}
		return []Instruction{in}

	default: // Add, Sub
		if isStack(in.Src) && isStack(in.Dst) {
			return []Instruction{
				Mov{Src: in.Src, Dst: Reg{Name: R10}},
				BinaryOp{Op: in.Op, Src: Reg{Name: R10}, Dst: in.Dst},
			}
		}
		return []Instruction{in}
	}
}
