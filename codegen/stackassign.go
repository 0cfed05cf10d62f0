package codegen

// AssignStack replaces every distinct Pseudo operand with a stack slot at
// successively decreasing 4-byte offsets from the frame base, first-fit, in
// first-encountered order, and prepends an AllocateStack instruction sized
// to the total if any slot was assigned (SPEC_FULL.md §4.6).
func AssignStack(prog *Program) *Program {
	for _, fn := range prog.Functions {
		slots := map[string]int32{}
		next := int32(0)

		assign := func(op Operand) Operand {
			p, ok := op.(Pseudo)
			if !ok {
				return op
			}
			off, seen := slots[p.Symbol]
			if !seen {
				next -= 4
				off = next
				slots[p.Symbol] = off
			}
			return Stack{Offset: off}
		}

		body := make([]Instruction, 0, len(fn.Body)+1)
		for _, instr := range fn.Body {
			body = append(body, rewriteOperands(instr, assign))
		}
		if len(slots) > 0 {
			body = append([]Instruction{AllocateStack{Bytes: int32(len(slots)) * 4}}, body...)
		}
		fn.Body = body
	}
	return prog
}

// rewriteOperands returns instr with every operand passed through rewrite.
// Instructions with no operand (Cdq, Ret, Label, Jmp, JmpCC, AllocateStack)
// pass through unchanged.
func rewriteOperands(instr Instruction, rewrite func(Operand) Operand) Instruction {
	switch in := instr.(type) {
	case Mov:
		return Mov{Src: rewrite(in.Src), Dst: rewrite(in.Dst)}
	case UnaryOp:
		return UnaryOp{Op: in.Op, Operand: rewrite(in.Operand)}
	case BinaryOp:
		return BinaryOp{Op: in.Op, Src: rewrite(in.Src), Dst: rewrite(in.Dst)}
	case Cmp:
		return Cmp{A: rewrite(in.A), B: rewrite(in.B)}
	case Idiv:
		return Idiv{Operand: rewrite(in.Operand)}
	case SetCC:
		return SetCC{Cond: in.Cond, Operand: rewrite(in.Operand)}
	default:
		return instr
	}
}
