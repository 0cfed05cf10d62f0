package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoc/tacgen"
)

func selectProgram(instrs ...tacgen.Instruction) *Program {
	return Select(&tacgen.Program{Functions: []*tacgen.Function{{Name: "main", Body: instrs}}})
}

func TestSelectReturnConstant(t *testing.T) {
	prog := selectProgram(tacgen.Return{Val: tacgen.Constant{Value: 2}})
	body := prog.Functions[0].Body
	require.Len(t, body, 2)
	mov, ok := body[0].(Mov)
	require.True(t, ok)
	assert.Equal(t, Imm{Value: 2}, mov.Src)
	assert.Equal(t, Reg{Name: AX}, mov.Dst)
	_, ok = body[1].(Ret)
	assert.True(t, ok)
}

func TestSelectLogicalNotUsesCmpAndSetCC(t *testing.T) {
	prog := selectProgram(tacgen.Unary{Op: tacgen.Not, Src: tacgen.Constant{Value: 0}, Dst: tacgen.Variable{Symbol: "t1"}})
	body := prog.Functions[0].Body
	require.Len(t, body, 3)
	_, ok := body[0].(Cmp)
	assert.True(t, ok)
	_, ok = body[1].(Mov)
	assert.True(t, ok)
	setcc, ok := body[2].(SetCC)
	require.True(t, ok)
	assert.Equal(t, E, setcc.Cond)
}

func TestSelectDivisionUsesCdqAndIdiv(t *testing.T) {
	prog := selectProgram(tacgen.Binary{
		Op: tacgen.Div, Src1: tacgen.Constant{Value: 10}, Src2: tacgen.Constant{Value: 2},
		Dst: tacgen.Variable{Symbol: "t1"},
	})
	body := prog.Functions[0].Body
	require.Len(t, body, 4)
	_, ok := body[1].(Cdq)
	assert.True(t, ok)
	idiv, ok := body[2].(Idiv)
	require.True(t, ok)
	assert.Equal(t, Imm{Value: 2}, idiv.Operand)
	mov := body[3].(Mov)
	assert.Equal(t, Reg{Name: AX}, mov.Src)
}

func TestSelectModuloReadsFromDX(t *testing.T) {
	prog := selectProgram(tacgen.Binary{
		Op: tacgen.Mod, Src1: tacgen.Constant{Value: 10}, Src2: tacgen.Constant{Value: 3},
		Dst: tacgen.Variable{Symbol: "t1"},
	})
	body := prog.Functions[0].Body
	mov := body[3].(Mov)
	assert.Equal(t, Reg{Name: DX}, mov.Src)
}

func TestSelectRelationalReversesCmpOperands(t *testing.T) {
	prog := selectProgram(tacgen.Binary{
		Op: tacgen.Less, Src1: tacgen.Constant{Value: 1}, Src2: tacgen.Constant{Value: 2},
		Dst: tacgen.Variable{Symbol: "t1"},
	})
	body := prog.Functions[0].Body
	cmp := body[0].(Cmp)
	assert.Equal(t, Imm{Value: 2}, cmp.A)
	assert.Equal(t, Imm{Value: 1}, cmp.B)
	setcc := body[2].(SetCC)
	assert.Equal(t, L, setcc.Cond)
}

func TestAssignStackAllocatesDistinctSlotsAndPrependsAllocateStack(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{
			Mov{Src: Imm{Value: 1}, Dst: Pseudo{Symbol: "a"}},
			Mov{Src: Pseudo{Symbol: "a"}, Dst: Pseudo{Symbol: "b"}},
		},
	}}}
	AssignStack(prog)
	body := prog.Functions[0].Body
	alloc, ok := body[0].(AllocateStack)
	require.True(t, ok)
	assert.Equal(t, int32(8), alloc.Bytes)

	mov1 := body[1].(Mov)
	slotA := mov1.Dst.(Stack)
	mov2 := body[2].(Mov)
	slotAAgain := mov2.Src.(Stack)
	slotB := mov2.Dst.(Stack)
	assert.Equal(t, slotA, slotAAgain)
	assert.NotEqual(t, slotA, slotB)
}

func TestAssignStackOmitsAllocateStackWhenNoPseudos(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{Mov{Src: Imm{Value: 1}, Dst: Reg{Name: AX}}, Ret{}},
	}}}
	AssignStack(prog)
	_, ok := prog.Functions[0].Body[0].(AllocateStack)
	assert.False(t, ok)
}

func TestLegalizeSplitsStackToStackMov(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{Mov{Src: Stack{Offset: -4}, Dst: Stack{Offset: -8}}},
	}}}
	Legalize(prog)
	body := prog.Functions[0].Body
	require.Len(t, body, 2)
	first := body[0].(Mov)
	assert.Equal(t, Reg{Name: R10}, first.Dst)
	second := body[1].(Mov)
	assert.Equal(t, Reg{Name: R10}, second.Src)
}

func TestLegalizeCmpWithImmSecondOperand(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{Cmp{A: Stack{Offset: -4}, B: Imm{Value: 1}}},
	}}}
	Legalize(prog)
	body := prog.Functions[0].Body
	require.Len(t, body, 2)
	mov := body[0].(Mov)
	assert.Equal(t, Reg{Name: R11}, mov.Dst)
	cmp := body[1].(Cmp)
	assert.Equal(t, Reg{Name: R11}, cmp.B)
}

func TestLegalizeMulWithStackDestinationShuttlesThroughR11(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{BinaryOp{Op: Mul, Src: Imm{Value: 2}, Dst: Stack{Offset: -4}}},
	}}}
	Legalize(prog)
	body := prog.Functions[0].Body
	require.Len(t, body, 3)
	assert.Equal(t, Reg{Name: R11}, body[0].(Mov).Dst)
	assert.Equal(t, Reg{Name: R11}, body[1].(BinaryOp).Dst)
	assert.Equal(t, Reg{Name: R11}, body[2].(Mov).Src)
}

func TestLegalizeIdivWithImmediateOperand(t *testing.T) {
	prog := &Program{Functions: []*Function{{
		Name: "main",
		Body: []Instruction{Idiv{Operand: Imm{Value: 2}}},
	}}}
	Legalize(prog)
	body := prog.Functions[0].Body
	require.Len(t, body, 2)
	assert.Equal(t, Reg{Name: R10}, body[0].(Mov).Dst)
	assert.Equal(t, Reg{Name: R10}, body[1].(Idiv).Operand)
}
