package tacgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoc/lexer"
	"nanoc/looplabel"
	"nanoc/parser"
	"nanoc/resolve"
)

func generate(t *testing.T, source string) *Program {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)
	require.NoError(t, resolve.Resolve(prog))
	require.NoError(t, looplabel.Label(prog))
	return Generate(prog)
}

func TestGenerateReturnConstant(t *testing.T) {
	tac := generate(t, "int main(void) { return 2; }")
	fn := tac.Functions[0]
	require.Len(t, fn.Body, 1)
	ret, ok := fn.Body[0].(Return)
	require.True(t, ok)
	assert.Equal(t, Constant{Value: 2}, ret.Val)
}

func TestGenerateUnaryProducesTempAndInstruction(t *testing.T) {
	tac := generate(t, "int main(void) { return -2; }")
	fn := tac.Functions[0]
	require.Len(t, fn.Body, 2)
	unary, ok := fn.Body[0].(Unary)
	require.True(t, ok)
	assert.Equal(t, Negate, unary.Op)
	ret := fn.Body[1].(Return)
	assert.Equal(t, unary.Dst, ret.Val)
}

func TestGenerateBinaryAddition(t *testing.T) {
	tac := generate(t, "int main(void) { return 1 + 2; }")
	fn := tac.Functions[0]
	bin, ok := fn.Body[0].(Binary)
	require.True(t, ok)
	assert.Equal(t, Add, bin.Op)
	assert.Equal(t, Constant{Value: 1}, bin.Src1)
	assert.Equal(t, Constant{Value: 2}, bin.Src2)
}

func TestGenerateLogicalAndShortCircuits(t *testing.T) {
	tac := generate(t, "int main(void) { int a = 1; int b = 0; return a && b; }")
	fn := tac.Functions[0]
	var sawFalseLabel, sawJumpIfZero int
	for _, instr := range fn.Body {
		switch in := instr.(type) {
		case Label:
			if len(in.Name) >= 5 && in.Name[:5] == "false" {
				sawFalseLabel++
			}
		case JumpIfZero:
			sawJumpIfZero++
		}
	}
	assert.Equal(t, 1, sawFalseLabel)
	assert.Equal(t, 2, sawJumpIfZero, "both operands of && should be tested with JumpIfZero")
}

func TestGenerateLogicalOrShortCircuits(t *testing.T) {
	tac := generate(t, "int main(void) { int a = 0; int b = 1; return a || b; }")
	fn := tac.Functions[0]
	var sawJumpIfNotZero int
	for _, instr := range fn.Body {
		if _, ok := instr.(JumpIfNotZero); ok {
			sawJumpIfNotZero++
		}
	}
	assert.Equal(t, 2, sawJumpIfNotZero)
}

func TestGenerateIfWithoutElse(t *testing.T) {
	tac := generate(t, "int main(void) { if (1) return 1; return 0; }")
	fn := tac.Functions[0]
	_, ok := fn.Body[0].(JumpIfZero)
	assert.True(t, ok)
}

func TestGenerateWhileLoopShape(t *testing.T) {
	tac := generate(t, "int main(void) { while (1) { break; } return 0; }")
	fn := tac.Functions[0]
	first, ok := fn.Body[0].(Label)
	require.True(t, ok)
	assert.Contains(t, first.Name, "_continue")
	// The loop's break label is the last instruction before the trailing
	// `return 0`.
	last := fn.Body[len(fn.Body)-2]
	lastLabel, ok := last.(Label)
	require.True(t, ok)
	assert.Contains(t, lastLabel.Name, "_break")
}

func TestGenerateDeclarationWithoutInitializerEmitsNothing(t *testing.T) {
	tac := generate(t, "int main(void) { int x; return 0; }")
	fn := tac.Functions[0]
	ret, ok := fn.Body[0].(Return)
	require.True(t, ok)
	assert.Equal(t, Constant{Value: 0}, ret.Val)
}

func TestGenerateAssignmentEmitsCopy(t *testing.T) {
	tac := generate(t, "int main(void) { int x = 0; x = 5; return x; }")
	fn := tac.Functions[0]
	var sawCopyFromFive bool
	for _, instr := range fn.Body {
		if cp, ok := instr.(Copy); ok {
			if c, ok := cp.Src.(Constant); ok && c.Value == 5 {
				sawCopyFromFive = true
			}
		}
	}
	assert.True(t, sawCopyFromFive)
}
