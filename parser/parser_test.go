package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoc/ast"
	"nanoc/lexer"
)

func parseSource(t *testing.T, source string) *ast.Program {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)
	prog, err := Parse(tokens)
	require.NoError(t, err)
	return prog
}

func TestParseMinimalFunction(t *testing.T) {
	prog := parseSource(t, "int main(void) { return 2; }")
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Items, 1)
	ret, ok := fn.Body.Items[0].(*ast.Return)
	require.True(t, ok)
	lit, ok := ret.Expr.(*ast.NumLiteral)
	require.True(t, ok)
	assert.Equal(t, int32(2), lit.Value)
}

func TestParseDeclarationWithInitializer(t *testing.T) {
	prog := parseSource(t, "int main(void) { int x = 1; return x; }")
	decl, ok := prog.Functions[0].Body.Items[0].(*ast.Declaration)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	require.NotNil(t, decl.Init)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	prog := parseSource(t, "int main(void) { int a = 0; int b = 0; a = b = 1; return a; }")
	stmt, ok := prog.Functions[0].Body.Items[2].(*ast.ExpressionStmt)
	require.True(t, ok)
	outer, ok := stmt.Expr.(*ast.Assignment)
	require.True(t, ok)
	_, ok = outer.Rvalue.(*ast.Assignment)
	assert.True(t, ok, "nested assignment should be right-associative")
}

func TestParseAdditiveIsLeftAssociative(t *testing.T) {
	prog := parseSource(t, "int main(void) { return 1 - 2 - 3; }")
	ret := prog.Functions[0].Body.Items[0].(*ast.Return)
	bin, ok := ret.Expr.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Sub, bin.Op)
	left, ok := bin.Left.(*ast.Binary)
	require.True(t, ok, "left operand should itself be the earlier subtraction")
	assert.Equal(t, ast.Sub, left.Op)
}

func TestParseFactorBindsTighterThanAdditive(t *testing.T) {
	prog := parseSource(t, "int main(void) { return 1 + 2 * 3; }")
	ret := prog.Functions[0].Body.Items[0].(*ast.Return)
	bin := ret.Expr.(*ast.Binary)
	assert.Equal(t, ast.Add, bin.Op)
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, right.Op)
}

func TestParseTernaryIsRightAssociative(t *testing.T) {
	prog := parseSource(t, "int main(void) { return 1 ? 2 : 3 ? 4 : 5; }")
	ret := prog.Functions[0].Body.Items[0].(*ast.Return)
	cond, ok := ret.Expr.(*ast.Conditional)
	require.True(t, ok)
	_, ok = cond.IfFalse.(*ast.Conditional)
	assert.True(t, ok)
}

func TestParsePrefixUnaryOperators(t *testing.T) {
	prog := parseSource(t, "int main(void) { return !-~1; }")
	ret := prog.Functions[0].Body.Items[0].(*ast.Return)
	not, ok := ret.Expr.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.Not, not.Op)
	neg, ok := not.Operand.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.Negate, neg.Op)
	comp, ok := neg.Operand.(*ast.Unary)
	require.True(t, ok)
	assert.Equal(t, ast.Complement, comp.Op)
}

func TestParseIfElse(t *testing.T) {
	prog := parseSource(t, "int main(void) { if (1) return 1; else return 0; }")
	ifStmt, ok := prog.Functions[0].Body.Items[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Else)
}

func TestParseWhileDoWhileFor(t *testing.T) {
	prog := parseSource(t, `int main(void) {
		while (1) { break; }
		do { continue; } while (0);
		for (int i = 0; i < 1; i = i + 1) { ; }
		return 0;
	}`)
	items := prog.Functions[0].Body.Items
	_, ok := items[0].(*ast.While)
	assert.True(t, ok)
	_, ok = items[1].(*ast.DoWhile)
	assert.True(t, ok)
	forStmt, ok := items[2].(*ast.For)
	require.True(t, ok)
	_, ok = forStmt.Init.(*ast.Declaration)
	assert.True(t, ok)
}

func TestParseForWithEmptyClauses(t *testing.T) {
	prog := parseSource(t, "int main(void) { for (;;) { break; } return 0; }")
	forStmt := prog.Functions[0].Body.Items[0].(*ast.For)
	assert.Nil(t, forStmt.Init)
	assert.Nil(t, forStmt.Cond)
	assert.Nil(t, forStmt.Post)
}

func TestParseForWithExpressionInit(t *testing.T) {
	prog := parseSource(t, "int main(void) { int i = 0; for (i = 1; i < 2; i = i + 1) { ; } return i; }")
	forStmt := prog.Functions[0].Body.Items[1].(*ast.For)
	_, ok := forStmt.Init.(*ast.ExpressionStmt)
	assert.True(t, ok)
}

func TestParseCompoundStatement(t *testing.T) {
	prog := parseSource(t, "int main(void) { { int x = 1; } return 0; }")
	_, ok := prog.Functions[0].Body.Items[0].(*ast.Compound)
	assert.True(t, ok)
}

func TestParseNullStatement(t *testing.T) {
	prog := parseSource(t, "int main(void) { ; return 0; }")
	_, ok := prog.Functions[0].Body.Items[0].(*ast.Null)
	assert.True(t, ok)
}

func TestParseMissingSemicolonFails(t *testing.T) {
	tokens, err := lexer.New("int main(void) { return 0 }").Scan()
	require.NoError(t, err)
	_, err = Parse(tokens)
	assert.Error(t, err)
}

func TestParseCompoundAssignmentOperatorFails(t *testing.T) {
	// += is a lexical token but has no grammar production (SPEC_FULL.md §3):
	// this must fail in the parser, not the lexer.
	tokens, err := lexer.New("int main(void) { int a = 0; a += 1; return a; }").Scan()
	require.NoError(t, err)
	_, err = Parse(tokens)
	assert.Error(t, err)
}
