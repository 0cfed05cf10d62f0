package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanoc/ast"
	"nanoc/lexer"
	"nanoc/parser"
)

func parseAndResolve(t *testing.T, source string) (*ast.Program, error) {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)
	prog, err := parser.Parse(tokens)
	require.NoError(t, err)
	return prog, Resolve(prog)
}

func TestResolveRenamesDeclarationAndReference(t *testing.T) {
	prog, err := parseAndResolve(t, "int main(void) { int x = 1; return x; }")
	require.NoError(t, err)
	decl := prog.Functions[0].Body.Items[0].(*ast.Declaration)
	ret := prog.Functions[0].Body.Items[1].(*ast.Return)
	ref := ret.Expr.(*ast.Variable)
	assert.NotEqual(t, "x", decl.Symbol)
	assert.Equal(t, decl.Symbol, ref.Symbol)
}

func TestResolveDuplicateDeclarationInSameBlockFails(t *testing.T) {
	_, err := parseAndResolve(t, "int main(void) { int x = 1; int x = 2; return x; }")
	assert.Error(t, err)
}

func TestResolveUndeclaredVariableFails(t *testing.T) {
	_, err := parseAndResolve(t, "int main(void) { return y; }")
	assert.Error(t, err)
}

func TestResolveShadowingInNestedBlockIsAllowed(t *testing.T) {
	prog, err := parseAndResolve(t, "int main(void) { int x = 1; { int x = 2; } return x; }")
	require.NoError(t, err)
	outer := prog.Functions[0].Body.Items[0].(*ast.Declaration)
	inner := prog.Functions[0].Body.Items[1].(*ast.Compound).Body.Items[0].(*ast.Declaration)
	assert.NotEqual(t, outer.Symbol, inner.Symbol)
}

func TestResolveAssignmentToNonVariableFails(t *testing.T) {
	_, err := parseAndResolve(t, "int main(void) { 1 = 2; return 0; }")
	assert.Error(t, err)
}

func TestResolveSelfReferencingInitializerIsLegal(t *testing.T) {
	// Legal but undefined (SPEC_FULL.md §9): resolved as if x were already
	// in scope for its own initializer.
	_, err := parseAndResolve(t, "int main(void) { int x = x + 1; return x; }")
	assert.NoError(t, err)
}

func TestResolveForInitDeclarationScopedToLoop(t *testing.T) {
	prog, err := parseAndResolve(t, "int main(void) { int i = 0; for (int i = 1; i < 2; i = i + 1) { ; } return i; }")
	require.NoError(t, err)
	outer := prog.Functions[0].Body.Items[0].(*ast.Declaration)
	forStmt := prog.Functions[0].Body.Items[1].(*ast.For)
	inner := forStmt.Init.(*ast.Declaration)
	assert.NotEqual(t, outer.Symbol, inner.Symbol)
}
