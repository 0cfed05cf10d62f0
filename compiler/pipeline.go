// Package compiler wires the lexer and the core passes (parser, variable
// resolver, loop labeler, TAC generator, and the three codegen passes) into
// the straight-line pipeline described in SPEC_FULL.md §2. The emitter is
// not called here; the driver in main.go runs emit.Program on Codegen's
// result.
// Each exported function runs the pipeline up to one stage and is the
// entrypoint both the driver's stage flags and the supplemental debug shell
// use to stop early and inspect an intermediate tree.
package compiler

import (
	"nanoc/ast"
	"nanoc/codegen"
	"nanoc/lexer"
	"nanoc/looplabel"
	"nanoc/parser"
	"nanoc/resolve"
	"nanoc/tacgen"
	"nanoc/token"
)

// Lex runs the lexer only.
func Lex(source string) ([]token.Token, error) {
	return lexer.New(source).Scan()
}

// Parse runs the lexer and parser, producing an AST with no semantic
// rewrites applied yet.
func Parse(source string) (*ast.Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	return parser.Parse(tokens)
}

// Validate runs the parser followed by both semantic passes (variable
// resolution, then loop labeling), rewriting the AST in place.
func Validate(source string) (*ast.Program, error) {
	prog, err := Parse(source)
	if err != nil {
		return nil, err
	}
	if err := resolve.Resolve(prog); err != nil {
		return nil, err
	}
	if err := looplabel.Label(prog); err != nil {
		return nil, err
	}
	return prog, nil
}

// Tacky runs the pipeline through TAC generation.
func Tacky(source string) (*tacgen.Program, error) {
	prog, err := Validate(source)
	if err != nil {
		return nil, err
	}
	return tacgen.Generate(prog), nil
}

// Codegen runs the pipeline through all three codegen passes: selection,
// stack assignment, and legalization.
func Codegen(source string) (*codegen.Program, error) {
	tac, err := Tacky(source)
	if err != nil {
		return nil, err
	}
	asmProg := codegen.Select(tac)
	codegen.AssignStack(asmProg)
	codegen.Legalize(asmProg)
	return asmProg, nil
}
