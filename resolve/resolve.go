// Package resolve implements the variable resolver (SPEC_FULL.md §4.2):
// an AST→AST in-place rewrite that assigns a globally unique symbol to
// every declared variable, rewrites references to it, and rejects
// duplicate declarations in the same block and references to undeclared
// names.
//
// The scope-as-copy-on-enter-mapping design and the use of panic/recover to
// unwind out of the visitor dispatch on the first fatal error are both
// grounded on the donor's compiler/ast_compiler.go (its Local/beginScope/
// endScope bookkeeping and CompileAST's top-level recover), adapted from a
// single flat local-slot stack to the nested source-name-to-unique-name
// mapping SPEC_FULL.md §4.2 calls for.
package resolve

import (
	"fmt"

	"nanoc/ast"
	"nanoc/diag"
)

type binding struct {
	unique       string
	currentBlock bool
}

type scope map[string]binding

// clone returns a copy of s with every entry's currentBlock flag cleared,
// per SPEC_FULL.md §4.2's "entering a nested block clones the enclosing
// scope" rule.
func (s scope) clone() scope {
	ns := make(scope, len(s))
	for name, b := range s {
		b.currentBlock = false
		ns[name] = b
	}
	return ns
}

type resolver struct {
	scope   scope
	counter int
}

// Resolve rewrites prog in place. Each Function starts with a fresh empty
// scope; the unique-name counter is shared across the whole program so
// symbols remain globally unique even across multiple functions.
func Resolve(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	r := &resolver{}
	for _, fn := range prog.Functions {
		r.scope = scope{}
		r.block(fn.Body)
	}
	return nil
}

func (r *resolver) block(b *ast.Block) {
	for _, item := range b.Items {
		item.Accept(r)
	}
}

func (r *resolver) fail(e error) {
	panic(e)
}

// --- ast.StmtVisitor ---

func (r *resolver) VisitDeclaration(d *ast.Declaration) any {
	if existing, ok := r.scope[d.Name]; ok && existing.currentBlock {
		r.fail(&diag.VariableResolutionError{Line: d.Line, Name: d.Name, Message: "duplicate declaration"})
	}
	r.counter++
	unique := fmt.Sprintf("var.%s.renamed.%d", d.Name, r.counter)
	d.Symbol = unique
	r.scope[d.Name] = binding{unique: unique, currentBlock: true}

	// Resolved after recording the binding: makes a self-referencing
	// initializer (`int x = x + 1;`) legal but undefined, per SPEC_FULL.md §9.
	if d.Init != nil {
		d.Init.Accept(r)
	}
	return nil
}

func (r *resolver) VisitReturn(s *ast.Return) any {
	s.Expr.Accept(r)
	return nil
}

func (r *resolver) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	s.Expr.Accept(r)
	return nil
}

func (r *resolver) VisitIf(s *ast.If) any {
	s.Cond.Accept(r)
	s.Then.Accept(r)
	if s.Else != nil {
		s.Else.Accept(r)
	}
	return nil
}

func (r *resolver) VisitCompound(s *ast.Compound) any {
	outer := r.scope
	r.scope = outer.clone()
	r.block(s.Body)
	r.scope = outer
	return nil
}

func (r *resolver) VisitWhile(s *ast.While) any {
	s.Cond.Accept(r)
	s.Body.Accept(r)
	return nil
}

func (r *resolver) VisitDoWhile(s *ast.DoWhile) any {
	s.Body.Accept(r)
	s.Cond.Accept(r)
	return nil
}

func (r *resolver) VisitFor(s *ast.For) any {
	// init, cond, post, and body all share one new nested scope, so a
	// declaration in the init clause shadows an outer name for the rest of
	// the loop (SPEC_FULL.md §4.2).
	outer := r.scope
	r.scope = outer.clone()
	switch init := s.Init.(type) {
	case *ast.Declaration:
		r.VisitDeclaration(init)
	case *ast.ExpressionStmt:
		init.Expr.Accept(r)
	}
	if s.Cond != nil {
		s.Cond.Accept(r)
	}
	if s.Post != nil {
		s.Post.Accept(r)
	}
	s.Body.Accept(r)
	r.scope = outer
	return nil
}

func (r *resolver) VisitBreak(s *ast.Break) any       { return nil }
func (r *resolver) VisitContinue(s *ast.Continue) any { return nil }
func (r *resolver) VisitNull(s *ast.Null) any         { return nil }

// --- ast.ExprVisitor ---

func (r *resolver) VisitNumLiteral(e *ast.NumLiteral) any { return nil }

func (r *resolver) VisitVariable(e *ast.Variable) any {
	b, ok := r.scope[e.Name]
	if !ok {
		r.fail(&diag.VariableResolutionError{Line: e.Line, Name: e.Name, Message: "undeclared variable"})
	}
	e.Symbol = b.unique
	return nil
}

func (r *resolver) VisitUnary(e *ast.Unary) any {
	e.Operand.Accept(r)
	return nil
}

func (r *resolver) VisitBinary(e *ast.Binary) any {
	e.Left.Accept(r)
	e.Right.Accept(r)
	return nil
}

func (r *resolver) VisitAssignment(e *ast.Assignment) any {
	v, ok := e.Lvalue.(*ast.Variable)
	if !ok {
		r.fail(&diag.VariableResolutionError{Line: e.Lvalue.Pos(), Name: "", Message: "invalid assignment target"})
	}
	v.Accept(r)
	e.Rvalue.Accept(r)
	return nil
}

func (r *resolver) VisitConditional(e *ast.Conditional) any {
	e.Cond.Accept(r)
	e.IfTrue.Accept(r)
	e.IfFalse.Accept(r)
	return nil
}
