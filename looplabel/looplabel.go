// Package looplabel implements the loop labeler (SPEC_FULL.md §4.3): an
// AST→AST in-place rewrite that attaches a unique label to every loop and
// binds break/continue to the label of their innermost enclosing loop,
// rejecting a break/continue that appears outside any loop.
//
// Like resolve, this carries state (here: "what loop, if any, is currently
// active") through the visitor dispatch and uses panic/recover to unwind on
// the first error, grounded on the same donor traversal shape as
// compiler/ast_compiler.go.
package looplabel

import (
	"fmt"

	"nanoc/ast"
	"nanoc/diag"
)

type labeler struct {
	current string // "" means no enclosing loop
	counter int
}

// Label rewrites prog in place, assigning a fresh label to every loop node
// and binding every Break/Continue to its innermost enclosing loop's label.
func Label(prog *ast.Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	l := &labeler{}
	for _, fn := range prog.Functions {
		l.current = ""
		l.block(fn.Body)
	}
	return nil
}

func (l *labeler) block(b *ast.Block) {
	for _, item := range b.Items {
		item.Accept(l)
	}
}

func (l *labeler) fresh() string {
	l.counter++
	return fmt.Sprintf("loop_%d", l.counter)
}

// --- ast.StmtVisitor ---

func (l *labeler) VisitDeclaration(d *ast.Declaration) any { return nil }

func (l *labeler) VisitReturn(s *ast.Return) any { return nil }

func (l *labeler) VisitExpressionStmt(s *ast.ExpressionStmt) any { return nil }

func (l *labeler) VisitIf(s *ast.If) any {
	s.Then.Accept(l)
	if s.Else != nil {
		s.Else.Accept(l)
	}
	return nil
}

func (l *labeler) VisitCompound(s *ast.Compound) any {
	l.block(s.Body)
	return nil
}

func (l *labeler) VisitWhile(s *ast.While) any {
	s.Label = l.fresh()
	outer := l.current
	l.current = s.Label
	s.Body.Accept(l)
	l.current = outer
	return nil
}

func (l *labeler) VisitDoWhile(s *ast.DoWhile) any {
	s.Label = l.fresh()
	outer := l.current
	l.current = s.Label
	s.Body.Accept(l)
	l.current = outer
	return nil
}

func (l *labeler) VisitFor(s *ast.For) any {
	s.Label = l.fresh()
	outer := l.current
	l.current = s.Label
	s.Body.Accept(l)
	l.current = outer
	return nil
}

func (l *labeler) VisitBreak(s *ast.Break) any {
	if l.current == "" {
		panic(&diag.LoopLabelingError{Line: s.Line, Message: "break outside any loop"})
	}
	s.Label = l.current
	return nil
}

func (l *labeler) VisitContinue(s *ast.Continue) any {
	if l.current == "" {
		panic(&diag.LoopLabelingError{Line: s.Line, Message: "continue outside any loop"})
	}
	s.Label = l.current
	return nil
}

func (l *labeler) VisitNull(s *ast.Null) any { return nil }
