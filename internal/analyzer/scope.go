package analyzer

import (
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/symbols"
	"github.com/funvibe/implres/internal/typesystem"
)

// Scope is what a BodyResolver sees of the pass while resolving one declaration.
type Scope struct {
	pass       *Pass
	containers []ast.Container // File first, then enclosing classes
}

// File returns the file being resolved, nil outside of any file.
func (s *Scope) File() *ast.File {
	if len(s.containers) == 0 {
		return nil
	}
	f, _ := s.containers[0].(*ast.File)
	return f
}

// Containers returns the enclosing containers, outermost first.
func (s *Scope) Containers() []ast.Container {
	return s.containers
}

// TypeOf returns the return type of another declaration, resolving it on demand.
func (s *Scope) TypeOf(decl ast.TypedDeclaration) typesystem.Type {
	return s.pass.calculator.TypeOf(decl)
}

// Report records a diagnostic against the declaration being resolved.
func (s *Scope) Report(d *diagnostics.DiagnosticError) {
	s.pass.report(d)
}

// Provider is the declaration store of the pass.
func (s *Scope) Provider() symbols.Provider {
	return s.pass.provider
}
