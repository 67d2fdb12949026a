package analyzer

import (
	"fmt"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/prettyprinter"
	"github.com/funvibe/implres/internal/session"
	"github.com/funvibe/implres/internal/typesystem"
)

// ReturnTypeCalculator answers the return type of any declaration, possibly
// from inside the resolution of another one. When the answer is not known yet
// it jumps to the declaration with a designated walk.
type ReturnTypeCalculator struct {
	pass *Pass
}

// TypeOf never fails for recoverable conditions: parameters with implicit
// types, cycles and unreachable declarations yield error types.
func (c *ReturnTypeCalculator) TypeOf(decl ast.TypedDeclaration) typesystem.Type {
	p := c.pass
	if vp, ok := decl.(*ast.ValueParameter); ok && !typesystem.IsResolved(vp.ReturnType()) {
		et := typesystem.NewErrorType(diagnostics.ErrI003, config.UnsupportedParameterMessage+": "+vp.Name)
		vp.SetReturnType(et)
		p.report(et.Diagnostic)
	}

	if t := decl.ReturnType(); typesystem.IsResolved(t) {
		return t
	}

	callable, ok := decl.(ast.Callable)
	if !ok {
		panic(diagnostics.Internalf("tryCalculateReturnType", "%T: %s", decl, prettyprinter.Render(decl)))
	}
	sym := callable.Symbol()
	p.graph.AddDependency(p.current(), callable)

	switch st := p.session.Status(sym).(type) {
	case session.Computed:
		return st.Type
	case session.Failed:
		return st.Declaration.ReturnType()
	case session.Computing:
		p.logger.Printf("%s: recursion in implicit types at %s", p, sym)
		et := typesystem.NewErrorType(diagnostics.ErrI001, config.RecursionMessage+": "+sym.String())
		p.report(et.Diagnostic)
		return et
	default:
		return c.computeReturnType(callable)
	}
}

// computeReturnType resolves a NotComputed declaration by walking only its
// designation path.
func (c *ReturnTypeCalculator) computeReturnType(decl ast.Callable) typesystem.Type {
	p := c.pass
	d, err := BuildDesignation(p.provider, decl)
	if err != nil {
		p.logger.Printf("%s: no designation for %s: %v", p, decl.Symbol(), err)
		et := typesystem.NewErrorType(diagnostics.ErrI002, fmt.Sprintf("%s: %v", config.CannotCalculateMessage, err))
		p.report(et.Diagnostic)
		return et
	}

	p.logger.Printf("%s: jump to %s via %s", p, decl.Symbol(), d)
	w := newDesignatedWalker(p, d)
	w.run()

	if w.last == nil {
		panic(diagnostics.Internalf("computeReturnType", "designated walk to %s produced no declaration", decl.Symbol()))
	}
	if target := d.Target().Symbol(); w.last.Symbol() != target {
		panic(diagnostics.Internalf("computeReturnType", "designated walk to %s ended at %s", target, w.last.Symbol()))
	}
	t := w.last.ReturnType()
	if !typesystem.IsResolved(t) {
		panic(&diagnostics.InternalError{
			Op:      "computeReturnType",
			Symbol:  decl.Symbol().String(),
			Status:  p.session.Status(decl.Symbol()).String(),
			Message: "designated walk left the return type unresolved",
			Render:  prettyprinter.Render(w.last),
		})
	}
	return t
}
