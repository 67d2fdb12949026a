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

// resolveCached runs transform for decl at most once per pass and memoizes the
// result in the session. Declarations with a resolved type pass through
// without touching the session.
func resolveCached[D ast.Callable](p *Pass, decl D, transform func() (D, error)) D {
	if typesystem.IsResolved(decl.ReturnType()) {
		return decl
	}
	sym := decl.Symbol()
	switch st := p.session.Status(sym).(type) {
	case session.Computed:
		return expect[D](st.Declaration, "transformCallable")
	case session.Failed:
		return expect[D](st.Declaration, "transformCallable")
	case session.NotComputed:
	default:
		// A reentrant request for a Computing symbol must be answered by the
		// calculator before any walk reaches it.
		panic(&diagnostics.InternalError{
			Op:      "transformCallable",
			Symbol:  sym.String(),
			Status:  st.String(),
			Message: "unexpected status",
			Render:  prettyprinter.Render(decl),
		})
	}

	p.session.StartComputing(sym)
	p.push(decl)
	p.logger.Printf("%s: resolving %s (depth %d)", p, sym, len(p.inProgress))

	result, err := transform()
	if err != nil {
		if t := decl.ReturnType(); typesystem.IsResolved(t) {
			panic(&diagnostics.InternalError{
				Op:      "transformCallable",
				Symbol:  sym.String(),
				Status:  p.session.Status(sym).String(),
				Message: fmt.Sprintf("resolution failed (%v) after the return type was set to %s", err, t),
				Render:  prettyprinter.Render(decl),
			})
		}
		et := typesystem.NewErrorType(diagnostics.ErrI004, fmt.Sprintf("%s: %v", config.ResolutionFailedMessage, err))
		decl.SetReturnType(et)
		p.report(et.Diagnostic)
		p.pop(decl)
		p.session.Fail(sym, err, decl)
		p.logger.Printf("%s: %s failed: %v", p, sym, err)
		return decl
	}
	p.pop(decl)

	if result.Symbol() != sym {
		panic(&diagnostics.InternalError{
			Op:      "transformCallable",
			Symbol:  sym.String(),
			Message: "transformed declaration has symbol " + result.Symbol().String(),
			Render:  prettyprinter.Render(result),
		})
	}
	p.session.StoreResult(sym, result.ReturnType(), result)
	p.logger.Printf("%s: resolved %s: %s", p, sym, result.ReturnType())
	return result
}

// resolveBody invokes the body resolver and checks the callable kind survived.
func resolveBody[D ast.Callable](p *Pass, scope *Scope, decl D) (D, error) {
	p.bodyCalls++
	res, err := p.body.ResolveBody(scope, decl)
	if err != nil {
		var zero D
		return zero, err
	}
	return expect[D](res, "resolveBody"), nil
}

func expect[D ast.Callable](c ast.Callable, op string) D {
	d, ok := c.(D)
	if !ok {
		var zero D
		panic(diagnostics.Internalf(op, "expected %T, got %T", zero, c))
	}
	return d
}
