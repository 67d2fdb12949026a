// Package infer is the body resolver used by the command line driver: it
// types the bodies and initializers of declarations with implicit types,
// asking the pass for the types of everything they refer to.
package infer

import (
	"errors"
	"fmt"

	"github.com/funvibe/implres/internal/analyzer"
	"github.com/funvibe/implres/internal/ast"
)

// ErrNoBody is returned for an implicitly typed declaration without a body or initializer.
var ErrNoBody = errors.New("implicit type without a body")

// Resolver implements analyzer.BodyResolver.
type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

func (r *Resolver) ResolveBody(scope *analyzer.Scope, decl ast.Callable) (ast.Callable, error) {
	switch d := decl.(type) {
	case *ast.Function:
		if d.Body == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoBody, d.Sym)
		}
		ctx := newInferenceContext(scope, d.Params)
		t := ctx.infer(d.Body)
		res := d.Copy()
		res.SetReturnType(t)
		return res, nil
	case *ast.Property:
		if d.Initializer == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoBody, d.Sym)
		}
		ctx := newInferenceContext(scope, nil)
		t := ctx.infer(d.Initializer)
		res := d.Copy()
		res.SetReturnType(t)
		return res, nil
	default:
		return nil, fmt.Errorf("unsupported declaration %T", decl)
	}
}
