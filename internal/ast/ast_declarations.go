package ast

import (
	"fmt"

	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/typesystem"
)

// setOnce fills a type slot. Overwriting a resolved type is a contract
// violation and panics with a *diagnostics.InternalError.
func setOnce(slot *typesystem.Type, t typesystem.Type, owner string) {
	if typesystem.IsResolved(*slot) {
		panic(&diagnostics.InternalError{
			Op:      "setReturnType",
			Symbol:  owner,
			Message: fmt.Sprintf("return type already resolved to %s, refusing %s", *slot, t),
		})
	}
	*slot = t
}

// Function is a named function. Return is nil or typesystem.Implicit when omitted in source.
type Function struct {
	Sym    *Symbol
	Params []*ValueParameter
	Return typesystem.Type
	Body   Expression
}

func (fn *Function) TokenLiteral() string { return fn.Sym.ID.Name }
func (fn *Function) Symbol() *Symbol      { return fn.Sym }

func (fn *Function) ReturnType() typesystem.Type {
	if fn.Return == nil {
		return typesystem.Implicit
	}
	return fn.Return
}

func (fn *Function) SetReturnType(t typesystem.Type) { setOnce(&fn.Return, t, fn.Sym.String()) }

func (fn *Function) Transform(t Transformer) Declaration      { return t.TransformFunction(fn) }
func (fn *Function) TransformCallable(t Transformer) Callable { return t.TransformFunction(fn) }

// Copy returns a shallow copy sharing symbol, parameters and body.
func (fn *Function) Copy() *Function {
	c := *fn
	return &c
}

// Property is a named property. Type is nil or typesystem.Implicit when omitted in source.
type Property struct {
	Sym         *Symbol
	Type        typesystem.Type
	Initializer Expression
}

func (p *Property) TokenLiteral() string { return p.Sym.ID.Name }
func (p *Property) Symbol() *Symbol      { return p.Sym }

func (p *Property) ReturnType() typesystem.Type {
	if p.Type == nil {
		return typesystem.Implicit
	}
	return p.Type
}

func (p *Property) SetReturnType(t typesystem.Type) { setOnce(&p.Type, t, p.Sym.String()) }

func (p *Property) Transform(t Transformer) Declaration      { return t.TransformProperty(p) }
func (p *Property) TransformCallable(t Transformer) Callable { return t.TransformProperty(p) }

// Copy returns a shallow copy sharing symbol and initializer.
func (p *Property) Copy() *Property {
	c := *p
	return &c
}

// ValueParameter is a function parameter. It has a type slot but no symbol of
// its own and is never scheduled for resolution.
type ValueParameter struct {
	Name string
	Type typesystem.Type
}

func (vp *ValueParameter) TokenLiteral() string { return vp.Name }

func (vp *ValueParameter) ReturnType() typesystem.Type {
	if vp.Type == nil {
		return typesystem.Implicit
	}
	return vp.Type
}

func (vp *ValueParameter) SetReturnType(t typesystem.Type) { setOnce(&vp.Type, t, "parameter "+vp.Name) }
