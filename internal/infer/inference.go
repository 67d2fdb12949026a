package infer

import (
	"fmt"
	"strings"

	"github.com/funvibe/implres/internal/analyzer"
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/symbols"
	"github.com/funvibe/implres/internal/typesystem"
)

// topLevelLookup is implemented by providers that can find declarations of
// other files of the same package.
type topLevelLookup interface {
	LookupTopLevel(pkg, name string) (ast.Declaration, bool)
}

type inferenceContext struct {
	scope  *analyzer.Scope
	params []*ast.ValueParameter
}

func newInferenceContext(scope *analyzer.Scope, params []*ast.ValueParameter) *inferenceContext {
	return &inferenceContext{scope: scope, params: params}
}

func (ctx *inferenceContext) infer(e ast.Expression) typesystem.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return inferLiteral(n)
	case *ast.Reference:
		return ctx.inferReference(n.Name)
	case *ast.CallExpression:
		return ctx.inferCall(n)
	case *ast.BlockExpression:
		return ctx.inferBlock(n)
	case *ast.IfExpression:
		return ctx.inferIf(n)
	default:
		return ctx.unresolved(fmt.Sprintf("%s: unsupported expression %T", config.UnresolvedReferenceMessage, e))
	}
}

func inferLiteral(n *ast.Literal) typesystem.Type {
	if !typesystem.IsResolved(n.Type) {
		return typesystem.Con(config.AnyTypeName)
	}
	return n.Type
}

func (ctx *inferenceContext) inferReference(name string) typesystem.Type {
	decl, ok := ctx.lookup(name)
	if !ok {
		return ctx.unresolved(fmt.Sprintf("%s: %s", config.UnresolvedReferenceMessage, name))
	}
	typed, ok := decl.(ast.TypedDeclaration)
	if !ok {
		return ctx.unresolved(fmt.Sprintf("%s: %s is not a value", config.UnresolvedReferenceMessage, name))
	}
	return ctx.scope.TypeOf(typed)
}

// inferCall types the arguments for their dependencies only; the call has the callee's type.
func (ctx *inferenceContext) inferCall(n *ast.CallExpression) typesystem.Type {
	for _, arg := range n.Arguments {
		ctx.infer(arg)
	}
	return ctx.inferReference(n.Callee)
}

func (ctx *inferenceContext) inferBlock(n *ast.BlockExpression) typesystem.Type {
	var last typesystem.Type = typesystem.Con(config.UnitTypeName)
	for _, e := range n.Expressions {
		last = ctx.infer(e)
	}
	return last
}

func (ctx *inferenceContext) inferIf(n *ast.IfExpression) typesystem.Type {
	thenType := ctx.infer(n.Then)
	elseType := ctx.infer(n.Else)
	if _, ok := typesystem.IsError(thenType); ok {
		return thenType
	}
	if _, ok := typesystem.IsError(elseType); ok {
		return elseType
	}
	if typesystem.Equal(thenType, elseType) {
		return thenType
	}
	return typesystem.Con(config.AnyTypeName)
}

// lookup resolves a possibly dotted name: parameters, then the enclosing
// containers innermost first, then top-level declarations of the package.
func (ctx *inferenceContext) lookup(name string) (ast.Node, bool) {
	parts := strings.Split(name, ".")
	decl, ok := ctx.lookupFirst(parts[0], len(parts) == 1)
	for _, part := range parts[1:] {
		if !ok {
			break
		}
		cls, isClass := decl.(*ast.Class)
		if !isClass {
			return nil, false
		}
		decl, ok = symbols.FindMember(cls, part)
	}
	return decl, ok
}

func (ctx *inferenceContext) lookupFirst(name string, allowParams bool) (ast.Node, bool) {
	if allowParams {
		for _, p := range ctx.params {
			if p.Name == name {
				return p, true
			}
		}
	}
	containers := ctx.scope.Containers()
	for i := len(containers) - 1; i >= 0; i-- {
		if d, ok := symbols.FindMember(containers[i], name); ok {
			return d, true
		}
	}
	file := ctx.scope.File()
	if file == nil {
		return nil, false
	}
	if idx, ok := ctx.scope.Provider().(topLevelLookup); ok {
		return idx.LookupTopLevel(file.Package, name)
	}
	return nil, false
}

func (ctx *inferenceContext) unresolved(msg string) typesystem.Type {
	t := typesystem.NewErrorType(diagnostics.ErrI005, msg)
	ctx.scope.Report(t.Diagnostic)
	return t
}
