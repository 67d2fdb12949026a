package analyzer

import (
	"testing"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/symbols"
	"github.com/funvibe/implres/internal/typesystem"
	"github.com/stretchr/testify/require"
)

var intType = typesystem.Con("Int")

func function(name string, class *ast.ClassID) *ast.Function {
	return &ast.Function{Sym: ast.NewSymbol(ast.CallableID{Package: "demo", Class: class, Name: name})}
}

func property(name string, class *ast.ClassID) *ast.Property {
	return &ast.Property{Sym: ast.NewSymbol(ast.CallableID{Package: "demo", Class: class, Name: name})}
}

func newFile(decls ...ast.Declaration) *ast.File {
	return &ast.File{Path: "a.yaml", Package: "demo", Declarations: decls}
}

// withType returns a resolved copy of c.
func withType(c ast.Callable, t typesystem.Type) ast.Callable {
	switch d := c.(type) {
	case *ast.Function:
		cp := d.Copy()
		cp.SetReturnType(t)
		return cp
	case *ast.Property:
		cp := d.Copy()
		cp.SetReturnType(t)
		return cp
	}
	panic("unexpected callable")
}

type bodyFunc func(s *Scope, c ast.Callable) (ast.Callable, error)

// fakeBody resolves declarations to Int unless a body is registered for them.
type fakeBody struct {
	bodies map[*ast.Symbol]bodyFunc
	calls  []string
}

func newFakeBody() *fakeBody {
	return &fakeBody{bodies: make(map[*ast.Symbol]bodyFunc)}
}

func (f *fakeBody) on(c ast.Callable, body bodyFunc) *fakeBody {
	f.bodies[c.Symbol()] = body
	return f
}

func (f *fakeBody) ResolveBody(s *Scope, c ast.Callable) (ast.Callable, error) {
	f.calls = append(f.calls, c.Symbol().ID.Name)
	if body, ok := f.bodies[c.Symbol()]; ok {
		return body(s, c)
	}
	return withType(c, intType), nil
}

// dependsOn resolves c to the type of dep.
func dependsOn(dep ast.TypedDeclaration) bodyFunc {
	return func(s *Scope, c ast.Callable) (ast.Callable, error) {
		return withType(c, s.TypeOf(dep)), nil
	}
}

func newTestPass(body BodyResolver, files ...*ast.File) *Pass {
	return NewPass(symbols.NewIndex(files...), body)
}

// typeOf returns the current type of the member named name in f.
func typeOf(t *testing.T, f *ast.File, name string) typesystem.Type {
	t.Helper()
	for _, c := range ast.Callables(f) {
		if c.Symbol().ID.Name == name {
			return c.ReturnType()
		}
	}
	t.Fatalf("no callable %s in %s", name, f.Path)
	return nil
}

func requireErrorCode(t *testing.T, typ typesystem.Type, code diagnostics.ErrorCode) {
	t.Helper()
	et, ok := typesystem.IsError(typ)
	require.True(t, ok, "expected an error type, got %s", typ)
	require.Equal(t, code, et.Code(), "error type %s", typ)
}
