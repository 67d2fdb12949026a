package analyzer

import (
	"errors"
	"testing"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/session"
	"github.com/funvibe/implres/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassThrough(t *testing.T) {
	f := function("f", nil)
	f.Return = typesystem.Con("String")
	file := newFile(f)
	body := newFakeBody()
	pass := newTestPass(body, file)

	require.NoError(t, pass.Run(file))

	assert.Same(t, f, file.Declarations[0])
	assert.Equal(t, 0, pass.Session().Len(), "resolved declarations never touch the session")
	assert.Empty(t, body.calls)
	assert.Same(t, f, pass.Resolve(f, file))
}

func TestIdempotence(t *testing.T) {
	f := function("f", nil)
	file := newFile(f)
	body := newFakeBody()
	pass := newTestPass(body, file)

	first := pass.Resolve(f, file)
	second := pass.Resolve(f, file)

	assert.Same(t, first, second)
	assert.NotSame(t, f, first, "the stored result is the transformed copy")
	assert.Equal(t, []string{"f"}, body.calls)
	assert.Equal(t, 1, pass.BodyResolutions())

	st, ok := pass.Session().Status(f.Sym).(session.Computed)
	require.True(t, ok)
	assert.Same(t, first, st.Declaration)
	assert.Equal(t, "Int", st.Type.String())
}

func TestResolveFile_OncePerSymbol(t *testing.T) {
	a, b, c := function("a", nil), function("b", nil), function("c", nil)
	file := newFile(a, b, c)
	body := newFakeBody().on(a, dependsOn(c)).on(b, dependsOn(c))
	pass := newTestPass(body, file)

	require.NoError(t, pass.Run(file))

	assert.Equal(t, []string{"a", "c", "b"}, body.calls)
	for _, name := range []string{"a", "b", "c"} {
		assert.Equal(t, "Int", typeOf(t, file, name).String(), name)
	}
	assert.Equal(t, 3, pass.Session().Len())
}

func TestCycleTermination(t *testing.T) {
	a, b := function("a", nil), function("b", nil)
	file := newFile(a, b)
	body := newFakeBody().
		on(a, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			s.TypeOf(b)
			return withType(c, typesystem.Con("String")), nil
		}).
		on(b, dependsOn(a))
	pass := newTestPass(body, file)

	require.NoError(t, pass.Run(file))

	assert.Equal(t, "String", typeOf(t, file, "a").String())
	requireErrorCode(t, typeOf(t, file, "b"), diagnostics.ErrI001)
	assert.Equal(t, []string{"a", "b"}, body.calls)

	diags := pass.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "a.yaml: demo/b: error[I001]: recursion in implicit types: demo/a", diags[0].Error())

	assert.Equal(t, [][]string{{"demo/a", "demo/b"}}, pass.Graph().Cycles())
}

func TestCycleTermination_BothDependent(t *testing.T) {
	a, b := function("a", nil), function("b", nil)
	file := newFile(a, b)
	pass := newTestPass(newFakeBody().on(a, dependsOn(b)).on(b, dependsOn(a)), file)

	require.NoError(t, pass.Run(file))

	// b sees the cycle; a inherits b's error type.
	requireErrorCode(t, typeOf(t, file, "a"), diagnostics.ErrI001)
	requireErrorCode(t, typeOf(t, file, "b"), diagnostics.ErrI001)
	assert.Len(t, pass.Diagnostics(), 1)
}

func TestSelfRecursion(t *testing.T) {
	a := function("a", nil)
	file := newFile(a)
	pass := newTestPass(newFakeBody().on(a, dependsOn(a)), file)

	require.NoError(t, pass.Run(file))

	requireErrorCode(t, typeOf(t, file, "a"), diagnostics.ErrI001)
	assert.Equal(t, [][]string{{"demo/a"}}, pass.Graph().Cycles())
}

func TestOrderIndependence(t *testing.T) {
	run := func(dependentFirst bool) (*ast.File, []string) {
		a, b := property("a", nil), property("b", nil)
		var file *ast.File
		if dependentFirst {
			file = newFile(b, a)
		} else {
			file = newFile(a, b)
		}
		body := newFakeBody().on(b, dependsOn(a))
		require.NoError(t, newTestPass(body, file).Run(file))
		return file, body.calls
	}

	inOrder, inOrderCalls := run(false)
	reversed, reversedCalls := run(true)

	for _, name := range []string{"a", "b"} {
		assert.Equal(t, typeOf(t, inOrder, name).String(), typeOf(t, reversed, name).String(), name)
	}
	assert.Equal(t, []string{"a", "b"}, inOrderCalls)
	assert.Equal(t, []string{"b", "a"}, reversedCalls, "a is resolved reentrantly from b")
}

func TestDesignatedWalkSkipsSiblings(t *testing.T) {
	cls := ast.ClassID{Package: "demo", RelativeName: "C"}
	x, y := property("x", &cls), property("y", &cls)
	a, b := function("a", nil), function("b", nil)
	class := &ast.Class{ID: cls, Body: []ast.Declaration{x, y}}
	file := newFile(a, class, b)

	var pass *Pass
	var yScope []ast.Container
	body := newFakeBody().
		on(a, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			typ := s.TypeOf(y)
			assert.Equal(t, session.NotComputed{}, pass.Session().Status(x.Sym))
			assert.Equal(t, session.NotComputed{}, pass.Session().Status(b.Sym))
			assert.IsType(t, session.Computed{}, pass.Session().Status(y.Sym))
			return withType(c, typ), nil
		}).
		on(y, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			yScope = s.Containers()
			return withType(c, typesystem.Con("Long")), nil
		})
	pass = newTestPass(body, file)

	require.NoError(t, pass.Run(file))

	assert.Equal(t, []string{"a", "y", "x", "b"}, body.calls)
	assert.Equal(t, "Long", typeOf(t, file, "a").String())
	require.Len(t, yScope, 2)
	assert.Same(t, file, yScope[0])
	assert.Same(t, class, yScope[1])
	assert.NotSame(t, y, class.Body[1], "the designated walk stores its result in the container")
}

func TestNestedClassDesignation(t *testing.T) {
	outer := ast.ClassID{Package: "demo", RelativeName: "Outer"}
	inner := outer.Nested("Inner")
	z := property("z", &inner)
	a := function("a", nil)
	file := newFile(a, &ast.Class{ID: outer, Body: []ast.Declaration{
		&ast.Class{ID: inner, Body: []ast.Declaration{z}},
	}})
	pass := newTestPass(newFakeBody().on(a, dependsOn(z)), file)

	require.NoError(t, pass.Run(file))
	assert.Equal(t, "Int", typeOf(t, file, "a").String())
	assert.Empty(t, pass.Diagnostics())
}

func TestPathFailure_LocalClass(t *testing.T) {
	local := ast.ClassID{Package: "demo", RelativeName: "Tmp", Local: true}
	m := property("m", &local)
	f := function("f", nil)
	file := newFile(f, &ast.Class{ID: local, Body: []ast.Declaration{m}})
	pass := newTestPass(newFakeBody().on(f, dependsOn(m)), file)

	require.NoError(t, pass.Run(file))

	requireErrorCode(t, typeOf(t, file, "f"), diagnostics.ErrI002)
	assert.Equal(t, "Int", typeOf(t, file, "m").String(), "the full walk still resolves local members")

	diags := pass.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, "demo/f", diags[0].Symbol)
	assert.Contains(t, diags[0].Message, "outer class not found: <local>/demo/Tmp")
}

func TestPathFailure_UnknownFile(t *testing.T) {
	ghost := function("ghost", nil)
	f := function("f", nil)
	file := newFile(f)
	pass := newTestPass(newFakeBody().on(f, dependsOn(ghost)), file)

	require.NoError(t, pass.Run(file))

	requireErrorCode(t, typeOf(t, file, "f"), diagnostics.ErrI002)
	assert.Contains(t, pass.Diagnostics()[0].Message, "containing file not found: demo/ghost")
	assert.Equal(t, session.NotComputed{}, pass.Session().Status(ghost.Sym))
}

func TestUnsupportedImplicitParameter(t *testing.T) {
	param := &ast.ValueParameter{Name: "x"}
	f := function("f", nil)
	f.Params = []*ast.ValueParameter{param}
	file := newFile(f)
	pass := newTestPass(newFakeBody().on(f, dependsOn(param)), file)

	require.NoError(t, pass.Run(file))

	requireErrorCode(t, typeOf(t, file, "f"), diagnostics.ErrI003)
	requireErrorCode(t, param.ReturnType(), diagnostics.ErrI003)
	require.Len(t, pass.Diagnostics(), 1)
	assert.Equal(t, "unsupported implicit parameter type: x", pass.Diagnostics()[0].Message)
}

func TestFailedResolution(t *testing.T) {
	cause := errors.New("no body")
	a, b := function("a", nil), function("b", nil)
	failing := func(s *Scope, c ast.Callable) (ast.Callable, error) { return nil, cause }

	t.Run("top-level", func(t *testing.T) {
		a, b := function("a", nil), function("b", nil)
		file := newFile(a, b)
		pass := newTestPass(newFakeBody().on(a, failing).on(b, dependsOn(a)), file)

		require.NoError(t, pass.Run(file))

		requireErrorCode(t, typeOf(t, file, "a"), diagnostics.ErrI004)
		requireErrorCode(t, typeOf(t, file, "b"), diagnostics.ErrI004)
		st, ok := pass.Session().Status(a.Sym).(session.Failed)
		require.True(t, ok)
		assert.ErrorIs(t, st.Err, cause)
		require.Len(t, pass.Diagnostics(), 1)
		assert.Equal(t, "a.yaml: demo/a: error[I004]: resolution failed: no body", pass.Diagnostics()[0].Error())
	})

	t.Run("reentrant", func(t *testing.T) {
		file := newFile(b, a)
		pass := newTestPass(newFakeBody().on(a, failing).on(b, dependsOn(a)), file)

		require.NoError(t, pass.Run(file))

		requireErrorCode(t, typeOf(t, file, "b"), diagnostics.ErrI004)
		assert.IsType(t, session.Failed{}, pass.Session().Status(a.Sym))
	})
}

func TestContractViolations(t *testing.T) {
	requireInternal := func(t *testing.T, err error, op string) {
		t.Helper()
		var ie *diagnostics.InternalError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, op, ie.Op)
	}

	t.Run("unresolved result", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			return c, nil
		}), file)
		requireInternal(t, pass.Run(file), "storeResult")
	})

	t.Run("kind changed", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			p := &ast.Property{Sym: c.Symbol(), Type: intType}
			return p, nil
		}), file)
		requireInternal(t, pass.Run(file), "resolveBody")
	})

	t.Run("symbol changed", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			return withType(function("g", nil), intType), nil
		}), file)
		requireInternal(t, pass.Run(file), "transformCallable")
	})

	t.Run("non-callable implicit declaration", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, dependsOn(&opaqueDeclaration{})), file)
		requireInternal(t, pass.Run(file), "tryCalculateReturnType")
	})

	t.Run("failure after the type was set", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			c.SetReturnType(intType)
			return nil, errors.New("late failure")
		}), file)

		err := pass.Run(file)
		requireInternal(t, err, "transformCallable")
		var ie *diagnostics.InternalError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "demo/f", ie.Symbol)
		assert.Equal(t, "Computing", ie.Status)
		assert.Contains(t, ie.Message, "late failure")
		assert.Equal(t, "fun f(): Int", ie.Render)
		assert.Empty(t, pass.Diagnostics())
	})

	t.Run("return type written twice", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			res := withType(c, intType)
			res.SetReturnType(typesystem.Con("String"))
			return res, nil
		}), file)

		err := pass.Run(file)
		requireInternal(t, err, "setReturnType")
		var ie *diagnostics.InternalError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "demo/f", ie.Symbol)
	})

	t.Run("stale index", func(t *testing.T) {
		a, b := function("a", nil), function("b", nil)
		file := newFile(a, b)
		pass := newTestPass(newFakeBody().on(a, dependsOn(b)), file)
		file.Declarations[1] = b.Copy()

		requireInternal(t, pass.Run(file), "designatedWalk")
		assert.False(t, typesystem.IsResolved(file.Declarations[1].(*ast.Function).ReturnType()))
	})

	t.Run("other panics propagate", func(t *testing.T) {
		f := function("f", nil)
		file := newFile(f)
		pass := newTestPass(newFakeBody().on(f, func(s *Scope, c ast.Callable) (ast.Callable, error) {
			panic("boom")
		}), file)
		assert.PanicsWithValue(t, "boom", func() { _ = pass.Run(file) })
	})
}

// opaqueDeclaration is a typed declaration the scheduler does not know how to resolve.
type opaqueDeclaration struct{}

func (*opaqueDeclaration) TokenLiteral() string            { return "opaque" }
func (*opaqueDeclaration) ReturnType() typesystem.Type     { return typesystem.Implicit }
func (*opaqueDeclaration) SetReturnType(t typesystem.Type) {}
