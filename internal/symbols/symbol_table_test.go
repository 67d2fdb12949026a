package symbols

import (
	"testing"

	"github.com/funvibe/implres/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (*ast.File, *ast.Property, *ast.Function, ast.ClassID, ast.ClassID) {
	outer := ast.ClassID{Package: "demo", RelativeName: "Outer"}
	inner := outer.Nested("Inner")
	local := ast.ClassID{Package: "demo", RelativeName: "Tmp", Local: true}

	member := &ast.Property{Sym: ast.NewSymbol(ast.CallableID{Package: "demo", Class: &inner, Name: "x"})}
	localFn := &ast.Function{Sym: ast.NewSymbol(ast.CallableID{Package: "demo", Class: &local, Name: "f"})}

	file := &ast.File{Path: "a.yaml", Package: "demo", Declarations: []ast.Declaration{
		&ast.Class{ID: outer, Body: []ast.Declaration{
			&ast.Class{ID: inner, Body: []ast.Declaration{member}},
		}},
		&ast.Class{ID: local, Body: []ast.Declaration{localFn}},
	}}
	return file, member, localFn, inner, local
}

func TestIndex_ContainerFileAndClasses(t *testing.T) {
	file, member, localFn, inner, local := fixture()
	idx := NewIndex(file)

	assert.Same(t, file, idx.ContainerFile(member.Sym))
	assert.Same(t, file, idx.ContainerFile(localFn.Sym))
	assert.Nil(t, idx.ContainerFile(ast.NewSymbol(ast.CallableID{Package: "demo", Name: "ghost"})))

	require.NotNil(t, idx.ClassByID(inner))
	outer, _ := inner.Outer()
	require.NotNil(t, idx.ClassByID(outer))
	assert.Nil(t, idx.ClassByID(local), "local classes are not addressable")
}

func TestIndex_LookupTopLevel(t *testing.T) {
	file, _, _, _, _ := fixture()
	other := &ast.File{Path: "b.yaml", Package: "demo", Declarations: []ast.Declaration{
		&ast.Function{Sym: ast.NewSymbol(ast.CallableID{Package: "demo", Name: "g"})},
	}}
	idx := NewIndex(file, other)

	d, ok := idx.LookupTopLevel("demo", "g")
	require.True(t, ok)
	assert.Equal(t, "g", DeclarationName(d))

	_, ok = idx.LookupTopLevel("demo", "Outer")
	assert.True(t, ok)
	_, ok = idx.LookupTopLevel("other", "g")
	assert.False(t, ok)
}

func TestFindMember(t *testing.T) {
	file, member, _, _, _ := fixture()
	outer, ok := FindMember(file, "Outer")
	require.True(t, ok)
	inner, ok := FindMember(outer.(*ast.Class), "Inner")
	require.True(t, ok)
	x, ok := FindMember(inner.(*ast.Class), "x")
	require.True(t, ok)
	assert.Same(t, member, x)

	_, ok = FindMember(file, "missing")
	assert.False(t, ok)
}
