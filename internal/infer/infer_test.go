package infer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/funvibe/implres/internal/analyzer"
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/config"
	"github.com/funvibe/implres/internal/modules"
	"github.com/funvibe/implres/internal/session"
	"github.com/funvibe/implres/internal/symbols"
	"github.com/funvibe/implres/internal/typesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestArchives runs every testdata/*.txtar archive. Declaration files are the
// archive members with a declaration extension; "want" lists "symbol: type"
// per callable in file order and "diagnostics" the expected diagnostics.
func TestArchives(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			var files []*ast.File
			sections := make(map[string]string)
			for _, f := range ar.Files {
				if config.IsDeclarationFile(f.Name) {
					file, err := modules.ParseFile(f.Name, f.Data, "")
					require.NoError(t, err, f.Name)
					files = append(files, file)
					continue
				}
				sections[f.Name] = string(f.Data)
			}

			pass := analyzer.NewPass(symbols.NewIndex(files...), New())
			require.NoError(t, pass.Run(files...))

			var got []string
			for _, r := range analyzer.Collect(files...) {
				got = append(got, fmt.Sprintf("%s: %s", r.Symbol, r.Type))
			}
			assert.Equal(t, lines(sections["want"]), got)

			var diags []string
			for _, d := range pass.Diagnostics() {
				diags = append(diags, d.Error())
			}
			assert.Equal(t, lines(sections["diagnostics"]), diags)
		})
	}
}

func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := modules.ParseFile("a.yaml", []byte(src), "demo")
	require.NoError(t, err)
	return f
}

func TestResolveBody_NoBodyFails(t *testing.T) {
	file := parse(t, "declarations:\n  - val: v\n")
	pass := analyzer.NewPass(symbols.NewIndex(file), New())
	require.NoError(t, pass.Run(file))

	v := file.Declarations[0].(*ast.Property)
	st, ok := pass.Session().Status(v.Sym).(session.Failed)
	require.True(t, ok, "status %s", pass.Session().Status(v.Sym))
	assert.True(t, errors.Is(st.Err, ErrNoBody))
	assert.Same(t, v, st.Declaration)
}

func TestResolveBody_OnDemand(t *testing.T) {
	file := parse(t, `declarations:
  - val: first
    init: {lit: Int}
  - class: C
    members:
      - val: member
        init: first
      - val: other
        init: {lit: String}
`)
	pass := analyzer.NewPass(symbols.NewIndex(file), New())
	cls := file.Declarations[1].(*ast.Class)
	member := cls.Body[0].(*ast.Property)

	res := pass.Resolve(member, file, cls)
	assert.Equal(t, "Int", res.ReturnType().String())
	assert.Equal(t, 2, pass.BodyResolutions(), "member and first only")

	other := cls.Body[1].(*ast.Property)
	assert.False(t, typesystem.IsResolved(other.ReturnType()))
	assert.Equal(t, session.NotComputed{}, pass.Session().Status(other.Sym))
}

func TestResolveBody_ReferenceToClassIsNotAValue(t *testing.T) {
	file := parse(t, `declarations:
  - class: C
  - val: v
    init: C
`)
	pass := analyzer.NewPass(symbols.NewIndex(file), New())
	require.NoError(t, pass.Run(file))

	require.Len(t, pass.Diagnostics(), 1)
	assert.Equal(t, "a.yaml: demo/v: error[I005]: unresolved reference: C is not a value", pass.Diagnostics()[0].Error())
}
