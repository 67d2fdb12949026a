package analyzer

import (
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/typesystem"
)

// ResolveFile resolves every function and property of f with an implicit
// type, in declaration order. Resolved declarations pass through untouched.
func (p *Pass) ResolveFile(f *ast.File) *ast.File {
	p.logger.Printf("%s: file %s", p, f.Path)
	return newWalker(p).TransformFile(f)
}

// Resolve resolves a single callable within the given enclosing containers,
// file first. The result is memoized like any other resolution of the pass.
func (p *Pass) Resolve(decl ast.Callable, containers ...ast.Container) ast.Callable {
	return decl.TransformCallable(newWalker(p, containers...))
}

// Resolution is the outcome for one callable after a pass.
type Resolution struct {
	File   string
	Symbol *ast.Symbol
	Type   string
	Error  bool // Type is an error type
}

// Collect lists every callable of the files in order with its current type.
func Collect(files ...*ast.File) []Resolution {
	var out []Resolution
	for _, f := range files {
		for _, c := range ast.Callables(f) {
			t := c.ReturnType()
			_, isErr := typesystem.IsError(t)
			out = append(out, Resolution{File: f.Path, Symbol: c.Symbol(), Type: t.String(), Error: isErr})
		}
	}
	return out
}
