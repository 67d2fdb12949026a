package analyzer

import (
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/symbols"
)

// walker is the body resolve transformer. Without a designation it visits
// every member of every container. With one it holds a cursor into the
// designation path and descends only into the next path element, leaving
// siblings untouched.
type walker struct {
	pass       *Pass
	containers []ast.Container

	designation *Designation
	cursor      int
	last        ast.Callable // Result at the end of the designation
}

func newWalker(p *Pass, containers ...ast.Container) *walker {
	return &walker{pass: p, containers: containers}
}

func newDesignatedWalker(p *Pass, d *Designation) *walker {
	return &walker{pass: p, designation: d}
}

func (w *walker) run() {
	w.TransformFile(w.designation.File)
}

func (w *walker) scope() *Scope {
	return &Scope{pass: w.pass, containers: append([]ast.Container(nil), w.containers...)}
}

func (w *walker) enter(c ast.Container) {
	w.containers = append(w.containers, c)
}

func (w *walker) leave() {
	w.containers = w.containers[:len(w.containers)-1]
}

func (w *walker) TransformFile(f *ast.File) *ast.File {
	w.enter(f)
	defer w.leave()
	f.Declarations = w.transformMembers(f.Declarations)
	return f
}

func (w *walker) TransformClass(c *ast.Class) *ast.Class {
	w.enter(c)
	defer w.leave()
	c.Body = w.transformMembers(c.Body)
	return c
}

func (w *walker) TransformFunction(fn *ast.Function) *ast.Function {
	return resolveCached(w.pass, fn, func() (*ast.Function, error) {
		return resolveBody(w.pass, w.scope(), fn)
	})
}

func (w *walker) TransformProperty(prop *ast.Property) *ast.Property {
	return resolveCached(w.pass, prop, func() (*ast.Property, error) {
		return resolveBody(w.pass, w.scope(), prop)
	})
}

func (w *walker) transformMembers(members []ast.Declaration) []ast.Declaration {
	if w.designation == nil {
		for i, m := range members {
			members[i] = m.Transform(w)
		}
		return members
	}

	if w.cursor >= len(w.designation.Path) {
		return members
	}
	next := w.designation.Path[w.cursor]
	w.cursor++
	leaf := w.cursor == len(w.designation.Path)
	idx := -1
	for i, m := range members {
		if m == next {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(diagnostics.Internalf("designatedWalk", "%s is not a member of its container on the path %s", symbols.DeclarationName(next), w.designation))
	}
	members[idx] = next.Transform(w)
	result := members[idx]
	if leaf {
		c, ok := result.(ast.Callable)
		if !ok {
			panic(diagnostics.Internalf("designatedWalk", "path ends at %T, not a callable", result))
		}
		w.last = c
	}
	return members
}
