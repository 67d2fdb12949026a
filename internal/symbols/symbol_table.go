package symbols

import (
	"github.com/funvibe/implres/internal/ast"
)

// Provider is the read-only declaration store queried by identity.
type Provider interface {
	// ContainerFile returns the file declaring the callable, or nil when unknown.
	ContainerFile(sym *ast.Symbol) *ast.File
	// ClassByID returns the class-like declaration, or nil when it is local or unknown.
	ClassByID(id ast.ClassID) *ast.Class
}

// Index is a Provider built from a set of files. Local classes and their
// members are registered for ContainerFile but never for ClassByID.
type Index struct {
	bySymbol map[*ast.Symbol]*ast.File
	classes  map[ast.ClassID]*ast.Class
	topLevel map[string]map[string]ast.Declaration // package -> name -> declaration
}

func NewIndex(files ...*ast.File) *Index {
	idx := &Index{
		bySymbol: make(map[*ast.Symbol]*ast.File),
		classes:  make(map[ast.ClassID]*ast.Class),
		topLevel: make(map[string]map[string]ast.Declaration),
	}
	for _, f := range files {
		idx.Add(f)
	}
	return idx
}

// Add registers every declaration of f. Later files shadow earlier ones on name clashes.
func (idx *Index) Add(f *ast.File) {
	pkg := idx.topLevel[f.Package]
	if pkg == nil {
		pkg = make(map[string]ast.Declaration)
		idx.topLevel[f.Package] = pkg
	}
	for _, d := range f.Declarations {
		pkg[DeclarationName(d)] = d
	}
	idx.addMembers(f, f.Declarations)
}

func (idx *Index) addMembers(f *ast.File, members []ast.Declaration) {
	for _, m := range members {
		switch d := m.(type) {
		case ast.Callable:
			idx.bySymbol[d.Symbol()] = f
		case *ast.Class:
			if !d.ID.Local {
				idx.classes[d.ID] = d
			}
			idx.addMembers(f, d.Body)
		}
	}
}

func (idx *Index) ContainerFile(sym *ast.Symbol) *ast.File {
	return idx.bySymbol[sym]
}

func (idx *Index) ClassByID(id ast.ClassID) *ast.Class {
	return idx.classes[id]
}

// LookupTopLevel finds a top-level declaration of a package by name.
func (idx *Index) LookupTopLevel(pkg, name string) (ast.Declaration, bool) {
	d, ok := idx.topLevel[pkg][name]
	return d, ok
}

// DeclarationName is the simple name a declaration is referenced by.
func DeclarationName(d ast.Declaration) string {
	switch n := d.(type) {
	case ast.Callable:
		return n.Symbol().ID.Name
	case *ast.Class:
		return n.ID.ShortName()
	default:
		return d.TokenLiteral()
	}
}

// FindMember finds a direct member of a container by name.
func FindMember(c ast.Container, name string) (ast.Declaration, bool) {
	for _, m := range c.Members() {
		if DeclarationName(m) == name {
			return m, true
		}
	}
	return nil, false
}
