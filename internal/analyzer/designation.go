package analyzer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/symbols"
)

var (
	ErrNoContainingFile = errors.New("containing file not found")
	ErrClassNotFound    = errors.New("outer class not found")
)

// Designation is the unique path from a file to one declaration:
// the outer classes root to leaf, then the declaration itself.
type Designation struct {
	File *ast.File
	Path []ast.Declaration
}

// Target is the last element of the path.
func (d *Designation) Target() ast.Callable {
	return d.Path[len(d.Path)-1].(ast.Callable)
}

func (d *Designation) String() string {
	parts := []string{d.File.Path}
	for _, decl := range d.Path {
		parts = append(parts, symbols.DeclarationName(decl))
	}
	return strings.Join(parts, " > ")
}

// BuildDesignation reconstructs the designation of decl from the provider.
// Local classes have no stable path and yield ErrClassNotFound.
func BuildDesignation(provider symbols.Provider, decl ast.Callable) (*Designation, error) {
	sym := decl.Symbol()

	var outer []*ast.Class // Nearest first
	if sym.ID.Class != nil {
		for id, ok := *sym.ID.Class, true; ok; id, ok = id.Outer() {
			cls := provider.ClassByID(id)
			if cls == nil {
				return nil, fmt.Errorf("%w: %s", ErrClassNotFound, id)
			}
			outer = append(outer, cls)
		}
	}

	file := provider.ContainerFile(sym)
	if file == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoContainingFile, sym)
	}

	path := make([]ast.Declaration, 0, len(outer)+1)
	for i := len(outer) - 1; i >= 0; i-- {
		path = append(path, outer[i])
	}
	path = append(path, decl)
	return &Designation{File: file, Path: path}, nil
}
