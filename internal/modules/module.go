package modules

import (
	"github.com/funvibe/implres/internal/ast"
)

// Module is a loaded package: the declaration files of one directory, or a
// group of sub-packages when the directory only holds subdirectories.
type Module struct {
	Name  string
	Dir   string
	Files []*ast.File

	// Package group support (a directory whose subdirectories are packages)
	IsPackageGroup bool
	SubPackages    []string           // Names of sub-packages, sorted
	Imports        map[string]*Module // Sub-package name -> module
}

// AllFiles returns the files of the module and of its sub-packages, in load order.
func (m *Module) AllFiles() []*ast.File {
	if !m.IsPackageGroup {
		return m.Files
	}
	var out []*ast.File
	for _, name := range m.SubPackages {
		out = append(out, m.Imports[name].AllFiles()...)
	}
	return out
}
