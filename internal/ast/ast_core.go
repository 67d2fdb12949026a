package ast

import (
	"strings"

	"github.com/funvibe/implres/internal/typesystem"
)

// ClassID locates a class-like declaration within a package.
// RelativeName is dotted for nested classes (Outer.Inner).
type ClassID struct {
	Package      string
	RelativeName string
	Local        bool // Declared in a local scope; not reachable by a designation path
}

// Outer returns the ID of the directly enclosing class, if any.
func (id ClassID) Outer() (ClassID, bool) {
	i := strings.LastIndex(id.RelativeName, ".")
	if i < 0 {
		return ClassID{}, false
	}
	return ClassID{Package: id.Package, RelativeName: id.RelativeName[:i], Local: id.Local}, true
}

// Nested returns the ID of a class declared directly inside id.
func (id ClassID) Nested(name string) ClassID {
	return ClassID{Package: id.Package, RelativeName: id.RelativeName + "." + name, Local: id.Local}
}

// ShortName is the last segment of RelativeName.
func (id ClassID) ShortName() string {
	return id.RelativeName[strings.LastIndex(id.RelativeName, ".")+1:]
}

func (id ClassID) String() string {
	s := id.Package + "/" + id.RelativeName
	if id.Local {
		s = "<local>/" + s
	}
	return s
}

// CallableID locates a function or property. Class is nil for top-level callables.
type CallableID struct {
	Package string
	Class   *ClassID
	Name    string
}

func (id CallableID) String() string {
	if id.Class == nil {
		return id.Package + "/" + id.Name
	}
	return id.Class.String() + "." + id.Name
}

// Symbol is the stable identity of a callable declaration. Symbols compare by pointer.
type Symbol struct {
	ID CallableID
}

func NewSymbol(id CallableID) *Symbol {
	return &Symbol{ID: id}
}

func (s *Symbol) String() string { return s.ID.String() }

// Node is the base interface for the declaration tree.
type Node interface {
	TokenLiteral() string
}

// Declaration is a Node that can appear as a member of a container.
type Declaration interface {
	Node
	// Transform dispatches to the matching Transformer method.
	Transform(t Transformer) Declaration
}

// TypedDeclaration is a declaration with a (return) type slot.
type TypedDeclaration interface {
	Node
	ReturnType() typesystem.Type
	// SetReturnType fills the type slot. The slot is write-once: replacing a
	// resolved type panics.
	SetReturnType(t typesystem.Type)
}

// Callable is a function or property: the only declarations allowed to have
// an implicit type resolved by the scheduler.
type Callable interface {
	Declaration
	TypedDeclaration
	Symbol() *Symbol
	// TransformCallable is Transform with the callable kind preserved.
	TransformCallable(t Transformer) Callable
}

// Container holds member declarations: files and classes.
type Container interface {
	Node
	Members() []Declaration
}

// File is the root of every declaration tree.
type File struct {
	Path         string
	Package      string
	Declarations []Declaration
}

func (f *File) TokenLiteral() string          { return f.Path }
func (f *File) Members() []Declaration        { return f.Declarations }
func (f *File) Transform(t Transformer) *File { return t.TransformFile(f) }

// Class is a class-like container (class, object, interface).
type Class struct {
	ID   ClassID
	Body []Declaration
}

func (c *Class) TokenLiteral() string                { return c.ID.ShortName() }
func (c *Class) Members() []Declaration              { return c.Body }
func (c *Class) Transform(t Transformer) Declaration { return t.TransformClass(c) }

// Transformer rewrites a declaration tree. Each method returns the node that
// replaces its argument in the enclosing container.
type Transformer interface {
	TransformFile(f *File) *File
	TransformClass(c *Class) *Class
	TransformFunction(fn *Function) *Function
	TransformProperty(p *Property) *Property
}

// Callables returns every callable of the file in declaration order, depth first.
func Callables(f *File) []Callable {
	var out []Callable
	var walk func(members []Declaration)
	walk = func(members []Declaration) {
		for _, m := range members {
			switch d := m.(type) {
			case Callable:
				out = append(out, d)
			case *Class:
				walk(d.Body)
			}
		}
	}
	walk(f.Declarations)
	return out
}
