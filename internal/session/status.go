package session

import (
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/typesystem"
)

// Status is the resolution state of one callable symbol within a pass.
type Status interface {
	status()
	String() string
}

// NotComputed is the default: no resolution attempted yet.
type NotComputed struct{}

// Computing marks a resolution in progress. Observing it again on the same
// call chain means the implicit types form a cycle.
type Computing struct{}

// Computed is terminal and carries the resolved type and transformed declaration.
type Computed struct {
	Type        typesystem.Type
	Declaration ast.Callable
}

// Failed is terminal: the body resolver returned an error. Declaration carries
// the error type substituted for the implicit one.
type Failed struct {
	Err         error
	Declaration ast.Callable
}

func (NotComputed) status() {}
func (Computing) status()   {}
func (Computed) status()    {}
func (Failed) status()      {}

func (NotComputed) String() string { return "NotComputed" }
func (Computing) String() string   { return "Computing" }
func (c Computed) String() string  { return "Computed(" + c.Type.String() + ")" }
func (f Failed) String() string    { return "Failed(" + f.Err.Error() + ")" }
