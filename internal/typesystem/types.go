package typesystem

import (
	"strings"

	"github.com/funvibe/implres/internal/diagnostics"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	// IsResolved is false only for placeholders still awaiting inference.
	IsResolved() bool
}

// TCon represents a type constructor, optionally applied (e.g. Int, List<Int>).
type TCon struct {
	Name string
	Args []Type
}

func (t TCon) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return t.Name + "<" + strings.Join(args, ", ") + ">"
}

func (t TCon) IsResolved() bool { return true }

// TImplicit is the placeholder of a type omitted in source.
type TImplicit struct{}

func (TImplicit) String() string   { return "<implicit>" }
func (TImplicit) IsResolved() bool { return false }

// TError is a terminal but erroneous type. It is substituted into a type slot
// for recoverable conditions so the rest of the pass can proceed.
type TError struct {
	Diagnostic *diagnostics.DiagnosticError
}

func (t TError) String() string {
	if t.Diagnostic == nil {
		return "<error>"
	}
	return "<error: " + t.Diagnostic.Message + ">"
}

func (t TError) IsResolved() bool { return true }

// Code returns the diagnostic code the error type is tagged with.
func (t TError) Code() diagnostics.ErrorCode {
	if t.Diagnostic == nil {
		return ""
	}
	return t.Diagnostic.Code
}

// Implicit is the shared placeholder value.
var Implicit Type = TImplicit{}

func Con(name string, args ...Type) TCon {
	return TCon{Name: name, Args: args}
}

// NewErrorType builds an error type tagged with a diagnostic kind.
func NewErrorType(code diagnostics.ErrorCode, message string) TError {
	return TError{Diagnostic: diagnostics.NewError(code, message)}
}

// IsResolved reports whether t is a terminal type. A nil type counts as implicit.
func IsResolved(t Type) bool {
	return t != nil && t.IsResolved()
}

// IsError reports whether t is an error type and returns it.
func IsError(t Type) (TError, bool) {
	e, ok := t.(TError)
	return e, ok
}

// Equal compares two types structurally. Error types are never equal to anything.
func Equal(a, b Type) bool {
	switch ta := a.(type) {
	case TCon:
		tb, ok := b.(TCon)
		if !ok || ta.Name != tb.Name || len(ta.Args) != len(tb.Args) {
			return false
		}
		for i := range ta.Args {
			if !Equal(ta.Args[i], tb.Args[i]) {
				return false
			}
		}
		return true
	case TImplicit:
		_, ok := b.(TImplicit)
		return ok
	default:
		return false
	}
}
