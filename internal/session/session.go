// Package session holds the per-pass memo table of implicit type resolution.
//
// A symbol moves NotComputed -> Computing -> Computed (or Failed) exactly once.
// Any other transition is a contract violation and panics with a
// *diagnostics.InternalError.
package session

import (
	"github.com/funvibe/implres/internal/ast"
	"github.com/funvibe/implres/internal/diagnostics"
	"github.com/funvibe/implres/internal/prettyprinter"
	"github.com/funvibe/implres/internal/typesystem"
)

// Session is owned by one pass and never shared between passes. It is not
// safe for concurrent use.
type Session struct {
	statuses map[*ast.Symbol]Status
}

func New() *Session {
	return &Session{statuses: make(map[*ast.Symbol]Status)}
}

// Status returns the current status, NotComputed when absent.
func (s *Session) Status(sym *ast.Symbol) Status {
	if st, ok := s.statuses[sym]; ok {
		return st
	}
	return NotComputed{}
}

// Len is the number of symbols with a recorded status.
func (s *Session) Len() int {
	return len(s.statuses)
}

func (s *Session) StartComputing(sym *ast.Symbol) {
	if st, ok := s.statuses[sym]; ok {
		panic(violation("startComputing", sym, st, "unexpected status", nil))
	}
	s.statuses[sym] = Computing{}
}

// StoreResult completes a computation. typ must be terminal.
func (s *Session) StoreResult(sym *ast.Symbol, typ typesystem.Type, decl ast.Callable) {
	st := s.Status(sym)
	if _, ok := st.(Computing); !ok {
		panic(violation("storeResult", sym, st, "unexpected status", decl))
	}
	if !typesystem.IsResolved(typ) {
		panic(violation("storeResult", sym, st, "type is not resolved", decl))
	}
	s.statuses[sym] = Computed{Type: typ, Declaration: decl}
}

// Fail completes a computation whose body resolution returned an error.
func (s *Session) Fail(sym *ast.Symbol, err error, decl ast.Callable) {
	st := s.Status(sym)
	if _, ok := st.(Computing); !ok {
		panic(violation("fail", sym, st, "unexpected status", decl))
	}
	s.statuses[sym] = Failed{Err: err, Declaration: decl}
}

func violation(op string, sym *ast.Symbol, st Status, msg string, decl ast.Callable) *diagnostics.InternalError {
	e := &diagnostics.InternalError{Op: op, Symbol: sym.String(), Status: st.String(), Message: msg}
	if decl != nil {
		e.Render = prettyprinter.Render(decl)
	}
	return e
}
