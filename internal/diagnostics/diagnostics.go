package diagnostics

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of a user-facing diagnostic.
type ErrorCode string

const (
	ErrI001 ErrorCode = "I001" // Recursion in implicit types
	ErrI002 ErrorCode = "I002" // Return type cannot be calculated (no designation path)
	ErrI003 ErrorCode = "I003" // Unsupported implicit value parameter type
	ErrI004 ErrorCode = "I004" // Body resolution failed
	ErrI005 ErrorCode = "I005" // Unresolved reference
)

var codeNames = map[ErrorCode]string{
	ErrI001: "recursion in implicit types",
	ErrI002: "inference error",
	ErrI003: "unsupported",
	ErrI004: "resolution failed",
	ErrI005: "unresolved reference",
}

// Name returns the short human readable kind of the code.
func (c ErrorCode) Name() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "error"
}

// DiagnosticError is a recoverable, declaration-scoped problem found during a pass.
type DiagnosticError struct {
	Code    ErrorCode
	File    string // File of the declaration being resolved, may be empty
	Symbol  string // Declaration the diagnostic is attached to, may be empty
	Message string
}

func NewError(code ErrorCode, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: message}
}

func NewErrorf(code ErrorCode, format string, args ...interface{}) *DiagnosticError {
	return NewError(code, fmt.Sprintf(format, args...))
}

// At returns a copy of the diagnostic attached to the given file and symbol.
func (e *DiagnosticError) At(file, symbol string) *DiagnosticError {
	c := *e
	c.File = file
	c.Symbol = symbol
	return &c
}

func (e *DiagnosticError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Symbol != "" {
		sb.WriteString(e.Symbol)
		sb.WriteString(": ")
	}
	fmt.Fprintf(&sb, "error[%s]: %s", e.Code, e.Message)
	return sb.String()
}

// InternalError is a violated scheduler contract. It is raised with panic and
// aborts the whole pass.
type InternalError struct {
	Op      string // Operation that detected the violation
	Symbol  string
	Status  string // Resolution status observed, if relevant
	Message string
	Render  string // Rendered declaration, if available
}

func Internalf(op, format string, args ...interface{}) *InternalError {
	return &InternalError{Op: op, Message: fmt.Sprintf(format, args...)}
}

func (e *InternalError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "internal error in %s: %s", e.Op, e.Message)
	if e.Symbol != "" {
		fmt.Fprintf(&sb, " (symbol %s", e.Symbol)
		if e.Status != "" {
			fmt.Fprintf(&sb, ", status %s", e.Status)
		}
		sb.WriteString(")")
	}
	if e.Render != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Render)
	}
	return sb.String()
}
