package typesystem

import "fmt"

// ParseError indicates a malformed type expression
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type %q: %s", e.Input, e.Reason)
}

func newParseError(input, reason string) *ParseError {
	return &ParseError{Input: input, Reason: reason}
}
