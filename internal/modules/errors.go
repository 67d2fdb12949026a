package modules

import "fmt"

// DeclarationError is a malformed declaration file.
type DeclarationError struct {
	File    string
	Line    int // 0 when the problem is not tied to a line
	Message string
	Err     error
}

func (e *DeclarationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *DeclarationError) Unwrap() error { return e.Err }
