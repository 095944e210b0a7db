package solfile

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is on the typed errors below
var (
	ErrFormat    = errors.New("malformed scene file")
	ErrStructure = errors.New("invalid scene structure")
	ErrIO        = errors.New("scene file unreadable")
)

// FormatError reports a bad token count or an unparsable field.
// Line is 1-based.
type FormatError struct {
	Line     int
	Field    string
	Expected string
	Err      error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("line %d", e.Line)
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Expected != "" {
		msg += ": expected " + e.Expected
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// StructuralError reports a body that breaks the sun/planet/moon hierarchy
type StructuralError struct {
	Line int
	Err  error
}

func (e *StructuralError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *StructuralError) Unwrap() error { return e.Err }

func (e *StructuralError) Is(target error) bool { return target == ErrStructure }

// IOError wraps a failure to open or read the scene file
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read scene %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }
