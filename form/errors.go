package form

import (
	"errors"

	schemaui "github.com/reoring/schemaui"
)

// CoercionError reports a field whose input cannot be turned into a value of
// the declared type. Pointer is relative to the form that produced it.
type CoercionError struct {
	Pointer string
	Code    string
	Message string
}

func (e *CoercionError) Error() string {
	p := e.Pointer
	if p == "" {
		p = schemaui.RootLabel
	}
	return p + ": " + e.Message
}

// Issues converts the error into the shared error model.
func (e *CoercionError) Issues() schemaui.Issues {
	code := e.Code
	if code == "" {
		code = schemaui.CodeInvalidType
	}
	return schemaui.Issues{{Path: e.Pointer, Code: code, Message: e.Message}}
}

func coercionErr(ptr, code, msg string) *CoercionError {
	return &CoercionError{Pointer: ptr, Code: code, Message: msg}
}

// rebase prefixes the pointer of a CoercionError with base. Other errors are
// returned unchanged.
func rebase(err error, base string) error {
	var ce *CoercionError
	if errors.As(err, &ce) {
		return &CoercionError{Pointer: schemaui.JoinPointer(base, ce.Pointer), Code: ce.Code, Message: ce.Message}
	}
	return err
}

// AsCoercion unwraps a CoercionError.
func AsCoercion(err error) (*CoercionError, bool) {
	var ce *CoercionError
	ok := errors.As(err, &ce)
	return ce, ok
}
