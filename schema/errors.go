package schema

import (
	"errors"
	"fmt"

	schemaui "github.com/reoring/schemaui"
)

// Error is a schema compile error. Field is set once the error has been
// attributed to a property.
type Error struct {
	Pointer string // location inside the schema document
	Field   string
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema: unsupported schema for field '%s': %s", e.Field, e.Message)
	}
	return "schema: " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Issues converts the error into the shared error model.
func (e *Error) Issues() schemaui.Issues {
	return schemaui.Issues{{Path: e.Pointer, Code: e.Code, Message: e.Error(), Cause: e.Cause}}
}

func newError(ptr, code, msg string) *Error {
	return &Error{Pointer: ptr, Code: code, Message: msg}
}

// attributeTo stamps the field name on the first schema error seen.
func attributeTo(err error, field string) error {
	var se *Error
	if errors.As(err, &se) && se.Field == "" {
		cp := *se
		cp.Field = field
		return &cp
	}
	return err
}
