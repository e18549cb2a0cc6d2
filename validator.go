package schemaui

// Validator checks a built document value. Every returned Issue carries the
// instance location as a JSON Pointer in Path, so that callers can route it
// onto the field with the same pointer.
type Validator interface {
	Validate(value any) Issues
}

// IsValid reports whether v passes the validator.
func IsValid(v Validator, value any) bool { return len(v.Validate(value)) == 0 }

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(value any) Issues

func (f ValidatorFunc) Validate(value any) Issues { return f(value) }
