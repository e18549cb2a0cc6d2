package form

import (
	"strings"

	schemaui "github.com/reoring/schemaui"
)

// Command is a form-level command.
type Command interface{ isCommand() }

type (
	FocusNextField   struct{}
	FocusPrevField   struct{}
	FocusNextSection struct{ Delta int }
	FocusNextRoot    struct{ Delta int }
	// FieldEdited re-validates the field at Pointer after an edit.
	FieldEdited struct{ Pointer string }
)

func (FocusNextField) isCommand()   {}
func (FocusPrevField) isCommand()   {}
func (FocusNextSection) isCommand() {}
func (FocusNextRoot) isCommand()    {}
func (FieldEdited) isCommand()      {}

// ApplyCommand runs the navigation commands. It reports whether cmd was one
// of them.
func ApplyCommand(s *FormState, cmd Command) bool {
	switch c := cmd.(type) {
	case FocusNextField:
		s.FocusNextField()
	case FocusPrevField:
		s.FocusPrevField()
	case FocusNextSection:
		s.FocusNextSection(c.Delta)
	case FocusNextRoot:
		s.FocusNextRoot(c.Delta)
	default:
		return false
	}
	return true
}

// FormEngine pairs a form with an optional validator.
type FormEngine struct {
	state     *FormState
	validator schemaui.Validator
}

func NewFormEngine(state *FormState, v schemaui.Validator) *FormEngine {
	return &FormEngine{state: state, validator: v}
}

func (e *FormEngine) State() *FormState { return e.state }

// Dispatch applies cmd. For FieldEdited it rebuilds the document, clears the
// field error and sets the validator errors addressed to that field. A build
// failure is routed to its pointer and returned.
func (e *FormEngine) Dispatch(cmd Command) error {
	if ApplyCommand(e.state, cmd) {
		return nil
	}
	edited, ok := cmd.(FieldEdited)
	if !ok {
		return nil
	}
	field := e.state.FieldByPointer(edited.Pointer)
	value, err := e.state.TryBuildValue()
	if err != nil {
		if ce, ok := AsCoercion(err); ok {
			if field != nil && ce.Pointer != edited.Pointer {
				field.ClearError()
			}
			if !e.state.SetError(ce.Pointer, ce.Message) && field != nil &&
				strings.HasPrefix(ce.Pointer, edited.Pointer+"/") {
				field.SetError(ce.Message)
			}
		}
		return err
	}
	if field == nil {
		return nil
	}
	field.ClearError()
	if e.validator == nil {
		return nil
	}
	for _, it := range e.validator.Validate(value) {
		if it.Path == edited.Pointer {
			field.SetError(it.Message)
			break
		}
	}
	return nil
}

// Validate builds the document and runs the validator over it. Errors are
// routed onto fields; the rest come back as global messages.
func (e *FormEngine) Validate() (value any, global []string, count int, err error) {
	e.state.ClearErrors()
	obj, err := e.state.TryBuildValue()
	if err != nil {
		if ce, ok := AsCoercion(err); ok {
			if !e.state.SetError(ce.Pointer, ce.Message) {
				global = append(global, ce.Error())
			}
			return nil, global, 1, err
		}
		return nil, nil, 1, err
	}
	if e.validator == nil {
		return obj, nil, 0, nil
	}
	iss := e.validator.Validate(obj)
	if len(iss) == 0 {
		return obj, nil, 0, nil
	}
	return nil, e.state.ApplyIssues(iss), len(iss), iss
}
