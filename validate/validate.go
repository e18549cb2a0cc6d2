// Package validate checks built documents against their JSON Schema. It
// adapts santhosh-tekuri/jsonschema to the schemaui.Validator interface so
// that every violation comes back as an Issue addressed by JSON Pointer.
package validate

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
)

// Options controls how a schema is compiled.
type Options struct {
	// Draft applies when the schema carries no $schema. Empty means draft-07.
	Draft string
	// AssertFormats makes the "format" keyword an assertion.
	AssertFormats bool
	// Language selects the printer for library messages. The zero tag
	// means English.
	Language language.Tag
}

const resourceURL = "schemaui.json"

// Validator validates values against one compiled schema. It is safe for
// concurrent use.
type Validator struct {
	schema  *jsonschema.Schema
	printer *message.Printer
}

var _ schemaui.Validator = (*Validator)(nil)

// ParseDraft maps a draft name ("4", "draft7", "2020-12", ...) to the
// library draft.
func ParseDraft(s string) (*jsonschema.Draft, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "draft") {
	case "", "7", "-07", "07":
		return jsonschema.Draft7, nil
	case "4", "-04", "04":
		return jsonschema.Draft4, nil
	case "6", "-06", "06":
		return jsonschema.Draft6, nil
	case "2019", "2019-09":
		return jsonschema.Draft2019, nil
	case "2020", "2020-12":
		return jsonschema.Draft2020, nil
	}
	return nil, fmt.Errorf("validate: unknown draft %q", s)
}

// Compile builds a Validator. doc may be a *document.Object, a decoded
// map, or raw JSON/YAML bytes.
func Compile(doc any, opts Options) (*Validator, error) {
	if doc == nil {
		return nil, errors.New("validate: nil schema")
	}
	if raw, ok := doc.([]byte); ok {
		v, _, err := document.DecodeAuto(raw, document.FormatJSON)
		if err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
		doc = v
	}
	loaded, err := toInstance(doc)
	if err != nil {
		return nil, fmt.Errorf("validate: cannot load schema: %w", err)
	}
	draft, err := ParseDraft(opts.Draft)
	if err != nil {
		return nil, err
	}

	c := jsonschema.NewCompiler()
	c.DefaultDraft(draft)
	if opts.AssertFormats {
		c.AssertFormat()
	}
	if err := c.AddResource(resourceURL, loaded); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	sch, err := c.Compile(resourceURL)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	return &Validator{schema: sch, printer: message.NewPrinter(tag)}, nil
}

// MustCompile is Compile for schemas known to be valid.
func MustCompile(doc any, opts Options) *Validator {
	v, err := Compile(doc, opts)
	if err != nil {
		panic(err)
	}
	return v
}

// toInstance converts v into the value model of the library (json.Number
// for numbers, plain maps and slices).
func toInstance(v any) (any, error) {
	b, err := document.EncodeJSON(document.FromPlain(v), false)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

// Validate implements schemaui.Validator. Issues are ordered as reported,
// one per leaf violation.
func (v *Validator) Validate(value any) schemaui.Issues {
	inst, err := toInstance(value)
	if err != nil {
		return schemaui.Issues{{Code: schemaui.CodeInvalidType, Message: err.Error(), Cause: err}}
	}
	err = v.schema.Validate(inst)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return schemaui.Issues{{Code: schemaui.CodeSchemaViolation, Message: err.Error(), Cause: err}}
	}
	var out schemaui.Issues
	v.flatten(ve, &out)
	return out
}

func (v *Validator) flatten(ve *jsonschema.ValidationError, out *schemaui.Issues) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			v.flatten(c, out)
		}
		return
	}
	at := schemaui.PointerFromPath(ve.InstanceLocation)
	// missing properties are reported on the property itself so that the
	// form can route them onto the field.
	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, name := range req.Missing {
			*out = append(*out, schemaui.Issue{
				Path:    schemaui.PointerField(at, name),
				Code:    schemaui.CodeRequired,
				Message: i18n.T(i18n.MsgRequiredField, nil),
				Params:  map[string]any{"property": name},
			})
		}
		return
	}
	*out = append(*out, schemaui.Issue{
		Path:    at,
		Code:    schemaui.CodeSchemaViolation,
		Message: ve.ErrorKind.LocalizedString(v.printer),
		Params:  map[string]any{"keyword": strings.Join(ve.ErrorKind.KeywordPath(), "/")},
	})
}

// ValidateDocument compiles schema and validates value in one step.
func ValidateDocument(schema, value any) (schemaui.Issues, error) {
	v, err := Compile(schema, Options{})
	if err != nil {
		return nil, err
	}
	return v.Validate(value), nil
}
