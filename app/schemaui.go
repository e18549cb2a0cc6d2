package app

import (
	"context"
	"fmt"

	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/form"
	"github.com/reoring/schemaui/schema"
	"github.com/reoring/schemaui/validate"
)

// SchemaUI is the entry point for embedding: it compiles a schema, runs a
// session over it and emits the saved document.
type SchemaUI struct {
	schema  *document.Object
	title   string
	options Options
	output  *document.OutputOptions
}

// NewSchemaUI wraps a decoded JSON Schema.
func NewSchemaUI(s *document.Object) *SchemaUI {
	return &SchemaUI{schema: s, options: DefaultOptions()}
}

// FromSchemaBytes decodes a JSON, YAML or TOML schema.
func FromSchemaBytes(data []byte, f document.Format) (*SchemaUI, error) {
	v, err := document.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("app: parsing schema: %w", err)
	}
	obj, ok := v.(*document.Object)
	if !ok {
		return nil, fmt.Errorf("app: schema must be an object, got %s", document.TypeName(v))
	}
	return NewSchemaUI(obj), nil
}

// FromData infers a schema from example data; the data become defaults.
func FromData(v any) *SchemaUI {
	return NewSchemaUI(document.InferSchema(v))
}

// FromDataBytes decodes data and infers its schema.
func FromDataBytes(data []byte, f document.Format) (*SchemaUI, error) {
	v, err := document.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("app: parsing data: %w", err)
	}
	return FromData(v), nil
}

func (u *SchemaUI) WithTitle(title string) *SchemaUI { u.title = title; return u }

func (u *SchemaUI) WithOptions(o Options) *SchemaUI { u.options = o; return u }

func (u *SchemaUI) WithOutput(o document.OutputOptions) *SchemaUI { u.output = &o; return u }

// WithDefaults writes the values of data into the schema as defaults, so
// the form opens prefilled.
func (u *SchemaUI) WithDefaults(data any) *SchemaUI {
	u.schema = document.WithDefaults(u.schema, data)
	return u
}

// Schema returns the schema the session will edit.
func (u *SchemaUI) Schema() *document.Object { return u.schema }

// Prepare compiles the validator and the form and returns the app without
// touching the terminal.
func (u *SchemaUI) Prepare() (*App, error) {
	log := u.options.logger()
	v, err := validate.Compile(u.schema, u.options.Validate)
	if err != nil {
		return nil, fmt.Errorf("app: failed to compile JSON schema: %w", err)
	}
	fs, diag, err := schema.Compile(u.schema, schema.Options{Title: u.title, Logger: u.options.Logger})
	if err != nil {
		return nil, fmt.Errorf("app: failed to build form: %w", err)
	}
	for _, w := range diag.Warnings() {
		log.Warn("schema", "warning", w)
	}
	return New(form.FromSchema(fs), v, u.options), nil
}

// Run edits the document interactively and emits it to the configured
// output once saved.
func (u *SchemaUI) Run(ctx context.Context) (any, error) {
	a, err := u.Prepare()
	if err != nil {
		return nil, err
	}
	result, err := a.Run(ctx)
	if err != nil {
		return nil, err
	}
	if u.output != nil {
		if err := document.Emit(result, *u.output); err != nil {
			return nil, fmt.Errorf("app: %w", err)
		}
	}
	return result, nil
}
