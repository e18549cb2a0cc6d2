package schemaui

// Package schemaui provides:
//
// - A compiler from JSON Schema documents to form trees of roots, sections and typed fields (schema/)
// - Editable form state with focus, dirty and error bookkeeping, and nested overlay editors (form/)
// - A terminal runtime that drives forms from a declarative keymap (app/, keymap/)
// - JSON/YAML/TOML input and output with insertion-ordered objects (document/)
// - A stable error model via Issues (JSON Pointer, code, message) shared by all of the above
//
// Design policy:
// - Keep only the shared error and pointer model in the root package.
// - Place the CLI under cmd/schemaui, its flags and settings under internal/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  ui, err := app.FromSchemaBytes(raw, document.FormatJSON)
//  v, err := ui.WithTitle("service").Run(ctx)
//
