package schema_test

import (
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/schema"
)

func mustCompile(t *testing.T, src string) *schema.FormSchema {
	t.Helper()
	fs, _, err := schema.Compile([]byte(src), schema.Options{})
	require.NoError(t, err)
	return fs
}

func compileErr(t *testing.T, src string) *schema.Error {
	t.Helper()
	_, _, err := schema.Compile([]byte(src), schema.Options{})
	require.Error(t, err)
	var se *schema.Error
	require.True(t, errors.As(err, &se), "unexpected error type %T: %v", err, err)
	return se
}

func TestCompile_RootsAndSections(t *testing.T) {
	fs := mustCompile(t, `{
		"title": "Service",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"},
			"max_conn": {"type": "integer", "default": 10},
			"database": {
				"type": "object",
				"description": "DB",
				"properties": {
					"url": {"type": "string"},
					"pool": {"type": "object", "properties": {"size": {"type": "integer"}}}
				}
			},
			"server": {
				"type": "object",
				"x-group": "net",
				"x-group-title": "Networking",
				"properties": {"host": {"type": "string", "x-widget": "host"}}
			}
		}
	}`)

	assert.Equal(t, "Service", fs.Title)
	require.Len(t, fs.Roots, 3)
	assert.Equal(t, "general", fs.Roots[0].ID)
	assert.Equal(t, "database", fs.Roots[1].ID)
	assert.Equal(t, "net", fs.Roots[2].ID)
	assert.Equal(t, "Networking", fs.Roots[2].Title)

	general := fs.Roots[0].Sections[0]
	require.Len(t, general.Fields, 2)
	name, maxConn := general.Fields[0], general.Fields[1]
	assert.True(t, name.Required)
	assert.Equal(t, "Name", name.DisplayLabel())
	assert.False(t, maxConn.Required)
	assert.Equal(t, "Max Conn (max_conn)", maxConn.DisplayLabel())
	assert.True(t, maxConn.HasDefault)
	assert.Equal(t, int64(10), maxConn.Default)
	assert.Equal(t, schema.KindInteger, maxConn.Kind.Tag)

	db := fs.Roots[1].Sections[0]
	assert.Equal(t, []string{"database"}, db.Path)
	require.Len(t, db.Children, 1)
	pool := db.Children[0]
	assert.Equal(t, "Pool", pool.Title)
	assert.Equal(t, "DB", pool.Description)
	assert.Equal(t, []string{"database", "pool"}, pool.Path)
	assert.Equal(t, "/database/pool/size", pool.Fields[0].Pointer)
	assert.Equal(t, "pool", pool.Fields[0].SectionID)

	host := fs.FieldByPointer("/server/host")
	require.NotNil(t, host)
	assert.Equal(t, map[string]any{"x-widget": "host"}, host.Metadata)
}

func TestCompile_EmptySchemaYieldsGeneralRoot(t *testing.T) {
	fs := mustCompile(t, `{"type": "object"}`)
	require.Len(t, fs.Roots, 1)
	assert.Equal(t, "general", fs.Roots[0].ID)
	assert.Equal(t, "General", fs.Roots[0].Title)
	assert.Empty(t, fs.Roots[0].Sections)
}

func TestCompile_TitleOverride(t *testing.T) {
	fs, _, err := schema.Compile(map[string]any{"type": "object", "title": "A"}, schema.Options{Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, "B", fs.Title)
}

func TestCompile_RootMustBeObject(t *testing.T) {
	se := compileErr(t, `{"type": "string"}`)
	assert.Equal(t, schemaui.CodeUnsupported, se.Code)
}

func TestCompile_PointerEscaping(t *testing.T) {
	fs := mustCompile(t, `{"type":"object","properties":{"a/b":{"type":"string"},"c~d":{"type":"string"}}}`)
	assert.NotNil(t, fs.FieldByPointer("/a~1b"))
	assert.NotNil(t, fs.FieldByPointer("/c~0d"))
}

func TestCompile_RefChainsAndSiblingOverride(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"definitions": {
			"port": {"type": "integer", "title": "Port", "default": 80},
			"alias": {"$ref": "#/definitions/name"},
			"name": {"type": "string"}
		},
		"properties": {
			"http": {"$ref": "#/definitions/port", "title": "HTTP port"},
			"label": {"$ref": "#/definitions/alias"},
			"pct": {"$ref": "#/definitions/na%6De"}
		}
	}`)
	http := fs.FieldByPointer("/http")
	require.NotNil(t, http)
	assert.Equal(t, "HTTP port", http.Title)
	assert.Equal(t, int64(80), http.Default)
	assert.Equal(t, schema.KindInteger, http.Kind.Tag)
	assert.Equal(t, schema.KindString, fs.FieldByPointer("/label").Kind.Tag)
	assert.Equal(t, schema.KindString, fs.FieldByPointer("/pct").Kind.Tag)
}

func TestCompile_RefErrors(t *testing.T) {
	se := compileErr(t, `{"type":"object","properties":{"a":{"$ref":"#/definitions/missing"}}}`)
	assert.Equal(t, schemaui.CodeUnresolvedRef, se.Code)
	assert.Equal(t, "a", se.Field)

	se = compileErr(t, `{"type":"object","properties":{"a":{"$ref":"other.json#/x"}}}`)
	assert.Equal(t, schemaui.CodeUnsupported, se.Code)

	se = compileErr(t, `{
		"type": "object",
		"definitions": {"a": {"type": "object", "properties": {"b": {"$ref": "#/definitions/a"}}}},
		"properties": {"a": {"$ref": "#/definitions/a"}}
	}`)
	assert.Equal(t, schemaui.CodeCyclicRef, se.Code)
	assert.Contains(t, se.Error(), "field 'b'")
}

func TestCompile_RecursionThroughArrayItems(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"definitions": {
			"node": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"children": {"type": "array", "items": {"$ref": "#/definitions/node"}}
				}
			}
		},
		"properties": {"tree": {"$ref": "#/definitions/node"}}
	}`)
	children := fs.FieldByPointer("/tree/children")
	require.NotNil(t, children)
	require.Equal(t, schema.KindArray, children.Kind.Tag)
	require.Equal(t, schema.KindComposite, children.Kind.Item.Tag)
	variant := children.Kind.Item.Composite.Variants[0]
	assert.Equal(t, "variant_0", variant.ID)
	assert.Equal(t, "Entry", variant.Title)
	assert.True(t, variant.Schema.Has("definitions"))
}

func TestCompile_AllOfMerge(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"definitions": {"extra": {"type": "object", "properties": {"y": {"type": "integer"}}}},
		"properties": {
			"cfg": {
				"allOf": [
					{"properties": {"x": {"type": "string"}}, "required": ["x"]},
					{"$ref": "#/definitions/extra"},
					{"description": "ignored"}
				]
			}
		}
	}`)
	require.Len(t, fs.Roots, 1)
	cfg := fs.Roots[0].Sections[0]
	require.Len(t, cfg.Fields, 2)
	assert.Equal(t, "x", cfg.Fields[0].Name)
	assert.True(t, cfg.Fields[0].Required)
	assert.Equal(t, "y", cfg.Fields[1].Name)
	assert.False(t, cfg.Fields[1].Required)
}

func TestCompile_KeyValue(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"properties": {
			"labels": {"type": "object", "patternProperties": {"^[a-z]+$": {"type": "string"}}},
			"limits": {
				"type": "object",
				"additionalProperties": {"type": "integer", "title": "Limit"},
				"propertyNames": {"minLength": 1}
			}
		}
	}`)
	labels := fs.FieldByPointer("/labels").Kind
	require.Equal(t, schema.KindKeyValue, labels.Tag)
	pattern, _ := labels.KeyValue.KeySchema.String("pattern")
	assert.Equal(t, "^[a-z]+$", pattern)
	assert.Equal(t, "Key", labels.KeyValue.KeyTitle)
	assert.Equal(t, schema.KindString, labels.KeyValue.ValueKind.Tag)

	limits := fs.FieldByPointer("/limits").Kind.KeyValue
	require.NotNil(t, limits)
	typ, _ := limits.KeySchema.String("type")
	assert.Equal(t, "string", typ)
	assert.Equal(t, "Limit", limits.ValueTitle)
	assert.Equal(t, schema.KindInteger, limits.ValueKind.Tag)
	required, _ := limits.EntrySchema.Array("required")
	assert.Equal(t, []any{"key", "value"}, required)
}

func TestCompile_Composite(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"definitions": {"basic": {"title": "Basic", "type": "object", "properties": {"user": {"type": "string"}}}},
		"properties": {
			"auth": {"oneOf": [{"$ref": "#/definitions/basic"}, {"type": "string"}]},
			"extras": {"anyOf": [{"type": "integer"}]}
		}
	}`)
	auth := fs.FieldByPointer("/auth").Kind.Composite
	require.NotNil(t, auth)
	assert.Equal(t, schema.OneOf, auth.Mode)
	require.Len(t, auth.Variants, 2)
	assert.Equal(t, "Basic", auth.Variants[0].Title)
	assert.True(t, auth.Variants[0].IsObject)
	assert.True(t, auth.Variants[0].Schema.Has("definitions"))
	assert.Equal(t, "Variant 2", auth.Variants[1].Title)
	assert.False(t, auth.Variants[1].IsObject)

	wrapped := auth.Variants[1].FormDocument()
	props, _ := wrapped.Object("properties")
	assert.True(t, props.Has(schema.ValueWrapperField))
	assert.True(t, wrapped.Has("definitions"))

	sub, err := schema.CompileVariant(auth.Variants[1], schema.Options{})
	require.NoError(t, err)
	assert.NotNil(t, sub.FieldByPointer("/__value"))

	assert.Equal(t, schema.AnyOf, fs.FieldByPointer("/extras").Kind.Composite.Mode)
}

func TestCompile_ArrayKinds(t *testing.T) {
	fs := mustCompile(t, `{
		"type": "object",
		"properties": {
			"tags": {"type": "array", "items": {"type": "string"}},
			"modes": {"type": "array", "items": {"enum": ["r", "w", 1]}},
			"pair": {"type": "array", "items": [{"type": "number"}, {"type": "string"}]},
			"maybe": {"type": ["null", "boolean"]}
		}
	}`)
	assert.Equal(t, "array<string>", fs.FieldByPointer("/tags").Kind.String())
	modes := fs.FieldByPointer("/modes").Kind
	assert.Equal(t, []string{"r", "w", "1"}, modes.Item.Options)
	assert.False(t, modes.IsCollection())
	assert.Equal(t, "array<number>", fs.FieldByPointer("/pair").Kind.String())
	assert.Equal(t, schema.KindBoolean, fs.FieldByPointer("/maybe").Kind.Tag)
}

func TestCompile_ArrayErrors(t *testing.T) {
	cases := []struct{ msg, src string }{
		{"nested arrays are not supported", `{"type":"object","properties":{"m":{"type":"array","items":{"type":"array","items":{"type":"string"}}}}}`},
		{"arrays of key/value maps are not supported", `{"type":"object","properties":{"m":{"type":"array","items":{"type":"object","additionalProperties":{"type":"string"}}}}}`},
		{"tuple arrays without items are not supported", `{"type":"object","properties":{"m":{"type":"array","items":[]}}}`},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			se := compileErr(t, tc.src)
			assert.Equal(t, "m", se.Field)
			assert.Equal(t, "schema: unsupported schema for field 'm': "+tc.msg, se.Error())
		})
	}
}

func TestCompile_StrictRejectsWarnings(t *testing.T) {
	src := []byte(`{"type":"object","properties":{"pair":{"type":"array","items":[{"type":"number"},{"type":"string"}]}}}`)
	_, diag, err := schema.Compile(src, schema.Options{})
	require.NoError(t, err)
	require.True(t, diag.HasWarnings())
	assert.Contains(t, diag.Warnings()[0], "truncated")

	_, _, err = schema.Compile(src, schema.Options{Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict mode")
}

func TestCompile_AcceptsYAML(t *testing.T) {
	fs := mustCompile(t, "type: object\nproperties:\n  name:\n    type: string\n")
	assert.NotNil(t, fs.FieldByPointer("/name"))
}

func TestPrettify(t *testing.T) {
	assert.Equal(t, "Max Conn", schema.Prettify("max_conn"))
	assert.Equal(t, "Log Level", schema.Prettify("log-level"))
	assert.Equal(t, "Port", schema.Prettify("port"))
}

func TestBlueprint(t *testing.T) {
	fs := mustCompile(t, `{
		"title": "Svc",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"},
			"mode": {"enum": ["a", "b"]}
		}
	}`)
	out, err := document.EncodeJSON(schema.Blueprint(fs), true)
	require.NoError(t, err)
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "blueprint", append(out, '\n'))
}
