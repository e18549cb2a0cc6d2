package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/schemaui/document"
)

func mustJSON(t *testing.T, s string) any {
	t.Helper()
	v, err := document.DecodeJSON([]byte(s))
	require.NoError(t, err)
	return v
}

func TestInferSchema_ObjectDefaults(t *testing.T) {
	data := mustJSON(t, `{"host":"localhost","port":8080}`)
	s := document.InferSchema(data)

	draft, _ := s.String("$schema")
	assert.Equal(t, document.DraftURI, draft)
	host, _ := document.Lookup(s, "/properties/host/default")
	assert.Equal(t, "localhost", host)
	typ, _ := document.Lookup(s, "/properties/port/type")
	assert.Equal(t, "integer", typ)
	def, _ := s.Get("default")
	assert.True(t, document.Equal(data, def))
	req, _ := s.Array("required")
	assert.Equal(t, []any{"host", "port"}, req)
	ap, _ := s.Bool("additionalProperties")
	assert.True(t, ap)
}

func TestInferSchema_ArrayVariants(t *testing.T) {
	s := document.InferSchema(mustJSON(t, `["a","a"]`))
	typ, _ := document.Lookup(s, "/items/type")
	assert.Equal(t, "string", typ)

	strs := document.InferSchema(mustJSON(t, `["a","b"]`))
	variants, ok := document.Lookup(strs, "/items/anyOf")
	require.True(t, ok)
	assert.Len(t, variants, 2)

	mixed := document.InferSchema(mustJSON(t, `[1,"x",2]`))
	variants, ok = document.Lookup(mixed, "/items/anyOf")
	require.True(t, ok)
	// 1 and 2 have different defaults, so three distinct variants survive.
	assert.Len(t, variants, 3)

	same := document.InferSchema(mustJSON(t, `[1,1]`))
	typ, _ = document.Lookup(same, "/items/type")
	assert.Equal(t, "integer", typ)
}

func TestLooksLikeSchema(t *testing.T) {
	assert.True(t, document.LooksLikeSchema(mustJSON(t, `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {"username": {"type": "string"}}
	}`)))
	assert.True(t, document.LooksLikeSchema(mustJSON(t, `{"properties": {"a": {"items": {}}}}`)))
	assert.False(t, document.LooksLikeSchema(mustJSON(t, `{"username":"unic","tags":["alpha"],"properties":"not a schema"}`)))
	assert.False(t, document.LooksLikeSchema(mustJSON(t, `{"properties": {}}`)))
}

func TestWithDefaults(t *testing.T) {
	schema := mustJSON(t, `{"type":"object","properties":{
		"name":{"type":"string"},
		"server":{"type":"object","properties":{"port":{"type":"integer"}}},
		"tags":{"type":"array","items":{"type":"string"}}
	}}`).(*document.Object)
	data := mustJSON(t, `{"name":"svc","server":{"port":80},"tags":["x"],"extra":1}`)

	out := document.WithDefaults(schema, data)
	name, _ := document.Lookup(out, "/properties/name/default")
	assert.Equal(t, "svc", name)
	port, _ := document.Lookup(out, "/properties/server/properties/port/default")
	assert.Equal(t, int64(80), port)
	tags, _ := document.Lookup(out, "/properties/tags/default")
	assert.Equal(t, []any{"x"}, tags)

	_, touched := document.Lookup(schema, "/properties/name/default")
	assert.False(t, touched, "input schema must stay untouched")
}
