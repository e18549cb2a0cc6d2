package document_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
)

func sample() *document.Object {
	nested := document.NewObject()
	nested.Set("enabled", true)
	nested.Set("note", "<ok> & fine")
	o := document.NewObject()
	o.Set("name", "svc")
	o.Set("port", int64(8080))
	o.Set("ratio", 0.5)
	o.Set("tags", []any{"a", "b"})
	o.Set("nested", nested)
	o.Set("empty", document.NewObject())
	o.Set("none", nil)
	return o
}

func TestObject_OrderAndDelete(t *testing.T) {
	o := document.NewObject()
	o.Set("b", int64(1))
	o.Set("a", int64(2))
	o.Set("b", int64(3))
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	assert.True(t, o.Delete("b"))
	assert.False(t, o.Delete("b"))
	assert.Equal(t, []string{"a"}, o.Keys())

	var nilObj *document.Object
	assert.Equal(t, 0, nilObj.Len())
	_, ok = nilObj.Get("x")
	assert.False(t, ok)
}

func TestObject_CloneIsDeep(t *testing.T) {
	o := sample()
	c := o.Clone()
	inner, _ := c.Object("nested")
	inner.Set("enabled", false)
	orig, _ := o.Object("nested")
	b, _ := orig.Bool("enabled")
	assert.True(t, b)
	assert.True(t, document.Equal(o, sample()))
	assert.False(t, document.Equal(o, c))
}

func TestDecodeJSON_PreservesOrderAndNumbers(t *testing.T) {
	v, err := document.DecodeJSON([]byte(`{"z":1,"a":1.5,"m":[true,null,"x"],"o":{"k":-3}}`))
	require.NoError(t, err)
	o := v.(*document.Object)
	assert.Equal(t, []string{"z", "a", "m", "o"}, o.Keys())
	z, _ := o.Get("z")
	assert.Equal(t, int64(1), z)
	a, _ := o.Get("a")
	assert.Equal(t, 1.5, a)
	k, ok := document.Lookup(v, "/o/k")
	require.True(t, ok)
	assert.Equal(t, int64(-3), k)
	m, ok := document.Lookup(v, "/m/2")
	require.True(t, ok)
	assert.Equal(t, "x", m)
}

func TestDecodeJSON_DuplicateKeysReportedByPointer(t *testing.T) {
	_, err := document.DecodeJSON([]byte(`{"a":{"b":1,"b":2}}`))
	require.Error(t, err)
	iss, ok := schemaui.AsIssues(err)
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, schemaui.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/a/b", iss[0].Path)
}

func TestDecodeJSON_Errors(t *testing.T) {
	for _, in := range []string{``, `{"a":`, `{"a":1} {}`} {
		_, err := document.DecodeJSON([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestDecodeYAML_Order(t *testing.T) {
	v, err := document.DecodeYAML([]byte("enabled: true\nname: dev\nports:\n  - 80\n  - 443\n"))
	require.NoError(t, err)
	o := v.(*document.Object)
	assert.Equal(t, []string{"enabled", "name", "ports"}, o.Keys())
	ports, _ := o.Array("ports")
	assert.Equal(t, []any{int64(80), int64(443)}, ports)
}

func TestDecodeTOML(t *testing.T) {
	v, err := document.DecodeTOML([]byte("enabled = true\nname = \"dev\"\n[server]\nport = 8080\n"))
	require.NoError(t, err)
	port, ok := document.Lookup(v, "/server/port")
	require.True(t, ok)
	assert.Equal(t, int64(8080), port)
	name, _ := document.Lookup(v, "/name")
	assert.Equal(t, "dev", name)
}

func TestRoundTrip_AllFormats(t *testing.T) {
	in := document.NewObject()
	in.Set("name", "svc")
	in.Set("port", int64(8080))
	in.Set("tags", []any{"a", "b"})
	for _, f := range []document.Format{document.FormatJSON, document.FormatYAML, document.FormatTOML} {
		out, err := document.Encode(in, f, true)
		require.NoError(t, err, f.String())
		back, err := document.Decode(out, f)
		require.NoError(t, err, f.String())
		assert.True(t, document.Equal(in, back), "%s: %s", f, out)
	}
}

func TestEmit_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))

	var buf bytes.Buffer
	opts := document.DefaultOutputOptions()
	opts.Stdout = &buf
	require.NoError(t, document.Emit(sample(), opts))
	g.Assert(t, "emit_pretty.json", buf.Bytes())

	small := document.NewObject()
	small.Set("name", "svc")
	small.Set("port", int64(8080))
	small.Set("nested", document.ObjectOf("enabled", true))
	out, err := document.Render(small, opts.WithFormat(document.FormatYAML))
	require.NoError(t, err)
	g.Assert(t, "emit.yaml", out)
}

func TestEmit_CompactAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	opts := document.DefaultOutputOptions().WithPretty(false).WithDestinations(document.File(path))
	require.NoError(t, document.Emit(document.ObjectOf("ok", true), opts))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"ok\":true}\n", string(data))

	require.NoError(t, document.Emit(nil, document.OutputOptions{}))
}

func TestEncodeJSON_KeepsHTMLCharacters(t *testing.T) {
	b, err := document.EncodeJSON(document.ObjectOf("<a&b>", "<ok> & fine"), false)
	require.NoError(t, err)
	assert.Equal(t, `{"<a&b>":"<ok> & fine"}`, string(b))
}

func TestEncodeTOML_RequiresObject(t *testing.T) {
	_, err := document.EncodeTOML([]any{int64(1)}, true)
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, ok := document.FormatFromPath("conf.YML")
	assert.True(t, ok)
	assert.Equal(t, document.FormatYAML, f)
	_, ok = document.FormatFromPath("conf")
	assert.False(t, ok)
	_, ok = document.FormatFromPath("conf.txt")
	assert.False(t, ok)
}

func TestDecodeAuto_FallsBack(t *testing.T) {
	v, f, err := document.DecodeAuto([]byte("name: x\n"), document.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, document.FormatYAML, f)
	name, _ := document.Lookup(v, "/name")
	assert.Equal(t, "x", name)
}
