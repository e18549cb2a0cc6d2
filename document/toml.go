package document

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	schemaui "github.com/reoring/schemaui"
)

// DecodeTOML parses a TOML document. TOML tables carry no stable order once
// decoded, so keys come back sorted.
func DecodeTOML(data []byte) (any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, schemaui.Issues{{Code: schemaui.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return FromPlain(m), nil
}

// EncodeTOML serializes an object. TOML has no null, so null members are
// dropped.
func EncodeTOML(v any, pretty bool) ([]byte, error) {
	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("document: toml output requires an object at the top level, got %s", TypeName(v))
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(pretty)
	if err := enc.Encode(Plain(dropNulls(obj))); err != nil {
		return nil, fmt.Errorf("document: encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case *Object:
		out := NewObject()
		t.Range(func(k string, e any) bool {
			if e != nil {
				out.Set(k, dropNulls(e))
			}
			return true
		})
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if e != nil {
				out = append(out, dropNulls(e))
			}
		}
		return out
	}
	return v
}
