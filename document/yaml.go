package document

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	schemaui "github.com/reoring/schemaui"
)

// DecodeYAML parses the first YAML document. Mapping order is preserved and
// integers become int64.
func DecodeYAML(data []byte) (any, error) {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, schemaui.Issues{{Code: schemaui.CodeParseError, Message: err.Error(), Cause: err}}
	}
	if n.Kind == 0 {
		return nil, nil
	}
	return fromYAMLNode(&n, "")
}

func fromYAMLNode(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0], path)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, path)
	case yaml.MappingNode:
		o := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Tag == "!!merge" {
				merged, err := fromYAMLNode(v, path)
				if err != nil {
					return nil, err
				}
				if mo, ok := merged.(*Object); ok {
					mo.Range(func(mk string, mv any) bool {
						if !o.Has(mk) {
							o.Set(mk, mv)
						}
						return true
					})
				}
				continue
			}
			val, err := fromYAMLNode(v, schemaui.PointerField(path, k.Value))
			if err != nil {
				return nil, err
			}
			o.Set(k.Value, val)
		}
		return o, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			val, err := fromYAMLNode(c, schemaui.PointerIndex(path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, schemaui.Issues{{Path: path, Code: schemaui.CodeParseError, Message: err.Error(), Cause: err}}
		}
		return FromPlain(v), nil
	}
	return nil, schemaui.Issues{{Path: path, Code: schemaui.CodeParseError, Message: fmt.Sprintf("unsupported YAML node kind %d", n.Kind)}}
}

// EncodeYAML serializes v with two-space indentation.
func EncodeYAML(v any) ([]byte, error) {
	node, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("document: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("document: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		var err error
		t.Range(func(k string, e any) bool {
			var child *yaml.Node
			child, err = toYAMLNode(e)
			if err != nil {
				return false
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
			return true
		})
		return n, err
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			child, err := toYAMLNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(t); err != nil {
			return nil, fmt.Errorf("document: encode yaml scalar: %w", err)
		}
		return n, nil
	}
}
