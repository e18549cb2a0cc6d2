package schema

import (
	"strings"
	"unicode"

	"github.com/reoring/schemaui/document"
)

type sectionInfo struct {
	id          string
	title       string
	description string
}

func generalSectionInfo() sectionInfo {
	return sectionInfo{id: "general", title: "General"}
}

// sectionInfoFor derives the section identity of an object schema. x-group,
// x-group-title and x-group-description take precedence; otherwise the
// property name, title and description are used, inheriting the parent's
// description.
func sectionInfoFor(n *document.Object, name string, parent *sectionInfo) sectionInfo {
	if group, ok := n.String("x-group"); ok {
		title, ok := n.String("x-group-title")
		if !ok {
			title = Prettify(group)
		}
		desc, _ := n.String("x-group-description")
		return sectionInfo{id: group, title: title, description: desc}
	}
	title, ok := n.String("title")
	if !ok {
		title = Prettify(name)
	}
	desc, ok := n.String("description")
	if !ok && parent != nil {
		desc = parent.description
	}
	return sectionInfo{id: name, title: title, description: desc}
}

// Prettify turns a property name into a label: '_' and '-' become spaces
// and the following character is upper-cased.
func Prettify(raw string) string {
	var b strings.Builder
	capitalize := true
	for _, ch := range raw {
		if ch == '_' || ch == '-' {
			b.WriteByte(' ')
			capitalize = true
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(ch))
			capitalize = false
			continue
		}
		b.WriteRune(ch)
	}
	return strings.TrimSpace(b.String())
}

func metadataMap(n *document.Object) map[string]any {
	out := map[string]any{}
	n.Range(func(k string, v any) bool {
		if strings.HasPrefix(k, "x-") {
			out[k] = v
		}
		return true
	})
	return out
}

// typeOf returns the declared type; for type arrays, the first entry that is
// not "null".
func typeOf(n *document.Object) string {
	v, ok := n.Get("type")
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.ToLower(t)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && !strings.EqualFold(s, "null") {
				return strings.ToLower(s)
			}
		}
	}
	return ""
}

func isObjectSchema(n *document.Object) bool {
	switch typeOf(n) {
	case "object":
		return true
	case "":
		return n.Has("properties") || n.Has("additionalProperties") || n.Has("patternProperties")
	}
	return false
}

func hasComposite(n *document.Object) bool {
	return n.Has("oneOf") || n.Has("anyOf")
}

// shouldDescend reports whether an object node becomes a section rather than
// a field.
func shouldDescend(n *document.Object) bool {
	props, _ := n.Object("properties")
	return isObjectSchema(n) && props.Len() > 0 && !hasComposite(n)
}

func requiredSet(n *document.Object) map[string]bool {
	out := map[string]bool{}
	req, _ := n.Array("required")
	for _, r := range req {
		if s, ok := r.(string); ok {
			out[s] = true
		}
	}
	return out
}
