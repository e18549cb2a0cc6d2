package schema

import (
	"github.com/samber/lo"

	"github.com/reoring/schemaui/document"
)

// Blueprint renders the compiled form as a renderer-neutral JSON document:
// roots, sections and fields, each field carrying a "widget" that names the
// component used to edit it.
func Blueprint(fs *FormSchema) *document.Object {
	out := document.NewObject()
	out.Set("title", fs.Title)
	setOptional(out, "description", fs.Description)
	out.Set("roots", lo.Map(fs.Roots, func(r RootSection, _ int) any {
		o := document.ObjectOf("id", r.ID, "title", r.Title)
		setOptional(o, "description", r.Description)
		o.Set("sections", sectionsBlueprint(r.Sections))
		return o
	}))
	return out
}

func sectionsBlueprint(secs []FormSection) []any {
	return lo.Map(secs, func(s FormSection, _ int) any {
		o := document.ObjectOf("id", s.ID, "title", s.Title)
		setOptional(o, "description", s.Description)
		o.Set("path", lo.Map(s.Path, func(p string, _ int) any { return p }))
		o.Set("fields", lo.Map(s.Fields, func(f *FieldSchema, _ int) any { return fieldBlueprint(f) }))
		o.Set("children", sectionsBlueprint(s.Children))
		return o
	})
}

func fieldBlueprint(f *FieldSchema) *document.Object {
	o := document.ObjectOf("name", f.Name, "pointer", f.Pointer, "title", f.Title)
	setOptional(o, "description", f.Description)
	o.Set("required", f.Required)
	if f.HasDefault {
		o.Set("default", document.Clone(f.Default))
	}
	if len(f.Metadata) > 0 {
		o.Set("metadata", document.FromPlain(f.Metadata))
	}
	o.Set("widget", widget(f.Kind))
	return o
}

func widget(k FieldKind) *document.Object {
	switch k.Tag {
	case KindString, KindInteger, KindNumber:
		return document.ObjectOf("component", "text", "data_type", k.Tag.String())
	case KindBoolean:
		return document.ObjectOf("component", "boolean")
	case KindJSON:
		return document.ObjectOf("component", "json")
	case KindEnum:
		return document.ObjectOf("component", "enum", "options", stringsAsAny(k.Options))
	case KindComposite:
		return compositeWidget("composite", k.Composite)
	case KindKeyValue:
		kv := k.KeyValue
		key := document.ObjectOf("title", kv.KeyTitle, "schema", kv.KeySchema)
		setOptional(key, "description", kv.KeyDescription)
		if kv.KeyDefault != nil {
			key.Set("default", kv.KeyDefault)
		}
		value := document.ObjectOf("title", kv.ValueTitle, "schema", kv.ValueSchema, "kind", widget(kv.ValueKind))
		setOptional(value, "description", kv.ValueDescription)
		if kv.ValueDefault != nil {
			value.Set("default", kv.ValueDefault)
		}
		return document.ObjectOf("component", "key_value", "key", key, "value", value, "entry_schema", kv.EntrySchema)
	case KindArray:
		inner := k.Item
		switch {
		case inner.Tag == KindEnum:
			return document.ObjectOf("component", "multi_select", "options", stringsAsAny(inner.Options))
		case inner.Tag == KindComposite:
			return compositeWidget("composite_list", inner.Composite)
		case inner.Scalar():
			return document.ObjectOf("component", "scalar_array", "item", widget(*inner))
		}
		return document.ObjectOf("component", "array", "item", widget(*inner))
	}
	return document.ObjectOf("component", "unknown")
}

func compositeWidget(component string, c *CompositeField) *document.Object {
	return document.ObjectOf(
		"component", component,
		"mode", c.Mode.String(),
		"multi", c.Mode == AnyOf,
		"variants", lo.Map(c.Variants, func(v CompositeVariant, _ int) any {
			o := document.ObjectOf("id", v.ID, "title", v.Title)
			setOptional(o, "description", v.Description)
			o.Set("schema", v.Schema)
			o.Set("is_object", v.IsObject)
			return o
		}),
	)
}

func stringsAsAny(ss []string) []any {
	return lo.Map(ss, func(s string, _ int) any { return s })
}

func setOptional(o *document.Object, key, value string) {
	if value != "" {
		o.Set(key, value)
	}
}
