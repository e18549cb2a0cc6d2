package schema

import (
	"fmt"

	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
)

// detectKind classifies an already resolved node. Order: key/value map,
// composite, enum, then the declared type.
func (c *compiler) detectKind(n *document.Object, at string) (FieldKind, error) {
	if kv, ok, err := c.keyValueField(n, at); err != nil || ok {
		return FieldKind{Tag: KindKeyValue, KeyValue: kv}, err
	}
	if comp, ok, err := c.compositeField(n, at); err != nil || ok {
		return FieldKind{Tag: KindComposite, Composite: comp}, err
	}
	if opts, ok := n.Array("enum"); ok {
		return FieldKind{Tag: KindEnum, Options: lo.Map(opts, func(v any, _ int) string { return enumLabel(v) })}, nil
	}
	// const pins the value; it edits as a one-option enum.
	if v, ok := n.Get("const"); ok {
		return FieldKind{Tag: KindEnum, Options: []string{enumLabel(v)}}, nil
	}
	if tv, ok := n.Get("type"); ok && typeOf(n) == "" {
		c.diag.warnf("%s: type %v has no non-null entry; treating as string", displayPointer(at), tv)
	}

	switch t := typeOf(n); t {
	case "", "string":
		return FieldKind{Tag: KindString}, nil
	case "integer":
		return FieldKind{Tag: KindInteger}, nil
	case "number":
		return FieldKind{Tag: KindNumber}, nil
	case "boolean":
		return FieldKind{Tag: KindBoolean}, nil
	case "object":
		return FieldKind{Tag: KindJSON}, nil
	case "array":
		return c.arrayKind(n, at)
	default:
		return FieldKind{}, newError(at, schemaui.CodeUnsupported, fmt.Sprintf("unsupported field type %s", t))
	}
}

func enumLabel(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return document.Stringify(v)
}

func (c *compiler) arrayKind(n *document.Object, at string) (FieldKind, error) {
	itemsAt := schemaui.PointerField(at, "items")
	raw, ok := n.Get("items")
	if !ok {
		return FieldKind{}, newError(at, schemaui.CodeUnsupported, i18n.T(i18n.MsgMissingItems, nil))
	}
	if tuple, isTuple := raw.([]any); isTuple {
		if len(tuple) == 0 {
			return FieldKind{}, newError(itemsAt, schemaui.CodeUnsupported, i18n.T(i18n.MsgEmptyTuple, nil))
		}
		if len(tuple) > 1 {
			c.diag.warnf("%s: tuple items truncated to the first entry", displayPointer(itemsAt))
		}
		raw, itemsAt = tuple[0], schemaui.PointerIndex(itemsAt, 0)
	}

	item, release, err := c.res.resolve(raw, itemsAt, true)
	if err != nil {
		return FieldKind{}, err
	}
	defer release()
	if typeOf(item) == "array" && !hasComposite(item) && !item.Has("enum") {
		return FieldKind{}, newError(itemsAt, schemaui.CodeUnsupported, i18n.T(i18n.MsgNestedArray, nil))
	}

	inner, err := c.detectKind(item, itemsAt)
	if err != nil {
		return FieldKind{}, err
	}
	switch inner.Tag {
	case KindKeyValue:
		return FieldKind{}, newError(itemsAt, schemaui.CodeUnsupported, i18n.T(i18n.MsgArrayOfMaps, nil))
	case KindArray:
		return FieldKind{}, newError(itemsAt, schemaui.CodeUnsupported, i18n.T(i18n.MsgNestedArray, nil))
	case KindJSON:
		if isObjectSchema(item) {
			title, ok := item.String("title")
			if !ok {
				title = "Entry"
			}
			desc, _ := item.String("description")
			inner = FieldKind{Tag: KindComposite, Composite: &CompositeField{
				Mode: OneOf,
				Variants: []CompositeVariant{{
					ID: "variant_0", Title: title, Description: desc,
					Schema: c.withDefinitions(item), IsObject: true,
				}},
			}}
		}
	}
	return FieldKind{Tag: KindArray, Item: &inner}, nil
}

// keyValueField recognises free-form maps: an object without properties
// whose additionalProperties is a schema, or that has exactly one
// patternProperties entry.
func (c *compiler) keyValueField(n *document.Object, at string) (*KeyValueField, bool, error) {
	if !isObjectSchema(n) {
		return nil, false, nil
	}
	if props, _ := n.Object("properties"); props.Len() > 0 {
		return nil, false, nil
	}
	if ap, ok := n.Object("additionalProperties"); ok {
		kv, err := c.buildKeyValue(n, at, ap, schemaui.PointerField(at, "additionalProperties"), nil)
		return kv, err == nil, err
	}
	patterns, _ := n.Object("patternProperties")
	switch {
	case patterns.Len() == 1:
		pattern := patterns.Keys()[0]
		valueRaw, _ := patterns.Get(pattern)
		keySchema := document.NewObject()
		keySchema.Set("type", "string")
		keySchema.Set("pattern", pattern)
		keySchema.Set("title", "Key")
		kv, err := c.buildKeyValue(n, at, valueRaw, schemaui.PointerField(schemaui.PointerField(at, "patternProperties"), pattern), keySchema)
		return kv, err == nil, err
	case patterns.Len() > 1:
		c.diag.warnf("%s: %d patternProperties entries; edited as raw JSON", displayPointer(at), patterns.Len())
	}
	return nil, false, nil
}

func (c *compiler) buildKeyValue(n *document.Object, at string, valueRaw any, valueAt string, keyOverride *document.Object) (*KeyValueField, error) {
	value, release, err := c.res.resolve(valueRaw, valueAt, false)
	if err != nil {
		return nil, err
	}
	defer release()
	valueKind, err := c.detectKind(value, valueAt)
	if err != nil {
		return nil, err
	}
	kv := &KeyValueField{ValueSchema: c.withDefinitions(value), ValueKind: valueKind}
	kv.ValueTitle, kv.ValueDescription, kv.ValueDefault = titles(value, "Value")

	switch {
	case keyOverride != nil:
		kv.KeySchema, kv.KeyTitle = keyOverride, "Key"
	case n.Has("propertyNames"):
		raw, _ := n.Get("propertyNames")
		names, releaseNames, err := c.res.resolve(raw, schemaui.PointerField(at, "propertyNames"), false)
		if err != nil {
			return nil, err
		}
		releaseNames()
		kv.KeySchema = names.Clone()
		if !kv.KeySchema.Has("type") {
			kv.KeySchema.Set("type", "string")
		}
		kv.KeyTitle, kv.KeyDescription, kv.KeyDefault = titles(names, "Key")
	default:
		kv.KeySchema = document.ObjectOf("type", "string", "title", "Key")
		kv.KeyTitle = "Key"
	}

	props := document.NewObject()
	props.Set("key", kv.KeySchema)
	props.Set("value", kv.ValueSchema)
	kv.EntrySchema = document.NewObject()
	kv.EntrySchema.Set("type", "object")
	kv.EntrySchema.Set("required", []any{"key", "value"})
	kv.EntrySchema.Set("properties", props)
	for _, k := range []string{"definitions", "$defs"} {
		if defs, ok := c.root.Get(k); ok {
			kv.EntrySchema.Set(k, defs)
		}
	}
	return kv, nil
}

func titles(n *document.Object, fallback string) (string, string, any) {
	title, ok := n.String("title")
	if !ok {
		title = fallback
	}
	desc, _ := n.String("description")
	def, _ := n.Get("default")
	return title, desc, def
}

func (c *compiler) compositeField(n *document.Object, at string) (*CompositeField, bool, error) {
	mode, key := OneOf, "oneOf"
	branches, ok := n.Array("oneOf")
	if !ok {
		mode, key = AnyOf, "anyOf"
		branches, ok = n.Array("anyOf")
	}
	if !ok || len(branches) == 0 {
		return nil, false, nil
	}
	out := &CompositeField{Mode: mode}
	for i, b := range branches {
		bat := schemaui.PointerIndex(schemaui.PointerField(at, key), i)
		variant, release, err := c.res.resolve(b, bat, true)
		if err != nil {
			return nil, false, err
		}
		release()
		title, ok := variant.String("title")
		if !ok {
			title = fmt.Sprintf("Variant %d", i+1)
		}
		desc, _ := variant.String("description")
		out.Variants = append(out.Variants, CompositeVariant{
			ID:          fmt.Sprintf("variant_%d", i),
			Title:       title,
			Description: desc,
			Schema:      c.withDefinitions(variant),
			IsObject:    isObjectSchema(variant),
		})
	}
	return out, true, nil
}

// withDefinitions returns a copy of n embedding the root definitions so the
// node can be compiled and validated on its own.
func (c *compiler) withDefinitions(n *document.Object) *document.Object {
	out := n.Clone()
	for _, k := range []string{"definitions", "$defs"} {
		if defs, ok := c.root.Get(k); ok && !out.Has(k) {
			out.Set(k, defs)
		}
	}
	return out
}

func displayPointer(p string) string {
	if p == "" {
		return schemaui.RootLabel
	}
	return p
}
