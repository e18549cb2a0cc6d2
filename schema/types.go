package schema

import (
	"strings"

	"github.com/reoring/schemaui/document"
)

// FormSchema is the compiled, immutable form tree.
type FormSchema struct {
	Title       string
	Description string
	Roots       []RootSection
}

// RootSection groups one top-level object property, or the synthetic
// "general" root that collects top-level scalars.
type RootSection struct {
	ID          string
	Title       string
	Description string
	Sections    []FormSection
}

// FormSection is a node of the section tree. Path is the JSON object path of
// the section.
type FormSection struct {
	ID          string
	Title       string
	Description string
	Path        []string
	Fields      []*FieldSchema
	Children    []FormSection
}

// FieldSchema describes one editable field.
type FieldSchema struct {
	Name        string
	Path        []string
	Pointer     string
	Title       string
	Description string
	SectionID   string
	Kind        FieldKind
	Required    bool
	Default     any
	HasDefault  bool
	// Metadata holds the x-* extensions of the field schema.
	Metadata map[string]any
}

// DisplayLabel is the title, suffixed with the property name when the two
// differ.
func (f *FieldSchema) DisplayLabel() string {
	if strings.EqualFold(f.Title, f.Name) {
		return f.Title
	}
	return f.Title + " (" + f.Name + ")"
}

// KindTag enumerates field kinds.
type KindTag int

const (
	KindString KindTag = iota
	KindInteger
	KindNumber
	KindBoolean
	KindJSON
	KindEnum
	KindArray
	KindComposite
	KindKeyValue
)

var kindNames = [...]string{"string", "integer", "number", "boolean", "json", "enum", "array", "composite", "key_value"}

func (k KindTag) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// FieldKind is a tagged variant. Only the payload matching Tag is set.
type FieldKind struct {
	Tag       KindTag
	Options   []string        // KindEnum
	Item      *FieldKind      // KindArray
	Composite *CompositeField // KindComposite
	KeyValue  *KeyValueField  // KindKeyValue
}

// Scalar reports whether the kind is one of string, integer, number or
// boolean.
func (k FieldKind) Scalar() bool {
	switch k.Tag {
	case KindString, KindInteger, KindNumber, KindBoolean:
		return true
	}
	return false
}

// IsCollection reports kinds edited entry by entry: arrays of scalars or
// composites, and key/value maps. Arrays of enums are edited through a
// popup instead.
func (k FieldKind) IsCollection() bool {
	switch k.Tag {
	case KindKeyValue:
		return true
	case KindArray:
		return k.Item != nil && (k.Item.Scalar() || k.Item.Tag == KindComposite)
	}
	return false
}

func (k FieldKind) String() string {
	if k.Tag == KindArray && k.Item != nil {
		return "array<" + k.Item.String() + ">"
	}
	return k.Tag.String()
}

// CompositeMode selects oneOf or anyOf semantics.
type CompositeMode int

const (
	OneOf CompositeMode = iota
	AnyOf
)

func (m CompositeMode) String() string {
	if m == AnyOf {
		return "anyOf"
	}
	return "oneOf"
}

// CompositeField lists the variants of a oneOf/anyOf field.
type CompositeField struct {
	Mode     CompositeMode
	Variants []CompositeVariant
}

// CompositeVariant carries the raw variant schema so that its sub-form can
// be compiled on demand. Schema embeds the root definitions.
type CompositeVariant struct {
	ID          string
	Title       string
	Description string
	Schema      *document.Object
	IsObject    bool
}

// ValueWrapperField is the synthetic property used to edit non-object
// variants and scalar entries through a form.
const ValueWrapperField = "__value"

// FormDocument returns the schema edited by the variant overlay: the variant
// itself for objects, otherwise a single required __value property wrapping
// it.
func (v CompositeVariant) FormDocument() *document.Object {
	if v.IsObject {
		return v.Schema
	}
	inner := v.Schema.Clone()
	wrapper := document.NewObject()
	wrapper.Set("type", "object")
	wrapper.Set("required", []any{ValueWrapperField})
	props := document.NewObject()
	for _, k := range []string{"definitions", "$defs"} {
		if defs, ok := inner.Get(k); ok {
			wrapper.Set(k, defs)
			inner.Delete(k)
		}
	}
	props.Set(ValueWrapperField, inner)
	wrapper.Set("properties", props)
	return wrapper
}

// KeyValueField is the template for free-form maps.
type KeyValueField struct {
	KeyTitle         string
	KeyDescription   string
	KeyDefault       any
	KeySchema        *document.Object
	ValueTitle       string
	ValueDescription string
	ValueDefault     any
	ValueSchema      *document.Object
	ValueKind        FieldKind
	// EntrySchema is {type:object, required:[key,value], properties:{key,value}}.
	EntrySchema *document.Object
}

// Walk visits every field of the form in section order.
func (fs *FormSchema) Walk(fn func(*FieldSchema)) {
	var visit func([]FormSection)
	visit = func(secs []FormSection) {
		for _, s := range secs {
			for _, f := range s.Fields {
				fn(f)
			}
			visit(s.Children)
		}
	}
	for _, r := range fs.Roots {
		visit(r.Sections)
	}
}

// FieldByPointer finds a field by its JSON Pointer.
func (fs *FormSchema) FieldByPointer(ptr string) *FieldSchema {
	var out *FieldSchema
	fs.Walk(func(f *FieldSchema) {
		if out == nil && f.Pointer == ptr {
			out = f
		}
	})
	return out
}
