package form

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
	"github.com/reoring/schemaui/schema"
)

type kvEntry struct {
	key   string
	value any
}

// keyValueComponent edits free-form maps as an ordered entry list.
// counter feeds the key-N placeholders.
type keyValueComponent struct {
	template *schema.KeyValueField
	entries  []kvEntry
	cur      cursor
	counter  int
}

func (c *keyValueComponent) display(*schema.FieldSchema) string {
	label := ""
	if i, ok := c.selected(); ok {
		label = c.label(i)
	}
	return collectionDisplay("Map", len(c.entries), label)
}

func (c *keyValueComponent) label(i int) string {
	e := c.entries[i]
	return e.key + " = " + summarize(e.value, 10)
}

func (c *keyValueComponent) handleKey(*tcell.EventKey) bool { return false }

func (c *keyValueComponent) seed(v any) {
	obj, ok := v.(*document.Object)
	if !ok {
		return
	}
	c.entries = c.entries[:0]
	obj.Range(func(k string, val any) bool {
		c.entries = append(c.entries, kvEntry{key: k, value: document.Clone(val)})
		return true
	})
	c.cur.clamp(len(c.entries))
}

func (c *keyValueComponent) value(f *schema.FieldSchema) (any, bool, error) {
	out := document.NewObject()
	if len(c.entries) == 0 {
		if f.Required {
			return out, true, nil
		}
		return nil, false, nil
	}
	for _, e := range c.entries {
		key := strings.TrimSpace(e.key)
		if key == "" {
			return nil, false, coercionErr(f.Pointer, schemaui.CodeEmptyKey, i18n.T(i18n.MsgEmptyKey, nil))
		}
		if out.Has(key) {
			return nil, false, coercionErr(schemaui.PointerField(f.Pointer, key), schemaui.CodeDuplicateKey,
				i18n.T(i18n.MsgDuplicateKey, map[string]string{"key": key}))
		}
		out.Set(key, document.Clone(e.value))
	}
	return out, true, nil
}

func (c *keyValueComponent) clone() component {
	cp := *c
	cp.entries = lo.Map(c.entries, func(e kvEntry, _ int) kvEntry {
		return kvEntry{key: e.key, value: document.Clone(e.value)}
	})
	return &cp
}

func (c *keyValueComponent) add() bool {
	c.entries = append(c.entries, kvEntry{key: c.nextPlaceholder(), value: document.Clone(c.template.ValueDefault)})
	c.cur.pos = len(c.entries) - 1
	return true
}

func (c *keyValueComponent) nextPlaceholder() string {
	for {
		c.counter++
		candidate := fmt.Sprintf("key-%d", c.counter)
		if !lo.ContainsBy(c.entries, func(e kvEntry) bool { return e.key == candidate }) {
			return candidate
		}
	}
}

func (c *keyValueComponent) remove() bool {
	var ok bool
	c.entries, ok = removeAt(c.entries, &c.cur)
	return ok
}

func (c *keyValueComponent) move(delta int) bool        { return swap(c.entries, &c.cur, delta) }
func (c *keyValueComponent) selectEntry(delta int) bool { return c.cur.step(delta, len(c.entries)) }

func (c *keyValueComponent) selected() (int, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	c.cur.clamp(len(c.entries))
	return c.cur.pos, true
}

func (c *keyValueComponent) summaries() []string { return lo.Times(len(c.entries), c.label) }

func (c *keyValueComponent) openEditor(f *schema.FieldSchema) (*EditorSession, error) {
	i, ok := c.selected()
	if !ok {
		return nil, coercionErr(f.Pointer, schemaui.CodeRequired, "no entry selected")
	}
	e := c.entries[i]
	t := c.template

	keyKind := schema.FieldKind{Tag: schema.KindString}
	if opts, ok := t.KeySchema.Array("enum"); ok {
		keyKind = schema.FieldKind{Tag: schema.KindEnum, Options: lo.Map(opts, func(v any, _ int) string { return enumText(v) })}
	}
	keyField := &schema.FieldSchema{
		Name: "key", Path: []string{"key"}, Pointer: "/key",
		Title: t.KeyTitle, Description: t.KeyDescription,
		SectionID: "key_value", Kind: keyKind, Required: true,
		Default: e.key, HasDefault: true,
	}
	valueField := &schema.FieldSchema{
		Name: "value", Path: []string{"value"}, Pointer: "/value",
		Title: t.ValueTitle, Description: t.ValueDescription,
		SectionID: "key_value", Kind: t.ValueKind, Required: true,
		Default: e.value, HasDefault: e.value != nil,
	}
	if !valueField.HasDefault && t.ValueDefault != nil {
		valueField.Default, valueField.HasDefault = t.ValueDefault, true
	}
	return &EditorSession{
		Title:       c.label(i),
		Description: f.Description,
		EntryLabel:  c.label(i),
		Form:        singleSectionForm("key_value", "Key/Value Entry", "", keyField, valueField),
		Schema:      t.EntrySchema,
		Target:      Target{Kind: TargetKeyValueEntry, Index: i},
	}, nil
}

// commitEditor writes the session back into entry i. A duplicate or empty
// key leaves the entry unchanged.
func (c *keyValueComponent) commitEditor(f *schema.FieldSchema, s *EditorSession) (bool, error) {
	obj, err := s.Form.TryBuildValue()
	if err != nil {
		return false, err
	}
	i := s.Target.Index
	if i < 0 || i >= len(c.entries) {
		return false, coercionErr(f.Pointer, schemaui.CodeRequired, "invalid entry selection")
	}
	rawKey, _ := obj.Get("key")
	key := strings.TrimSpace(enumText(rawKey))
	if rawKey == nil {
		key = ""
	}
	if key == "" {
		return false, coercionErr(f.Pointer, schemaui.CodeEmptyKey, i18n.T(i18n.MsgEmptyKey, nil))
	}
	for j, other := range c.entries {
		if j != i && strings.TrimSpace(other.key) == key {
			return false, coercionErr(schemaui.PointerField(f.Pointer, key), schemaui.CodeDuplicateKey,
				i18n.T(i18n.MsgDuplicateKey, map[string]string{"key": key}))
		}
	}
	value, _ := obj.Get("value")
	e := &c.entries[i]
	changed := e.key != key || !document.Equal(e.value, value)
	e.key, e.value = key, value
	if changed {
		c.cur.pos = i
	}
	return changed, nil
}
