package form

import (
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
	"github.com/reoring/schemaui/schema"
)

// cursor is the selection shared by the list components.
type cursor struct{ pos int }

func (c *cursor) clamp(n int) {
	if n == 0 {
		c.pos = 0
		return
	}
	c.pos = max(0, min(c.pos, n-1))
}

func (c *cursor) step(delta, n int) bool {
	if n == 0 {
		return false
	}
	next := max(0, min(c.pos+delta, n-1))
	changed := next != c.pos
	c.pos = next
	return changed
}

// swap moves element pos by delta; false at the bounds.
func swap[T any](items []T, c *cursor, delta int) bool {
	next := c.pos + delta
	if len(items) < 2 || next < 0 || next >= len(items) {
		return false
	}
	items[c.pos], items[next] = items[next], items[c.pos]
	c.pos = next
	return true
}

func removeAt[T any](items []T, c *cursor) ([]T, bool) {
	if len(items) == 0 {
		return items, false
	}
	c.clamp(len(items))
	items = append(items[:c.pos], items[c.pos+1:]...)
	c.clamp(len(items))
	return items, true
}

func collectionDisplay(prefix string, n int, label string) string {
	p := CurrentPalette()
	if n == 0 {
		return prefix + ": empty " + p.EmptyListHint
	}
	return fmt.Sprintf("%s[%d] • %s %s", prefix, n, label, p.ListHint)
}

// summarize renders a value for entry strips. Strings longer than limit
// runes are cut with an ellipsis.
func summarize(v any, limit int) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		r := []rune(t)
		if len(r) > limit {
			return strconv.Quote(string(r[:limit]) + "…")
		}
		return strconv.Quote(t)
	case []any:
		return fmt.Sprintf("array(%d)", len(t))
	case *document.Object:
		return fmt.Sprintf("object(%d)", t.Len())
	}
	return document.Stringify(v)
}

// ---- scalar array ----

type scalarArrayComponent struct {
	item    schema.FieldKind
	entries []any
	cur     cursor
}

func (c *scalarArrayComponent) display(*schema.FieldSchema) string {
	label := ""
	if i, ok := c.selected(); ok {
		label = c.label(i)
	}
	return collectionDisplay("Array", len(c.entries), label)
}

func (c *scalarArrayComponent) label(i int) string {
	return fmt.Sprintf("#%d %s", i+1, summarize(c.entries[i], 24))
}

func (c *scalarArrayComponent) handleKey(*tcell.EventKey) bool { return false }

func (c *scalarArrayComponent) seed(v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	c.entries = lo.Map(items, func(it any, _ int) any { return document.Clone(it) })
	c.cur.clamp(len(c.entries))
}

func (c *scalarArrayComponent) value(f *schema.FieldSchema) (any, bool, error) {
	if len(c.entries) == 0 {
		if f.Required {
			return []any{}, true, nil
		}
		return nil, false, nil
	}
	return lo.Map(c.entries, func(it any, _ int) any { return document.Clone(it) }), true, nil
}

func (c *scalarArrayComponent) clone() component {
	cp := *c
	cp.entries = lo.Map(c.entries, func(it any, _ int) any { return document.Clone(it) })
	return &cp
}

func (c *scalarArrayComponent) add() bool {
	c.entries = append(c.entries, defaultScalar(c.item))
	c.cur.pos = len(c.entries) - 1
	return true
}

func (c *scalarArrayComponent) remove() bool {
	var ok bool
	c.entries, ok = removeAt(c.entries, &c.cur)
	return ok
}

func (c *scalarArrayComponent) move(delta int) bool        { return swap(c.entries, &c.cur, delta) }
func (c *scalarArrayComponent) selectEntry(delta int) bool { return c.cur.step(delta, len(c.entries)) }

func (c *scalarArrayComponent) selected() (int, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	c.cur.clamp(len(c.entries))
	return c.cur.pos, true
}

func (c *scalarArrayComponent) summaries() []string {
	return lo.Times(len(c.entries), c.label)
}

func defaultScalar(k schema.FieldKind) any {
	switch k.Tag {
	case schema.KindInteger:
		return int64(0)
	case schema.KindNumber:
		return float64(0)
	case schema.KindBoolean:
		return false
	case schema.KindEnum:
		if len(k.Options) > 0 {
			return k.Options[0]
		}
	}
	return ""
}

func kindFragment(k schema.FieldKind) *document.Object {
	switch k.Tag {
	case schema.KindInteger, schema.KindNumber, schema.KindBoolean:
		return document.ObjectOf("type", k.Tag.String())
	case schema.KindEnum:
		return document.ObjectOf("type", "string", "enum", lo.Map(k.Options, func(s string, _ int) any { return s }))
	case schema.KindJSON:
		return document.ObjectOf("type", "object")
	}
	return document.ObjectOf("type", "string")
}

func (c *scalarArrayComponent) openEditor(f *schema.FieldSchema) (*EditorSession, error) {
	i, ok := c.selected()
	if !ok {
		return nil, coercionErr(f.Pointer, schemaui.CodeRequired, "no entry selected")
	}
	value := c.entries[i]
	entry := &schema.FieldSchema{
		Name:        "value",
		Path:        []string{"value"},
		Pointer:     "/value",
		Title:       f.Title + " item",
		Description: f.Description,
		SectionID:   "array_entry",
		Kind:        c.item,
		Required:    true,
		Default:     value,
		HasDefault:  true,
	}
	sessionSchema := document.ObjectOf(
		"type", "object",
		"required", []any{"value"},
		"properties", document.ObjectOf("value", kindFragment(c.item)),
	)
	return &EditorSession{
		Title:       fmt.Sprintf("%s · entry #%d", f.DisplayLabel(), i+1),
		Description: f.Description,
		EntryLabel:  c.label(i),
		Form:        singleSectionForm("array_entry", f.Title, f.Description, entry),
		Schema:      sessionSchema,
		Target:      Target{Kind: TargetArrayEntry, Index: i},
	}, nil
}

func (c *scalarArrayComponent) commitEditor(f *schema.FieldSchema, s *EditorSession) (bool, error) {
	obj, err := s.Form.TryBuildValue()
	if err != nil {
		return false, err
	}
	i := s.Target.Index
	if i < 0 || i >= len(c.entries) {
		return false, coercionErr(f.Pointer, schemaui.CodeRequired, "invalid entry selection")
	}
	v, _ := obj.Get("value")
	if document.Equal(c.entries[i], v) {
		return false, nil
	}
	c.entries[i] = v
	c.cur.pos = i
	return true, nil
}

// ---- composite list ----

type compositeListComponent struct {
	template *schema.CompositeField
	entries  []*compositeState
	cur      cursor
}

// EntryPointer is the synthetic pointer of entry i of a composite list.
func EntryPointer(list string, i int) string {
	return schemaui.JoinPointer(list, "/entry_"+strconv.Itoa(i))
}

func (c *compositeListComponent) display(*schema.FieldSchema) string {
	label := ""
	if i, ok := c.selected(); ok {
		label = c.label(i)
	}
	return collectionDisplay("List", len(c.entries), label)
}

func (c *compositeListComponent) label(i int) string {
	return fmt.Sprintf("#%d %s", i+1, c.entries[i].summary())
}

func (c *compositeListComponent) handleKey(*tcell.EventKey) bool { return false }

func (c *compositeListComponent) seed(v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	c.entries = lo.Map(items, func(it any, _ int) *compositeState {
		st := newCompositeState(c.template)
		st.seed(it)
		return st
	})
	c.cur.clamp(len(c.entries))
}

// value skips entries without an active variant.
func (c *compositeListComponent) value(f *schema.FieldSchema) (any, bool, error) {
	out := []any{}
	for i, e := range c.entries {
		v, ok, err := e.build(EntryPointer(f.Pointer, i), false)
		if err != nil {
			return nil, false, err
		}
		if ok {
			out = append(out, v)
		}
	}
	if len(out) == 0 && !f.Required {
		return nil, false, nil
	}
	return out, true, nil
}

func (c *compositeListComponent) clone() component {
	cp := *c
	cp.entries = lo.Map(c.entries, func(e *compositeState, _ int) *compositeState { return e.clone() })
	return &cp
}

func (c *compositeListComponent) add() bool {
	c.entries = append(c.entries, newCompositeState(c.template))
	c.cur.pos = len(c.entries) - 1
	return true
}

func (c *compositeListComponent) remove() bool {
	var ok bool
	c.entries, ok = removeAt(c.entries, &c.cur)
	return ok
}

func (c *compositeListComponent) move(delta int) bool        { return swap(c.entries, &c.cur, delta) }
func (c *compositeListComponent) selectEntry(delta int) bool { return c.cur.step(delta, len(c.entries)) }

func (c *compositeListComponent) selected() (int, bool) {
	if len(c.entries) == 0 {
		return 0, false
	}
	c.cur.clamp(len(c.entries))
	return c.cur.pos, true
}

func (c *compositeListComponent) summaries() []string { return lo.Times(len(c.entries), c.label) }

func (c *compositeListComponent) popup() (CompositePopup, bool) {
	i, ok := c.selected()
	if !ok {
		return CompositePopup{}, false
	}
	return c.entries[i].popup(), true
}

func (c *compositeListComponent) applySelection(sel int, flags []bool) bool {
	i, ok := c.selected()
	if !ok {
		return false
	}
	return c.entries[i].apply(sel, flags)
}

func (c *compositeListComponent) activeVariants() []int {
	i, ok := c.selected()
	if !ok {
		return nil
	}
	return c.entries[i].activeIndices()
}

// openEditor edits the first active variant of the selected entry, adding
// an entry when the list is empty.
func (c *compositeListComponent) openEditor(f *schema.FieldSchema) (*EditorSession, error) {
	if len(c.entries) == 0 {
		c.add()
	}
	i, _ := c.selected()
	entry := c.entries[i]
	base := EntryPointer(f.Pointer, i)
	active := entry.activeIndices()
	if len(active) == 0 {
		return nil, coercionErr(base, schemaui.CodeVariantInactive, i18n.T(i18n.MsgVariantInactive, nil))
	}
	s, err := entry.session(base, active[0])
	if err != nil {
		return nil, err
	}
	s.Target = Target{Kind: TargetListEntry, Index: i, Variant: active[0]}
	s.EntryLabel = c.label(i)
	return s, nil
}

func (c *compositeListComponent) commitEditor(f *schema.FieldSchema, s *EditorSession) (bool, error) {
	i := s.Target.Index
	if i < 0 || i >= len(c.entries) {
		return false, coercionErr(f.Pointer, schemaui.CodeRequired, "invalid entry selection")
	}
	return c.entries[i].restore(s), nil
}
