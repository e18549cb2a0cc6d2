package form

import (
	"github.com/gdamore/tcell/v2"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/schema"
)

// FieldState is the live state of one field.
type FieldState struct {
	Schema *schema.FieldSchema

	comp  component
	dirty bool
	err   string
}

func newFieldState(f *schema.FieldSchema) *FieldState {
	fs := &FieldState{Schema: f, comp: newComponent(f)}
	if f.HasDefault {
		fs.comp.seed(f.Default)
	}
	return fs
}

func (f *FieldState) Pointer() string        { return f.Schema.Pointer }
func (f *FieldState) Label() string          { return f.Schema.DisplayLabel() }
func (f *FieldState) Kind() schema.FieldKind { return f.Schema.Kind }
func (f *FieldState) Dirty() bool            { return f.dirty }
func (f *FieldState) Error() string          { return f.err }
func (f *FieldState) SetError(msg string)    { f.err = msg }
func (f *FieldState) ClearError()            { f.err = "" }
func (f *FieldState) MarkClean()             { f.dirty = false }
func (f *FieldState) DisplayValue() string   { return f.comp.display(f.Schema) }
func (f *FieldState) clone() *FieldState     { cp := *f; cp.comp = f.comp.clone(); return &cp }
func (f *FieldState) afterEdit()             { f.dirty, f.err = true, "" }
func (f *FieldState) touched(changed bool) bool {
	if changed {
		f.afterEdit()
	}
	return changed
}

// HandleKey applies one key. An effective edit marks the field dirty and
// clears its error.
func (f *FieldState) HandleKey(ev *tcell.EventKey) bool {
	return f.touched(f.comp.handleKey(ev))
}

// SeedValue loads v, ignoring values of the wrong type, and resets the
// dirty and error flags.
func (f *FieldState) SeedValue(v any) {
	f.comp.seed(v)
	f.dirty, f.err = false, ""
}

// CurrentValue builds the field contribution. ok=false means the field is
// omitted.
func (f *FieldState) CurrentValue() (any, bool, error) {
	return f.comp.value(f.Schema)
}

// BoolValue reports the flag of a boolean field.
func (f *FieldState) BoolValue() (bool, bool) {
	if b, ok := f.comp.(*boolComponent); ok {
		return b.on, true
	}
	return false, false
}

// SetBool sets a boolean field.
func (f *FieldState) SetBool(on bool) bool {
	b, ok := f.comp.(*boolComponent)
	if !ok || b.on == on {
		return false
	}
	b.on = on
	return f.touched(true)
}

// EnumState is the option list of a single enum field.
type EnumState struct {
	Options  []string
	Selected int
}

func (f *FieldState) EnumState() (EnumState, bool) {
	if e, ok := f.comp.(*enumComponent); ok {
		return EnumState{Options: e.options, Selected: e.selected}, true
	}
	return EnumState{}, false
}

// SetEnumSelected selects option i of an enum field.
func (f *FieldState) SetEnumSelected(i int) bool {
	if e, ok := f.comp.(*enumComponent); ok {
		return f.touched(e.setSelected(i))
	}
	return false
}

// MultiState is the flag set of an array-of-enum field.
type MultiState struct {
	Options []string
	Flags   []bool
}

func (f *FieldState) MultiState() (MultiState, bool) {
	if m, ok := f.comp.(*multiSelectComponent); ok {
		return MultiState{Options: m.options, Flags: append([]bool(nil), m.flags...)}, true
	}
	return MultiState{}, false
}

func (f *FieldState) SetMultiFlags(flags []bool) bool {
	if m, ok := f.comp.(*multiSelectComponent); ok {
		return f.touched(m.setFlags(flags))
	}
	return false
}

// CompositePopup returns the variant selector data of a composite field or
// of the selected composite list entry.
func (f *FieldState) CompositePopup() (CompositePopup, bool) {
	if s, ok := f.comp.(selector); ok {
		return s.popup()
	}
	return CompositePopup{}, false
}

// ApplyCompositeSelection activates variant sel (oneOf) or the flag set
// (anyOf).
func (f *FieldState) ApplyCompositeSelection(sel int, flags []bool) bool {
	if s, ok := f.comp.(selector); ok {
		return f.touched(s.applySelection(sel, flags))
	}
	return false
}

func (f *FieldState) ActiveCompositeVariants() []int {
	if s, ok := f.comp.(selector); ok {
		return s.activeVariants()
	}
	return nil
}

// IsCollection reports list, map and scalar array fields.
func (f *FieldState) IsCollection() bool {
	_, ok := f.comp.(collection)
	return ok
}

// IsCompositeList reports arrays of composites.
func (f *FieldState) IsCompositeList() bool {
	_, ok := f.comp.(*compositeListComponent)
	return ok
}

// CollectionPanel is the entry strip of a collection field.
type CollectionPanel struct {
	Entries  []string
	Selected int
}

func (f *FieldState) CollectionPanel() (CollectionPanel, bool) {
	c, ok := f.comp.(collection)
	if !ok {
		return CollectionPanel{}, false
	}
	i, ok := c.selected()
	if !ok {
		return CollectionPanel{}, false
	}
	return CollectionPanel{Entries: c.summaries(), Selected: i}, true
}

func (f *FieldState) CollectionSelectedIndex() (int, bool) {
	if c, ok := f.comp.(collection); ok {
		return c.selected()
	}
	return 0, false
}

func (f *FieldState) CollectionSelectedLabel() string {
	p, ok := f.CollectionPanel()
	if !ok {
		return ""
	}
	return p.Entries[p.Selected]
}

func (f *FieldState) ListAdd() bool {
	if c, ok := f.comp.(collection); ok {
		return f.touched(c.add())
	}
	return false
}

func (f *FieldState) ListRemove() bool {
	if c, ok := f.comp.(collection); ok {
		return f.touched(c.remove())
	}
	return false
}

func (f *FieldState) ListMove(delta int) bool {
	if c, ok := f.comp.(collection); ok {
		return f.touched(c.move(delta))
	}
	return false
}

// ListSelect moves the entry cursor. Selection is not an edit.
func (f *FieldState) ListSelect(delta int) bool {
	if c, ok := f.comp.(collection); ok {
		return c.selectEntry(delta)
	}
	return false
}

// EnsurePopupEntry adds an entry to an empty composite list so that the
// variant popup has a target.
func (f *FieldState) EnsurePopupEntry() bool {
	l, ok := f.comp.(*compositeListComponent)
	if !ok || len(l.entries) > 0 {
		return false
	}
	return f.touched(l.add())
}

// CanEdit reports fields that open an editor session.
func (f *FieldState) CanEdit() bool {
	_, ok := f.comp.(editable)
	return ok
}

// OpenEditor starts an editor session on the field: the first active
// variant of a composite, or the selected entry of a collection.
func (f *FieldState) OpenEditor() (*EditorSession, error) {
	e, ok := f.comp.(editable)
	if !ok {
		return nil, coercionErr(f.Pointer(), schemaui.CodeUnsupported, "field has no nested editor")
	}
	list, isList := f.comp.(*compositeListComponent)
	wasEmpty := isList && len(list.entries) == 0
	s, err := e.openEditor(f.Schema)
	if wasEmpty && len(list.entries) > 0 {
		f.afterEdit()
	}
	return s, err
}

// CommitEditor writes the session back. A change marks the field dirty.
func (f *FieldState) CommitEditor(s *EditorSession) (bool, error) {
	e, ok := f.comp.(editable)
	if !ok {
		return false, coercionErr(f.Pointer(), schemaui.CodeUnsupported, "field has no nested editor")
	}
	changed, err := e.commitEditor(f.Schema, s)
	if err != nil {
		return false, err
	}
	return f.touched(changed), nil
}
