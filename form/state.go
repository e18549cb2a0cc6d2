package form

import (
	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/schema"
)

// RootState mirrors a schema root. Sections are flattened depth first.
type RootState struct {
	ID          string
	Title       string
	Description string
	Sections    []*SectionState
}

// SectionState holds the fields of one section. Depth is the nesting level
// in the original section tree.
type SectionState struct {
	ID          string
	Title       string
	Description string
	Path        []string
	Depth       int
	Fields      []*FieldState
}

// uiStore is the focus triple. It always addresses a non-empty section when
// one exists.
type uiStore struct {
	root, section, field int
}

// FormState is the mutable companion of a FormSchema.
type FormState struct {
	Title       string
	Description string

	roots []*RootState
	ui    uiStore
}

// FromSchema builds the state of fs with defaults seeded.
func FromSchema(fs *schema.FormSchema) *FormState {
	st := &FormState{Title: fs.Title, Description: fs.Description}
	for _, r := range fs.Roots {
		rs := &RootState{ID: r.ID, Title: r.Title, Description: r.Description}
		var flatten func(secs []schema.FormSection, depth int)
		flatten = func(secs []schema.FormSection, depth int) {
			for _, s := range secs {
				ss := &SectionState{
					ID:          s.ID,
					Title:       s.Title,
					Description: s.Description,
					Path:        s.Path,
					Depth:       depth,
					Fields:      lo.Map(s.Fields, func(f *schema.FieldSchema, _ int) *FieldState { return newFieldState(f) }),
				}
				rs.Sections = append(rs.Sections, ss)
				flatten(s.Children, depth+1)
			}
		}
		flatten(r.Sections, 0)
		st.roots = append(st.roots, rs)
	}
	st.normalize()
	return st
}

// Roots exposes the root states for rendering.
func (s *FormState) Roots() []*RootState { return s.roots }

// Focus returns the focus triple.
func (s *FormState) Focus() (root, section, field int) {
	return s.ui.root, s.ui.section, s.ui.field
}

// Clone deep-copies the state, including cached variant forms.
func (s *FormState) Clone() *FormState {
	cp := &FormState{Title: s.Title, Description: s.Description, ui: s.ui}
	cp.roots = lo.Map(s.roots, func(r *RootState, _ int) *RootState {
		rc := *r
		rc.Sections = lo.Map(r.Sections, func(sec *SectionState, _ int) *SectionState {
			sc := *sec
			sc.Fields = lo.Map(sec.Fields, func(f *FieldState, _ int) *FieldState { return f.clone() })
			return &sc
		})
		return &rc
	})
	return cp
}

// Fields lists every field in focus order.
func (s *FormState) Fields() []*FieldState {
	var out []*FieldState
	for _, r := range s.roots {
		for _, sec := range r.Sections {
			out = append(out, sec.Fields...)
		}
	}
	return out
}

// ---- focus ----

type slot struct{ root, section, field int }

func (s *FormState) fieldSlots() []slot {
	var out []slot
	for ri, r := range s.roots {
		for si, sec := range r.Sections {
			for fi := range sec.Fields {
				out = append(out, slot{ri, si, fi})
			}
		}
	}
	return out
}

func (s *FormState) sectionSlots() []slot {
	var out []slot
	for ri, r := range s.roots {
		for si, sec := range r.Sections {
			if len(sec.Fields) > 0 {
				out = append(out, slot{ri, si, 0})
			}
		}
	}
	return out
}

func (s *FormState) set(sl slot) { s.ui = uiStore{sl.root, sl.section, sl.field} }

func wrap(i, n int) int { return ((i % n) + n) % n }

// HasFocusableFields reports whether any section has a field.
func (s *FormState) HasFocusableFields() bool { return len(s.fieldSlots()) > 0 }

func (s *FormState) focusIndex(slots []slot, match func(slot) bool) int {
	_, i, _ := lo.FindIndexOf(slots, match)
	return i
}

func (s *FormState) stepField(delta int) {
	slots := s.fieldSlots()
	if len(slots) == 0 {
		return
	}
	i := s.focusIndex(slots, func(sl slot) bool {
		return sl.root == s.ui.root && sl.section == s.ui.section && sl.field == s.ui.field
	})
	if i < 0 {
		i = 0
		delta = 0
	}
	s.set(slots[wrap(i+delta, len(slots))])
}

func (s *FormState) FocusNextField() { s.stepField(1) }
func (s *FormState) FocusPrevField() { s.stepField(-1) }

// FocusNextSection moves between non-empty sections, wrapping across roots.
func (s *FormState) FocusNextSection(delta int) {
	slots := s.sectionSlots()
	if len(slots) == 0 {
		return
	}
	i := s.focusIndex(slots, func(sl slot) bool { return sl.root == s.ui.root && sl.section == s.ui.section })
	if i < 0 {
		i, delta = 0, 0
	}
	s.set(slots[wrap(i+delta, len(slots))])
}

// FocusNextRoot moves between roots that have a focusable field and resets
// the section and field cursors.
func (s *FormState) FocusNextRoot(delta int) {
	slots := lo.UniqBy(s.sectionSlots(), func(sl slot) int { return sl.root })
	if len(slots) == 0 {
		return
	}
	i := s.focusIndex(slots, func(sl slot) bool { return sl.root == s.ui.root })
	if i < 0 {
		i, delta = 0, 0
	}
	s.set(slots[wrap(i+delta, len(slots))])
}

func (s *FormState) FocusFirstField() {
	if slots := s.fieldSlots(); len(slots) > 0 {
		s.set(slots[0])
	}
}

func (s *FormState) FocusLastField() {
	if slots := s.fieldSlots(); len(slots) > 0 {
		s.set(slots[len(slots)-1])
	}
}

// FocusPointer focuses the field with the given pointer.
func (s *FormState) FocusPointer(ptr string) bool {
	for _, sl := range s.fieldSlots() {
		if s.roots[sl.root].Sections[sl.section].Fields[sl.field].Pointer() == ptr {
			s.set(sl)
			return true
		}
	}
	return false
}

func (s *FormState) FocusIsFirst() bool {
	slots := s.fieldSlots()
	return len(slots) > 0 && slots[0] == slot{s.ui.root, s.ui.section, s.ui.field}
}

func (s *FormState) FocusIsLast() bool {
	slots := s.fieldSlots()
	return len(slots) > 0 && slots[len(slots)-1] == slot{s.ui.root, s.ui.section, s.ui.field}
}

// FocusedField returns the field under focus, nil when nothing is
// focusable.
func (s *FormState) FocusedField() *FieldState {
	sec := s.FocusedSection()
	if sec == nil || s.ui.field >= len(sec.Fields) {
		return nil
	}
	return sec.Fields[s.ui.field]
}

func (s *FormState) FocusedSection() *SectionState {
	if s.ui.root >= len(s.roots) {
		return nil
	}
	r := s.roots[s.ui.root]
	if s.ui.section >= len(r.Sections) {
		return nil
	}
	return r.Sections[s.ui.section]
}

func (s *FormState) FocusedRoot() *RootState {
	if s.ui.root >= len(s.roots) {
		return nil
	}
	return s.roots[s.ui.root]
}

// normalize clamps the cursors and moves off empty sections: forward within
// the root first, then across roots.
func (s *FormState) normalize() {
	if len(s.roots) == 0 {
		s.ui = uiStore{}
		return
	}
	s.ui.root = max(0, min(s.ui.root, len(s.roots)-1))
	r := s.roots[s.ui.root]
	if len(r.Sections) == 0 {
		s.ui.section, s.ui.field = 0, 0
	} else {
		s.ui.section = max(0, min(s.ui.section, len(r.Sections)-1))
	}
	if sec := s.FocusedSection(); sec != nil && len(sec.Fields) > 0 {
		s.ui.field = max(0, min(s.ui.field, len(sec.Fields)-1))
		return
	}
	for si := s.ui.section; si < len(r.Sections); si++ {
		if len(r.Sections[si].Fields) > 0 {
			s.ui.section, s.ui.field = si, 0
			return
		}
	}
	for off := 1; off < len(s.roots); off++ {
		ri := (s.ui.root + off) % len(s.roots)
		for si, sec := range s.roots[ri].Sections {
			if len(sec.Fields) > 0 {
				s.ui = uiStore{ri, si, 0}
				return
			}
		}
	}
	s.ui.field = 0
}

// ---- lookup ----

// FieldByPointer finds a field by exact pointer.
func (s *FormState) FieldByPointer(ptr string) *FieldState {
	f, _ := lo.Find(s.Fields(), func(f *FieldState) bool { return f.Pointer() == ptr })
	return f
}

// ---- build ----

// TryBuildValue assembles the document from every field. Omitted fields are
// skipped; the first coercion failure aborts the build.
func (s *FormState) TryBuildValue() (*document.Object, error) {
	out := document.NewObject()
	for _, f := range s.Fields() {
		v, ok, err := f.CurrentValue()
		if err != nil {
			return nil, err
		}
		if ok {
			insertPath(out, f.Schema.Path, v)
		}
	}
	return out, nil
}

func insertPath(root *document.Object, path []string, v any) {
	if len(path) == 0 {
		return
	}
	cur := root
	for _, seg := range path[:len(path)-1] {
		next, ok := cur.Object(seg)
		if !ok {
			next = document.NewObject()
			cur.Set(seg, next)
		}
		cur = next
	}
	cur.Set(path[len(path)-1], v)
}

// SeedFromValue seeds each field with the value found at its path. Fields
// without a value keep their state.
func (s *FormState) SeedFromValue(v *document.Object) {
	for _, f := range s.Fields() {
		if val, ok := document.Lookup(v, f.Pointer()); ok {
			f.SeedValue(val)
		}
	}
}

// ---- errors and dirty ----

// SetError routes msg to the field with pointer ptr. It reports false when
// no field matched; callers keep such errors as global.
func (s *FormState) SetError(ptr, msg string) bool {
	if f := s.FieldByPointer(ptr); f != nil {
		f.SetError(msg)
		return true
	}
	return false
}

func (s *FormState) ClearErrors() {
	for _, f := range s.Fields() {
		f.ClearError()
	}
}

func (s *FormState) MarkClean() {
	for _, f := range s.Fields() {
		f.MarkClean()
	}
}

func (s *FormState) IsDirty() bool { return lo.SomeBy(s.Fields(), (*FieldState).Dirty) }

func (s *FormState) ErrorCount() int {
	return lo.CountBy(s.Fields(), func(f *FieldState) bool { return f.Error() != "" })
}

// ApplyIssues routes issues onto fields and returns the labels of those no
// field claimed.
func (s *FormState) ApplyIssues(iss schemaui.Issues) []string {
	var global []string
	for _, it := range iss {
		if !s.SetError(it.Path, it.Message) {
			global = append(global, it.Label())
		}
	}
	return global
}
