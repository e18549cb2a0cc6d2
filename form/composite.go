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

// CompositePopup is the data shown by the variant selector.
type CompositePopup struct {
	Options  []string
	Selected int
	Flags    []bool
	Multi    bool
}

// variantSlot holds one variant. The sub-form is compiled on first use;
// until then a seeded value waits in pending.
type variantSlot struct {
	variant    schema.CompositeVariant
	active     bool
	form       *FormState
	pending    any
	hasPending bool
}

func (s *variantSlot) ensureForm(base string) (*FormState, error) {
	if s.form != nil {
		return s.form, nil
	}
	fs, err := schema.CompileVariant(s.variant, schema.Options{})
	if err != nil {
		return nil, coercionErr(base, schemaui.CodeUnsupported,
			fmt.Sprintf("failed to parse composite variant '%s': %v", s.variant.Title, err))
	}
	s.form = FromSchema(fs)
	if s.hasPending {
		s.seedForm(s.pending)
		s.pending, s.hasPending = nil, false
	}
	return s.form, nil
}

func (s *variantSlot) seedForm(v any) {
	if s.variant.IsObject {
		if obj, ok := v.(*document.Object); ok {
			s.form.SeedFromValue(obj)
		}
		return
	}
	s.form.SeedFromValue(document.ObjectOf(schema.ValueWrapperField, v))
}

func (s *variantSlot) seed(v any) {
	if s.form != nil {
		s.seedForm(v)
		return
	}
	s.pending, s.hasPending = document.Clone(v), true
}

func (s *variantSlot) build(base string) (any, bool, error) {
	if s.form == nil && s.hasPending {
		return document.Clone(s.pending), true, nil
	}
	form, err := s.ensureForm(base)
	if err != nil {
		return nil, false, err
	}
	obj, err := form.TryBuildValue()
	if err != nil {
		return nil, false, rebase(err, base)
	}
	if s.variant.IsObject {
		return obj, true, nil
	}
	v, ok := obj.Get(schema.ValueWrapperField)
	return v, ok, nil
}

func (s *variantSlot) clone() *variantSlot {
	cp := *s
	if s.form != nil {
		cp.form = s.form.Clone()
	}
	cp.pending = document.Clone(s.pending)
	return &cp
}

// compositeState is the selection and per-variant state of a oneOf/anyOf
// value. It backs both composite fields and composite list entries.
type compositeState struct {
	mode  schema.CompositeMode
	slots []*variantSlot
}

func newCompositeState(c *schema.CompositeField) *compositeState {
	st := &compositeState{mode: c.Mode}
	for i, v := range c.Variants {
		st.slots = append(st.slots, &variantSlot{variant: v, active: c.Mode == schema.OneOf && i == 0})
	}
	return st
}

func (c *compositeState) multi() bool { return c.mode == schema.AnyOf }

func (c *compositeState) summary() string {
	titles := lo.FilterMap(c.slots, func(s *variantSlot, _ int) (string, bool) { return s.variant.Title, s.active })
	if !c.multi() {
		if len(titles) == 0 {
			return "Variant: <none>"
		}
		return "Variant: " + titles[0]
	}
	if len(titles) == 0 {
		return "Variants: []"
	}
	return "Variants: " + strings.Join(titles, ", ")
}

func (c *compositeState) popup() CompositePopup {
	p := CompositePopup{
		Options:  lo.Map(c.slots, func(s *variantSlot, _ int) string { return s.variant.Title }),
		Selected: max(0, c.selectedIndex()),
		Flags:    lo.Map(c.slots, func(s *variantSlot, _ int) bool { return s.active }),
		Multi:    c.multi(),
	}
	return p
}

func (c *compositeState) selectedIndex() int {
	_, i, _ := lo.FindIndexOf(c.slots, func(s *variantSlot) bool { return s.active })
	return i
}

func (c *compositeState) activeIndices() []int {
	return lo.FilterMap(c.slots, func(s *variantSlot, i int) (int, bool) { return i, s.active })
}

func (c *compositeState) applySingle(i int) bool {
	if c.multi() || len(c.slots) == 0 {
		return false
	}
	target := max(0, min(i, len(c.slots)-1))
	changed := false
	for idx, s := range c.slots {
		if s.active != (idx == target) {
			s.active = idx == target
			changed = true
		}
	}
	return changed
}

func (c *compositeState) applyMulti(flags []bool) bool {
	if !c.multi() || len(flags) != len(c.slots) {
		return false
	}
	changed := false
	for i, s := range c.slots {
		if s.active != flags[i] {
			s.active = flags[i]
			changed = true
		}
	}
	return changed
}

func (c *compositeState) apply(sel int, flags []bool) bool {
	if c.multi() {
		return c.applyMulti(flags)
	}
	return c.applySingle(sel)
}

func (c *compositeState) build(base string, required bool) (any, bool, error) {
	if !c.multi() {
		idx := c.selectedIndex()
		if idx < 0 {
			if required {
				return nil, false, coercionErr(base, schemaui.CodeVariantRequired, i18n.T(i18n.MsgOneOfRequired, nil))
			}
			return nil, false, nil
		}
		return c.slots[idx].build(base)
	}
	var values []any
	for _, s := range c.slots {
		if !s.active {
			continue
		}
		v, ok, err := s.build(base)
		if err != nil {
			return nil, false, err
		}
		if ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		if required {
			return nil, false, coercionErr(base, schemaui.CodeVariantRequired, i18n.T(i18n.MsgAnyOfRequired, nil))
		}
		return nil, false, nil
	}
	return values, true, nil
}

// seed activates the variant that best matches v and loads v into it.
func (c *compositeState) seed(v any) {
	if v == nil {
		return
	}
	if items, ok := v.([]any); ok && c.multi() {
		for _, it := range items {
			if i := c.match(it); i >= 0 {
				c.slots[i].active = true
				c.slots[i].seed(it)
			}
		}
		return
	}
	i := c.match(v)
	if i < 0 {
		i = c.selectedIndex()
	}
	if i < 0 {
		if c.multi() || len(c.slots) == 0 {
			return
		}
		i = 0
	}
	if c.multi() {
		c.slots[i].active = true
	} else {
		c.applySingle(i)
	}
	c.slots[i].seed(v)
}

// match picks the first variant whose const discriminators all equal the
// properties of v, then the first object variant declaring every key of v,
// then, for non-objects, the first variant whose type accepts v.
func (c *compositeState) match(v any) int {
	obj, isObj := v.(*document.Object)
	if !isObj {
		_, i, _ := lo.FindIndexOf(c.slots, func(s *variantSlot) bool { return !s.variant.IsObject && acceptsType(s.variant.Schema, v) })
		return i
	}
	for i, s := range c.slots {
		if !s.variant.IsObject {
			continue
		}
		consts := discriminators(s.variant.Schema)
		if len(consts) == 0 {
			continue
		}
		if lo.EveryBy(lo.Keys(consts), func(k string) bool {
			got, ok := obj.Get(k)
			return ok && document.Equal(got, consts[k])
		}) {
			return i
		}
	}
	for i, s := range c.slots {
		if !s.variant.IsObject {
			continue
		}
		props, _ := s.variant.Schema.Object("properties")
		consts := discriminators(s.variant.Schema)
		conflict := lo.SomeBy(lo.Keys(consts), func(k string) bool {
			got, ok := obj.Get(k)
			return ok && !document.Equal(got, consts[k])
		})
		if !conflict && lo.EveryBy(obj.Keys(), props.Has) {
			return i
		}
	}
	return -1
}

func discriminators(n *document.Object) map[string]any {
	out := map[string]any{}
	props, _ := n.Object("properties")
	props.Range(func(k string, raw any) bool {
		p, ok := raw.(*document.Object)
		if !ok {
			return true
		}
		if cv, ok := p.Get("const"); ok {
			out[k] = cv
		} else if enum, ok := p.Array("enum"); ok && len(enum) == 1 {
			out[k] = enum[0]
		}
		return true
	})
	return out
}

func acceptsType(n *document.Object, v any) bool {
	var types []string
	switch t, _ := n.Get("type"); tt := t.(type) {
	case string:
		types = []string{tt}
	case []any:
		types = lo.FilterMap(tt, func(e any, _ int) (string, bool) { s, ok := e.(string); return s, ok })
	default:
		return true
	}
	name := document.TypeName(v)
	return lo.SomeBy(types, func(t string) bool {
		return t == name || (t == "number" && name == "integer")
	})
}

func (c *compositeState) session(base string, idx int) (*EditorSession, error) {
	if idx < 0 || idx >= len(c.slots) {
		return nil, coercionErr(base, schemaui.CodeVariantRequired, i18n.T(i18n.MsgOneOfRequired, nil))
	}
	s := c.slots[idx]
	if !s.active {
		return nil, coercionErr(base, schemaui.CodeVariantInactive, i18n.T(i18n.MsgVariantInactive, nil))
	}
	form, err := s.ensureForm(base)
	if err != nil {
		return nil, err
	}
	return &EditorSession{
		Title:       s.variant.Title,
		Description: s.variant.Description,
		Form:        form.Clone(),
		Schema:      s.variant.FormDocument(),
		Target:      Target{Kind: TargetField, Variant: idx},
	}, nil
}

// restore stores the session form back into its variant slot.
func (c *compositeState) restore(sess *EditorSession) bool {
	idx := sess.Target.Variant
	if idx < 0 || idx >= len(c.slots) {
		return false
	}
	changed := sess.Form.IsDirty()
	sess.Form.MarkClean()
	c.slots[idx].form = sess.Form
	c.slots[idx].pending, c.slots[idx].hasPending = nil, false
	return changed
}

func (c *compositeState) clone() *compositeState {
	return &compositeState{mode: c.mode, slots: lo.Map(c.slots, func(s *variantSlot, _ int) *variantSlot { return s.clone() })}
}

// ---- composite field ----

type compositeComponent struct{ state *compositeState }

func (c *compositeComponent) display(*schema.FieldSchema) string {
	p := CurrentPalette()
	if c.state.multi() {
		return c.state.summary() + p.CompositeMultiHint
	}
	return c.state.summary() + p.CompositeSingleHint
}

func (c *compositeComponent) handleKey(*tcell.EventKey) bool { return false }
func (c *compositeComponent) seed(v any)                     { c.state.seed(v) }

func (c *compositeComponent) value(f *schema.FieldSchema) (any, bool, error) {
	return c.state.build(f.Pointer, f.Required)
}

func (c *compositeComponent) clone() component { return &compositeComponent{state: c.state.clone()} }

func (c *compositeComponent) popup() (CompositePopup, bool) { return c.state.popup(), true }
func (c *compositeComponent) applySelection(sel int, flags []bool) bool {
	return c.state.apply(sel, flags)
}
func (c *compositeComponent) activeVariants() []int { return c.state.activeIndices() }

// openEditor edits the first active variant.
func (c *compositeComponent) openEditor(f *schema.FieldSchema) (*EditorSession, error) {
	active := c.state.activeIndices()
	if len(active) == 0 {
		return nil, coercionErr(f.Pointer, schemaui.CodeVariantInactive, i18n.T(i18n.MsgVariantInactive, nil))
	}
	return c.state.session(f.Pointer, active[0])
}

func (c *compositeComponent) commitEditor(_ *schema.FieldSchema, s *EditorSession) (bool, error) {
	return c.state.restore(s), nil
}
