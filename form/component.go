package form

import (
	"math"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
	"github.com/reoring/schemaui/schema"
)

// component is the kind-specific value holder of a field. The set of
// implementations is closed; see newComponent.
type component interface {
	display(f *schema.FieldSchema) string
	handleKey(ev *tcell.EventKey) bool
	// seed loads v when its type fits and ignores it otherwise.
	seed(v any)
	// value builds the field contribution; ok=false omits the field.
	value(f *schema.FieldSchema) (v any, ok bool, err error)
	clone() component
}

// collection is implemented by the entry-based components.
type collection interface {
	component
	add() bool
	remove() bool
	move(delta int) bool
	selectEntry(delta int) bool
	selected() (int, bool)
	summaries() []string
}

// editable is implemented by components that open an editor session.
type editable interface {
	openEditor(f *schema.FieldSchema) (*EditorSession, error)
	commitEditor(f *schema.FieldSchema, s *EditorSession) (bool, error)
}

// selector is implemented by components driven by the composite popup.
type selector interface {
	popup() (CompositePopup, bool)
	applySelection(sel int, flags []bool) bool
	activeVariants() []int
}

func newComponent(f *schema.FieldSchema) component {
	k := f.Kind
	switch k.Tag {
	case schema.KindBoolean:
		return &boolComponent{}
	case schema.KindEnum:
		return &enumComponent{options: k.Options}
	case schema.KindComposite:
		return &compositeComponent{state: newCompositeState(k.Composite)}
	case schema.KindKeyValue:
		return &keyValueComponent{template: k.KeyValue}
	case schema.KindArray:
		switch {
		case k.Item == nil:
		case k.Item.Tag == schema.KindEnum:
			return &multiSelectComponent{options: k.Item.Options, flags: make([]bool, len(k.Item.Options))}
		case k.Item.Tag == schema.KindComposite:
			return &compositeListComponent{template: k.Item.Composite}
		case k.Item.Scalar():
			return &scalarArrayComponent{item: *k.Item}
		}
		return &textComponent{tag: schema.KindJSON}
	}
	return &textComponent{tag: k.Tag}
}

// ---- text ----

type textComponent struct {
	tag    schema.KindTag
	buffer string
}

func (c *textComponent) display(*schema.FieldSchema) string { return c.buffer }

func (c *textComponent) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return false
		}
		c.buffer += string(ev.Rune())
		return true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if c.buffer == "" {
			return false
		}
		r := []rune(c.buffer)
		c.buffer = string(r[:len(r)-1])
		return true
	case tcell.KeyDelete:
		if c.buffer == "" {
			return false
		}
		c.buffer = ""
		return true
	case tcell.KeyLeft, tcell.KeyRight:
		sign := 1
		if ev.Key() == tcell.KeyLeft {
			sign = -1
		}
		return c.step(sign, ev.Modifiers()&tcell.ModShift != 0)
	}
	return false
}

func (c *textComponent) step(sign int, fast bool) bool {
	p := CurrentPalette()
	switch c.tag {
	case schema.KindInteger:
		cur := int64(0)
		if s := strings.TrimSpace(c.buffer); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return false
			}
			cur = v
		}
		delta := p.IntegerStep
		if fast {
			delta = p.IntegerFastStep
		}
		if sign < 0 {
			delta = -delta
		}
		c.buffer = strconv.FormatInt(saturatingAdd(cur, delta), 10)
		return true
	case schema.KindNumber:
		cur := 0.0
		if s := strings.TrimSpace(c.buffer); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return false
			}
			cur = v
		}
		delta := p.NumberStep
		if fast {
			delta = p.NumberFastStep
		}
		c.buffer = formatFloat(cur + float64(sign)*delta)
		return true
	}
	return false
}

func saturatingAdd(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (c *textComponent) seed(v any) {
	switch t := v.(type) {
	case string:
		c.buffer = t
	case int64:
		c.buffer = strconv.FormatInt(t, 10)
	case float64:
		c.buffer = formatFloat(t)
	default:
		if c.tag == schema.KindJSON && v != nil {
			c.buffer = document.Stringify(v)
		}
	}
}

func (c *textComponent) value(f *schema.FieldSchema) (any, bool, error) {
	switch c.tag {
	case schema.KindInteger:
		s := strings.TrimSpace(c.buffer)
		if s == "" {
			return nil, false, nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, false, coercionErr(f.Pointer, schemaui.CodeInvalidType, i18n.T(i18n.MsgExpectedInteger, nil))
		}
		return v, true, nil
	case schema.KindNumber:
		s := strings.TrimSpace(c.buffer)
		if s == "" {
			return nil, false, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false, coercionErr(f.Pointer, schemaui.CodeInvalidType, i18n.T(i18n.MsgExpectedNumber, nil))
		}
		return v, true, nil
	}
	if c.buffer == "" && !f.Required {
		return nil, false, nil
	}
	return c.buffer, true, nil
}

func (c *textComponent) clone() component { cp := *c; return &cp }

// ---- boolean ----

type boolComponent struct{ on bool }

func (c *boolComponent) display(*schema.FieldSchema) string {
	p := CurrentPalette()
	if c.on {
		return p.BoolTrueLabel
	}
	return p.BoolFalseLabel
}

func (c *boolComponent) handleKey(ev *tcell.EventKey) bool {
	p := CurrentPalette()
	switch {
	case ev.Key() == tcell.KeyRune && ev.Rune() == ' ' && p.BoolSpaceToggle:
	case (ev.Key() == tcell.KeyLeft || ev.Key() == tcell.KeyRight) && p.BoolArrowToggle:
	default:
		return false
	}
	c.on = !c.on
	return true
}

func (c *boolComponent) seed(v any) {
	if b, ok := v.(bool); ok {
		c.on = b
	}
}

func (c *boolComponent) value(*schema.FieldSchema) (any, bool, error) { return c.on, true, nil }
func (c *boolComponent) clone() component                             { cp := *c; return &cp }

// ---- enum ----

type enumComponent struct {
	options  []string
	selected int
}

func (c *enumComponent) display(*schema.FieldSchema) string {
	if len(c.options) == 0 {
		return "<none>"
	}
	return c.options[c.selected]
}

func (c *enumComponent) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp, tcell.KeyLeft:
		return c.step(-1)
	case tcell.KeyDown, tcell.KeyRight:
		return c.step(1)
	}
	return false
}

func (c *enumComponent) step(delta int) bool {
	n := len(c.options)
	if n == 0 {
		return false
	}
	next := c.selected + delta
	if CurrentPalette().EnumWrapAround {
		next = (next%n + n) % n
	} else {
		next = max(0, min(n-1, next))
	}
	if next == c.selected {
		return false
	}
	c.selected = next
	return true
}

func (c *enumComponent) setSelected(i int) bool {
	if i < 0 || i >= len(c.options) || i == c.selected {
		return false
	}
	c.selected = i
	return true
}

func (c *enumComponent) seed(v any) {
	if i := lo.IndexOf(c.options, enumText(v)); i >= 0 {
		c.selected = i
	}
}

func enumText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return document.Stringify(v)
}

func (c *enumComponent) value(*schema.FieldSchema) (any, bool, error) {
	if len(c.options) == 0 {
		return nil, false, nil
	}
	return c.options[c.selected], true, nil
}

func (c *enumComponent) clone() component { cp := *c; return &cp }

// ---- multi select ----

// multiSelectComponent edits arrays of enums. Flags change through the popup
// only.
type multiSelectComponent struct {
	options []string
	flags   []bool
}

func (c *multiSelectComponent) display(*schema.FieldSchema) string {
	picked := c.picked()
	if len(picked) == 0 {
		return "[]" + CurrentPalette().CompositeMultiHint
	}
	return "[" + strings.Join(picked, ", ") + "]"
}

func (c *multiSelectComponent) picked() []string {
	return lo.Filter(c.options, func(_ string, i int) bool { return c.flags[i] })
}

func (c *multiSelectComponent) handleKey(*tcell.EventKey) bool { return false }

func (c *multiSelectComponent) setFlags(flags []bool) bool {
	if len(flags) != len(c.flags) {
		return false
	}
	changed := false
	for i, f := range flags {
		if c.flags[i] != f {
			c.flags[i] = f
			changed = true
		}
	}
	return changed
}

func (c *multiSelectComponent) seed(v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}
	flags := make([]bool, len(c.options))
	for _, it := range items {
		if i := lo.IndexOf(c.options, enumText(it)); i >= 0 {
			flags[i] = true
		}
	}
	c.flags = flags
}

func (c *multiSelectComponent) value(f *schema.FieldSchema) (any, bool, error) {
	picked := c.picked()
	if len(picked) == 0 && !f.Required {
		return nil, false, nil
	}
	return lo.Map(picked, func(s string, _ int) any { return s }), true, nil
}

func (c *multiSelectComponent) clone() component {
	return &multiSelectComponent{options: c.options, flags: append([]bool(nil), c.flags...)}
}
