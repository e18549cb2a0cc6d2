package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/reoring/schemaui/form"
)

type popupOwner int

const (
	ownerRoot popupOwner = iota
	ownerOverlay
)

// popup is the modal option list. It is the only place where a composite
// selection is committed.
type popup struct {
	owner    popupOwner
	pointer  string
	title    string
	options  []string
	selected int
	multi    bool
	toggles  []bool
}

// PopupView is a snapshot of the open popup.
type PopupView struct {
	Title    string
	Options  []string
	Selected int
	Multi    bool
	Toggles  []bool
}

func (p *popup) view() PopupView {
	return PopupView{
		Title:    p.title,
		Options:  append([]string(nil), p.options...),
		Selected: p.selected,
		Multi:    p.multi,
		Toggles:  append([]bool(nil), p.toggles...),
	}
}

// popupFor builds the popup of f: multi-selects, booleans, enums and
// composites (including the selected entry of a composite list).
func popupFor(f *form.FieldState, owner popupOwner) (*popup, bool) {
	p := &popup{owner: owner, pointer: f.Pointer(), title: f.Label()}
	if ms, ok := f.MultiState(); ok {
		p.options, p.toggles, p.multi = ms.Options, ms.Flags, true
		return p, len(p.options) > 0
	}
	if on, ok := f.BoolValue(); ok {
		p.options = []string{"true", "false"}
		if !on {
			p.selected = 1
		}
		return p, true
	}
	if es, ok := f.EnumState(); ok {
		p.options, p.selected = es.Options, es.Selected
		return p, len(p.options) > 0
	}
	if f.IsCompositeList() {
		f.EnsurePopupEntry()
	}
	if cp, ok := f.CompositePopup(); ok {
		p.options, p.selected, p.multi = cp.Options, cp.Selected, cp.Multi
		if cp.Multi {
			p.toggles = append([]bool(nil), cp.Flags...)
		}
		return p, len(p.options) > 0
	}
	return nil, false
}

func (p *popup) hint() string {
	if p.multi {
		return "Use ↑/↓ to move, Space to toggle, Enter to apply"
	}
	return "Use ↑/↓ and Enter to choose"
}

func (p *popup) step(delta int) {
	n := len(p.options)
	if n == 0 {
		return
	}
	p.selected = ((p.selected+delta)%n + n) % n
}

// apply writes the selection into f.
func (p *popup) apply(f *form.FieldState) bool {
	_, composite := f.CompositePopup()
	if p.multi {
		if composite {
			return f.ApplyCompositeSelection(p.selected, p.toggles)
		}
		return f.SetMultiFlags(p.toggles)
	}
	if composite {
		return f.ApplyCompositeSelection(p.selected, nil)
	}
	if _, ok := f.BoolValue(); ok {
		return f.SetBool(p.selected == 0)
	}
	return f.SetEnumSelected(p.selected)
}

// tryOpenPopup opens the popup of the focused field. It reports false when
// the field has none.
func (a *App) tryOpenPopup() bool {
	owner, st := ownerRoot, a.form
	if o := a.top(); o != nil {
		owner, st = ownerOverlay, o.session.Form
	}
	f := st.FocusedField()
	if f == nil {
		return false
	}
	p, ok := popupFor(f, owner)
	if !ok {
		return false
	}
	a.popup = p
	a.status.set(p.hint())
	return true
}

func (a *App) popupField() *form.FieldState {
	if a.popup.owner == ownerOverlay {
		if o := a.top(); o != nil {
			return o.session.Form.FieldByPointer(a.popup.pointer)
		}
		return nil
	}
	return a.form.FieldByPointer(a.popup.pointer)
}

// handlePopupKey consumes every key while the popup is open.
func (a *App) handlePopupKey(ev *tcell.EventKey) {
	p := a.popup
	switch ev.Key() {
	case tcell.KeyEscape:
		a.popup = nil
		a.status.ready()
	case tcell.KeyUp:
		p.step(-1)
	case tcell.KeyDown:
		p.step(1)
	case tcell.KeyEnter:
		f := a.popupField()
		a.popup = nil
		if f == nil {
			a.status.ready()
			return
		}
		p.apply(f)
		a.exitArmed = false
		a.fieldEdited(p.owner, f.Pointer())
		a.status.valueUpdated()
	case tcell.KeyRune:
		if ev.Rune() == ' ' && p.multi && p.selected < len(p.toggles) {
			p.toggles[p.selected] = !p.toggles[p.selected]
		}
	}
}
