package app

import (
	"github.com/reoring/schemaui/form"
	"github.com/reoring/schemaui/keymap"
)

// listTarget finds the collection a list command applies to: the host field
// of an entry overlay, else the focused collection of the active form.
// reopen is set when the overlay has to be committed and reopened around
// the operation.
func (a *App) listTarget() (f *form.FieldState, reopen bool) {
	if o := a.top(); o != nil && o.targetsEntry() {
		return a.hostField(o), true
	}
	if f := a.activeForm().FocusedField(); f != nil && f.IsCollection() {
		return f, false
	}
	return nil, false
}

var listMissing = map[keymap.ActionKind]string{
	keymap.ActionListAddEntry:    "Focus a repeatable field before Ctrl+N add",
	keymap.ActionListRemoveEntry: "Focus a repeatable field before Ctrl+D remove",
	keymap.ActionListMove:        "Focus a repeatable field before Ctrl+↑/↓ move",
	keymap.ActionListSelect:      "Focus a repeatable field before Ctrl+←/→ select",
}

// listOp runs one list command. Entry overlays are committed first so the
// list stays consistent, and reopened on the new selection afterwards.
func (a *App) listOp(act keymap.Action) bool {
	f, reopen := a.listTarget()
	if f == nil {
		a.status.set(listMissing[act.Kind])
		return false
	}
	if reopen {
		if err := a.closeOverlay(true); err != nil {
			return false
		}
	}

	changed := a.applyListOp(f, act)
	if changed && act.Kind != keymap.ActionListSelect {
		a.exitArmed = false
		if a.opts.AutoValidate {
			a.runValidation(false)
		}
	}
	if parent := a.top(); parent != nil {
		a.refreshPanel(parent)
		a.validateOverlay(parent)
	}
	if reopen {
		if _, ok := f.CollectionSelectedIndex(); ok {
			msg := a.status.String()
			a.openEditorOn(f)
			a.status.set(msg)
		}
	}
	return changed
}

func (a *App) applyListOp(f *form.FieldState, act keymap.Action) bool {
	switch act.Kind {
	case keymap.ActionListAddEntry:
		if !f.ListAdd() {
			return false
		}
		a.status.set("Added entry " + f.CollectionSelectedLabel())
		return true
	case keymap.ActionListRemoveEntry:
		if !f.ListRemove() {
			a.status.set("No entry to remove")
			return false
		}
		if label := f.CollectionSelectedLabel(); label != "" {
			a.status.set("Removed entry • now at " + label)
		} else {
			a.status.set("List is now empty")
		}
		return true
	case keymap.ActionListMove:
		if !f.ListMove(act.Delta) {
			a.status.set("Cannot move entry further")
			return false
		}
		a.status.set("Moved entry to " + f.CollectionSelectedLabel())
		return true
	case keymap.ActionListSelect:
		if !f.ListSelect(act.Delta) {
			return false
		}
		a.status.set("Selected entry " + f.CollectionSelectedLabel())
		return true
	}
	return false
}
