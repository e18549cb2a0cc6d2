package app

import (
	"fmt"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/form"
	"github.com/reoring/schemaui/keymap"
	"github.com/reoring/schemaui/schema"
	"github.com/reoring/schemaui/validate"
)

// overlay is one nested editor on the stack. Level 1 is hosted by the root
// form; level n by the form of overlay n-1.
type overlay struct {
	level        int
	pointer      string
	label        string
	title        string
	description  string
	instructions string
	session      *form.EditorSession
	engine       *form.FormEngine
	exitArmed    bool

	entries  []string
	selected int
}

// OverlayView is a snapshot of the top overlay.
type OverlayView struct {
	Level        int
	Title        string
	Description  string
	Instructions string
	Entries      []string
	Selected     int
	Form         *form.FormState
	Target       form.Target
}

func (o *overlay) view() OverlayView {
	return OverlayView{
		Level:        o.level,
		Title:        o.title,
		Description:  o.description,
		Instructions: o.instructions,
		Entries:      append([]string(nil), o.entries...),
		Selected:     o.selected,
		Form:         o.session.Form,
		Target:       o.session.Target,
	}
}

func (o *overlay) targetsEntry() bool { return o.session.Target.Kind != form.TargetField }

func (a *App) top() *overlay {
	if len(a.overlays) == 0 {
		return nil
	}
	return a.overlays[len(a.overlays)-1]
}

// activeForm is the form receiving input: the top overlay or the root.
func (a *App) activeForm() *form.FormState {
	if o := a.top(); o != nil {
		return o.session.Form
	}
	return a.form
}

func (a *App) hostForm(o *overlay) *form.FormState {
	if o.level <= 1 {
		return a.form
	}
	return a.overlays[o.level-2].session.Form
}

func (a *App) hostField(o *overlay) *form.FieldState {
	return a.hostForm(o).FieldByPointer(o.pointer)
}

// tryOpenEditor opens an overlay on the focused field of the active form.
func (a *App) tryOpenEditor() bool {
	f := a.activeForm().FocusedField()
	if f == nil {
		a.status.set("No field selected")
		return false
	}
	return a.openEditorOn(f)
}

func (a *App) openEditorOn(f *form.FieldState) bool {
	if !f.CanEdit() {
		a.status.set("Focus a composite or composite list field before editing")
		return false
	}
	if f.Kind().Tag == schema.KindComposite && len(f.ActiveCompositeVariants()) == 0 {
		a.status.set("Select a variant via Enter before editing (oneOf/anyOf)")
		return false
	}
	if _, ok := f.CollectionSelectedIndex(); f.IsCollection() && !f.IsCompositeList() && !ok {
		a.status.set("Add an entry with Ctrl+N before editing")
		return false
	}
	sess, err := f.OpenEditor()
	if err != nil {
		a.status.set(errorMessage(err))
		return false
	}
	a.popup = nil

	o := &overlay{
		level:       len(a.overlays) + 1,
		pointer:     f.Pointer(),
		label:       f.Label(),
		title:       fmt.Sprintf("Edit %s – %s", f.Label(), sess.Title),
		description: sess.Description,
		session:     sess,
	}
	if f.IsCollection() {
		o.instructions = form.CurrentPalette().OverlayInstructions
	}
	o.engine = form.NewFormEngine(sess.Form, a.overlayValidator(sess))
	a.overlays = append(a.overlays, o)
	a.refreshPanel(o)
	a.setOverlayStatus(o)
	a.validateOverlay(o)
	a.log.Debug("overlay opened", "level", o.level, "pointer", o.pointer, "target", sess.Target.Kind.String())
	return true
}

// overlayValidator compiles the session schema. A schema the validator
// cannot compile leaves the overlay with build checks only.
func (a *App) overlayValidator(sess *form.EditorSession) schemaui.Validator {
	if sess.Schema == nil {
		return nil
	}
	v, err := validate.Compile(sess.Schema, a.opts.Validate)
	if err != nil {
		a.log.Warn("overlay validator unavailable", "title", sess.Title, "err", err)
		return nil
	}
	return v
}

func (a *App) setOverlayStatus(o *overlay) {
	help := overlayHelp
	if a.opts.ShowHelp {
		if h := a.keys.HelpText(keymap.ContextOverlay); h != "" {
			help = h
		}
	}
	a.status.setf("Overlay %d: L%d · %s", o.level, o.level, help)
}

// refreshPanel syncs the entry strip and title with the host field.
func (a *App) refreshPanel(o *overlay) {
	if !o.targetsEntry() {
		return
	}
	f := a.hostField(o)
	if f == nil {
		return
	}
	panel, ok := f.CollectionPanel()
	if !ok {
		o.entries, o.selected = nil, 0
		return
	}
	o.entries, o.selected = panel.Entries, panel.Selected
	o.title = fmt.Sprintf("Edit %s – %s", o.label, panel.Entries[panel.Selected])
	o.session.Target.Index = panel.Selected
}

func (a *App) validateOverlay(o *overlay) (count int, err error) {
	if o == nil {
		return 0, nil
	}
	_, _, count, err = o.engine.Validate()
	return count, err
}

// closeOverlay pops the top overlay. With commit the session is written
// into the host field first; a failed commit keeps the overlay open.
func (a *App) closeOverlay(commit bool) error {
	o := a.top()
	if o == nil {
		return nil
	}
	if commit {
		f := a.hostField(o)
		if f == nil {
			return fmt.Errorf("app: host field %s not found", o.pointer)
		}
		changed, err := f.CommitEditor(o.session)
		if err != nil {
			a.routeCommitError(o, err)
			return err
		}
		a.log.Debug("overlay committed", "level", o.level, "pointer", o.pointer, "changed", changed)
	}
	a.overlays = a.overlays[:len(a.overlays)-1]
	if a.popup != nil && a.popup.owner == ownerOverlay {
		a.popup = nil
	}
	a.log.Debug("overlay closed", "level", o.level, "commit", commit)
	return nil
}

// routeCommitError puts key errors on the key field of the entry form and
// mirrors the message on the status line.
func (a *App) routeCommitError(o *overlay, err error) {
	msg := errorMessage(err)
	if ce, ok := form.AsCoercion(err); ok {
		switch ce.Code {
		case schemaui.CodeDuplicateKey, schemaui.CodeEmptyKey:
			o.session.Form.SetError("/key", ce.Message)
		default:
			o.session.Form.SetError(ce.Pointer, ce.Message)
		}
	}
	o.exitArmed = false
	a.status.set(msg)
}

// saveOverlay validates the top overlay and, when clean of errors, commits
// it into its host and pops it.
func (a *App) saveOverlay() {
	o := a.top()
	if o == nil {
		return
	}
	count, err := a.validateOverlay(o)
	if err != nil {
		if _, ok := form.AsCoercion(err); ok {
			a.status.set(errorMessage(err))
		} else {
			a.status.issuesRemaining(count)
		}
		return
	}
	if err := a.closeOverlay(true); err != nil {
		return
	}
	a.exitArmed = false
	if parent := a.top(); parent != nil {
		a.refreshPanel(parent)
		a.validateOverlay(parent)
	} else if a.opts.AutoValidate {
		a.runValidation(false)
	}
	a.status.setf("Overlay %d saved.", o.level)
}

// requestOverlayExit is Esc inside an overlay: dirty overlays need a second
// Esc.
func (a *App) requestOverlayExit() {
	o := a.top()
	if o == nil {
		return
	}
	if o.session.Form.IsDirty() && !o.exitArmed {
		o.exitArmed = true
		a.status.set(overlayDirty)
		return
	}
	_ = a.closeOverlay(false)
	if parent := a.top(); parent != nil {
		a.setOverlayStatus(parent)
		return
	}
	a.status.ready()
}

func errorMessage(err error) string {
	if ce, ok := form.AsCoercion(err); ok {
		return ce.Message
	}
	return err.Error()
}
