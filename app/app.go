// Package app is the interactive runtime: it routes key events through the
// keymap to the root form, the overlay stack and the option popup, keeps the
// status line, and runs the draw/poll loop on a tcell screen.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/form"
	"github.com/reoring/schemaui/keymap"
)

// ErrAbandoned is returned by Run when the user quits without saving.
var ErrAbandoned = errors.New("user exited without saving")

// App is the runtime state of one editing session.
type App struct {
	form   *form.FormState
	engine *form.FormEngine
	opts   Options
	keys   *keymap.Store
	log    *slog.Logger

	status           statusLine
	globalErrors     []string
	validationErrors int
	exitArmed        bool
	shouldQuit       bool
	result           any
	hasResult        bool

	popup    *popup
	overlays []*overlay
}

// New creates an app over state. v may be nil.
func New(state *form.FormState, v schemaui.Validator, opts Options) *App {
	return &App{
		form:   state,
		engine: form.NewFormEngine(state, v),
		opts:   opts,
		keys:   opts.keys(),
		log:    opts.logger(),
		status: newStatusLine(),
	}
}

func (a *App) Form() *form.FormState  { return a.form }
func (a *App) Status() string         { return a.status.String() }
func (a *App) GlobalErrors() []string { return append([]string(nil), a.globalErrors...) }
func (a *App) ErrorCount() int        { return a.validationErrors }
func (a *App) ExitArmed() bool        { return a.exitArmed }
func (a *App) ShouldQuit() bool       { return a.shouldQuit }
func (a *App) OverlayDepth() int      { return len(a.overlays) }

// Result returns the last saved document.
func (a *App) Result() (any, bool) { return a.result, a.hasResult }

// Popup returns the open popup.
func (a *App) Popup() (PopupView, bool) {
	if a.popup == nil {
		return PopupView{}, false
	}
	return a.popup.view(), true
}

// Overlay returns the top overlay.
func (a *App) Overlay() (OverlayView, bool) {
	if o := a.top(); o != nil {
		return o.view(), true
	}
	return OverlayView{}, false
}

// HelpContext selects the help footer: overlay, collection when the
// focused field is edited entry by entry, otherwise default.
func (a *App) HelpContext() keymap.Context {
	if len(a.overlays) > 0 {
		return keymap.ContextOverlay
	}
	if f := a.form.FocusedField(); f != nil && f.IsCollection() {
		return keymap.ContextCollection
	}
	return keymap.ContextDefault
}

// HelpText is the footer text, empty when help is off.
func (a *App) HelpText() string {
	if !a.opts.ShowHelp {
		return ""
	}
	return a.keys.HelpText(a.HelpContext())
}

// HandleKey dispatches one key: the popup first, then the top overlay, then
// the root form.
func (a *App) HandleKey(ev *tcell.EventKey) {
	if a.popup != nil {
		a.handlePopupKey(ev)
		return
	}
	if len(a.overlays) > 0 {
		a.handleOverlayKey(ev)
		return
	}
	act, ok := a.keys.Classify(ev)
	switch {
	case !ok:
		a.handleInput(ev)
	case act.IsForm():
		a.exitArmed = false
		_ = a.engine.Dispatch(formCommand(act))
	default:
		a.handleAppCommand(act, ev)
	}
}

func (a *App) handleOverlayKey(ev *tcell.EventKey) {
	o := a.top()
	if ev.Key() == tcell.KeyEscape {
		a.requestOverlayExit()
		return
	}
	act, ok := a.keys.Classify(ev)
	switch {
	case !ok:
		a.handleInput(ev)
	case act.IsForm():
		o.exitArmed = false
		_ = o.engine.Dispatch(formCommand(act))
	default:
		a.handleAppCommand(act, ev)
	}
}

// formCommand maps a focus action to its form command.
func formCommand(act keymap.Action) form.Command {
	switch act.Kind {
	case keymap.ActionSectionStep:
		return form.FocusNextSection{Delta: act.Delta}
	case keymap.ActionRootStep:
		return form.FocusNextRoot{Delta: act.Delta}
	}
	if act.Delta < 0 {
		return form.FocusPrevField{}
	}
	return form.FocusNextField{}
}

func (a *App) handleAppCommand(act keymap.Action, ev *tcell.EventKey) {
	inOverlay := len(a.overlays) > 0
	switch act.Kind {
	case keymap.ActionSave:
		a.exitArmed = false
		if inOverlay {
			a.saveOverlay()
			return
		}
		a.save()
	case keymap.ActionQuit:
		if inOverlay {
			a.requestOverlayExit()
			return
		}
		a.quit()
	case keymap.ActionResetStatus:
		a.exitArmed = false
		a.status.ready()
	case keymap.ActionTogglePopup:
		if !a.tryOpenPopup() {
			a.handleInput(ev)
		}
	case keymap.ActionEditComposite:
		a.tryOpenEditor()
	case keymap.ActionListAddEntry, keymap.ActionListRemoveEntry, keymap.ActionListMove, keymap.ActionListSelect:
		a.listOp(act)
	}
}

// handleInput passes a key the keymap did not claim to the focused field.
func (a *App) handleInput(ev *tcell.EventKey) {
	o := a.top()
	st := a.activeForm()
	f := st.FocusedField()
	if f == nil || !f.HandleKey(ev) {
		return
	}
	if o != nil {
		o.exitArmed = false
		a.status.editing(o.label + " › " + f.Label())
		a.fieldEdited(ownerOverlay, f.Pointer())
		return
	}
	a.exitArmed = false
	a.status.editing(f.Label())
	a.fieldEdited(ownerRoot, f.Pointer())
}

// fieldEdited refreshes the error of one field when auto-validation is on.
// Overlays always validate their own edits.
func (a *App) fieldEdited(owner popupOwner, ptr string) {
	cmd := form.FieldEdited{Pointer: ptr}
	if owner == ownerOverlay {
		if o := a.top(); o != nil {
			_ = o.engine.Dispatch(cmd)
		}
		return
	}
	if a.opts.AutoValidate {
		_ = a.engine.Dispatch(cmd)
	}
}

// runValidation validates the whole root form. announce reports the
// outcome on the status line.
func (a *App) runValidation(announce bool) (any, bool) {
	value, global, count, err := a.engine.Validate()
	if err == nil {
		a.globalErrors, a.validationErrors = nil, 0
		if announce {
			a.status.validationPassed()
		}
		return value, true
	}
	if ce, ok := form.AsCoercion(err); ok {
		a.globalErrors, a.validationErrors = global, 1
		a.status.set(ce.Message)
		a.log.Debug("build failed", "pointer", ce.Pointer, "message", ce.Message)
		return nil, false
	}
	a.globalErrors, a.validationErrors = global, count
	if announce {
		a.status.issuesRemaining(count)
	}
	a.log.Debug("validation failed", "issues", count)
	return nil, false
}

func (a *App) save() {
	value, ok := a.runValidation(true)
	if !ok {
		return
	}
	a.result, a.hasResult = value, true
	a.form.MarkClean()
	a.exitArmed = false
	a.status.set(savedStatus)
	a.log.Info("configuration saved")
}

func (a *App) quit() {
	if a.opts.ConfirmExit && a.form.IsDirty() && !a.exitArmed {
		a.exitArmed = true
		a.status.pendingExit()
		return
	}
	a.shouldQuit = true
	a.log.Info("quit", "saved", a.hasResult)
}

// Run owns the terminal until the user quits or ctx ends. It returns the
// saved document, or ErrAbandoned when nothing was saved.
func (a *App) Run(ctx context.Context) (any, error) {
	term, err := openTerminal(a.opts.Screen)
	if err != nil {
		return nil, err
	}
	defer term.restore()
	defer func() {
		if r := recover(); r != nil {
			term.restore()
			panic(r)
		}
	}()

	events := make(chan tcell.Event, 16)
	stop := make(chan struct{})
	defer close(stop)
	go term.screen.ChannelEvents(events, stop)

	tick := time.NewTicker(a.opts.tick())
	defer tick.Stop()

	for !a.shouldQuit {
		a.Draw(term.screen)
		term.screen.Show()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil, errors.New("app: terminal event stream closed")
			}
			a.handleEvent(term.screen, ev)
		case <-tick.C:
		}
	}
	if a.hasResult {
		return a.result, nil
	}
	return nil, ErrAbandoned
}

func (a *App) handleEvent(s tcell.Screen, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		a.HandleKey(ev)
	case *tcell.EventResize:
		s.Sync()
	}
}
