package app

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/reoring/schemaui/keymap"
	"github.com/reoring/schemaui/validate"
)

// DefaultTickRate bounds how long the loop waits for input before
// redrawing.
const DefaultTickRate = 250 * time.Millisecond

// Options configures the runtime.
type Options struct {
	TickRate time.Duration
	// AutoValidate re-validates after every edit.
	AutoValidate bool
	// ConfirmExit asks twice before quitting with unsaved changes.
	ConfirmExit bool
	ShowHelp    bool
	// Keymap defaults to keymap.Default().
	Keymap *keymap.Store
	// Validate is used to compile the validator of every overlay.
	Validate validate.Options
	// Screen is an initialized screen to draw on. Run creates one when nil
	// and finalizes it either way.
	Screen tcell.Screen
	Logger *slog.Logger
}

// DefaultOptions returns the built-in runtime options.
func DefaultOptions() Options {
	return Options{
		TickRate:     DefaultTickRate,
		AutoValidate: true,
		ConfirmExit:  true,
		ShowHelp:     true,
	}
}

func (o Options) WithTickRate(d time.Duration) Options    { o.TickRate = d; return o }
func (o Options) WithAutoValidate(on bool) Options        { o.AutoValidate = on; return o }
func (o Options) WithConfirmExit(on bool) Options         { o.ConfirmExit = on; return o }
func (o Options) WithHelp(on bool) Options                { o.ShowHelp = on; return o }
func (o Options) WithKeymap(k *keymap.Store) Options      { o.Keymap = k; return o }
func (o Options) WithValidate(v validate.Options) Options { o.Validate = v; return o }
func (o Options) WithScreen(s tcell.Screen) Options       { o.Screen = s; return o }
func (o Options) WithLogger(l *slog.Logger) Options       { o.Logger = l; return o }

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) keys() *keymap.Store {
	if o.Keymap != nil {
		return o.Keymap
	}
	return keymap.Default()
}

func (o Options) tick() time.Duration {
	if o.TickRate > 0 {
		return o.TickRate
	}
	return DefaultTickRate
}
