package form

import "sync"

// Palette holds the tunables shared by every field component.
type Palette struct {
	IntegerStep     int64
	IntegerFastStep int64
	NumberStep      float64
	NumberFastStep  float64

	BoolTrueLabel   string
	BoolFalseLabel  string
	BoolSpaceToggle bool
	BoolArrowToggle bool

	EnumWrapAround bool

	OverlayInstructions string
	ListHint            string
	EmptyListHint       string
	CompositeSingleHint string
	CompositeMultiHint  string
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return Palette{
		IntegerStep:         1,
		IntegerFastStep:     10,
		NumberStep:          1.0,
		NumberFastStep:      10.0,
		BoolTrueLabel:       "true",
		BoolFalseLabel:      "false",
		BoolSpaceToggle:     true,
		BoolArrowToggle:     true,
		EnumWrapAround:      true,
		OverlayInstructions: "Ctrl+N add • Ctrl+D remove • Ctrl+←/→ select • Ctrl+↑/↓ reorder",
		ListHint:            "(Ctrl+Left/Right select, Ctrl+E edit)",
		EmptyListHint:       "(Ctrl+N add)",
		CompositeSingleHint: " (Enter to choose)",
		CompositeMultiHint:  " (Enter to toggle)",
	}
}

var (
	paletteMu      sync.RWMutex
	currentPalette = DefaultPalette()
)

// SetPalette replaces the global palette.
func SetPalette(p Palette) {
	paletteMu.Lock()
	currentPalette = p
	paletteMu.Unlock()
}

// CurrentPalette returns a copy of the global palette.
func CurrentPalette() Palette {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return currentPalette
}
