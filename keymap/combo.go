package keymap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

const modMask = tcell.ModCtrl | tcell.ModShift | tcell.ModAlt

// Combo is one parsed key pattern such as "Ctrl+S" or "BackTab".
type Combo struct {
	key        tcell.Key
	r          rune // set when key is tcell.KeyRune
	mods       tcell.ModMask
	allowShift bool
	display    string
}

var namedKeys = map[string]tcell.Key{
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"enter":     tcell.KeyEnter,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"pgup":      tcell.KeyPgUp,
	"pageup":    tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"pagedown":  tcell.KeyPgDn,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"del":       tcell.KeyDelete,
}

// ParseCombo parses "Mod+...+Key". Modifiers are Ctrl (or Control), Shift
// and Alt; the key is a named key, "Space", or a single character.
func ParseCombo(spec string) (Combo, error) {
	display := strings.TrimSpace(spec)
	if display == "" {
		return Combo{}, fmt.Errorf("combo cannot be empty")
	}
	var tokens []string
	for _, t := range strings.Split(display, "+") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	// "Ctrl++" binds the plus key itself.
	if strings.HasSuffix(display, "++") || display == "+" {
		tokens = append(tokens, "+")
	}
	if len(tokens) == 0 {
		return Combo{}, fmt.Errorf("combo must contain a key")
	}

	c := Combo{display: display}
	keyToken := tokens[len(tokens)-1]
	lower := strings.ToLower(keyToken)
	switch {
	case lower == "space":
		c.key, c.r = tcell.KeyRune, ' '
	case namedKeys[lower] != 0:
		c.key = namedKeys[lower]
	case utf8.RuneCountInString(keyToken) == 1:
		r, _ := utf8.DecodeRuneInString(keyToken)
		c.key, c.r = tcell.KeyRune, unicode.ToLower(r)
	default:
		return Combo{}, fmt.Errorf("unsupported key '%s'", keyToken)
	}

	for _, tok := range tokens[:len(tokens)-1] {
		switch strings.ToLower(tok) {
		case "ctrl", "control":
			c.mods |= tcell.ModCtrl
		case "shift":
			c.mods |= tcell.ModShift
		case "alt":
			c.mods |= tcell.ModAlt
		default:
			return Combo{}, fmt.Errorf("unsupported modifier '%s'", tok)
		}
	}
	c.allowShift = (c.key == tcell.KeyRune || c.key == tcell.KeyBacktab) && c.mods&tcell.ModShift == 0
	return c, nil
}

// String returns the combo as written in the keymap.
func (c Combo) String() string { return c.display }

// Matches reports whether ev is this combo. Character keys and BackTab
// tolerate an extra Shift; every other modifier must match exactly.
func (c Combo) Matches(ev *tcell.EventKey) bool {
	key, r, mods := normalize(ev)
	if key != c.key {
		if !(c.key == tcell.KeyBackspace2 && key == tcell.KeyBackspace) {
			return false
		}
	}
	if key == tcell.KeyRune && unicode.ToLower(r) != c.r {
		return false
	}
	if mods&c.mods != c.mods {
		return false
	}
	extra := mods &^ c.mods
	if c.allowShift {
		extra &^= tcell.ModShift
	}
	return extra == 0
}

// normalize folds terminal control codes into Ctrl+<letter> so that both
// legacy and extended keyboard encodings match the same combo. Tab, Enter
// and Backspace share codes with Ctrl+I, Ctrl+M and Ctrl+H and always keep
// their names.
func normalize(ev *tcell.EventKey) (tcell.Key, rune, tcell.ModMask) {
	key, r, mods := ev.Key(), ev.Rune(), ev.Modifiers()&modMask
	if key < tcell.KeyCtrlA || key > tcell.KeyCtrlZ {
		return key, r, mods
	}
	switch key {
	case tcell.KeyTab, tcell.KeyEnter, tcell.KeyBackspace:
		return key, r, mods
	}
	return tcell.KeyRune, rune('a' + int(key-tcell.KeyCtrlA)), mods | tcell.ModCtrl
}
