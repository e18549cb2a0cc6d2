package app

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// terminal owns the screen for the duration of Run. restore finalizes it
// exactly once, whether Run returns normally or unwinds from a panic.
type terminal struct {
	screen tcell.Screen
	once   sync.Once
}

func openTerminal(s tcell.Screen) (*terminal, error) {
	if s == nil {
		var err error
		if s, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("app: opening terminal: %w", err)
		}
		if err := s.Init(); err != nil {
			return nil, fmt.Errorf("app: initializing terminal: %w", err)
		}
	}
	s.HideCursor()
	s.Clear()
	return &terminal{screen: s}, nil
}

func (t *terminal) restore() {
	t.once.Do(func() {
		t.screen.ShowCursor(0, 0)
		t.screen.Fini()
	})
}
