package app

import "fmt"

const (
	readyStatus       = "Ready. Press Ctrl+S to validate and save."
	pendingExitStatus = "Unsaved changes. Press Ctrl+Q again to quit without saving."
	savedStatus       = "Configuration saved. Press Ctrl+Q to exit."
	overlayDirty      = "Overlay dirty. Press Esc again to discard changes."
	overlayHelp       = "Ctrl+S save • Esc cancel"
)

// statusLine is the single message shown above the help footer.
type statusLine struct {
	message string
}

func newStatusLine() statusLine { return statusLine{message: readyStatus} }

func (s *statusLine) set(msg string)          { s.message = msg }
func (s *statusLine) setf(f string, a ...any) { s.message = fmt.Sprintf(f, a...) }
func (s *statusLine) ready()                  { s.message = readyStatus }
func (s *statusLine) editing(label string)    { s.message = "Editing " + label }
func (s *statusLine) valueUpdated()           { s.message = "Value updated" }
func (s *statusLine) validationPassed()       { s.message = "Validation passed" }
func (s *statusLine) issuesRemaining(n int)   { s.setf("%d issue(s) remaining", n) }
func (s *statusLine) pendingExit()            { s.message = pendingExitStatus }
func (s *statusLine) String() string          { return s.message }
