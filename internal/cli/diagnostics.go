package cli

import (
	"errors"
	"fmt"
	"strings"
)

// diagnostics collects every input and output problem of one invocation so
// that they are reported together instead of one run at a time.
type diagnostics struct {
	messages []string
}

func (d *diagnostics) input(label, msg string) {
	d.messages = append(d.messages, fmt.Sprintf("input (%s): %s", label, msg))
}

func (d *diagnostics) output(msg string) {
	d.messages = append(d.messages, "output: "+msg)
}

func (d *diagnostics) len() int { return len(d.messages) }

func (d *diagnostics) err() error {
	if len(d.messages) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("encountered input/output issues:")
	for i, msg := range d.messages {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, msg)
	}
	return errors.New(b.String())
}
