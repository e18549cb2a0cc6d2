package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Destination is where emitted output goes: stdout when Path is empty,
// otherwise a file.
type Destination struct {
	Path string
}

// Stdout is the standard output destination.
var Stdout = Destination{}

// File returns a file destination.
func File(path string) Destination { return Destination{Path: path} }

func (d Destination) IsStdout() bool { return d.Path == "" }

func (d Destination) String() string {
	if d.IsStdout() {
		return "stdout"
	}
	return d.Path
}

// OutputOptions controls serialization of the final document.
type OutputOptions struct {
	Format       Format
	Pretty       bool
	Destinations []Destination
	// Stdout overrides os.Stdout, mainly for tests.
	Stdout io.Writer
}

// DefaultOutputOptions writes pretty JSON to stdout.
func DefaultOutputOptions() OutputOptions {
	return OutputOptions{Format: FormatJSON, Pretty: true, Destinations: []Destination{Stdout}}
}

func (o OutputOptions) WithFormat(f Format) OutputOptions { o.Format = f; return o }

func (o OutputOptions) WithPretty(p bool) OutputOptions { o.Pretty = p; return o }

func (o OutputOptions) WithDestinations(d ...Destination) OutputOptions {
	o.Destinations = append([]Destination(nil), d...)
	return o
}

// Render serializes v and guarantees exactly one trailing newline.
func Render(v any, opts OutputOptions) ([]byte, error) {
	payload, err := Encode(v, opts.Format, opts.Pretty)
	if err != nil {
		return nil, err
	}
	payload = bytes.TrimRight(payload, "\n")
	return append(payload, '\n'), nil
}

// Emit writes v to every destination in order. It is a no-op without
// destinations.
func Emit(v any, opts OutputOptions) error {
	if len(opts.Destinations) == 0 {
		return nil
	}
	payload, err := Render(v, opts)
	if err != nil {
		return err
	}
	for _, d := range opts.Destinations {
		if d.IsStdout() {
			w := opts.Stdout
			if w == nil {
				w = os.Stdout
			}
			if _, err := w.Write(payload); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
			continue
		}
		if err := os.WriteFile(d.Path, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write to file %s: %w", d.Path, err)
		}
	}
	return nil
}
