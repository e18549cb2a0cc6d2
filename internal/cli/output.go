package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/reoring/schemaui/document"
)

// DefaultTempFile receives the document when no destination is given.
const DefaultTempFile = "/tmp/schemaui.json"

// buildOutput resolves the destinations and the format of the saved
// document. It returns nil options when nothing should be written or when
// a problem was recorded in d. The file paths are returned either way.
func buildOutput(opts *RootOptions, configHint, schemaHint formatHint, d *diagnostics) (*document.OutputOptions, []string) {
	raw := append([]string(nil), opts.Outputs...)
	if opts.Stdout {
		raw = append(raw, "-")
	}

	var dests []document.Destination
	for _, r := range raw {
		switch {
		case strings.TrimSpace(r) == "":
			d.output("output destination cannot be empty")
		case r == "-":
			dests = append(dests, document.Stdout)
		default:
			dests = append(dests, document.File(r))
		}
	}

	if len(dests) == 0 && len(raw) == 0 {
		if opts.NoTempFile {
			return nil, nil
		}
		fallback := opts.TempFile
		if fallback == "" {
			fallback = DefaultTempFile
		}
		dests = append(dests, document.File(fallback))
	}
	if len(dests) == 0 {
		return nil, nil
	}

	var paths []string
	for _, dest := range dests {
		if !dest.IsStdout() {
			paths = append(paths, dest.Path)
		}
	}

	start := d.len()
	format := document.FormatJSON
	if len(paths) == 0 {
		format = stdoutFormat(configHint, schemaHint)
	} else if f, ok := formatFromFiles(paths, d); ok {
		format = f
	}
	if d.len() > start {
		return nil, paths
	}

	out := document.DefaultOutputOptions().
		WithFormat(format).
		WithPretty(!opts.NoPretty).
		WithDestinations(dests...)
	return &out, paths
}

// stdoutFormat follows the config extension, then the schema extension.
func stdoutFormat(configHint, schemaHint formatHint) document.Format {
	if f, ok := configHint.extension(); ok {
		return f
	}
	if f, ok := schemaHint.extension(); ok {
		return f
	}
	return document.FormatJSON
}

func formatFromFiles(paths []string, d *diagnostics) (document.Format, bool) {
	var (
		detected document.Format
		found    bool
	)
	for _, p := range paths {
		f, ok := document.FormatFromPath(p)
		if !ok {
			d.output(fmt.Sprintf("cannot infer format from output file %s; use .json/.yaml/.toml", p))
			continue
		}
		if !found {
			detected, found = f, true
			continue
		}
		if f != detected {
			d.output(fmt.Sprintf("output file %s uses %s but other destinations use %s; align extensions", p, f, detected))
		}
	}
	return detected, found
}

// ensureAvailable refuses to overwrite existing files unless forced.
func ensureAvailable(paths []string, force bool, d *diagnostics) {
	if force {
		return
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			d.output(fmt.Sprintf("file %s already exists (pass --force to overwrite)", p))
		}
	}
}
