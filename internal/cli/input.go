package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/reoring/schemaui/document"
)

// formatHint is the format an input is parsed with first. fromExtension is
// set only when a file extension decided it, which is what output format
// inference may rely on.
type formatHint struct {
	format        document.Format
	fromExtension bool
}

func (h formatHint) extension() (document.Format, bool) {
	return h.format, h.fromExtension
}

// source is one --schema or --config argument: a file path, "-" for
// stdin, or inline content. A path that does not exist is read as inline
// content.
type source struct {
	label  string
	spec   string
	inline bool
}

func newSource(label, spec, inline string) source {
	if inline != "" {
		return source{label: label, spec: inline, inline: true}
	}
	return source{label: label, spec: spec}
}

func (s source) present() bool { return s.spec != "" }

func (s source) stdin() bool { return !s.inline && s.spec == "-" }

func (s source) hint() formatHint {
	if s.inline || s.spec == "" || s.spec == "-" {
		return formatHint{}
	}
	if f, ok := document.FormatFromPath(s.spec); ok {
		return formatHint{format: f, fromExtension: true}
	}
	return formatHint{}
}

func (s source) load(stdin io.Reader) (any, error) {
	format := s.hint().format
	switch {
	case s.inline:
		return parseContents([]byte(s.spec), format, "inline "+s.label)
	case s.stdin():
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
		return parseContents(data, format, s.label)
	}

	data, err := os.ReadFile(s.spec)
	if errors.Is(err, fs.ErrNotExist) || (err != nil && looksInline(s.spec)) {
		v, perr := parseContents([]byte(s.spec), format, "inline "+s.label)
		if perr != nil {
			return nil, perr
		}
		if !isDocument(v) {
			return nil, fmt.Errorf("%s %s: no such file, and not an inline document", s.label, s.spec)
		}
		return v, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s from %s: %w", s.label, s.spec, err)
	}
	return parseContents(data, format, s.label)
}

// looksInline catches inline payloads that fail to open for reasons other
// than a missing file, such as over-long names.
func looksInline(spec string) bool {
	t := strings.TrimSpace(spec)
	return strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") || strings.Contains(t, "\n")
}

// isDocument reports whether v is a container, which is what inline
// content must decode to. A bare word parses as a YAML string.
func isDocument(v any) bool {
	switch v.(type) {
	case *document.Object, []any:
		return true
	}
	return false
}

func parseContents(data []byte, format document.Format, label string) (any, error) {
	v, _, err := document.DecodeAuto(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: tried json, yaml, toml (first error: %v)", label, err)
	}
	return v, nil
}

// inputs are the decoded --schema and --config documents.
type inputs struct {
	schema     any
	config     any
	schemaHint formatHint
	configHint formatHint
}

func loadInputs(schema, config source, stdin io.Reader, d *diagnostics) inputs {
	in := inputs{schemaHint: schema.hint(), configHint: config.hint()}
	if schema.stdin() && config.stdin() {
		d.input("schema/config", "cannot read schema and config from stdin simultaneously; provide inline content or files")
		return in
	}
	load := func(s source) any {
		if !s.present() {
			return nil
		}
		v, err := s.load(stdin)
		if err != nil {
			d.input(s.label, err.Error())
			return nil
		}
		return v
	}
	in.schema = load(schema)
	in.config = load(config)
	return in
}
