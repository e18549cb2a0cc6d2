package document

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a serialization format.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// ParseFormat accepts "json", "yaml"/"yml" and "toml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return FormatJSON, fmt.Errorf("document: unknown format %q", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatJSON, false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Decode parses data in the given format.
func Decode(data []byte, f Format) (any, error) {
	switch f {
	case FormatYAML:
		return DecodeYAML(data)
	case FormatTOML:
		return DecodeTOML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeAuto tries the preferred format first and then the others in
// JSON, YAML, TOML order. The error of the preferred format is returned when
// all of them fail.
func DecodeAuto(data []byte, preferred Format) (any, Format, error) {
	v, firstErr := Decode(data, preferred)
	if firstErr == nil {
		return v, preferred, nil
	}
	for _, f := range []Format{FormatJSON, FormatYAML, FormatTOML} {
		if f == preferred {
			continue
		}
		if v, err := Decode(data, f); err == nil {
			return v, f, nil
		}
	}
	return nil, preferred, firstErr
}

// Encode serializes v in the given format.
func Encode(v any, f Format, pretty bool) ([]byte, error) {
	switch f {
	case FormatYAML:
		return EncodeYAML(v)
	case FormatTOML:
		return EncodeTOML(v, pretty)
	default:
		return EncodeJSON(v, pretty)
	}
}
