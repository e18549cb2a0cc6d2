package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	schemaui "github.com/reoring/schemaui"
)

// ---- decoding: go-json token stream into ordered values ----

type frame struct {
	obj     *Object
	arr     []any
	isObj   bool
	key     string
	haveKey bool
	path    string
}

// DecodeJSON parses a single JSON document. Object key order is preserved.
// Duplicate keys are reported as schemaui.Issues addressed by pointer.
func DecodeJSON(data []byte) (any, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var (
		stack  []*frame
		root   any
		done   bool
		issues schemaui.Issues
	)

	childPath := func() string {
		if len(stack) == 0 {
			return ""
		}
		top := stack[len(stack)-1]
		if top.isObj {
			return schemaui.PointerField(top.path, top.key)
		}
		return schemaui.PointerIndex(top.path, len(top.arr))
	}
	attach := func(v any) error {
		if len(stack) == 0 {
			root, done = v, true
			return nil
		}
		top := stack[len(stack)-1]
		if top.isObj {
			if !top.haveKey {
				return errors.New("object key expected")
			}
			top.obj.Set(top.key, v)
			top.haveKey = false
			return nil
		}
		top.arr = append(top.arr, v)
		return nil
	}

	for !done {
		tok, err := dec.Token()
		if err == io.EOF {
			if len(stack) == 0 {
				return nil, parseError("unexpected end of input", nil)
			}
			return nil, parseError("unexpected end of input inside "+stack[len(stack)-1].path, nil)
		}
		if err != nil {
			return nil, parseError(err.Error(), err)
		}
		switch v := tok.(type) {
		case j.Delim:
			switch v {
			case '{':
				stack = append(stack, &frame{obj: NewObject(), isObj: true, path: childPath()})
			case '[':
				stack = append(stack, &frame{arr: []any{}, path: childPath()})
			case '}', ']':
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				var val any = top.arr
				if top.isObj {
					val = top.obj
				}
				if err := attach(val); err != nil {
					return nil, parseError(err.Error(), err)
				}
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].isObj && !stack[n-1].haveKey {
				top := stack[n-1]
				if top.obj.Has(v) {
					issues = append(issues, schemaui.Issue{
						Path:    schemaui.PointerField(top.path, v),
						Code:    schemaui.CodeDuplicateKey,
						Message: "key '" + v + "' duplicated",
						Params:  map[string]any{"key": v},
					})
				}
				top.key, top.haveKey = v, true
				continue
			}
			if err := attach(v); err != nil {
				return nil, parseError(err.Error(), err)
			}
		case j.Number:
			if err := attach(numberFromString(string(v))); err != nil {
				return nil, parseError(err.Error(), err)
			}
		case float64:
			if err := attach(FromPlain(v)); err != nil {
				return nil, parseError(err.Error(), err)
			}
		case bool:
			if err := attach(v); err != nil {
				return nil, parseError(err.Error(), err)
			}
		case nil:
			if err := attach(nil); err != nil {
				return nil, parseError(err.Error(), err)
			}
		}
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, parseError("unexpected trailing data after JSON document", nil)
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return root, nil
}

func parseError(msg string, cause error) error {
	return schemaui.Issues{{Code: schemaui.CodeParseError, Message: msg, Cause: cause}}
}

// ---- encoding: ordered writer using go-json for scalars ----

// EncodeJSON serializes v. pretty selects two-space indentation. HTML
// characters are not escaped.
func EncodeJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v, pretty, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any, pretty bool, depth int) error {
	newline := func(d int) {
		if pretty {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat("  ", d))
		}
	}
	switch t := v.(type) {
	case *Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		i := 0
		var werr error
		t.Range(func(k string, e any) bool {
			if i > 0 {
				buf.WriteByte(',')
			}
			i++
			newline(depth + 1)
			kb, err := marshalScalar(k)
			if err != nil {
				werr = err
				return false
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if pretty {
				buf.WriteByte(' ')
			}
			if err := writeJSON(buf, e, pretty, depth+1); err != nil {
				werr = err
				return false
			}
			return true
		})
		if werr != nil {
			return werr
		}
		newline(depth)
		buf.WriteByte('}')
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			newline(depth + 1)
			if err := writeJSON(buf, e, pretty, depth+1); err != nil {
				return err
			}
		}
		newline(depth)
		buf.WriteByte(']')
	case map[string]any, []string:
		return writeJSON(buf, FromPlain(t), pretty, depth)
	default:
		b, err := marshalScalar(t)
		if err != nil {
			return fmt.Errorf("document: encode %T: %w", t, err)
		}
		buf.Write(b)
	}
	return nil
}

// marshalScalar encodes strings and numbers without escaping <, > and &.
func marshalScalar(v any) ([]byte, error) {
	return j.MarshalWithOption(v, j.DisableHTMLEscape())
}
