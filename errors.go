package schemaui

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes shared by the compiler, the form core and the validator adapter.
const (
	CodeInvalidType     = "invalid_type"
	CodeRequired        = "required"
	CodeDuplicateKey    = "duplicate_key"
	CodeEmptyKey        = "empty_key"
	CodeParseError      = "parse_error"
	CodeUnsupported     = "unsupported"
	CodeUnresolvedRef   = "unresolved_ref"
	CodeCyclicRef       = "cyclic_ref"
	CodeVariantRequired = "variant_required"
	CodeVariantInactive = "variant_inactive"
	CodeSchemaViolation = "schema_violation"
)

// RootLabel is shown in place of an empty pointer in user-facing text.
const RootLabel = "<root>"

// Issue represents a single error entry addressed by JSON Pointer.
type Issue struct {
	Path    string // JSON Pointer (for example: /service/port). Empty means the document root.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"key":"alpha"}) for i18n.
	Params map[string]any
}

// Label renders the issue as "<pointer>: message", using RootLabel for the root.
func (it Issue) Label() string {
	p := it.Path
	if p == "" || p == "/" {
		p = RootLabel
	}
	return p + ": " + it.Message
}

// Issues is a collection of errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = RootLabel
		}
		// e.g. invalid_type at /path
		fmt.Fprintf(b, "%s at %s", it.Code, path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
// Errors exposing an Issues() method (schema and coercion errors) are
// converted as well.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var src interface{ Issues() Issues }
	if errors.As(err, &src) {
		return src.Issues(), true
	}
	return nil, false
}
