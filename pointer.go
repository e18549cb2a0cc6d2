package schemaui

import (
	"net/url"
	"strconv"
	"strings"
)

// EscapeToken escapes a single reference token per RFC 6901
// ('~' -> '~0', '/' -> '~1').
func EscapeToken(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(tok string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
}

// PointerFromPath joins path segments into a JSON Pointer. An empty path
// yields the empty pointer, which addresses the whole document.
func PointerFromPath(path []string) string {
	if len(path) == 0 {
		return ""
	}
	b := &strings.Builder{}
	for _, p := range path {
		b.WriteByte('/')
		b.WriteString(EscapeToken(p))
	}
	return b.String()
}

// SplitPointer splits a JSON Pointer into unescaped tokens. Both "" and "/"
// address the root.
func SplitPointer(ptr string) []string {
	if ptr == "" || ptr == "/" {
		return nil
	}
	ptr = strings.TrimPrefix(ptr, "/")
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		parts[i] = UnescapeToken(p)
	}
	return parts
}

// JoinPointer appends a child pointer to a base pointer.
func JoinPointer(base, child string) string {
	if child == "" || child == "/" {
		return base
	}
	if base == "/" {
		base = ""
	}
	if !strings.HasPrefix(child, "/") {
		child = "/" + child
	}
	return base + child
}

// PointerField appends one property name to a pointer.
func PointerField(base, name string) string {
	return JoinPointer(base, "/"+EscapeToken(name))
}

// PointerIndex appends one array index to a pointer.
func PointerIndex(base string, i int) string {
	return JoinPointer(base, "/"+strconv.Itoa(i))
}

// NormalizeFragmentPointer turns the fragment of a local $ref ("#/a/b",
// "#a/b", "#/a%20b") into a decoded JSON Pointer. ok is false for refs that
// are not document-local.
func NormalizeFragmentPointer(ref string) (ptr string, ok bool) {
	if !strings.HasPrefix(ref, "#") {
		return "", false
	}
	frag := strings.TrimPrefix(ref, "#")
	if dec, err := url.PathUnescape(frag); err == nil {
		frag = dec
	}
	if frag == "" {
		return "", true
	}
	if !strings.HasPrefix(frag, "/") {
		frag = "/" + frag
	}
	return frag, true
}
