package schema

import (
	"github.com/samber/lo"

	schemaui "github.com/reoring/schemaui"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"
)

// objectKeywords are the keywords an allOf member must carry to contribute
// object content.
var objectKeywords = []string{"properties", "patternProperties", "required", "additionalProperties", "propertyNames"}

// resolver follows local $refs and merges allOf. stack holds the pointers of
// every definition currently being expanded; it is pushed for the whole
// subtree compiled from a reference and popped by the returned release func.
type resolver struct {
	root  *document.Object
	stack []string
	diag  *simpleDiag
}

// resolve expands raw into a concrete schema node. The caller must invoke
// release once the subtree derived from the node has been compiled.
//
// lazy marks positions whose contents are compiled on demand (array items,
// composite branches): re-entering a definition there is allowed since the
// definition will not be expanded now.
func (r *resolver) resolve(raw any, at string, lazy bool) (*document.Object, func(), error) {
	mark := len(r.stack)
	release := func() { r.stack = r.stack[:mark] }
	node, err := r.expand(raw, at, lazy)
	if err != nil {
		release()
		return nil, nil, err
	}
	return node, release, nil
}

func (r *resolver) expand(raw any, at string, lazy bool) (*document.Object, error) {
	node := asSchema(raw)
	seen := map[string]bool{}
	for {
		ref, ok := node.String("$ref")
		if !ok {
			break
		}
		ptr, local := schemaui.NormalizeFragmentPointer(ref)
		if !local {
			return nil, newError(at, schemaui.CodeUnsupported, i18n.T(i18n.MsgExternalRef, map[string]string{"ref": ref}))
		}
		if seen[ptr] || (!lazy && lo.Contains(r.stack, ptr)) {
			return nil, newError(at, schemaui.CodeCyclicRef, i18n.T(i18n.MsgCyclicRef, map[string]string{"ref": ref}))
		}
		seen[ptr] = true
		target, found := document.Lookup(r.root, ptr)
		if !found {
			return nil, newError(at, schemaui.CodeUnresolvedRef, i18n.T(i18n.MsgUnresolvedRef, map[string]string{"ref": ref}))
		}
		if !lo.Contains(r.stack, ptr) {
			r.stack = append(r.stack, ptr)
		}
		merged := asSchema(target).Clone()
		node.Range(func(k string, v any) bool {
			if k != "$ref" {
				merged.Set(k, v)
			}
			return true
		})
		node = merged
	}
	return r.mergeAllOf(node, at)
}

// mergeAllOf folds object-shaped allOf members into node: properties,
// patternProperties and required are unioned (first definition wins), the
// first additionalProperties/propertyNames is kept. Members that contribute
// no object content leave node unchanged.
func (r *resolver) mergeAllOf(node *document.Object, at string) (*document.Object, error) {
	members, ok := node.Array("allOf")
	if !ok || len(members) == 0 {
		return node, nil
	}
	resolved := make([]*document.Object, 0, len(members))
	for i, m := range members {
		sub, err := r.expand(m, schemaui.PointerIndex(schemaui.PointerField(at, "allOf"), i), false)
		if err != nil {
			return nil, err
		}
		if hasObjectContent(sub) {
			resolved = append(resolved, sub)
		}
	}
	if len(resolved) == 0 {
		return node, nil
	}

	out := node.Clone()
	out.Delete("allOf")
	props, _ := out.Object("properties")
	if props == nil {
		props = document.NewObject()
	}
	patterns, _ := out.Object("patternProperties")
	if patterns == nil {
		patterns = document.NewObject()
	}
	required, _ := out.Array("required")
	declaresObject := typeOf(out) == "object"

	for _, m := range resolved {
		if p, ok := m.Object("properties"); ok {
			p.Range(func(k string, v any) bool {
				if !props.Has(k) {
					props.Set(k, v)
				}
				return true
			})
		}
		if p, ok := m.Object("patternProperties"); ok {
			p.Range(func(k string, v any) bool {
				if !patterns.Has(k) {
					patterns.Set(k, v)
				}
				return true
			})
		}
		if req, ok := m.Array("required"); ok {
			for _, name := range req {
				if !lo.Contains(required, name) {
					required = append(required, name)
				}
			}
		}
		for _, k := range []string{"additionalProperties", "propertyNames"} {
			if v, ok := m.Get(k); ok && !out.Has(k) {
				out.Set(k, v)
			}
		}
		if typeOf(m) == "object" {
			declaresObject = true
		}
	}
	if props.Len() > 0 {
		out.Set("properties", props)
	}
	if patterns.Len() > 0 {
		out.Set("patternProperties", patterns)
	}
	if len(required) > 0 {
		out.Set("required", required)
	}
	if declaresObject && !out.Has("type") {
		out.Set("type", "object")
	}
	return out, nil
}

func hasObjectContent(n *document.Object) bool {
	if typeOf(n) == "object" {
		return true
	}
	return lo.SomeBy(objectKeywords, n.Has)
}

// asSchema turns a raw schema value into an object node. Boolean schemas
// map to {} (true) and {"not":{}} (false).
func asSchema(raw any) *document.Object {
	switch t := raw.(type) {
	case *document.Object:
		return t
	case bool:
		if t {
			return document.NewObject()
		}
		return document.ObjectOf("not", document.NewObject())
	}
	return document.NewObject()
}
