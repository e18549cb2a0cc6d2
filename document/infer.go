package document

// DraftURI is the "$schema" value written into inferred schemas.
const DraftURI = "http://json-schema.org/draft-07/schema#"

// InferSchema derives a draft-07 schema from example data. Every node
// records its value as "default"; objects list all their keys as required
// and allow additional properties; arrays whose elements disagree get an
// "anyOf" item schema.
func InferSchema(v any) *Object {
	s := inferNode(v)
	if !s.Has("$schema") {
		out := NewObject()
		out.Set("$schema", DraftURI)
		s.Range(func(k string, e any) bool {
			out.Set(k, e)
			return true
		})
		s = out
	}
	return s
}

func inferNode(v any) *Object {
	switch t := v.(type) {
	case *Object:
		return inferObject(t)
	case []any:
		return inferArray(t)
	default:
		s := NewObject()
		s.Set("type", TypeName(v))
		s.Set("default", Clone(v))
		return s
	}
}

func inferObject(o *Object) *Object {
	props := NewObject()
	required := make([]any, 0, o.Len())
	o.Range(func(k string, e any) bool {
		props.Set(k, inferNode(e))
		required = append(required, k)
		return true
	})
	s := NewObject()
	s.Set("type", "object")
	s.Set("default", o.Clone())
	s.Set("additionalProperties", true)
	if props.Len() > 0 {
		s.Set("properties", props)
	}
	if len(required) > 0 {
		s.Set("required", required)
	}
	return s
}

func inferArray(items []any) *Object {
	s := NewObject()
	s.Set("type", "array")
	s.Set("default", Clone(items))
	if len(items) == 0 {
		return s
	}
	var variants []any
	for _, it := range items {
		cand := inferNode(it)
		dup := false
		for _, existing := range variants {
			if Equal(existing, cand) {
				dup = true
				break
			}
		}
		if !dup {
			variants = append(variants, cand)
		}
	}
	if len(variants) == 1 {
		s.Set("items", variants[0])
	} else {
		s.Set("items", ObjectOf("anyOf", variants))
	}
	return s
}

// LooksLikeSchema guesses whether a document is a JSON Schema rather than
// plain data: it must have non-empty "properties" plus either "$schema",
// "type": "object", or a property that itself reads like a schema node.
func LooksLikeSchema(v any) bool {
	o, ok := v.(*Object)
	if !ok {
		return false
	}
	props, ok := o.Object("properties")
	if !ok || props.Len() == 0 {
		return false
	}
	if o.Has("$schema") {
		return true
	}
	if t, _ := o.String("type"); t == "object" {
		return true
	}
	found := false
	props.Range(func(_ string, e any) bool {
		if p, ok := e.(*Object); ok {
			if p.Has("type") || p.Has("properties") || p.Has("items") || p.Has("$ref") {
				found = true
				return false
			}
		}
		return true
	})
	return found
}
