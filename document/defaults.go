package document

// WithDefaults returns a copy of schema in which every node addressed by
// data carries the data value as its "default". Object members descend
// through "properties"; arrays replace the default wholesale. Members of data
// without a matching property are ignored.
func WithDefaults(schema *Object, data any) *Object {
	out := schema.Clone()
	applyDefaults(out, data)
	return out
}

func applyDefaults(node *Object, data any) {
	if node == nil {
		return
	}
	obj, isObj := data.(*Object)
	props, hasProps := node.Object("properties")
	if !isObj || !hasProps {
		node.Set("default", Clone(data))
		return
	}
	obj.Range(func(k string, v any) bool {
		if p, ok := props.Object(k); ok {
			applyDefaults(p, v)
		}
		return true
	})
}
