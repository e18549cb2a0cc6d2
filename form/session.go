package form

import (
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/schema"
)

// TargetKind records where an editor session writes back on commit.
type TargetKind int

const (
	TargetField TargetKind = iota
	TargetListEntry
	TargetKeyValueEntry
	TargetArrayEntry
)

func (k TargetKind) String() string {
	switch k {
	case TargetListEntry:
		return "list_entry"
	case TargetKeyValueEntry:
		return "key_value_entry"
	case TargetArrayEntry:
		return "array_entry"
	}
	return "field"
}

// Target addresses the entry (Index) or the variant slot (Variant) an
// editor session belongs to.
type Target struct {
	Kind    TargetKind
	Index   int
	Variant int
}

// EditorSession is the nested form handed to an overlay. The session owns
// Form; the host field is untouched until the session is committed.
type EditorSession struct {
	Title       string
	Description string
	EntryLabel  string
	Form        *FormState
	// Schema validates the document built from Form.
	Schema *document.Object
	Target Target
}

// singleSectionForm assembles a one-section form around synthetic fields.
func singleSectionForm(id, title, description string, fields ...*schema.FieldSchema) *FormState {
	fs := &schema.FormSchema{
		Title: title,
		Roots: []schema.RootSection{{
			ID:    id,
			Title: title,
			Sections: []schema.FormSection{{
				ID:          id,
				Title:       title,
				Description: description,
				Fields:      fields,
			}},
		}},
	}
	return FromSchema(fs)
}
