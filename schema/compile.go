package schema

import (
	"fmt"
	"strings"

	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/i18n"

	schemaui "github.com/reoring/schemaui"
)

type compiler struct {
	res  *resolver
	diag *simpleDiag
	root *document.Object
	opts Options
}

// Compile turns a JSON Schema document into a FormSchema.
//
// doc may be a *document.Object, raw JSON/YAML/TOML bytes or a
// map[string]any. The returned Diag carries non-fatal findings even when
// err is nil.
func Compile(doc any, opts Options) (*FormSchema, Diag, error) {
	d := &simpleDiag{}
	root, err := asDocument(doc)
	if err != nil {
		return nil, d, err
	}
	c := &compiler{
		res:  &resolver{root: root, diag: d},
		diag: d,
		root: root,
		opts: opts,
	}
	top, release, err := c.res.resolve(root, "", false)
	if err != nil {
		return nil, d, err
	}
	defer release()
	if !isObjectSchema(top) {
		return nil, d, newError("", schemaui.CodeUnsupported, i18n.T(i18n.MsgRootNotObject, nil))
	}

	fs := &FormSchema{}
	fs.Title, _ = top.String("title")
	if opts.Title != "" {
		fs.Title = opts.Title
	}
	fs.Description, _ = top.String("description")

	if fs.Roots, err = c.buildRoots(top); err != nil {
		return nil, d, err
	}
	if opts.Strict && d.HasWarnings() {
		return nil, d, newError("", schemaui.CodeUnsupported, "strict mode: "+strings.Join(d.Warnings(), "; "))
	}
	opts.logger().Debug("schema compiled", "title", fs.Title, "roots", len(fs.Roots), "warnings", len(d.ws))
	return fs, d, nil
}

func asDocument(doc any) (*document.Object, error) {
	switch t := doc.(type) {
	case *document.Object:
		if t == nil {
			return nil, newError("", schemaui.CodeUnsupported, i18n.T(i18n.MsgRootNotObject, nil))
		}
		return t, nil
	case []byte:
		v, _, err := document.DecodeAuto(t, document.FormatJSON)
		if err != nil {
			return nil, err
		}
		if o, ok := v.(*document.Object); ok {
			return o, nil
		}
		return nil, newError("", schemaui.CodeUnsupported, i18n.T(i18n.MsgRootNotObject, nil))
	case map[string]any:
		return asDocument(document.FromPlain(t))
	default:
		return nil, newError("", schemaui.CodeUnsupported, i18n.T(i18n.MsgRootNotObject, nil))
	}
}

// buildRoots splits the top-level properties: objects that carry their own
// properties become roots; everything else lands in the "general" root,
// which is placed first.
func (c *compiler) buildRoots(top *document.Object) ([]RootSection, error) {
	general := generalSectionInfo()
	generalSection := FormSection{ID: general.id, Title: general.title}
	var roots []RootSection

	props, _ := top.Object("properties")
	required := requiredSet(top)
	for _, name := range props.Keys() {
		raw, _ := props.Get(name)
		at := schemaui.PointerField(schemaui.PointerField("", "properties"), name)
		node, release, err := c.res.resolve(raw, at, false)
		if err != nil {
			return nil, attributeTo(err, name)
		}
		if shouldDescend(node) {
			info := sectionInfoFor(node, name, nil)
			sec, err := c.buildSection(node, at, []string{name}, info)
			release()
			if err != nil {
				return nil, err
			}
			roots = append(roots, RootSection{
				ID:          info.id,
				Title:       info.title,
				Description: info.description,
				Sections:    []FormSection{sec},
			})
			continue
		}
		f, err := c.buildField(node, at, []string{name}, general.id, required[name])
		release()
		if err != nil {
			return nil, err
		}
		generalSection.Fields = append(generalSection.Fields, f)
	}

	if len(generalSection.Fields) > 0 || len(roots) == 0 {
		g := RootSection{ID: general.id, Title: general.title}
		if len(generalSection.Fields) > 0 {
			g.Sections = []FormSection{generalSection}
		}
		roots = append([]RootSection{g}, roots...)
	}
	return roots, nil
}

// buildSection compiles an object node into a section; nested objects with
// properties become child sections.
func (c *compiler) buildSection(n *document.Object, at string, path []string, info sectionInfo) (FormSection, error) {
	sec := FormSection{
		ID:          info.id,
		Title:       info.title,
		Description: info.description,
		Path:        path,
	}
	props, _ := n.Object("properties")
	required := requiredSet(n)
	for _, name := range props.Keys() {
		raw, _ := props.Get(name)
		childAt := schemaui.PointerField(schemaui.PointerField(at, "properties"), name)
		childPath := append(append([]string(nil), path...), name)
		node, release, err := c.res.resolve(raw, childAt, false)
		if err != nil {
			return sec, attributeTo(err, name)
		}
		if shouldDescend(node) {
			child, err := c.buildSection(node, childAt, childPath, sectionInfoFor(node, name, &info))
			release()
			if err != nil {
				return sec, err
			}
			sec.Children = append(sec.Children, child)
			continue
		}
		f, err := c.buildField(node, childAt, childPath, info.id, required[name])
		release()
		if err != nil {
			return sec, err
		}
		sec.Fields = append(sec.Fields, f)
	}
	return sec, nil
}

func (c *compiler) buildField(n *document.Object, at string, path []string, sectionID string, required bool) (*FieldSchema, error) {
	name := path[len(path)-1]
	kind, err := c.detectKind(n, at)
	if err != nil {
		return nil, attributeTo(err, name)
	}
	if n.Has("x-group") && !isObjectSchema(n) {
		c.diag.warnf("%s: x-group ignored on a non-object field", displayPointer(at))
	}
	title, ok := n.String("title")
	if !ok {
		title = Prettify(name)
	}
	desc, _ := n.String("description")
	def, hasDef := n.Get("default")
	return &FieldSchema{
		Name:        name,
		Path:        path,
		Pointer:     schemaui.PointerFromPath(path),
		Title:       title,
		Description: desc,
		SectionID:   sectionID,
		Kind:        kind,
		Required:    required,
		Default:     document.Clone(def),
		HasDefault:  hasDef,
		Metadata:    metadataMap(n),
	}, nil
}

// CompileVariant compiles the sub-form of a composite variant.
func CompileVariant(v CompositeVariant, opts Options) (*FormSchema, error) {
	fs, _, err := Compile(v.FormDocument(), opts)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Title, err)
	}
	return fs, nil
}
