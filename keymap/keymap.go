// Package keymap maps key events to form, application and list actions.
//
// Bindings are declared in YAML; the built-in table lives in
// default.keymap.yaml and can be replaced with Load. Lookup walks the
// bindings in declaration order and the first matching combo wins,
// regardless of context. Contexts only decide which bindings show up in the
// help footer.
package keymap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed default.keymap.yaml
var defaultKeymap []byte

// Context selects the help footer.
type Context string

const (
	ContextDefault    Context = "default"
	ContextCollection Context = "collection"
	ContextOverlay    Context = "overlay"
)

func parseContext(s string) (Context, bool) {
	switch Context(strings.ToLower(strings.TrimSpace(s))) {
	case ContextDefault:
		return ContextDefault, true
	case ContextCollection:
		return ContextCollection, true
	case ContextOverlay:
		return ContextOverlay, true
	}
	return "", false
}

// ActionKind names what a binding does.
type ActionKind string

const (
	ActionSave            ActionKind = "save"
	ActionQuit            ActionKind = "quit"
	ActionResetStatus     ActionKind = "resetStatus"
	ActionTogglePopup     ActionKind = "togglePopup"
	ActionEditComposite   ActionKind = "editComposite"
	ActionFieldStep       ActionKind = "fieldStep"
	ActionSectionStep     ActionKind = "sectionStep"
	ActionRootStep        ActionKind = "rootStep"
	ActionListAddEntry    ActionKind = "listAddEntry"
	ActionListRemoveEntry ActionKind = "listRemoveEntry"
	ActionListMove        ActionKind = "listMove"
	ActionListSelect      ActionKind = "listSelect"
)

// Action is a resolved binding. Delta is set for the step, move and select
// kinds.
type Action struct {
	Kind  ActionKind
	Delta int
}

// IsForm reports whether the action moves focus inside a form.
func (a Action) IsForm() bool {
	switch a.Kind {
	case ActionFieldStep, ActionSectionStep, ActionRootStep:
		return true
	}
	return false
}

func needsDelta(k ActionKind) bool {
	switch k {
	case ActionFieldStep, ActionSectionStep, ActionRootStep, ActionListMove, ActionListSelect:
		return true
	}
	return false
}

func knownKind(k ActionKind) bool {
	switch k {
	case ActionSave, ActionQuit, ActionResetStatus, ActionTogglePopup, ActionEditComposite,
		ActionListAddEntry, ActionListRemoveEntry:
		return true
	}
	return needsDelta(k)
}

// Binding is one keymap entry.
type Binding struct {
	ID          string
	Description string
	Contexts    []Context
	Action      Action
	Combos      []Combo
}

// Matches reports whether any combo of the binding matches ev.
func (b Binding) Matches(ev *tcell.EventKey) bool {
	return lo.SomeBy(b.Combos, func(c Combo) bool { return c.Matches(ev) })
}

// Snippet renders the binding for the help footer, e.g. "Ctrl+S -> Save".
func (b Binding) Snippet() string {
	combos := lo.Map(b.Combos, func(c Combo, _ int) string { return c.String() })
	return strings.Join(combos, "/") + " -> " + b.Description
}

// Store holds parsed bindings. It is immutable after construction.
type Store struct {
	bindings []Binding
}

type rawEntry struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Contexts    []string  `yaml:"contexts"`
	Action      rawAction `yaml:"action"`
	Combos      []string  `yaml:"combos"`
}

type rawAction struct {
	Kind  string `yaml:"kind"`
	Delta *int   `yaml:"delta"`
}

// Parse decodes a YAML keymap. Unknown fields are rejected; unknown
// contexts are dropped.
func Parse(data []byte) (*Store, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var raw []rawEntry
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("keymap: empty keymap")
		}
		return nil, fmt.Errorf("keymap: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("keymap: empty keymap")
	}

	seen := map[string]bool{}
	out := make([]Binding, 0, len(raw))
	for i, e := range raw {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("keymap: entry %d has no id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("keymap: duplicate entry id %s", id)
		}
		seen[id] = true

		b, err := buildBinding(id, e)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return &Store{bindings: out}, nil
}

func buildBinding(id string, e rawEntry) (Binding, error) {
	var ctxs []Context
	for _, s := range e.Contexts {
		if c, ok := parseContext(s); ok && !lo.Contains(ctxs, c) {
			ctxs = append(ctxs, c)
		}
	}
	if len(ctxs) == 0 {
		return Binding{}, fmt.Errorf("keymap: entry %s must declare contexts", id)
	}

	kind := ActionKind(strings.TrimSpace(e.Action.Kind))
	if !knownKind(kind) {
		return Binding{}, fmt.Errorf("keymap: entry %s has unknown action kind %q", id, e.Action.Kind)
	}
	act := Action{Kind: kind}
	if needsDelta(kind) {
		if e.Action.Delta == nil || *e.Action.Delta == 0 {
			return Binding{}, fmt.Errorf("keymap: entry %s action %s needs a non-zero delta", id, kind)
		}
		act.Delta = *e.Action.Delta
	}

	if len(e.Combos) == 0 {
		return Binding{}, fmt.Errorf("keymap: entry %s must declare combos", id)
	}
	combos := make([]Combo, 0, len(e.Combos))
	for _, s := range e.Combos {
		c, err := ParseCombo(s)
		if err != nil {
			return Binding{}, fmt.Errorf("keymap: failed to parse combo '%s' for %s: %w", s, id, err)
		}
		combos = append(combos, c)
	}

	desc := strings.TrimSpace(e.Description)
	if desc == "" {
		desc = id
	}
	return Binding{ID: id, Description: desc, Contexts: ctxs, Action: act, Combos: combos}, nil
}

// Load reads a keymap file.
func Load(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("keymap: %w", err)
	}
	s, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

var defaultStore = sync.OnceValue(func() *Store {
	s, err := Parse(defaultKeymap)
	if err != nil {
		panic(fmt.Sprintf("keymap: built-in keymap: %v", err))
	}
	return s
})

// Default returns the built-in keymap.
func Default() *Store { return defaultStore() }

// Bindings returns a copy of the bindings in declaration order.
func (s *Store) Bindings() []Binding {
	return append([]Binding(nil), s.bindings...)
}

// Classify returns the action of the first binding matching ev.
func (s *Store) Classify(ev *tcell.EventKey) (Action, bool) {
	if s == nil || ev == nil {
		return Action{}, false
	}
	b, ok := lo.Find(s.bindings, func(b Binding) bool { return b.Matches(ev) })
	if !ok {
		return Action{}, false
	}
	return b.Action, true
}

// HelpText joins the snippets of the bindings active in ctx.
func (s *Store) HelpText(ctx Context) string {
	snippets := lo.FilterMap(s.bindings, func(b Binding, _ int) (string, bool) {
		return b.Snippet(), lo.Contains(b.Contexts, ctx)
	})
	return strings.Join(snippets, " • ")
}

// ComboFor returns the first combo bound to kind (and delta, when non-zero),
// for use in status messages.
func (s *Store) ComboFor(kind ActionKind, delta int) (string, bool) {
	for _, b := range s.bindings {
		if b.Action.Kind == kind && (delta == 0 || b.Action.Delta == delta) {
			return b.Combos[0].String(), true
		}
	}
	return "", false
}
