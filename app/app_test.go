package app_test

import (
	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reoring/schemaui/app"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/keymap"
)

const nameSchema = `{"type": "object", "properties": {"name": {"type": "string"}}}`

const serviceSchema = `{
	"type": "object",
	"properties": {
		"service": {
			"oneOf": [
				{"title": "http", "type": "object", "required": ["port"], "properties": {"port": {"type": "integer"}}},
				{"title": "unix", "type": "object", "required": ["path"], "properties": {"path": {"type": "string"}}}
			]
		}
	}
}`

const labelsSchema = `{
	"type": "object",
	"properties": {
		"labels": {"type": "object", "patternProperties": {"^[a-z]+$": {"type": "string"}}}
	}
}`

const routesSchema = `{
	"type": "object",
	"properties": {
		"routes": {
			"type": "array",
			"items": {
				"oneOf": [
					{"title": "http", "type": "object", "properties": {"kind": {"const": "http"}, "port": {"type": "integer"}}},
					{"title": "unix", "type": "object", "properties": {"kind": {"const": "unix"}, "path": {"type": "string"}}}
				]
			}
		}
	}
}`

var _ = Describe("App", func() {
	Describe("saving and quitting", func() {
		It("saves a simple object and keeps the result across quit", func() {
			a := newApp(nameSchema)
			typeText(a, "svc")
			Expect(a.Status()).To(Equal("Editing Name"))
			Expect(a.Form().IsDirty()).To(BeTrue())

			press(a, tcell.KeyCtrlS)
			Expect(result(a)).To(Equal(`{"name":"svc"}`))
			Expect(a.Form().IsDirty()).To(BeFalse())
			Expect(a.Status()).To(Equal("Configuration saved. Press Ctrl+Q to exit."))

			press(a, tcell.KeyCtrlQ)
			Expect(a.ShouldQuit()).To(BeTrue())
			Expect(result(a)).To(Equal(`{"name":"svc"}`))
		})

		It("keeps the session open when a required integer does not parse", func() {
			a := newApp(`{"type": "object", "required": ["port"], "properties": {"port": {"type": "integer"}}}`)
			typeText(a, "8a")
			Expect(a.Form().FieldByPointer("/port").Error()).To(Equal("expected integer"))

			press(a, tcell.KeyCtrlS)
			_, saved := a.Result()
			Expect(saved).To(BeFalse())
			Expect(a.Form().FieldByPointer("/port").Error()).To(Equal("expected integer"))
			Expect(a.Status()).To(Equal("expected integer"))
			Expect(a.ErrorCount()).To(Equal(1))
			Expect(a.ShouldQuit()).To(BeFalse())
		})

		It("asks twice before quitting with unsaved changes", func() {
			a := newApp(nameSchema)
			typeText(a, "x")

			press(a, tcell.KeyCtrlQ)
			Expect(a.ExitArmed()).To(BeTrue())
			Expect(a.Status()).To(HavePrefix("Unsaved changes"))
			Expect(a.ShouldQuit()).To(BeFalse())

			press(a, tcell.KeyCtrlQ)
			Expect(a.ShouldQuit()).To(BeTrue())
			_, saved := a.Result()
			Expect(saved).To(BeFalse())
		})

		It("disarms the exit on the next edit", func() {
			a := newApp(nameSchema)
			typeText(a, "x")
			press(a, tcell.KeyCtrlQ)
			typeText(a, "y")
			Expect(a.ExitArmed()).To(BeFalse())
			press(a, tcell.KeyCtrlQ)
			Expect(a.ShouldQuit()).To(BeFalse())
		})

		It("quits at once when confirmation is off", func() {
			a := newApp(nameSchema, func(o app.Options) app.Options { return o.WithConfirmExit(false) })
			typeText(a, "x")
			press(a, tcell.KeyCtrlQ)
			Expect(a.ShouldQuit()).To(BeTrue())
		})

		It("reports validator issues on save", func() {
			a := newApp(`{"type": "object", "properties": {"name": {"type": "string", "minLength": 3}}}`)
			typeText(a, "ab")
			press(a, tcell.KeyCtrlS)
			Expect(a.Status()).To(Equal("1 issue(s) remaining"))
			Expect(a.Form().FieldByPointer("/name").Error()).NotTo(BeEmpty())

			typeText(a, "c")
			press(a, tcell.KeyCtrlS)
			Expect(result(a)).To(Equal(`{"name":"abc"}`))
		})
	})

	Describe("navigation", func() {
		It("steps between fields and wraps", func() {
			a := newApp(`{"type": "object", "properties": {"a": {"type": "string"}, "b": {"type": "string"}}}`)
			Expect(a.Form().FocusedField().Pointer()).To(Equal("/a"))
			press(a, tcell.KeyTab)
			Expect(a.Form().FocusedField().Pointer()).To(Equal("/b"))
			press(a, tcell.KeyDown)
			Expect(a.Form().FocusedField().Pointer()).To(Equal("/a"))
			pressMod(a, tcell.KeyBacktab, tcell.ModShift)
			Expect(a.Form().FocusedField().Pointer()).To(Equal("/b"))
		})
	})

	Describe("popup", func() {
		It("switches the oneOf variant", func() {
			a := newApp(serviceSchema)
			svc := a.Form().FieldByPointer("/service")

			press(a, tcell.KeyEnter)
			p, open := a.Popup()
			Expect(open).To(BeTrue())
			Expect(p.Options).To(Equal([]string{"http", "unix"}))
			Expect(p.Multi).To(BeFalse())
			Expect(a.Status()).To(Equal("Use ↑/↓ and Enter to choose"))

			press(a, tcell.KeyDown)
			press(a, tcell.KeyEnter)
			_, open = a.Popup()
			Expect(open).To(BeFalse())
			Expect(svc.ActiveCompositeVariants()).To(Equal([]int{1}))
			Expect(a.Status()).To(Equal("Value updated"))

			v, ok, err := svc.CurrentValue()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(document.Stringify(v)).To(Equal(`{"path":""}`))
		})

		It("wraps and toggles a multi-select", func() {
			a := newApp(`{"type": "object", "properties": {"perms": {"type": "array", "items": {"enum": ["r", "w", "x"]}}}}`)
			press(a, tcell.KeyEnter)
			p, _ := a.Popup()
			Expect(p.Multi).To(BeTrue())
			Expect(a.Status()).To(Equal("Use ↑/↓ to move, Space to toggle, Enter to apply"))

			typeText(a, " ")
			press(a, tcell.KeyUp)
			typeText(a, " ")
			p, _ = a.Popup()
			Expect(p.Selected).To(Equal(2))
			Expect(p.Toggles).To(Equal([]bool{true, false, true}))

			press(a, tcell.KeyEnter)
			v, _, err := a.Form().FieldByPointer("/perms").CurrentValue()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal([]any{"r", "x"}))
		})

		It("commits an enum choice on Enter", func() {
			a := newApp(`{"type": "object", "properties": {"level": {"enum": ["debug", "info", "warn"]}}}`)
			press(a, tcell.KeyEnter)
			p, open := a.Popup()
			Expect(open).To(BeTrue())
			want := p.Options[(p.Selected+1)%len(p.Options)]

			press(a, tcell.KeyDown)
			Expect(func() { press(a, tcell.KeyEnter) }).NotTo(Panic())
			_, open = a.Popup()
			Expect(open).To(BeFalse())
			Expect(a.Status()).To(Equal("Value updated"))

			v, _, err := a.Form().FieldByPointer("/level").CurrentValue()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(want))
		})

		It("sets a boolean and dismisses with Esc", func() {
			a := newApp(`{"type": "object", "properties": {"flag": {"type": "boolean"}}}`)
			press(a, tcell.KeyEnter)
			p, _ := a.Popup()
			Expect(p.Options).To(Equal([]string{"true", "false"}))
			Expect(p.Selected).To(Equal(1))

			press(a, tcell.KeyUp)
			press(a, tcell.KeyEnter)
			on, _ := a.Form().FieldByPointer("/flag").BoolValue()
			Expect(on).To(BeTrue())

			press(a, tcell.KeyEnter)
			press(a, tcell.KeyEscape)
			_, open := a.Popup()
			Expect(open).To(BeFalse())
			Expect(a.Status()).To(HavePrefix("Ready."))
		})
	})

	Describe("overlays", func() {
		It("edits the active variant and writes it back on save", func() {
			a := newApp(serviceSchema)
			press(a, tcell.KeyEnter)
			press(a, tcell.KeyDown)
			press(a, tcell.KeyEnter)

			press(a, tcell.KeyCtrlE)
			ov, open := a.Overlay()
			Expect(open).To(BeTrue())
			Expect(ov.Level).To(Equal(1))
			Expect(ov.Title).To(Equal("Edit Service – unix"))
			Expect(a.Status()).To(HavePrefix("Overlay 1: L1 · "))
			Expect(a.HelpContext()).To(Equal(keymap.ContextOverlay))

			typeText(a, "/tmp/s")
			Expect(a.Status()).To(Equal("Editing Service › Path"))

			press(a, tcell.KeyCtrlS)
			Expect(a.OverlayDepth()).To(Equal(0))
			Expect(a.Status()).To(Equal("Overlay 1 saved."))
			Expect(a.Form().FieldByPointer("/service").Dirty()).To(BeTrue())

			press(a, tcell.KeyCtrlS)
			Expect(result(a)).To(Equal(`{"service":{"path":"/tmp/s"}}`))
		})

		It("asks before discarding a dirty overlay", func() {
			a := newApp(serviceSchema)
			press(a, tcell.KeyCtrlE)
			typeText(a, "80")

			press(a, tcell.KeyEscape)
			Expect(a.OverlayDepth()).To(Equal(1))
			Expect(a.Status()).To(Equal("Overlay dirty. Press Esc again to discard changes."))

			press(a, tcell.KeyEscape)
			Expect(a.OverlayDepth()).To(Equal(0))
			Expect(a.Form().FieldByPointer("/service").Dirty()).To(BeFalse())
		})

		It("closes a clean overlay at once", func() {
			a := newApp(serviceSchema)
			press(a, tcell.KeyCtrlE)
			press(a, tcell.KeyEscape)
			Expect(a.OverlayDepth()).To(Equal(0))
			Expect(a.Status()).To(HavePrefix("Ready."))
		})

		It("refuses fields without a nested editor", func() {
			a := newApp(nameSchema)
			press(a, tcell.KeyCtrlE)
			Expect(a.OverlayDepth()).To(Equal(0))
			Expect(a.Status()).To(Equal("Focus a composite or composite list field before editing"))
		})

		It("keeps a key/value overlay open on a duplicate key", func() {
			a := newApp(labelsSchema)
			labels := a.Form().FieldByPointer("/labels")
			labels.SeedValue(decoded(`{"alpha":"a","beta":"b"}`))
			Expect(a.HelpContext()).To(Equal(keymap.ContextCollection))

			pressMod(a, tcell.KeyRight, tcell.ModCtrl)
			Expect(a.Status()).To(HavePrefix("Selected entry beta"))

			press(a, tcell.KeyCtrlE)
			ov, _ := a.Overlay()
			keyField := ov.Form.FieldByPointer("/key")
			Expect(keyField.DisplayValue()).To(Equal("beta"))
			for range 4 {
				press(a, tcell.KeyBackspace2)
			}
			typeText(a, "alpha")

			press(a, tcell.KeyCtrlS)
			Expect(a.OverlayDepth()).To(Equal(1))
			Expect(a.Status()).To(Equal("duplicate key 'alpha'"))
			Expect(keyField.Error()).To(Equal("duplicate key 'alpha'"))

			v, _, err := labels.CurrentValue()
			Expect(err).NotTo(HaveOccurred())
			Expect(document.Stringify(v)).To(Equal(`{"alpha":"a","beta":"b"}`))
		})
	})

	Describe("list operations", func() {
		var a *app.App

		BeforeEach(func() {
			a = newApp(routesSchema)
			a.Form().SeedFromValue(decoded(`{"routes":[{"kind":"http"},{"kind":"unix"}]}`).(*document.Object))
		})

		It("reorders composite list entries", func() {
			routes := a.Form().FieldByPointer("/routes")
			Expect(routes.Dirty()).To(BeFalse())

			pressMod(a, tcell.KeyDown, tcell.ModCtrl)
			Expect(a.Status()).To(Equal("Moved entry to #2 Variant: http"))
			Expect(routes.Dirty()).To(BeTrue())

			panel, ok := routes.CollectionPanel()
			Expect(ok).To(BeTrue())
			Expect(panel.Entries).To(Equal([]string{"#1 Variant: unix", "#2 Variant: http"}))

			v, err := a.Form().TryBuildValue()
			Expect(err).NotTo(HaveOccurred())
			Expect(document.Stringify(v)).To(Equal(`{"routes":[{"kind":"unix"},{"kind":"http"}]}`))

			pressMod(a, tcell.KeyDown, tcell.ModCtrl)
			Expect(a.Status()).To(Equal("Cannot move entry further"))
		})

		It("commits and reopens the entry overlay around a selection", func() {
			pressMod(a, tcell.KeyRight, tcell.ModCtrl)
			press(a, tcell.KeyCtrlE)
			ov, open := a.Overlay()
			Expect(open).To(BeTrue())
			Expect(ov.Title).To(Equal("Edit Routes – #2 Variant: unix"))
			Expect(ov.Selected).To(Equal(1))
			Expect(ov.Instructions).To(ContainSubstring("Ctrl+N add"))

			pressMod(a, tcell.KeyLeft, tcell.ModCtrl)
			ov, open = a.Overlay()
			Expect(open).To(BeTrue())
			Expect(a.OverlayDepth()).To(Equal(1))
			Expect(ov.Selected).To(Equal(0))
			Expect(ov.Title).To(Equal("Edit Routes – #1 Variant: http"))
			Expect(a.Status()).To(Equal("Selected entry #1 Variant: http"))
		})

		It("adds and removes entries", func() {
			press(a, tcell.KeyCtrlN)
			Expect(a.Status()).To(HavePrefix("Added entry #3"))
			press(a, tcell.KeyCtrlD)
			Expect(a.Status()).To(HavePrefix("Removed entry • now at #2"))
			press(a, tcell.KeyCtrlD)
			press(a, tcell.KeyCtrlD)
			Expect(a.Status()).To(Equal("List is now empty"))
			press(a, tcell.KeyCtrlD)
			Expect(a.Status()).To(Equal("No entry to remove"))
		})

		It("needs a repeatable field", func() {
			b := newApp(nameSchema)
			press(b, tcell.KeyCtrlN)
			Expect(b.Status()).To(Equal("Focus a repeatable field before Ctrl+N add"))
			pressMod(b, tcell.KeyDown, tcell.ModCtrl)
			Expect(b.Status()).To(Equal("Focus a repeatable field before Ctrl+↑/↓ move"))
		})
	})

	Describe("help", func() {
		It("follows the focused context", func() {
			a := newApp(nameSchema)
			Expect(a.HelpContext()).To(Equal(keymap.ContextDefault))
			Expect(a.HelpText()).To(ContainSubstring("Ctrl+S -> Save"))

			quiet := newApp(nameSchema, func(o app.Options) app.Options { return o.WithHelp(false) })
			Expect(quiet.HelpText()).To(BeEmpty())
		})
	})
})
