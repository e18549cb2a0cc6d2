package app_test

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/reoring/schemaui/app"
	"github.com/reoring/schemaui/document"
)

func simScreen() tcell.SimulationScreen {
	GinkgoHelper()
	s := tcell.NewSimulationScreen("UTF-8")
	Expect(s.Init()).To(Succeed())
	s.SetSize(80, 20)
	return s
}

func screenText(s tcell.SimulationScreen) string {
	cells, w, h := s.GetContents()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				b.WriteRune(c.Runes[0])
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var _ = Describe("Run", func() {
	It("returns the saved document and emits it", func(ctx SpecContext) {
		screen := simScreen()
		for _, r := range "svc" {
			screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
		}
		screen.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
		screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

		var out bytes.Buffer
		opts := document.DefaultOutputOptions()
		opts.Stdout = &out

		u, err := app.FromSchemaBytes([]byte(nameSchema), document.FormatJSON)
		Expect(err).NotTo(HaveOccurred())
		v, err := u.WithOptions(app.DefaultOptions().WithScreen(screen).WithTickRate(10 * time.Millisecond)).
			WithOutput(opts).
			Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(document.Stringify(v)).To(Equal(`{"name":"svc"}`))
		Expect(out.String()).To(Equal("{\n  \"name\": \"svc\"\n}\n"))
	}, SpecTimeout(5*time.Second))

	It("reports abandonment", func(ctx SpecContext) {
		screen := simScreen()
		screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
		screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
		screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)

		a := newApp(nameSchema, func(o app.Options) app.Options { return o.WithScreen(screen) })
		_, err := a.Run(ctx)
		Expect(err).To(MatchError(app.ErrAbandoned))
	}, SpecTimeout(5*time.Second))

	It("stops when the context ends", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a := newApp(nameSchema, func(o app.Options) app.Options { return o.WithScreen(simScreen()) })
		_, err := a.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Draw", func() {
	It("renders fields, status and help", func() {
		screen := simScreen()
		a := newApp(nameSchema)
		typeText(a, "svc")
		a.Draw(screen)
		screen.Show()

		text := screenText(screen)
		Expect(text).To(ContainSubstring("› Name*: svc"))
		Expect(text).To(ContainSubstring("Editing Name ● modified"))
		Expect(text).To(ContainSubstring("Ctrl+S -> Save"))
	})

	It("renders the popup and the overlay", func() {
		screen := simScreen()
		a := newApp(serviceSchema)
		press(a, tcell.KeyEnter)
		a.Draw(screen)
		screen.Show()
		Expect(screenText(screen)).To(ContainSubstring("› http"))

		press(a, tcell.KeyEscape)
		press(a, tcell.KeyCtrlE)
		a.Draw(screen)
		screen.Show()
		Expect(screenText(screen)).To(ContainSubstring("Edit Service – http"))
	})

	It("shows the error badge", func() {
		screen := simScreen()
		a := newApp(`{"type": "object", "required": ["port"], "properties": {"port": {"type": "integer"}}}`)
		typeText(a, "x")
		press(a, tcell.KeyCtrlS)
		a.Draw(screen)
		screen.Show()
		text := screenText(screen)
		Expect(text).To(ContainSubstring("1 error(s)"))
		Expect(text).To(ContainSubstring("! expected integer"))
	})
})
