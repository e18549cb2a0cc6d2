package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"

	"github.com/reoring/schemaui/form"
)

var (
	styleBase     = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleFocus    = tcell.StyleDefault.Reverse(true)
	styleSection  = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorTeal)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleBadgeErr = tcell.StyleDefault.Background(tcell.ColorRed).Foreground(tcell.ColorWhite)
)

// put draws text clipped to width columns and returns the next column.
func put(s tcell.Screen, x, y, width int, text string, style tcell.Style) int {
	if width <= 0 {
		return x
	}
	text = runewidth.Truncate(text, width, "…")
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

func fill(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

func box(s tcell.Screen, x, y, w, h int, title string) {
	if w < 2 || h < 2 {
		return
	}
	fill(s, x, y, w, h, styleBase)
	for col := x + 1; col < x+w-1; col++ {
		s.SetContent(col, y, tcell.RuneHLine, nil, styleBase)
		s.SetContent(col, y+h-1, tcell.RuneHLine, nil, styleBase)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.SetContent(x, row, tcell.RuneVLine, nil, styleBase)
		s.SetContent(x+w-1, row, tcell.RuneVLine, nil, styleBase)
	}
	s.SetContent(x, y, tcell.RuneULCorner, nil, styleBase)
	s.SetContent(x+w-1, y, tcell.RuneURCorner, nil, styleBase)
	s.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, styleBase)
	s.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, styleBase)
	if title != "" {
		put(s, x+2, y, w-4, " "+title+" ", styleTitle)
	}
}

// Draw renders one frame. It reads state only.
func (a *App) Draw(s tcell.Screen) {
	s.Clear()
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	top := a.drawHeader(s, w)
	footer := 2
	drawForm(s, a.form, 0, top, w, h-top-footer)
	if o := a.top(); o != nil {
		a.drawOverlay(s, o, w, h-footer)
	}
	if a.popup != nil {
		a.drawPopup(s, w, h-footer)
	}
	a.drawFooter(s, w, h)
}

func (a *App) drawHeader(s tcell.Screen, w int) int {
	title := a.form.Title
	if title == "" {
		title = "schemaui"
	}
	put(s, 1, 0, w-2, title, styleTitle)
	x := 1
	focused, _, _ := a.form.Focus()
	for i, r := range a.form.Roots() {
		style := styleDim
		if i == focused {
			style = styleFocus
		}
		x = put(s, x, 1, w-x, " "+r.Title+" ", style) + 1
	}
	return 3
}

type line struct {
	text  string
	style tcell.Style
	focus bool
}

// formLines lays out the focused root of st.
func formLines(st *form.FormState) []line {
	root := st.FocusedRoot()
	if root == nil {
		return []line{{text: "No editable fields", style: styleDim}}
	}
	_, fsec, ffield := st.Focus()
	var out []line
	if root.Description != "" {
		out = append(out, line{text: root.Description, style: styleDim})
	}
	for si, sec := range root.Sections {
		indent := strings.Repeat("  ", sec.Depth)
		if sec.Title != "" {
			out = append(out, line{text: indent + sec.Title, style: styleSection})
		}
		for fi, f := range sec.Fields {
			focus := si == fsec && fi == ffield
			marker := "  "
			if focus {
				marker = "› "
			}
			dirty := lo.Ternary(f.Dirty(), "*", "")
			text := fmt.Sprintf("%s%s%s%s: %s", indent, marker, f.Label(), dirty, f.DisplayValue())
			out = append(out, line{text: text, style: lo.Ternary(focus, styleFocus, styleBase), focus: focus})
			if err := f.Error(); err != "" {
				out = append(out, line{text: indent + "    ! " + err, style: styleError})
			}
		}
	}
	return out
}

func drawForm(s tcell.Screen, st *form.FormState, x, y, w, h int) {
	if h <= 0 {
		return
	}
	lines := formLines(st)
	at := lo.IndexOf(lo.Map(lines, func(l line, _ int) bool { return l.focus }), true)
	offset := 0
	if at >= h {
		offset = at - h + 1
	}
	for i, l := range lines[offset:] {
		if i >= h {
			break
		}
		put(s, x+1, y+i, w-2, l.text, l.style)
	}
}

func (a *App) drawOverlay(s tcell.Screen, o *overlay, w, h int) {
	inset := min(o.level, 3)
	x, y := 2*inset, inset+1
	bw, bh := w-4*inset, h-y-1
	if bw < 10 || bh < 4 {
		return
	}
	box(s, x, y, bw, bh, o.title)
	row := y + 1
	if o.description != "" {
		put(s, x+2, row, bw-4, o.description, styleDim)
		row++
	}
	if o.instructions != "" {
		put(s, x+2, row, bw-4, o.instructions, styleDim)
		row++
	}
	if len(o.entries) > 0 {
		col := x + 2
		for i, e := range o.entries {
			style := lo.Ternary(i == o.selected, styleFocus, styleBase)
			col = put(s, col, row, x+bw-2-col, " "+e+" ", style) + 1
		}
		row++
	}
	drawForm(s, o.session.Form, x+1, row+1, bw-2, y+bh-row-2)
}

func (a *App) drawPopup(s tcell.Screen, w, h int) {
	p := a.popup
	labels := lo.Map(p.options, func(opt string, i int) string {
		if p.multi {
			return lo.Ternary(i < len(p.toggles) && p.toggles[i], "[x] ", "[ ] ") + opt
		}
		return opt
	})
	inner := runewidth.StringWidth(p.title) + 2
	for _, l := range labels {
		inner = max(inner, runewidth.StringWidth(l)+4)
	}
	bw := min(inner+4, w-2)
	bh := min(len(labels)+2, h-2)
	if bw < 6 || bh < 3 {
		return
	}
	x, y := (w-bw)/2, (h-bh)/2
	box(s, x, y, bw, bh, p.title)
	first := 0
	if p.selected >= bh-2 {
		first = p.selected - (bh - 3)
	}
	for i := first; i < len(labels) && i-first < bh-2; i++ {
		marker := lo.Ternary(i == p.selected, "› ", "  ")
		style := lo.Ternary(i == p.selected, styleFocus, styleBase)
		put(s, x+1, y+1+i-first, bw-2, marker+labels[i], style)
	}
}

func (a *App) drawFooter(s tcell.Screen, w, h int) {
	statusRow, helpRow := h-2, h-1
	if statusRow < 0 {
		return
	}
	fill(s, 0, statusRow, w, 1, styleStatus)
	badges := ""
	if a.dirty() {
		badges += " ● modified"
	}
	right := w
	if a.validationErrors > 0 {
		badge := fmt.Sprintf(" %d error(s) ", a.validationErrors)
		right = w - runewidth.StringWidth(badge)
		put(s, right, statusRow, w-right, badge, styleBadgeErr)
	}
	put(s, 1, statusRow, right-2, a.status.String()+badges, styleStatus)

	if len(a.globalErrors) > 0 {
		put(s, 1, helpRow, w-2, a.globalErrors[0], styleError)
		return
	}
	put(s, 1, helpRow, w-2, a.HelpText(), styleDim)
}

func (a *App) dirty() bool {
	if a.form.IsDirty() {
		return true
	}
	return lo.SomeBy(a.overlays, func(o *overlay) bool { return o.session.Form.IsDirty() })
}
