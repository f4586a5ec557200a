package editor

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/kobzarvs/qpad/internal/grapheme"
	"github.com/kobzarvs/qpad/internal/highlight"
)

// Version is shown in the welcome line of an empty buffer.
var Version = "0.1.0"

const maxStatusName = 20

// Render draws the visible rows, the status bar and the message bar. The
// bottom two lines of the screen are reserved for the bars.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	e.width = w
	e.viewHeight = h - 2
	if e.viewHeight < 0 {
		e.viewHeight = 0
	}
	e.scroll()

	s.SetStyle(e.styleMain)
	s.Clear()
	e.drawRows(s)
	e.drawStatusBar(s, e.viewHeight)
	e.drawMessageBar(s, e.viewHeight+1)

	if e.prompt != nil {
		col := runewidth.StringWidth(e.prompt.label + string(e.prompt.input))
		if col >= w {
			col = w - 1
		}
		s.ShowCursor(col, h-1)
	} else {
		s.ShowCursor(e.cursorScreenX(), e.cursor.Row-e.offset.Row)
	}
	s.Show()
}

func (e *Editor) drawRows(s tcell.Screen) {
	for y := 0; y < e.viewHeight; y++ {
		row, ok := e.doc.Row(y + e.offset.Row)
		if ok {
			markup := row.RenderWith(e.palette, e.offset.Col, e.offset.Col+e.width)
			e.drawMarkup(s, y, markup)
			continue
		}
		if e.doc.IsEmpty() && y == e.viewHeight/3 {
			e.drawWelcome(s, y)
			continue
		}
		s.SetContent(0, y, '~', nil, e.styleMain)
	}
}

func (e *Editor) drawMarkup(s tcell.Screen, y int, markup string) {
	x := 0
	for _, span := range highlight.DecodeMarkup(markup) {
		style := e.styleMain
		if span.Styled {
			style = style.Foreground(tcellColor(span.Color))
		}
		g := uniseg.NewGraphemes(span.Text)
		for g.Next() {
			if x >= e.width {
				return
			}
			runes := g.Runes()
			s.SetContent(x, y, runes[0], runes[1:], style)
			x += clusterWidth(g.Str())
		}
	}
}

func (e *Editor) drawWelcome(s tcell.Screen, y int) {
	msg := fmt.Sprintf("qpad editor -- version %s", Version)
	if len(msg) > e.width {
		msg = msg[:e.width]
	}
	padding := (e.width - len(msg)) / 2
	line := "~" + strings.Repeat(" ", max(padding-1, 0)) + msg
	drawText(s, 0, y, e.width, line, e.styleMain)
}

func (e *Editor) drawStatusBar(s tcell.Screen, y int) {
	name := "[No Name]"
	if fn := e.doc.FileName(); fn != "" {
		name = grapheme.Slice(fn, 0, maxStatusName)
	}
	modified := ""
	if e.doc.IsDirty() {
		modified = " (modified)"
	}
	left := fmt.Sprintf("%s - %d lines%s", name, e.doc.Len(), modified)
	right := fmt.Sprintf("%d/%d", e.cursor.Row+1, e.doc.Len())
	line := composeStatusLine(left, right, e.width)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func (e *Editor) drawMessageBar(s tcell.Screen, y int) {
	if e.prompt != nil {
		drawText(s, 0, y, e.width, e.prompt.label+string(e.prompt.input), e.styleMain)
		return
	}
	if e.status.text == "" || e.now().Sub(e.status.at) >= e.statusTTL {
		return
	}
	drawText(s, 0, y, e.width, e.status.text, e.styleMain)
}

// cursorScreenX converts the cursor's grapheme column into a cell column
// relative to the horizontal scroll offset.
func (e *Editor) cursorScreenX() int {
	row, ok := e.doc.Row(e.cursor.Row)
	if !ok {
		return 0
	}
	x := 0
	text := grapheme.Slice(row.String(), e.offset.Col, e.cursor.Col)
	for _, cluster := range grapheme.Split(text) {
		x += clusterWidth(cluster)
	}
	return x
}

func clusterWidth(cluster string) int {
	if cluster == "\t" {
		return 1
	}
	if w := runewidth.StringWidth(cluster); w > 0 {
		return w
	}
	return 1
}

func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if x >= width {
			return
		}
		runes := g.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += clusterWidth(g.Str())
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") {
		c, err := colorful.Hex(name)
		if err != nil {
			return fallback
		}
		return tcellColor(c)
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
