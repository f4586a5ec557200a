package highlight

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

// Reset restores the default foreground.
const Reset = "\x1b[39m"

// Palette assigns a foreground color to every tag.
type Palette struct {
	Default colorful.Color
	Number  colorful.Color
	Match   colorful.Color
}

var DefaultPalette = Palette{
	Default: rgb(255, 255, 255),
	Number:  rgb(220, 163, 163),
	Match:   rgb(38, 139, 210),
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// ParsePalette builds a palette from "#rrggbb" strings. Empty strings keep
// the DefaultPalette color.
func ParsePalette(defaultHex, numberHex, matchHex string) (Palette, error) {
	p := DefaultPalette
	for _, f := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"default", defaultHex, &p.Default},
		{"number", numberHex, &p.Number},
		{"match", matchHex, &p.Match},
	} {
		hex := strings.TrimSpace(f.hex)
		if hex == "" {
			continue
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return DefaultPalette, fmt.Errorf("highlight: %s color %q: %w", f.name, hex, err)
		}
		*f.dst = c
	}
	return p, nil
}

// Color returns the color for t. ok is false only for a tag outside the
// closed set.
func (p Palette) Color(t Tag) (c colorful.Color, ok bool) {
	switch t {
	case None:
		return p.Default, true
	case Number:
		return p.Number, true
	case Match:
		return p.Match, true
	}
	return colorful.Color{}, false
}

// Marker returns the escape sequence that switches the foreground to t's
// color. An invalid tag yields Reset.
func (p Palette) Marker(t Tag) string {
	c, ok := p.Color(t)
	if !ok {
		return Reset
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", r, g, b)
}

// Span is a run of text sharing one foreground.
type Span struct {
	Text string
	// Styled is false for text drawn in the renderer's own default color.
	Styled bool
	Color  colorful.Color
}

// DecodeMarkup splits markup produced by Palette markers back into spans.
// SGR sequences other than truecolor foreground and reset are ignored; any
// other escape or control sequence is dropped.
func DecodeMarkup(markup string) []Span {
	var spans []Span
	cur := Span{}
	var sb strings.Builder
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		cur.Text = sb.String()
		spans = append(spans, cur)
		sb.Reset()
	}

	p := ansi.NewParser()
	var state byte
	for len(markup) > 0 {
		seq, _, n, newState := ansi.DecodeSequence(markup, state, p)
		state = newState
		markup = markup[n:]

		switch {
		case seq == "":
		case ansi.HasCsiPrefix(seq):
			if ansi.Cmd(p.Command()).Final() != 'm' {
				continue
			}
			next, ok := sgrSpan(p.Params())
			if !ok {
				continue
			}
			flush()
			cur = next
		case seq[0] == ansi.ESC, len(seq) == 1 && (seq[0] < 0x20 || seq[0] == 0x7f):
		default:
			sb.WriteString(seq)
		}
	}
	flush()
	return spans
}

// sgrSpan maps the parameters of one SGR sequence onto the span state it
// selects.
func sgrSpan(params ansi.Params) (Span, bool) {
	if len(params) == 0 {
		return Span{}, true
	}
	switch params[0].Param(0) {
	case 0, 39:
		return Span{}, true
	case 38:
		if len(params) < 5 || params[1].Param(0) != 2 {
			return Span{}, false
		}
		var v [3]uint8
		for i := range v {
			n := params[2+i].Param(0)
			if n < 0 || n > 255 {
				return Span{}, false
			}
			v[i] = uint8(n)
		}
		return Span{Styled: true, Color: rgb(v[0], v[1], v[2])}, true
	}
	return Span{}, false
}
