package buffer

import (
	"strings"
	"unicode/utf8"

	"github.com/kobzarvs/qpad/internal/grapheme"
	"github.com/kobzarvs/qpad/internal/highlight"
)

// Row is one line of text addressed by grapheme cluster.
type Row struct {
	text  string
	count int
	tags  []highlight.Tag
}

// NewRow builds a row from a single line without its terminator.
func NewRow(text string) *Row {
	return &Row{text: text, count: grapheme.Count(text)}
}

func (r *Row) Len() int { return r.count }

func (r *Row) IsEmpty() bool { return r.count == 0 }

func (r *Row) String() string { return r.text }

// Tags returns a copy of the tags computed by the last Highlight call.
// Mutations discard them.
func (r *Row) Tags() []highlight.Tag {
	if len(r.tags) == 0 {
		return nil
	}
	out := make([]highlight.Tag, len(r.tags))
	copy(out, r.tags)
	return out
}

// Render returns graphemes [start, end) with DefaultPalette markers.
func (r *Row) Render(start, end int) string {
	return r.RenderWith(highlight.DefaultPalette, start, end)
}

// RenderWith returns graphemes [start, end), clamped to the row, with a
// marker wherever the tag changes and one reset marker at the end. Tabs
// render as a single space and other control characters as U+FFFD, so row
// text never reaches the terminal as an escape sequence.
func (r *Row) RenderWith(p highlight.Palette, start, end int) string {
	if end > r.count {
		end = r.count
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}

	var sb strings.Builder
	cur := highlight.None
	for i, c := range grapheme.Split(r.text) {
		if i >= end {
			break
		}
		if i < start {
			continue
		}
		tag := highlight.None
		if i < len(r.tags) {
			tag = r.tags[i]
		}
		if tag != cur {
			cur = tag
			sb.WriteString(p.Marker(tag))
		}
		switch {
		case c == "\t":
			sb.WriteByte(' ')
		case grapheme.IsControl(c):
			sb.WriteRune(utf8.RuneError)
		default:
			sb.WriteString(c)
		}
	}
	sb.WriteString(highlight.Reset)
	return sb.String()
}

// Insert places the grapheme ch before position at. An at past the end
// appends; a negative at is ignored.
func (r *Row) Insert(at int, ch string) {
	if at < 0 || ch == "" {
		return
	}
	if at >= r.count {
		r.setText(r.text + ch)
		return
	}
	off := grapheme.Offset(r.text, at)
	r.setText(r.text[:off] + ch + r.text[off:])
}

func (r *Row) InsertRune(at int, ch rune) {
	r.Insert(at, string(ch))
}

// Delete removes the grapheme at position at. Out of range is a no-op.
func (r *Row) Delete(at int) {
	if at < 0 || at >= r.count {
		return
	}
	from := grapheme.Offset(r.text, at)
	to := grapheme.Offset(r.text, at+1)
	r.setText(r.text[:from] + r.text[to:])
}

// Append concatenates other onto the end of r.
func (r *Row) Append(other *Row) {
	if other == nil || other.text == "" {
		return
	}
	r.setText(r.text + other.text)
}

// Split truncates r to [0, at) and returns a new row holding the rest.
func (r *Row) Split(at int) *Row {
	if at < 0 {
		at = 0
	}
	off := grapheme.Offset(r.text, at)
	rest := NewRow(r.text[off:])
	r.setText(r.text[:off])
	return rest
}

// Find searches for query within the row. Forward returns the first match
// starting at or after from; Backward returns the last match lying entirely
// before from.
func (r *Row) Find(query string, from int, dir Direction) (int, bool) {
	if from < 0 || from > r.count || query == "" {
		return 0, false
	}
	clusters := grapheme.Split(r.text)
	needle := grapheme.Split(query)

	idx := -1
	switch dir {
	case Forward:
		idx = grapheme.Index(clusters, needle, from)
	case Backward:
		idx = grapheme.LastIndex(clusters, needle, from)
	}
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// Highlight recomputes the row's tags. An empty word disables match tags.
func (r *Row) Highlight(word string) {
	r.tags = highlight.Classify(grapheme.Split(r.text), word)
}

func (r *Row) setText(text string) {
	r.text = text
	r.count = grapheme.Count(text)
	r.tags = nil
}
