// Package buffer implements the in-memory text store of the editor: rows
// addressed by grapheme cluster, grouped into a document that can be
// edited, searched, loaded and saved.
package buffer

import (
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/kobzarvs/qpad/internal/logger"
)

// Document is an ordered list of rows plus the file it was loaded from.
// It is not safe for concurrent use.
type Document struct {
	rows     []*Row
	fileName string
	dirty    bool
}

// NewDocument returns an empty, clean document with no file.
func NewDocument() *Document {
	return &Document{}
}

// Open reads path into a new document. A trailing line terminator does not
// produce an extra empty row; CRLF terminators are accepted.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("open failed", "path", path, "error", err)
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	doc := &Document{
		rows:     splitRows(string(data)),
		fileName: path,
	}
	logger.Info("document opened", "path", path, "rows", len(doc.rows), "bytes", len(data))
	return doc, nil
}

func splitRows(text string) []*Row {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	parts := strings.Split(text, "\n")
	rows := make([]*Row, len(parts))
	for i, p := range parts {
		rows[i] = NewRow(strings.TrimSuffix(p, "\r"))
	}
	return rows
}

// Row returns the row at index i.
func (d *Document) Row(i int) (*Row, bool) {
	if i < 0 || i >= len(d.rows) {
		return nil, false
	}
	return d.rows[i], true
}

func (d *Document) Len() int { return len(d.rows) }

func (d *Document) IsEmpty() bool { return len(d.rows) == 0 }

func (d *Document) IsDirty() bool { return d.dirty }

func (d *Document) FileName() string { return d.fileName }

// SetFileName associates the document with path for the next Save.
func (d *Document) SetFileName(path string) { d.fileName = path }

// Insert adds ch at pos. A newline splits the row. Inserting on the row
// one past the last appends a new row. Positions further out are ignored.
func (d *Document) Insert(pos Position, ch rune) {
	if pos.Row < 0 || pos.Row > len(d.rows) {
		return
	}
	if ch == '\n' {
		d.InsertNewline(pos)
		return
	}
	if pos.Row == len(d.rows) {
		row := NewRow("")
		row.InsertRune(0, ch)
		d.rows = append(d.rows, row)
		d.dirty = true
		return
	}
	row := d.rows[pos.Row]
	if pos.Col < 0 {
		return
	}
	row.InsertRune(pos.Col, ch)
	d.dirty = true
}

// InsertNewline splits the row at pos; the text after pos.Col becomes a
// new row directly below.
func (d *Document) InsertNewline(pos Position) {
	if pos.Row < 0 || pos.Row >= len(d.rows) {
		return
	}
	rest := d.rows[pos.Row].Split(pos.Col)
	d.rows = append(d.rows, nil)
	copy(d.rows[pos.Row+2:], d.rows[pos.Row+1:])
	d.rows[pos.Row+1] = rest
	d.dirty = true
}

// Delete removes the grapheme at pos. At the end of a row that has a
// successor, the next row is joined onto it.
func (d *Document) Delete(pos Position) {
	if pos.Row < 0 || pos.Row >= len(d.rows) || pos.Col < 0 {
		return
	}
	row := d.rows[pos.Row]
	if pos.Col == row.Len() && pos.Row+1 < len(d.rows) {
		row.Append(d.rows[pos.Row+1])
		d.rows = append(d.rows[:pos.Row+1], d.rows[pos.Row+2:]...)
		d.dirty = true
		return
	}
	if pos.Col >= row.Len() {
		return
	}
	row.Delete(pos.Col)
	d.dirty = true
}

// Content returns exactly the bytes Save would write.
func (d *Document) Content() string {
	var sb strings.Builder
	for _, row := range d.rows {
		sb.WriteString(row.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Save writes every row followed by a newline to the document's file. The
// dirty flag is cleared only when the whole write succeeds.
func (d *Document) Save() error {
	if d.fileName == "" {
		return &IOError{Op: "save", Err: ErrNoFileName}
	}
	f, err := os.Create(d.fileName)
	if err != nil {
		logger.Warn("save failed", "path", d.fileName, "error", err)
		return &IOError{Op: "save", Path: d.fileName, Err: err}
	}

	_, err = f.WriteString(d.Content())
	err = multierr.Append(err, f.Close())
	if err != nil {
		logger.Warn("save failed", "path", d.fileName, "error", err)
		return &IOError{Op: "save", Path: d.fileName, Err: err}
	}

	d.dirty = false
	logger.Info("document saved", "path", d.fileName, "rows", len(d.rows))
	return nil
}

// Find searches from the given position, first within the starting row
// and then row by row in the given direction.
func (d *Document) Find(query string, from Position, dir Direction) (Position, bool) {
	if from.Row < 0 || from.Row >= len(d.rows) {
		return Position{}, false
	}
	pos := from
	for {
		if col, ok := d.rows[pos.Row].Find(query, pos.Col, dir); ok {
			return Position{Col: col, Row: pos.Row}, true
		}
		switch dir {
		case Forward:
			if pos.Row+1 >= len(d.rows) {
				return Position{}, false
			}
			pos = Position{Col: 0, Row: pos.Row + 1}
		case Backward:
			if pos.Row == 0 {
				return Position{}, false
			}
			pos.Row--
			pos.Col = d.rows[pos.Row].Len()
		default:
			return Position{}, false
		}
	}
}

// Highlight reclassifies every row against word.
func (d *Document) Highlight(word string) {
	for _, row := range d.rows {
		row.Highlight(word)
	}
}
