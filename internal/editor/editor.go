package editor

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qpad/internal/buffer"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/highlight"
	"github.com/kobzarvs/qpad/internal/logger"
)

const helpMessage = "HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find"

type promptKind int

const (
	promptSave promptKind = iota
	promptSearch
)

type prompt struct {
	kind   promptKind
	label  string
	input  []rune
	origin buffer.Position // cursor before a search started
	dir    buffer.Direction
}

type statusMessage struct {
	text string
	at   time.Time
}

// Editor is the interactive shell around a single document. It owns the
// cursor and scroll position and turns key events into document calls.
type Editor struct {
	doc         *buffer.Document
	cursor      buffer.Position
	offset      buffer.Position
	width       int
	viewHeight  int
	margin      int
	quitTimes   int
	quitLeft    int
	status      statusMessage
	statusTTL   time.Duration
	prompt      *prompt
	searchWord  string
	palette     highlight.Palette
	styleMain   tcell.Style
	styleStatus tcell.Style
	now         func() time.Time
}

func New(cfg config.Config) *Editor {
	palette, err := cfg.Palette()
	if err != nil {
		logger.Warn("invalid theme colors, using defaults", "error", err)
		palette = highlight.DefaultPalette
	}
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorDefault)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	quitTimes := cfg.Editor.QuitTimes
	if quitTimes < 0 {
		quitTimes = 0
	}
	e := &Editor{
		doc:         buffer.NewDocument(),
		width:       80,
		viewHeight:  22,
		margin:      max(cfg.Editor.ScrollMargin, 0),
		quitTimes:   quitTimes,
		quitLeft:    quitTimes,
		statusTTL:   cfg.MessageDuration(),
		palette:     palette,
		styleMain:   tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus: tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		now:         time.Now,
	}
	e.setStatus(helpMessage)
	return e
}

// OpenFile loads path into the editor. On failure the editor keeps an
// empty document and reports the error in the message bar.
func (e *Editor) OpenFile(path string) error {
	doc, err := buffer.Open(path)
	if err != nil {
		e.setStatus("ERROR: could not open file: " + path)
		return err
	}
	e.SetDocument(doc)
	return nil
}

func (e *Editor) SetDocument(doc *buffer.Document) {
	e.doc = doc
	e.cursor = buffer.Position{}
	e.offset = buffer.Position{}
	e.searchWord = ""
	e.doc.Highlight("")
}

func (e *Editor) Document() *buffer.Document { return e.doc }

func (e *Editor) Cursor() buffer.Position { return e.cursor }

func (e *Editor) Offset() buffer.Position { return e.offset }

// SetCursor moves the cursor, clamping it to the document.
func (e *Editor) SetCursor(pos buffer.Position) {
	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row > e.doc.Len() {
		pos.Row = e.doc.Len()
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if w := e.rowLen(pos.Row); pos.Col > w {
		pos.Col = w
	}
	e.cursor = pos
	e.scroll()
}

func (e *Editor) StatusMessage() string { return e.status.text }

func (e *Editor) setStatus(msg string) {
	e.status = statusMessage{text: msg, at: e.now()}
}

// HandleKey processes one key event. It reports true when the editor
// should exit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.prompt != nil {
		e.handlePrompt(ev)
		return false
	}

	switch {
	case isCtrl(ev, 'q'):
		if e.doc.IsDirty() && e.quitLeft > 0 {
			e.setStatus(fmt.Sprintf("WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit.", e.quitLeft))
			e.quitLeft--
			return false
		}
		return true
	case isCtrl(ev, 's'):
		e.save()
	case isCtrl(ev, 'f'):
		e.startSearch()
	default:
		e.handleEdit(ev)
	}

	e.scroll()
	if e.quitLeft < e.quitTimes {
		e.quitLeft = e.quitTimes
		e.setStatus("")
	}
	return false
}

func (e *Editor) handleEdit(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return
		}
		e.insert(ev.Rune())
	case tcell.KeyTab:
		e.insert('\t')
	case tcell.KeyEnter:
		e.insert('\n')
	case tcell.KeyDelete:
		e.doc.Delete(e.cursor)
		e.refreshHighlight()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cursor.Col > 0 || e.cursor.Row > 0 {
			e.move(tcell.KeyLeft)
			e.doc.Delete(e.cursor)
			e.refreshHighlight()
		}
	case tcell.KeyUp, tcell.KeyDown, tcell.KeyLeft, tcell.KeyRight,
		tcell.KeyPgUp, tcell.KeyPgDn, tcell.KeyHome, tcell.KeyEnd:
		e.move(ev.Key())
	}
}

func (e *Editor) insert(r rune) {
	e.doc.Insert(e.cursor, r)
	e.move(tcell.KeyRight)
	e.refreshHighlight()
}

func (e *Editor) refreshHighlight() {
	e.doc.Highlight(e.searchWord)
}

func (e *Editor) rowLen(row int) int {
	if r, ok := e.doc.Row(row); ok {
		return r.Len()
	}
	return 0
}

func (e *Editor) move(key tcell.Key) {
	x, y := e.cursor.Col, e.cursor.Row
	height := e.doc.Len()
	width := e.rowLen(y)

	switch key {
	case tcell.KeyUp:
		if y > 0 {
			y--
		}
	case tcell.KeyDown:
		if y < height {
			y++
		}
	case tcell.KeyLeft:
		if x > 0 {
			x--
		} else if y > 0 {
			y--
			x = e.rowLen(y)
		}
	case tcell.KeyRight:
		if x < width {
			x++
		} else if y < height {
			y++
			x = 0
		}
	case tcell.KeyPgUp:
		if y > e.viewHeight {
			y -= e.viewHeight
		} else {
			y = 0
		}
	case tcell.KeyPgDn:
		if y+e.viewHeight < height {
			y += e.viewHeight
		} else {
			y = height
		}
	case tcell.KeyHome:
		x = 0
	case tcell.KeyEnd:
		x = width
	}

	if w := e.rowLen(y); x > w {
		x = w
	}
	e.cursor = buffer.Position{Col: x, Row: y}
}

func (e *Editor) scroll() {
	x, y := e.cursor.Col, e.cursor.Row
	m := e.margin
	if 2*m >= e.viewHeight {
		m = max((e.viewHeight-1)/2, 0)
	}
	if y < e.offset.Row+m {
		e.offset.Row = max(y-m, 0)
	} else if e.viewHeight > 0 && y >= e.offset.Row+e.viewHeight-m {
		e.offset.Row = y - e.viewHeight + m + 1
	}
	if x < e.offset.Col {
		e.offset.Col = x
	} else if e.width > 0 && x >= e.offset.Col+e.width {
		e.offset.Col = x - e.width + 1
	}
}

func (e *Editor) save() {
	if e.doc.FileName() == "" {
		e.prompt = &prompt{kind: promptSave, label: "Save as: "}
		return
	}
	e.writeDocument()
}

func (e *Editor) writeDocument() {
	if err := e.doc.Save(); err != nil {
		logger.Warn("save failed", "error", err)
		e.setStatus("ERROR: could not write file: " + err.Error())
		return
	}
	e.setStatus("File saved successfully.")
}

func (e *Editor) startSearch() {
	e.prompt = &prompt{
		kind:   promptSearch,
		label:  "Search (ESC to cancel, arrows to navigate): ",
		origin: e.cursor,
		dir:    buffer.Forward,
	}
}

func (e *Editor) handlePrompt(ev *tcell.EventKey) {
	p := e.prompt
	done, aborted := false, false
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(p.input) > 0 {
			p.input = p.input[:len(p.input)-1]
		}
	case tcell.KeyEnter:
		done = true
		aborted = len(p.input) == 0
	case tcell.KeyEscape:
		p.input = p.input[:0]
		done, aborted = true, true
	case tcell.KeyRune:
		if r := ev.Rune(); !unicode.IsControl(r) {
			p.input = append(p.input, r)
		}
	}

	if p.kind == promptSearch && !done {
		e.searchStep(ev.Key(), string(p.input))
	}
	if !done {
		return
	}

	e.prompt = nil
	e.setStatus("")
	switch p.kind {
	case promptSave:
		if aborted {
			e.setStatus("Save aborted.")
			return
		}
		e.doc.SetFileName(string(p.input))
		e.writeDocument()
	case promptSearch:
		if aborted {
			e.cursor = p.origin
		}
		e.searchWord = ""
		e.refreshHighlight()
		e.scroll()
	}
}

// searchStep moves the cursor to the next match of query after a prompt
// keystroke.
func (e *Editor) searchStep(key tcell.Key, query string) {
	p := e.prompt
	before := e.cursor
	switch key {
	case tcell.KeyRight, tcell.KeyDown:
		p.dir = buffer.Forward
		e.move(tcell.KeyRight)
	case tcell.KeyLeft, tcell.KeyUp:
		p.dir = buffer.Backward
	default:
		p.dir = buffer.Forward
	}

	if pos, ok := e.doc.Find(query, e.cursor, p.dir); ok {
		e.cursor = pos
		e.scroll()
	} else {
		e.cursor = before
	}
	logger.Debug("search step", "query", query, "dir", p.dir, "row", e.cursor.Row, "col", e.cursor.Col)
	e.searchWord = query
	e.refreshHighlight()
}

func isCtrl(ev *tcell.EventKey, letter rune) bool {
	if ev.Key() == tcell.KeyCtrlA+tcell.Key(letter-'a') {
		return true
	}
	return ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 && unicode.ToLower(ev.Rune()) == letter
}
