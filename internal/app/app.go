package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/qpad/internal/buffer"
	"github.com/kobzarvs/qpad/internal/config"
	"github.com/kobzarvs/qpad/internal/editor"
	"github.com/kobzarvs/qpad/internal/logger"
	"github.com/kobzarvs/qpad/internal/session"
)

// App is the top-level runtime for qpad.
type App struct {
	args     []string
	sessions *session.Manager
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		return err
	}
	if err := logger.Init(logPath, cfg.Log.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "qpad: logging disabled:", err)
	}
	defer func() { err = multierr.Append(err, logger.Close()) }()

	sm, smErr := session.NewManager()
	if smErr != nil {
		logger.Warn("session unavailable", "error", smErr)
	} else {
		a.sessions = sm
		defer func() { err = multierr.Append(err, sm.Stop()) }()
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	return a.serve(s, cfg)
}

// serve opens the file named on the command line, or the last active file
// when there is none, and runs the event loop on an initialised screen
// until the editor asks to quit.
func (a *App) serve(s tcell.Screen, cfg config.Config) error {
	ed := editor.New(cfg)
	var absPath, path string
	if len(a.args) > 0 {
		path = a.args[0]
	} else {
		path = a.lastActiveFile()
	}
	if path != "" {
		if err := ed.OpenFile(path); err != nil {
			logger.Warn("open failed", "path", path, "error", err)
		} else {
			absPath = absolute(path)
			a.restore(ed, absPath)
		}
	}
	logger.Info("editor started", "file", absPath)

	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				a.remember(ed, absPath)
				logger.Info("editor stopped", "dirty", ed.Document().IsDirty())
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		}
		// A save-as names the document after it was opened.
		if absPath == "" && ed.Document().FileName() != "" {
			absPath = absolute(ed.Document().FileName())
		}
		ed.Render(s)
	}
}

// lastActiveFile is the file open when qpad last quit, if it still exists.
func (a *App) lastActiveFile() string {
	if a.sessions == nil {
		return ""
	}
	path := a.sessions.ActiveFile()
	if path == "" {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

func (a *App) restore(ed *editor.Editor, absPath string) {
	if a.sessions == nil {
		return
	}
	if state, ok := a.sessions.FileState(absPath); ok {
		ed.SetCursor(buffer.Position{Col: state.CursorCol, Row: state.CursorRow})
		logger.Debug("restored cursor", "file", absPath, "row", state.CursorRow, "col", state.CursorCol)
	}
}

func (a *App) remember(ed *editor.Editor, absPath string) {
	if a.sessions == nil || absPath == "" {
		return
	}
	cur, off := ed.Cursor(), ed.Offset()
	a.sessions.SetFileState(absPath, session.FileState{
		CursorRow: cur.Row,
		CursorCol: cur.Col,
		ScrollY:   off.Row,
		ScrollX:   off.Col,
	})
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
