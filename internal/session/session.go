package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/qpad/internal/logger"
)

const autosaveInterval = 15 * time.Second

// FileState is the cursor and scroll position remembered for one file.
type FileState struct {
	CursorRow int `json:"cursor_row"`
	CursorCol int `json:"cursor_col"`
	ScrollY   int `json:"scroll_y"`
	ScrollX   int `json:"scroll_x"`
}

type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager handles session persistence
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewManager loads the session from the state directory and starts the
// autosave loop.
func NewManager() (*Manager, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	m := Open(path)
	go m.autosaveLoop(autosaveInterval)
	return m, nil
}

// Open loads the session stored at path without starting autosave. A
// missing or corrupt file yields an empty session.
func Open(path string) *Manager {
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	return m
}

// Path is $XDG_STATE_HOME/qpad/session.json, falling back to
// ~/.local/state.
func Path() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "qpad", "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("ignoring corrupt session file", "path", m.path, "error", err)
		return
	}
	if session.Files == nil {
		session.Files = make(map[string]FileState)
	}
	m.session = session
}

// Save persists the session to disk if it changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.dirty {
		return nil
	}

	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}

	m.dirty = false
	return nil
}

func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.session.Files[absPath]
	return state, ok
}

// SetFileState records state for absPath and marks it active.
func (m *Manager) SetFileState(absPath string, state FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = state
	m.session.ActiveFile = absPath
	m.dirty = true
}

func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session autosave failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends the autosave loop and writes any pending state.
func (m *Manager) Stop() error {
	m.stopOnce.Do(func() { close(m.stopChan) })
	return m.Save()
}
