package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kobzarvs/qpad/internal/highlight"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QPAD_CONFIG_HOME", "/tmp/qpad-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qpad-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qpad-config")
	}

	t.Setenv("QPAD_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qpad" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qpad")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("QPAD_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
	if cfg.MessageDuration() != 5*time.Second {
		t.Fatalf("MessageDuration = %v, want 5s", cfg.MessageDuration())
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
number = "#222222"
statusline-foreground = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
quit-times = 1
message-timeout = 9

[theme]
theme = "test"
match = "#123456"

[log]
debug = true
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.QuitTimes != 1 {
		t.Fatalf("QuitTimes = %d, want 1", cfg.Editor.QuitTimes)
	}
	if cfg.Editor.MessageTimeout != 9 {
		t.Fatalf("MessageTimeout = %d, want 9", cfg.Editor.MessageTimeout)
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.Number != "#222222" {
		t.Fatalf("Number = %q, want %q", cfg.Theme.Number, "#222222")
	}
	if cfg.Theme.Match != "#123456" {
		t.Fatalf("Match = %q, want %q", cfg.Theme.Match, "#123456")
	}
	if cfg.Theme.StatuslineBackground != Default().Theme.StatuslineBackground {
		t.Fatalf("StatuslineBackground = %q, want default", cfg.Theme.StatuslineBackground)
	}
	if !cfg.Log.Debug {
		t.Fatalf("Log.Debug = false, want true")
	}

	p, err := cfg.Palette()
	if err != nil {
		t.Fatalf("Palette error: %v", err)
	}
	if r, g, b := p.Match.RGB255(); r != 0x12 || g != 0x34 || b != 0x56 {
		t.Fatalf("Match color = %d,%d,%d", r, g, b)
	}
}

func TestLoadInvalidToml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[editor\nquit-times = ")
	if _, err := Load(); err == nil {
		t.Fatalf("Load error = nil, want parse error")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
number = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Number != "#bbbbbb" {
		t.Fatalf("Number = %q, want %q", theme.Number, "#bbbbbb")
	}
}

func TestDefaultPaletteMatchesHighlightDefaults(t *testing.T) {
	p, err := Default().Palette()
	if err != nil {
		t.Fatalf("Palette error: %v", err)
	}
	if p.Number.Hex() != highlight.DefaultPalette.Number.Hex() {
		t.Fatalf("Number = %s, want %s", p.Number.Hex(), highlight.DefaultPalette.Number.Hex())
	}
	if p.Match.Hex() != highlight.DefaultPalette.Match.Hex() {
		t.Fatalf("Match = %s, want %s", p.Match.Hex(), highlight.DefaultPalette.Match.Hex())
	}
}

func TestLogPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QPAD_CONFIG_HOME", dir)
	t.Setenv("QPAD_LOG_FILE", "")

	cfg := Default()
	path, err := cfg.LogPath()
	if err != nil {
		t.Fatalf("LogPath error: %v", err)
	}
	if path != filepath.Join(dir, "qpad.log") {
		t.Fatalf("LogPath = %q", path)
	}

	cfg.Log.File = "/var/tmp/q.log"
	if path, _ = cfg.LogPath(); path != "/var/tmp/q.log" {
		t.Fatalf("LogPath = %q, want config file", path)
	}

	t.Setenv("QPAD_LOG_FILE", "/tmp/env.log")
	if path, _ = cfg.LogPath(); path != "/tmp/env.log" {
		t.Fatalf("LogPath = %q, want env file", path)
	}
}
