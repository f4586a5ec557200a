package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kobzarvs/qpad/internal/highlight"
)

type EditorOptions struct {
	QuitTimes      int `toml:"quit-times"`
	MessageTimeout int `toml:"message-timeout"` // seconds
	ScrollMargin   int `toml:"scroll-margin"`
}

type Theme struct {
	Theme                string `toml:"theme"`
	Foreground           string `toml:"foreground"`
	Background           string `toml:"background"`
	Number               string `toml:"number"`
	Match                string `toml:"match"`
	StatuslineForeground string `toml:"statusline-foreground"`
	StatuslineBackground string `toml:"statusline-background"`
}

type LogOptions struct {
	Debug bool   `toml:"debug"`
	File  string `toml:"file"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Log    LogOptions    `toml:"log"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			QuitTimes:      3,
			MessageTimeout: 5,
			ScrollMargin:   0,
		},
		Theme: Theme{
			Foreground:           "#FFFFFF",
			Background:           "default",
			Number:               "#DCA3A3",
			Match:                "#268BD2",
			StatuslineForeground: "#3F3F3F",
			StatuslineBackground: "#EFEFEF",
		},
	}
}

// MessageDuration is how long a status message stays visible.
func (c Config) MessageDuration() time.Duration {
	return time.Duration(c.Editor.MessageTimeout) * time.Second
}

// Palette converts the theme's highlight colors.
func (c Config) Palette() (highlight.Palette, error) {
	fg := c.Theme.Foreground
	if fg == "default" {
		fg = ""
	}
	return highlight.ParsePalette(fg, c.Theme.Number, c.Theme.Match)
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if userCfg.Editor.QuitTimes > 0 {
		cfg.Editor.QuitTimes = userCfg.Editor.QuitTimes
	}
	if userCfg.Editor.MessageTimeout > 0 {
		cfg.Editor.MessageTimeout = userCfg.Editor.MessageTimeout
	}
	if userCfg.Editor.ScrollMargin > 0 {
		cfg.Editor.ScrollMargin = userCfg.Editor.ScrollMargin
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	if userCfg.Log.Debug {
		cfg.Log.Debug = true
	}
	if userCfg.Log.File != "" {
		cfg.Log.File = userCfg.Log.File
	}

	return cfg, nil
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.Number != "" {
		dst.Number = src.Number
	}
	if src.Match != "" {
		dst.Match = src.Match
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QPAD_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qpad"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qpad"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LogPath resolves the log file: $QPAD_LOG_FILE, then [log] file, then
// qpad.log in the config directory.
func (c Config) LogPath() (string, error) {
	if v := os.Getenv("QPAD_LOG_FILE"); v != "" {
		return v, nil
	}
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "qpad.log"), nil
}
