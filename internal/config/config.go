package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/hxwen/tomato/internal/pomodoro"
)

// Config holds all configurable tomato settings. Durations are in seconds;
// a zero value means "unset" and falls back through the merge chain.
type Config struct {
	FocusSeconds        int64  `json:"focus_seconds"`
	ShortBreakSeconds   int64  `json:"short_break_seconds"`
	LongBreakSeconds    int64  `json:"long_break_seconds"`
	PomodorosBeforeLong int    `json:"pomodoros_before_long"`
	DefaultTask         string `json:"default_task"`
}

// Defaults returns the classic pomodoro durations.
func Defaults() Config {
	return Config{
		FocusSeconds:        25 * 60,
		ShortBreakSeconds:   5 * 60,
		LongBreakSeconds:    15 * 60,
		PomodorosBeforeLong: 4,
	}
}

// Timer converts the settings into the engine's configuration.
func (c Config) Timer() pomodoro.Config {
	return pomodoro.Config{
		FocusSeconds:        c.FocusSeconds,
		ShortBreakSeconds:   c.ShortBreakSeconds,
		LongBreakSeconds:    c.LongBreakSeconds,
		PomodorosBeforeLong: c.PomodorosBeforeLong,
	}
}

// GlobalPath returns the location of the global config file,
// ~/.config/tomato/config.json.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tomato", "config.json"), nil
}

// LoadGlobal reads ~/.config/tomato/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	path, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	return loadFile(path, true)
}

// LoadProject reads .tomatoconfig in the current working directory, letting
// a project pin its own durations or default task label.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".tomatoconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	apply := func(c *Config) {
		if c == nil {
			return
		}
		if c.FocusSeconds > 0 {
			result.FocusSeconds = c.FocusSeconds
		}
		if c.ShortBreakSeconds > 0 {
			result.ShortBreakSeconds = c.ShortBreakSeconds
		}
		if c.LongBreakSeconds > 0 {
			result.LongBreakSeconds = c.LongBreakSeconds
		}
		if c.PomodorosBeforeLong > 0 {
			result.PomodorosBeforeLong = c.PomodorosBeforeLong
		}
		if c.DefaultTask != "" {
			result.DefaultTask = c.DefaultTask
		}
	}

	// Apply global values over defaults, then project values over global.
	apply(global)
	apply(project)

	return result
}

// Save writes cfg as JSON to the global config path, creating the config
// directory if needed.
func Save(cfg Config) error {
	path, err := GlobalPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
