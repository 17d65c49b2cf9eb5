package tui

import (
	"github.com/Veraticus/lootlog/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme themes.Theme
	// Language is passed to the extractor in text mode.
	Language string
	Width    int
	Height   int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Language: "en",
		Width:    80,
		Height:   24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithLanguage sets the language hint sent with pasted text.
func WithLanguage(language string) Option {
	return func(c *Config) {
		if language != "" {
			c.Language = language
		}
	}
}
