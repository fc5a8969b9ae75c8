package config

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Config holds the settings for the CLI and watch daemon.
type Config struct {
	// Mode selects the transformation: indent, paren, or smart.
	Mode string `toml:"mode" yaml:"mode"`

	// CommentChars is the set of characters that begin a line
	// comment. Each entry must be a single character.
	CommentChars []string `toml:"comment_chars" yaml:"comment_chars"`

	// ForceBalance enables aggressive paren balancing.
	ForceBalance bool `toml:"force_balance" yaml:"force_balance"`

	// PartialResult reports partial transformations on error.
	PartialResult bool `toml:"partial_result" yaml:"partial_result"`

	// Watch configures the watch daemon.
	Watch WatchConfig `toml:"watch" yaml:"watch"`

	// TUI configures the live preview screen.
	TUI TUIConfig `toml:"tui" yaml:"tui"`
}

// WatchConfig configures the watch daemon.
type WatchConfig struct {
	// Extensions lists the file extensions to rewrite.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	// DebounceMS is the quiet period before a changed file is
	// rewritten, in milliseconds.
	DebounceMS int `toml:"debounce_ms" yaml:"debounce_ms"`
}

// TUIConfig configures the live preview screen.
type TUIConfig struct {
	// TabWidth is the number of columns a tab occupies.
	TabWidth int `toml:"tab_width" yaml:"tab_width"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Mode:         "smart",
		CommentChars: []string{";"},
		Watch: WatchConfig{
			Extensions: []string{".clj", ".cljs", ".cljc", ".edn", ".lisp", ".scm", ".rkt"},
			DebounceMS: 50,
		},
		TUI: TUIConfig{
			TabWidth: 2,
		},
	}
}

// Validate checks the configuration for values the transformation
// cannot accept.
func (c *Config) Validate() error {
	switch c.Mode {
	case "indent", "paren", "smart":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Mode)
	}
	for _, ch := range c.CommentChars {
		if utf8.RuneCountInString(ch) != 1 {
			return fmt.Errorf("%w: %q", ErrBadCommentChar, ch)
		}
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative: %d", c.Watch.DebounceMS)
	}
	return nil
}

// WatchDebounce returns the watch quiet period as a duration.
func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

// CommentRunes returns the comment chars as runes, for the core
// options struct.
func (c *Config) CommentRunes() []rune {
	runes := make([]rune, 0, len(c.CommentChars))
	for _, ch := range c.CommentChars {
		r, _ := utf8.DecodeRuneInString(ch)
		runes = append(runes, r)
	}
	return runes
}
