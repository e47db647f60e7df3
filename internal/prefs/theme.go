// Package prefs resolves and persists user preferences. The only
// preference is the colour theme, stored under ThemeKey.
package prefs

import (
	"context"
	"net/http"
	"strings"

	"github.com/muesli/termenv"
)

// ThemeKey is the storage key of the theme preference.
const ThemeKey = "theme"

// HintHeader carries the browser's colour scheme client hint.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// Theme is the UI colour scheme.
type Theme int

// Themes.
const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// MarshalText encodes the theme by name.
func (t Theme) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// ParseTheme parses "light" or "dark", ignoring case and quotes.
func ParseTheme(s string) (Theme, bool) {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), `"`)) {
	case "light":
		return Light, true
	case "dark":
		return Dark, true
	}
	return Light, false
}

// Resolve picks the theme: a valid stored value wins, then a valid
// platform hint, then Light.
func Resolve(stored, hint string) Theme {
	if t, ok := ParseTheme(stored); ok {
		return t
	}
	if t, ok := ParseTheme(hint); ok {
		return t
	}
	return Light
}

// RequestHint returns the browser's preferred colour scheme, if sent.
func RequestHint(r *http.Request) string {
	return r.Header.Get(HintHeader)
}

// TerminalHint reports the terminal background as a theme name.
func TerminalHint() string {
	if termenv.HasDarkBackground() {
		return Dark.String()
	}
	return Light.String()
}

// Store persists preferences as strings.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// LoadTheme resolves the theme from store and hint. A store error is
// returned together with the theme resolved from the hint alone.
func LoadTheme(ctx context.Context, store Store, hint string) (Theme, error) {
	stored, _, err := store.Get(ctx, ThemeKey)
	if err != nil {
		return Resolve("", hint), err
	}
	return Resolve(stored, hint), nil
}

// SaveTheme stores t.
func SaveTheme(ctx context.Context, store Store, t Theme) error {
	return store.Set(ctx, ThemeKey, t.String())
}
