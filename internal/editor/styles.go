package editor

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	LightForeground = lipgloss.Color("#101F38")
	LightAccent     = lipgloss.Color("#3E7C17")
	LightMuted      = lipgloss.Color("#6B7380")

	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkAccent     = lipgloss.Color("#8BC34A")
	DarkMuted      = lipgloss.Color("#8A94A6")

	Destructive = lipgloss.Color("#e53935")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{Foreground: LightForeground, Accent: LightAccent, Muted: LightMuted}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{Foreground: DarkForeground, Accent: DarkAccent, Muted: DarkMuted, IsDark: true}
}

// DetectTheme picks a theme from COLORFGBG or SPRINKLE_DARK_MODE, defaulting to dark
// since most terminals run dark backgrounds.
func DetectTheme() Theme {
	if os.Getenv("SPRINKLE_DARK_MODE") == "0" {
		return LightTheme()
	}
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && bg >= 7 && bg != 8 {
			return LightTheme()
		}
	}
	return DarkTheme()
}

// Styles holds the styled components of the editor view.
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Help   lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),
	}
}

// DefaultStyles returns styles for the detected terminal theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
