// Package render turns laid-out graph nodes and aligned diff rows into
// terminal text or structured documents.
package render

import (
	"log/slog"
	"strings"

	darkmode "github.com/thiagokokada/dark-mode-go"
)

type ThemePreference int

const (
	ThemeAuto ThemePreference = iota
	ThemeLight
	ThemeDark
)

func (p ThemePreference) String() string {
	switch p {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "auto"
	}
}

func ThemePreferenceFromString(raw string) ThemePreference {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ThemeDark.String():
		return ThemeDark
	case ThemeLight.String():
		return ThemeLight
	default:
		return ThemeAuto
	}
}

// Palette holds the colors used for one theme. Values are #rrggbb.
type Palette struct {
	Name string
	Dark bool

	Lanes []string

	DiffAdd     string
	DiffDel     string
	DiffAddWord string
	DiffDelWord string
	DiffHeader  string
	LineNumber  string
}

var (
	lightPalette = Palette{
		Name:        "light",
		Lanes:       []string{"#00cc00", "#cc0000", "#0055cc", "#aa00aa", "#555555", "#8b4513", "#ff8c00"},
		DiffAdd:     "#dff5de",
		DiffDel:     "#f9d6d5",
		DiffAddWord: "#a6e3a1",
		DiffDelWord: "#f2a7a5",
		DiffHeader:  "#0055cc",
		LineNumber:  "#888888",
	}
	darkPalette = Palette{
		Name:        "dark",
		Dark:        true,
		Lanes:       []string{"#00ff00", "#ff5c5c", "#4fa3ff", "#d56bff", "#a0a0a0", "#d09a6b", "#ffb347"},
		DiffAdd:     "#1f3d2b",
		DiffDel:     "#3d1f29",
		DiffAddWord: "#2e6b45",
		DiffDelWord: "#6b2e40",
		DiffHeader:  "#4fa3ff",
		LineNumber:  "#707070",
	}
	detectDarkMode = darkmode.IsDarkMode
)

// PaletteFor resolves a preference, asking the desktop for ThemeAuto.
// Detection failures fall back to the light palette.
func PaletteFor(pref ThemePreference) Palette {
	switch pref {
	case ThemeDark:
		return darkPalette
	case ThemeLight:
		return lightPalette
	default:
		if detectDarkMode != nil {
			dark, err := detectDarkMode()
			if err != nil {
				slog.Debug("detect dark-mode", slog.Any("error", err))
			} else if dark {
				return darkPalette
			}
		}
		return lightPalette
	}
}
