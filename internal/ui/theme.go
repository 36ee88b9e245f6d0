// Package ui provides the BoxStack desktop application.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names stored in AppConfig.Theme.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// ThemeNames lists the choices offered in preferences.
var ThemeNames = []string{ThemeSystem, ThemeLight, ThemeDark}

// accent is used for primary buttons and focus rings.
var accent = color.NRGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}

// BoxStackTheme is the default Fyne theme with compact sizing, a blue
// accent, and an optional forced light or dark variant.
type BoxStackTheme struct {
	base  fyne.Theme
	force *fyne.ThemeVariant
}

// NewBoxStackTheme returns the theme for a configured theme name. Unknown
// names follow the system variant.
func NewBoxStackTheme(name string) *BoxStackTheme {
	t := &BoxStackTheme{base: theme.DefaultTheme()}
	t.SetThemeName(name)
	return t
}

func (t *BoxStackTheme) SetThemeName(name string) {
	var v fyne.ThemeVariant
	switch name {
	case ThemeLight:
		v = theme.VariantLight
	case ThemeDark:
		v = theme.VariantDark
	default:
		t.force = nil
		return
	}
	t.force = &v
}

func (t *BoxStackTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.force != nil {
		variant = *t.force
	}
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accent
	}
	return t.base.Color(name, variant)
}

func (t *BoxStackTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *BoxStackTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size tightens text and padding for the dense part tables.
func (t *BoxStackTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
