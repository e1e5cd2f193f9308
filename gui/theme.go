//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// darkTheme keeps the form readable for CJK text: a larger body size and
// an accent that matches the tray icon.
type darkTheme struct{}

var (
	background = color.RGBA{18, 18, 18, 255}
	foreground = color.RGBA{220, 220, 220, 255}
	accent     = color.RGBA{255, 150, 40, 255}
)

func (d *darkTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return background
	case theme.ColorNameForeground:
		return foreground
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accent
	case theme.ColorNameInputBackground:
		return color.RGBA{30, 30, 30, 255}
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText {
		return 15
	}
	return theme.DefaultTheme().Size(name)
}
