//go:build gui

package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// formEntry is a multi-line entry that submits on Cmd/Ctrl+Enter. The
// focused entry swallows shortcuts, so the canvas never sees this one.
type formEntry struct {
	widget.Entry
	onSubmit func()
}

func newFormEntry(onSubmit func()) *formEntry {
	e := &formEntry{onSubmit: onSubmit}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapWord
	e.ExtendBaseWidget(e)
	return e
}

func (e *formEntry) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok && isSubmit(cs) {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(s)
}

func isSubmit(cs *desktop.CustomShortcut) bool {
	if cs.Modifier != fyne.KeyModifierShortcutDefault {
		return false
	}
	return cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter
}
