//go:build darwin

package keystroke

import "github.com/micmonay/keybd_event"

// Cmd+V through CoreGraphics.
func withModifier(kb *keybd_event.KeyBonding) { kb.HasSuper(true) }
