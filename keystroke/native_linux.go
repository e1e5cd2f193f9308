//go:build linux

package keystroke

import "github.com/micmonay/keybd_event"

// Ctrl+V through uinput. The device needs write access to /dev/uinput.
func withModifier(kb *keybd_event.KeyBonding) { kb.HasCTRL(true) }
