//go:build linux

package permission

import (
	"imepaste/keystroke"
	"imepaste/log"
	"imepaste/shell"
)

// Default returns the checker for this platform. Only the uinput key event
// can paste here; without native_paste every submission is clipboard-only.
func Default(_ shell.Runner, native bool) Checker {
	if native {
		return KeyEvent{Init: keystroke.Init}
	}
	log.Info("no automation layer on this platform, using clipboard-only mode")
	return Unsupported{}
}
