//go:build !darwin && !linux

package permission

import (
	"imepaste/log"
	"imepaste/shell"
)

// Default returns the checker for this platform. Without System Events
// every submission falls back to clipboard-only mode.
func Default(shell.Runner, bool) Checker {
	log.Info("no automation layer on this platform, using clipboard-only mode")
	return Unsupported{}
}
