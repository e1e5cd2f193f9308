//go:build darwin

package permission

import "imepaste/shell"

// Default returns the checker for this platform. System Events covers both
// paste strategies, so native is ignored.
func Default(r shell.Runner, _ bool) Checker { return New(r) }
