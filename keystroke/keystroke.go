// Package keystroke simulates the paste shortcut in the focused application.
package keystroke

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"imepaste/shell"
)

// PasteScript holds Cmd and presses V in the frontmost process.
const PasteScript = `tell application "System Events" to keystroke "v" using command down`

// ErrUnsupported is returned by a paster the platform cannot provide.
var ErrUnsupported = errors.New("keystroke: direct paste not supported on this platform")

// Injector sends automation scripts through a shell.Runner.
type Injector struct {
	runner shell.Runner
}

func NewInjector(r shell.Runner) *Injector {
	return &Injector{runner: r}
}

// SendPaste simulates Cmd+V in the active process.
func (inj *Injector) SendPaste(ctx context.Context) error {
	if _, err := inj.runner.Run(ctx, PasteScript); err != nil {
		return fmt.Errorf("keystroke: send cmd+v: %w", err)
	}
	return nil
}

// Activate brings app to the front so the next keystroke lands in it.
func (inj *Injector) Activate(ctx context.Context, app string) error {
	if _, err := inj.runner.Run(ctx, ActivateScript(app)); err != nil {
		return fmt.Errorf("keystroke: activate %q: %w", app, err)
	}
	return nil
}

func ActivateScript(app string) string {
	return fmt.Sprintf(`tell application "%s" to activate`, EscapeAppleScript(app))
}

// EscapeAppleScript escapes s for use inside an AppleScript double-quoted
// string literal.
func EscapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
