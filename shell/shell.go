// Package shell runs AppleScript snippets through osascript.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one automation script and returns its trimmed output.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// Error is returned when the scripting interpreter reports anything on its
// error stream or cannot be started.
type Error struct {
	Script string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Stderr != "":
		return fmt.Sprintf("osascript: %s", e.Stderr)
	case e.Err != nil:
		return fmt.Sprintf("osascript: %v", e.Err)
	}
	return "osascript failed"
}

func (e *Error) Unwrap() error { return e.Err }

// Quote makes script safe inside a single-quoted sh word: every ' closes
// the quoted string, adds an escaped quote and reopens it.
func Quote(script string) string {
	return strings.ReplaceAll(script, "'", `'\''`)
}

// Command returns the sh command line used to run script.
func Command(script string) string {
	return "osascript -e '" + Quote(script) + "'"
}

// Exec runs scripts with /bin/sh -c "osascript -e '...'".
type Exec struct {
	Shell string // defaults to /bin/sh
}

func (x Exec) Run(ctx context.Context, script string) (string, error) {
	sh := x.Shell
	if sh == "" {
		sh = "/bin/sh"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, sh, "-c", Command(script))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return "", &Error{Script: script, Stderr: msg, Err: err}
	}
	if err != nil {
		return "", &Error{Script: script, Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// osascript error numbers for missing Accessibility / Automation consent.
var permissionMarkers = []string{
	"-1743",
	"-1719",
	"-25211",
	"(1002)",
	"not allowed assistive access",
	"not authorized",
	"not allowed to send keystrokes",
}

// IsPermission reports whether err is an automation failure caused by
// missing authorization.
func IsPermission(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	msg := strings.ToLower(se.Stderr)
	for _, m := range permissionMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
