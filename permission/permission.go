// Package permission detects whether the automation layer is authorized.
package permission

import (
	"context"

	"imepaste/log"
	"imepaste/shell"
)

// ProbeScript is a harmless query that needs the same consent as a
// keystroke.
const ProbeScript = `tell application "System Events" to get name of first application process whose frontmost is true`

type Checker interface {
	Check(ctx context.Context) bool
}

// Probe asks System Events for the frontmost process on every call.
type Probe struct {
	runner shell.Runner
}

func New(r shell.Runner) *Probe {
	return &Probe{runner: r}
}

func (p *Probe) Check(ctx context.Context) bool {
	name, err := p.Frontmost(ctx)
	if err != nil {
		log.Warnf("permission probe failed: %v", err)
		return false
	}
	log.Debugf("permission probe ok, frontmost=%q", name)
	return true
}

// Frontmost returns the name of the process that has focus.
func (p *Probe) Frontmost(ctx context.Context) (string, error) {
	return p.runner.Run(ctx, ProbeScript)
}

// FrontmostReader is implemented by checkers that can name the focused
// process.
type FrontmostReader interface {
	Frontmost(ctx context.Context) (string, error)
}

// KeyEvent authorizes the direct paste path where no System Events exists:
// it reports true when the synthesized key device can be opened.
type KeyEvent struct {
	Init func() error
}

func (k KeyEvent) Check(context.Context) bool {
	if err := k.Init(); err != nil {
		log.Warnf("key event device unavailable: %v", err)
		return false
	}
	return true
}

// Unsupported is used where no automation layer exists.
type Unsupported struct{}

func (Unsupported) Check(context.Context) bool { return false }
