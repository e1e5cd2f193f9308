// Package clipboard wraps the system clipboard with snapshot and restore.
package clipboard

import (
	"fmt"

	"imepaste/log"
)

type Kind int

const (
	Empty Kind = iota
	Text
	File
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case File:
		return "file"
	}
	return "empty"
}

// Snapshot is the clipboard content captured before a mutation. Only Text
// snapshots can be written back.
type Snapshot struct {
	Kind  Kind
	Value string
}

// Backend is the raw clipboard resource.
type Backend interface {
	ReadText() (string, error)
	WriteText(text string) error
	// HasBinary reports non-text content such as a copied file or image.
	HasBinary() bool
}

// Error is an OS-level refusal to change the clipboard.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("clipboard %s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

type Gateway struct {
	backend Backend
}

func New(b Backend) *Gateway {
	return &Gateway{backend: b}
}

// Read never fails; unreadable content is reported as Empty.
func (g *Gateway) Read() Snapshot {
	if g.backend.HasBinary() {
		return Snapshot{Kind: File}
	}
	text, err := g.backend.ReadText()
	if err != nil {
		log.Warnf("clipboard read: %v", err)
		return Snapshot{Kind: Empty}
	}
	if text == "" {
		return Snapshot{Kind: Empty}
	}
	return Snapshot{Kind: Text, Value: text}
}

func (g *Gateway) Write(text string) error {
	if err := g.backend.WriteText(text); err != nil {
		return &Error{Op: "write", Err: err}
	}
	return nil
}

// Restore writes a Text snapshot back. File and Empty snapshots are left
// alone: the text backend cannot round-trip them.
func (g *Gateway) Restore(s Snapshot) error {
	switch s.Kind {
	case Text:
		if err := g.backend.WriteText(s.Value); err != nil {
			return &Error{Op: "restore", Err: err}
		}
		return nil
	case File:
		log.Info("clipboard held a file, not restoring")
	default:
		log.Debugf("clipboard was empty, nothing to restore")
	}
	return nil
}
