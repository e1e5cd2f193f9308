package clipboard

import (
	"context"
	"strings"

	cb "github.com/atotto/clipboard"

	"imepaste/log"
	"imepaste/shell"
)

// InfoScript lists the pasteboard's types. A Finder copy shows up as
// «class furl» next to a plain-text copy of the file name.
const InfoScript = `clipboard info`

// System is the desktop clipboard. Text goes through pbcopy/pbpaste (or
// xclip/xsel/wl-clipboard); binary detection needs the native API and,
// for file references, osascript.
type System struct {
	binary binaryReader
	runner shell.Runner // nil where osascript is not available
}

type binaryReader interface {
	hasBinary() bool
}

// NewSystem returns the system clipboard. r is used to spot copied files
// and may be nil.
func NewSystem(r shell.Runner) *System {
	s := &System{runner: r}
	br, err := newBinaryReader()
	if err != nil {
		log.Warnf("clipboard: binary detection unavailable: %v", err)
		return s
	}
	s.binary = br
	return s
}

func (s *System) ReadText() (string, error) {
	return cb.ReadAll()
}

func (s *System) WriteText(text string) error {
	return cb.WriteAll(text)
}

func (s *System) HasBinary() bool {
	if s.binary != nil && s.binary.hasBinary() {
		return true
	}
	return s.hasFileRef()
}

func (s *System) hasFileRef() bool {
	if s.runner == nil {
		return false
	}
	info, err := s.runner.Run(context.Background(), InfoScript)
	if err != nil {
		log.Debugf("clipboard info: %v", err)
		return false
	}
	return IsFileRef(info)
}

// IsFileRef reports whether a clipboard info listing holds a file URL.
func IsFileRef(info string) bool {
	return strings.Contains(info, "class furl")
}

// Unsupported reports whether no clipboard utility is available.
func Unsupported() bool {
	return cb.Unsupported
}
