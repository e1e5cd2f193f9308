package keystroke

import (
	"context"
	"fmt"
	"time"
)

// TextWriter is the clipboard side of a native paste.
type TextWriter interface {
	Write(text string) error
}

// Native pastes by placing text on the clipboard and posting a synthesized
// primary-modifier+V key event, without going through osascript.
type Native struct {
	clip  TextWriter
	delay time.Duration
	// KeyEvent posts the shortcut. NewNative sets the platform one.
	KeyEvent func() error
}

// NewNative returns a Native paster. delay is waited between the clipboard
// write and the key event.
func NewNative(clip TextWriter, delay time.Duration) *Native {
	return &Native{clip: clip, delay: delay, KeyEvent: sendKeys}
}

func (n *Native) Paste(ctx context.Context, text string) error {
	if !Supported() {
		return ErrUnsupported
	}
	if err := n.clip.Write(text); err != nil {
		return fmt.Errorf("keystroke: native paste: %w", err)
	}
	if n.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(n.delay):
		}
	}
	if err := n.KeyEvent(); err != nil {
		return fmt.Errorf("keystroke: native key event: %w", err)
	}
	return nil
}
