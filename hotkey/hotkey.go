// Package hotkey registers the global shortcut that brings up the form.
package hotkey

import "context"

type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}

// Watch calls fn on every keydown until ctx is done.
func Watch(ctx context.Context, hk Hotkey, fn func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			fn()
		}
	}
}
