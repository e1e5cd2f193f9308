//go:build darwin || linux

package keystroke

import (
	"sync"

	"github.com/micmonay/keybd_event"
)

var (
	kbMu sync.Mutex
	kb   *keybd_event.KeyBonding
)

func Supported() bool { return true }

// Init opens the key event device. A failed open is retried on the next
// call so a permission granted later is picked up.
func Init() error {
	kbMu.Lock()
	defer kbMu.Unlock()
	if kb != nil {
		return nil
	}
	k, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb = &k
	return nil
}

func sendKeys() error {
	if err := Init(); err != nil {
		return err
	}
	kbMu.Lock()
	defer kbMu.Unlock()
	kb.Clear()
	kb.SetKeys(keybd_event.VK_V)
	withModifier(kb)
	return kb.Launching()
}
