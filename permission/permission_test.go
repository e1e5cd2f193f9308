package permission

import (
	"context"
	"errors"
	"testing"

	"imepaste/shell"
)

func TestProbeAuthorized(t *testing.T) {
	f := shell.NewFake()
	f.On("frontmost", "Terminal", nil)
	if !New(f).Check(context.Background()) {
		t.Fatal("expected probe to succeed")
	}
	if calls := f.Calls(); len(calls) != 1 || calls[0] != ProbeScript {
		t.Errorf("calls = %q", calls)
	}
}

func TestProbeDenied(t *testing.T) {
	f := shell.NewFake()
	f.Fail("frontmost", "Not authorized to send Apple events to System Events. (-1743)")
	if New(f).Check(context.Background()) {
		t.Fatal("expected probe to fail")
	}
}

func TestProbeNotCached(t *testing.T) {
	f := shell.NewFake()
	p := New(f)
	p.Check(context.Background())
	f.Fail("frontmost", "denied")
	if p.Check(context.Background()) {
		t.Error("second probe must observe the new state")
	}
	if n := f.Count("frontmost"); n != 2 {
		t.Errorf("probe ran %d times, want 2", n)
	}
}

func TestUnsupported(t *testing.T) {
	if (Unsupported{}).Check(context.Background()) {
		t.Error("Unsupported must report false")
	}
}

func TestFrontmost(t *testing.T) {
	f := shell.NewFake()
	f.On("frontmost", "Slack", nil)
	name, err := New(f).Frontmost(context.Background())
	if err != nil || name != "Slack" {
		t.Errorf("Frontmost = %q, %v; want Slack", name, err)
	}
}

func TestKeyEvent(t *testing.T) {
	calls := 0
	k := KeyEvent{Init: func() error {
		calls++
		if calls == 1 {
			return errors.New("/dev/uinput: permission denied")
		}
		return nil
	}}
	if k.Check(context.Background()) {
		t.Error("expected false while the device cannot be opened")
	}
	if !k.Check(context.Background()) {
		t.Error("expected true once the device opens")
	}
}
