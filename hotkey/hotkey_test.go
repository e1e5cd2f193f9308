package hotkey

import (
	"context"
	"testing"
	"time"
)

func TestWatchCallsOnKeydown(t *testing.T) {
	fk := NewFake()
	if err := fk.Register(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan struct{}, 2)
	done := make(chan struct{})
	go func() {
		Watch(ctx, fk, func() { fired <- struct{}{} })
		close(done)
	}()

	for i := 0; i < 2; i++ {
		fk.SimKeydown()
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatalf("keydown %d not delivered", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestFakeRegistration(t *testing.T) {
	fk := NewFake()
	fk.Register()
	if !fk.Registered() {
		t.Error("expected registered")
	}
	fk.Unregister()
	if fk.Registered() {
		t.Error("expected unregistered")
	}
}
