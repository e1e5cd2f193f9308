package keystroke

import (
	"context"
	"errors"
	"testing"
	"time"

	"imepaste/shell"
)

func TestSendPaste(t *testing.T) {
	f := shell.NewFake()
	inj := NewInjector(f)
	if err := inj.SendPaste(context.Background()); err != nil {
		t.Fatal(err)
	}
	calls := f.Calls()
	if len(calls) != 1 || calls[0] != PasteScript {
		t.Errorf("calls = %q, want [%q]", calls, PasteScript)
	}
}

func TestSendPasteError(t *testing.T) {
	f := shell.NewFake()
	f.Fail("keystroke", "osascript is not allowed to send keystrokes. (1002)")
	err := NewInjector(f).SendPaste(context.Background())
	var se *shell.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected wrapped *shell.Error, got %v", err)
	}
	if !shell.IsPermission(err) {
		t.Error("expected permission classification to survive wrapping")
	}
}

func TestActivateEscapes(t *testing.T) {
	f := shell.NewFake()
	if err := NewInjector(f).Activate(context.Background(), `Bob's "Term"`); err != nil {
		t.Fatal(err)
	}
	want := `tell application "Bob's \"Term\"" to activate`
	if calls := f.Calls(); len(calls) != 1 || calls[0] != want {
		t.Errorf("calls = %q, want [%q]", calls, want)
	}
}

func TestEscapeAppleScript(t *testing.T) {
	tests := []struct{ in, want string }{
		{`a\b`, `a\\b`},
		{`say "hi"`, `say \"hi\"`},
		{"a\nb\tc", `a\nb\tc`},
	}
	for _, tt := range tests {
		if got := EscapeAppleScript(tt.in); got != tt.want {
			t.Errorf("EscapeAppleScript(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingWriter struct {
	writes []string
	err    error
}

func (w *recordingWriter) Write(text string) error {
	w.writes = append(w.writes, text)
	return w.err
}

func TestNativePaste(t *testing.T) {
	if !Supported() {
		t.Skip("native paste unsupported")
	}
	w := &recordingWriter{}
	sent := 0
	n := NewNative(w, time.Millisecond)
	n.KeyEvent = func() error { sent++; return nil }

	if err := n.Paste(context.Background(), "hello"); err != nil {
		t.Fatal(err)
	}
	if len(w.writes) != 1 || w.writes[0] != "hello" {
		t.Errorf("writes = %q", w.writes)
	}
	if sent != 1 {
		t.Errorf("key event sent %d times, want 1", sent)
	}
}

func TestNativePasteWriteError(t *testing.T) {
	if !Supported() {
		t.Skip("native paste unsupported")
	}
	w := &recordingWriter{err: errors.New("denied")}
	n := NewNative(w, 0)
	n.KeyEvent = func() error { t.Error("key event must not be sent"); return nil }
	if err := n.Paste(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}
