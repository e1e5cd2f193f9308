// Package send turns one form submission into a paste in the focused
// application, falling back to the clipboard when automation is not
// available.
package send

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"imepaste/clipboard"
	"imepaste/keystroke"
	"imepaste/log"
	"imepaste/permission"
)

// Clipboard is the gateway the sender snapshots, writes and restores.
type Clipboard interface {
	Read() clipboard.Snapshot
	Write(text string) error
	Restore(s clipboard.Snapshot) error
}

// Keystroker drives the automation layer.
type Keystroker interface {
	SendPaste(ctx context.Context) error
	Activate(ctx context.Context, app string) error
}

// Paster is a direct paste capability exposed by the platform.
type Paster interface {
	Paste(ctx context.Context, text string) error
}

type History interface {
	Add(text string)
}

type Options struct {
	Clipboard  Clipboard
	Permission permission.Checker
	Keystroke  Keystroker // nil where no automation layer exists
	Direct     Paster   // nil when the platform has no direct paste
	History    History  // nil when history is disabled
	Notifier   Notifier // nil drops notices

	// SettleDelay is waited after the keystroke so the paste event is
	// delivered before the clipboard is restored.
	SettleDelay time.Duration
	// TargetApp is activated before pasting when set. It wins over the
	// app passed to SubmitTo.
	TargetApp string
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Outcome reports what one submission did.
type Outcome struct {
	Notice     Notice
	Strategy   string
	Target     string // application activated before the paste
	Permission bool
	Chars      int
	Duration   time.Duration
	Err        error
}

type strategy struct {
	name  string
	paste func(ctx context.Context, text string, snap clipboard.Snapshot) error
}

// Sender runs submissions one at a time.
type Sender struct {
	opts       Options
	mu         sync.Mutex
	strategies []strategy
}

func New(opts Options) *Sender {
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	s := &Sender{opts: opts}
	s.strategies = []strategy{
		{name: "direct", paste: s.pasteDirect},
		{name: "keystroke", paste: s.pasteKeystroke},
	}
	return s
}

// Submit validates raw, pastes it and always leaves the trimmed text on the
// clipboard when it returns a non-failure notice.
func (s *Sender) Submit(ctx context.Context, raw string) Outcome {
	return s.SubmitTo(ctx, raw, "")
}

// SubmitTo is Submit with a per-submission target: app is activated before
// the paste when no target_app is configured. An empty app pastes into
// whatever is frontmost.
func (s *Sender) SubmitTo(ctx context.Context, raw, app string) Outcome {
	text := strings.TrimSpace(raw)
	if text == "" {
		return s.finish(Outcome{Notice: noticeEmpty}, "invalid", time.Now())
	}

	if !s.mu.TryLock() {
		return s.finish(Outcome{Notice: noticeBusy}, "busy", time.Now())
	}
	defer s.mu.Unlock()

	start := time.Now()
	out := Outcome{Chars: utf8.RuneCountInString(text)}

	out.Permission = s.opts.Permission.Check(ctx)
	if !out.Permission {
		if err := s.opts.Clipboard.Write(text); err != nil {
			out.Err = err
			out.Notice = failureNotice(err, false)
			return s.finish(out, "failed", start)
		}
		out.Strategy = "clipboard"
		out.Notice = noticeClipboardOnly
		s.remember(text)
		return s.finish(out, "copied", start)
	}

	if s.opts.TargetApp != "" {
		app = s.opts.TargetApp
	}
	if s.opts.Keystroke == nil {
		app = ""
	}
	out.Target = app

	// One snapshot for every strategy: each one restores it before handing
	// over, so a later strategy never sees text an earlier one wrote.
	snap := s.opts.Clipboard.Read()
	name, err := s.paste(ctx, text, app, snap)
	out.Strategy = name

	// Backup copy: the text stays available whatever happened above.
	if cerr := s.opts.Clipboard.Write(text); cerr != nil {
		out.Err = errors.Join(err, cerr)
		out.Notice = failureNotice(out.Err, false)
		return s.finish(out, "failed", start)
	}
	if err != nil {
		out.Err = err
		out.Notice = failureNotice(err, true)
		return s.finish(out, "failed", start)
	}

	out.Notice = pastedNotice(name)
	s.remember(text)
	return s.finish(out, "pasted", start)
}

// paste tries each strategy in order. Unsupported strategies are skipped
// silently; a failing one hands over to the next.
func (s *Sender) paste(ctx context.Context, text, app string, snap clipboard.Snapshot) (string, error) {
	if app != "" {
		if err := s.opts.Keystroke.Activate(ctx, app); err != nil {
			return "", err
		}
	}

	var last error
	for _, st := range s.strategies {
		err := st.paste(ctx, text, snap)
		if err == nil {
			return st.name, nil
		}
		if errors.Is(err, keystroke.ErrUnsupported) {
			log.Debugf("%s paste unavailable", st.name)
			continue
		}
		log.Warnf("%s paste failed: %v", st.name, err)
		last = err
	}
	if last == nil {
		last = keystroke.ErrUnsupported
	}
	return "", last
}

// pasteDirect hands text to the platform paster. The paster writes the
// clipboard itself, so a failure puts the snapshot back.
func (s *Sender) pasteDirect(ctx context.Context, text string, snap clipboard.Snapshot) error {
	if s.opts.Direct == nil {
		return keystroke.ErrUnsupported
	}
	err := s.opts.Direct.Paste(ctx, text)
	if err != nil && !errors.Is(err, keystroke.ErrUnsupported) {
		s.restore(snap)
	}
	return err
}

// pasteKeystroke puts text on the clipboard, presses Cmd+V and puts the
// previous clipboard back. Restore is attempted on every path.
func (s *Sender) pasteKeystroke(ctx context.Context, text string, snap clipboard.Snapshot) error {
	if s.opts.Keystroke == nil {
		return keystroke.ErrUnsupported
	}
	err := func() error {
		if err := s.opts.Clipboard.Write(text); err != nil {
			return err
		}
		if err := s.opts.Keystroke.SendPaste(ctx); err != nil {
			return err
		}
		return s.opts.Sleep(ctx, s.opts.SettleDelay)
	}()

	s.restore(snap)
	return err
}

func (s *Sender) restore(snap clipboard.Snapshot) {
	if err := s.opts.Clipboard.Restore(snap); err != nil {
		log.Warnf("clipboard restore (%s): %v", snap.Kind, err)
	}
}

func (s *Sender) remember(text string) {
	if s.opts.History != nil {
		s.opts.History.Add(text)
	}
}

func (s *Sender) finish(out Outcome, outcome string, start time.Time) Outcome {
	out.Duration = time.Since(start)
	rec := log.Record{
		Chars:      out.Chars,
		Strategy:   out.Strategy,
		Target:     out.Target,
		Permission: out.Permission,
		Outcome:    outcome,
		TotalMs:    float64(out.Duration.Microseconds()) / 1000,
	}
	if out.Err != nil {
		rec.Err = out.Err.Error()
	}
	log.Submission(rec)

	if s.opts.Notifier != nil {
		s.opts.Notifier.Notify(out.Notice)
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("settle delay: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
