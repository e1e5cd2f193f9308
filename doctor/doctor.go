// Package doctor walks the user through the clipboard and automation
// checks a working setup needs.
package doctor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"imepaste/clipboard"
	"imepaste/permission"
	"imepaste/send"
	"imepaste/shell"
)

// Env is everything the checks touch.
type Env struct {
	Clipboard  send.Clipboard
	Permission permission.Checker
	Sender     *send.Sender
	In         io.Reader
	Out        io.Writer
	// Countdown is how many seconds the user gets to focus a text field.
	Countdown int
	// Reset restores the terminal after the test paste. Defaults to stty sane.
	Reset func()
	// ClipboardTimeout bounds the clipboard round trip. Defaults to 3s.
	ClipboardTimeout time.Duration
}

const testText = "imepaste-doctor-test"

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(ctx context.Context, env Env) int {
	if env.Reset == nil {
		env.Reset = resetTerminal
	}
	if env.ClipboardTimeout == 0 {
		env.ClipboardTimeout = 3 * time.Second
	}
	d := &doctor{env: env, in: bufio.NewReader(env.In)}

	d.println("imepaste doctor - interactive system diagnostics")
	d.println("================================================")

	allPass := d.checkClipboard()
	if allPass && !d.checkPermission(ctx) {
		allPass = false
	}
	if allPass && !d.checkPaste(ctx) {
		allPass = false
	}

	d.println()
	if allPass {
		d.println("All checks passed!")
		return 0
	}
	d.println("Some checks failed. See details above.")
	return 1
}

type doctor struct {
	env Env
	in  *bufio.Reader
}

func (d *doctor) println(a ...any)          { fmt.Fprintln(d.env.Out, a...) }
func (d *doctor) printf(f string, a ...any) { fmt.Fprintf(d.env.Out, f, a...) }

func (d *doctor) countdown(n int, every func()) {
	for i := n; i > 0; i-- {
		d.printf("  %d...\n", i)
		every()
	}
}

func (d *doctor) confirm(question string) bool {
	d.printf("%s [y/n]: ", question)
	answer, _ := d.in.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func (d *doctor) checkClipboard() bool {
	d.println()
	d.println("[1/3] Clipboard copy")

	clip := d.env.Clipboard
	prev := clip.Read()
	stamp := fmt.Sprintf("imepaste-doctor-%d", time.Now().UnixNano())

	type cbResult struct {
		snap  clipboard.Snapshot
		err   error
		phase string
	}
	ch := make(chan cbResult, 1)
	go func() {
		if err := clip.Write(stamp); err != nil {
			ch <- cbResult{err: err, phase: "write"}
			return
		}
		ch <- cbResult{snap: clip.Read()}
	}()

	select {
	case res := <-ch:
		// The writer is done, so the restore cannot be overtaken.
		defer clip.Restore(prev)
		if res.err != nil {
			d.printf("  FAIL: clipboard %s failed: %v\n", res.phase, res.err)
			d.utilityHint()
			return false
		}
		if res.snap.Kind != clipboard.Text || res.snap.Value != stamp {
			d.printf("  FAIL: clipboard mismatch: wrote %q, got %s %q\n", stamp, res.snap.Kind, res.snap.Value)
			return false
		}
		d.printf("  PASS: clipboard write/read verified (previous content was %s)\n", prev.Kind)
		return true
	case <-time.After(d.env.ClipboardTimeout):
		// A late write would land after any restore made now.
		d.println("  FAIL: clipboard timed out (pbcopy/xclip hung?), previous content not restored")
		d.utilityHint()
		return false
	}
}

func (d *doctor) utilityHint() {
	if clipboard.Unsupported() {
		d.println("  Fix: install a clipboard utility (xclip, xsel or wl-clipboard)")
	}
}

func (d *doctor) checkPermission(ctx context.Context) bool {
	d.println()
	d.println("[2/3] Automation permission")
	d.printf("  probe: %s\n", shell.Command(permission.ProbeScript))

	if !d.env.Permission.Check(ctx) {
		d.println("  FAIL: System Events did not answer")
		d.println("  Fix: System Settings > Privacy & Security > Accessibility and Automation,")
		d.println("       allow the terminal (or imepaste) to control System Events")
		return false
	}
	d.println("  PASS: automation authorized")
	return true
}

func (d *doctor) checkPaste(ctx context.Context) bool {
	d.println()
	d.println("[3/3] Paste into focused window")
	d.println("Focus on a text editor window...")
	d.countdown(d.env.Countdown, func() { time.Sleep(time.Second) })

	out := d.env.Sender.Submit(ctx, testText)
	d.env.Reset()
	if out.Notice.Style == send.Failure {
		d.printf("  FAIL: %s\n", out.Notice)
		return false
	}

	d.println()
	if !d.confirm(fmt.Sprintf("Did the text %q appear?", testText)) {
		d.println("  FAIL: paste not confirmed")
		return false
	}
	d.printf("  PASS: pasted via %s\n", out.Strategy)
	return true
}
