package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"imepaste/clipboard"
	"imepaste/config"
	"imepaste/keystroke"
	"imepaste/kv"
	"imepaste/log"
	"imepaste/permission"
	"imepaste/shell"
)

// Canned osascript failures the test driver can switch on.
const (
	stderrNotAuthorized = "execution error: Not authorized to send Apple events to System Events. (-1743)"
	stderrNoKeystrokes  = "execution error: System Events got an error: osascript is not allowed to send keystrokes. (1002)"
	stderrScriptError   = "execution error: System Events got an error: Can't get application process. (-1728)"
)

// runTestMode drives a fully wired sender over an in-memory clipboard and a
// scripted osascript, reading one command per line from in:
//
//	TEXT <line>     append a line to the form
//	SUBMIT          submit the form and clear it
//	CLIP <text>     put text on the clipboard
//	BINARY          mark the clipboard as holding non-text data
//	SHOWCLIP        print the clipboard as CLIP "<quoted>"
//	HISTORY         print the stored history
//	FRONT <app>     make app the frontmost process
//	SHOW            record the frontmost app as the paste target, as
//	                showing the window does
//	DENY / ALLOW    revoke or grant automation permission
//	BREAK / FAIL    make the paste keystroke fail (permission / script error)
//	FIX             make the paste keystroke succeed again
//	SLEEP <ms>      pause the driver
//	QUIT            exit
//
// History is stored next to the logs so runs never touch user data.
func runTestMode(cfg *config.Config, in io.Reader, out io.Writer, ap **app) int {
	mem := clipboard.NewMemory("")
	fake := shell.NewFake()
	fake.On(permission.ProbeScript, "Terminal", nil)

	a := newApp(cfg, deps{
		backend:  mem,
		runner:   fake,
		checker:  permission.New(fake),
		storage:  kv.NewFile(filepath.Join(log.Dir(), "storage.json")),
		notifier: lineNotifier(out),
	})
	*ap = a

	ctx := context.Background()
	front := "Terminal"
	var form []string
	var target string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		verb, arg, _ := strings.Cut(scanner.Text(), " ")
		switch strings.TrimSpace(verb) {
		case "TEXT":
			form = append(form, arg)
		case "SUBMIT":
			a.submitTo(ctx, strings.Join(form, "\n"), target)
			form = nil
		case "CLIP":
			mem.WriteText(arg)
		case "BINARY":
			mem.SetBinary(true)
		case "SHOWCLIP":
			fmt.Fprintf(out, "CLIP %q\n", mem.Current())
		case "HISTORY":
			items := a.recent()
			fmt.Fprintf(out, "HISTORY %d\n", len(items))
			for i, item := range items {
				fmt.Fprintf(out, "  %d %q\n", i+1, item)
			}
		case "FRONT":
			front = strings.TrimSpace(arg)
			fake.On(permission.ProbeScript, front, nil)
		case "SHOW":
			target = a.frontmost(ctx)
			fmt.Fprintf(out, "TARGET %q\n", target)
		case "DENY":
			fake.Fail(permission.ProbeScript, stderrNotAuthorized)
		case "ALLOW":
			fake.On(permission.ProbeScript, front, nil)
		case "BREAK":
			fake.Fail(keystroke.PasteScript, stderrNoKeystrokes)
		case "FAIL":
			fake.Fail(keystroke.PasteScript, stderrScriptError)
		case "FIX":
			fake.On(keystroke.PasteScript, "", nil)
		case "SLEEP":
			if ms, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
				time.Sleep(time.Duration(ms) * time.Millisecond)
			}
		case "QUIT":
			return 0
		case "":
		default:
			fmt.Fprintf(out, "ERROR unknown command %q\n", verb)
		}
	}
	return 0
}
