package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"imepaste/send"
)

// runCmd executes cmd and any batch it expands to, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func findDone(t *testing.T, msgs []tea.Msg) submitDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(submitDoneMsg); ok {
			return done
		}
	}
	t.Fatalf("no submitDoneMsg in %v", msgs)
	return submitDoneMsg{}
}

func update(t *testing.T, m tuiModel, msg tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	tm, ok := next.(tuiModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return tm, cmd
}

func keyMsg(typ tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: typ} }

func TestTUISubmitSuccessClearsForm(t *testing.T) {
	var got []string
	hooks := tuiHooks{Submit: func(text, _ string) send.Outcome {
		got = append(got, text)
		return send.Outcome{Chars: 5, Notice: send.Notice{Style: send.Success, Title: "Pasted"}}
	}}
	m := newTUIModel(hooks, true, "", false)
	m.input.SetValue("hello")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	if !m.busy {
		t.Fatal("model should be busy after submit")
	}
	if !strings.Contains(m.View(), "Sending") {
		t.Error("busy view should show the spinner line")
	}

	done := findDone(t, runCmd(cmd))
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("submitted %q, want [hello]", got)
	}

	m, _ = update(t, m, done)
	if m.busy {
		t.Error("model still busy after submitDoneMsg")
	}
	if m.input.Value() != "" {
		t.Errorf("form = %q, want cleared", m.input.Value())
	}
	if !strings.Contains(m.View(), "Pasted") {
		t.Error("view should show the notice")
	}
}

func TestTUISubmitFailureKeepsText(t *testing.T) {
	hooks := tuiHooks{Submit: func(string, string) send.Outcome {
		return send.Outcome{Chars: 3, Notice: send.Notice{Style: send.Failure, Title: "Paste failed"}}
	}}
	m := newTUIModel(hooks, false, "", false)
	m.input.SetValue("abc")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	m, _ = update(t, m, findDone(t, runCmd(cmd)))

	if m.input.Value() != "abc" {
		t.Errorf("form = %q, want text kept after failure", m.input.Value())
	}
	if m.notice == nil || m.notice.Style != send.Failure {
		t.Errorf("notice = %v, want failure", m.notice)
	}
}

func TestTUIBusyIgnoresKeys(t *testing.T) {
	calls := 0
	hooks := tuiHooks{Submit: func(string, string) send.Outcome {
		calls++
		return send.Outcome{}
	}}
	m := newTUIModel(hooks, false, "", false)
	m.input.SetValue("x")

	m, _ = update(t, m, keyMsg(tea.KeyCtrlS))
	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	if cmd != nil {
		t.Error("second submit while busy should not issue a command")
	}
	if calls != 0 {
		t.Errorf("submit ran %d times before the command executed", calls)
	}
	if !m.busy {
		t.Error("model should stay busy")
	}
}

func TestTUIHistoryBrowse(t *testing.T) {
	items := []string{"newest", "older"}
	hooks := tuiHooks{
		Submit:  func(string, string) send.Outcome { return send.Outcome{} },
		History: func() []string { return items },
	}
	m := newTUIModel(hooks, false, "", false)
	m.input.SetValue("draft")

	m, _ = update(t, m, keyMsg(tea.KeyCtrlP))
	if m.input.Value() != "newest" {
		t.Errorf("after ctrl+p form = %q, want newest", m.input.Value())
	}
	m, _ = update(t, m, keyMsg(tea.KeyCtrlP))
	m, _ = update(t, m, keyMsg(tea.KeyCtrlP)) // past the end stays put
	if m.input.Value() != "older" {
		t.Errorf("form = %q, want older", m.input.Value())
	}
	m, _ = update(t, m, keyMsg(tea.KeyCtrlN))
	m, _ = update(t, m, keyMsg(tea.KeyCtrlN))
	if m.input.Value() != "draft" {
		t.Errorf("form = %q, want draft restored", m.input.Value())
	}
	if m.recall != -1 {
		t.Errorf("recall = %d, want -1", m.recall)
	}
}

func TestTUIClearHistory(t *testing.T) {
	cleared := false
	hooks := tuiHooks{
		Submit:       func(string, string) send.Outcome { return send.Outcome{} },
		History:      func() []string { return nil },
		ClearHistory: func() { cleared = true },
	}
	m := newTUIModel(hooks, false, "", false)
	m, _ = update(t, m, keyMsg(tea.KeyCtrlX))
	if !cleared {
		t.Error("ctrl+x should clear history")
	}
	if m.notice == nil || m.notice.Title != "History cleared" {
		t.Errorf("notice = %v", m.notice)
	}
}

func TestTUIOnceQuitsWithText(t *testing.T) {
	hooks := tuiHooks{Submit: func(string, string) send.Outcome {
		t.Error("once mode should not submit from inside the form")
		return send.Outcome{}
	}}
	m := newTUIModel(hooks, false, "", true)
	m.input.SetValue("later")

	m, cmd := update(t, m, keyMsg(tea.KeyCtrlS))
	if m.submitted != "later" {
		t.Errorf("submitted = %q, want later", m.submitted)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("once submit should quit")
	}
}

func TestTUIQuit(t *testing.T) {
	m := newTUIModel(tuiHooks{}, false, "", false)
	_, cmd := update(t, m, keyMsg(tea.KeyEsc))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}

func TestTUICharCountInRunes(t *testing.T) {
	m := newTUIModel(tuiHooks{}, true, "Notes", false)
	m.input.SetValue("こんにちは")
	view := m.View()
	if !strings.Contains(view, "5 characters") {
		t.Errorf("view missing rune count:\n%s", view)
	}
	if !strings.Contains(view, "Notes") {
		t.Error("view should name the target app")
	}

	m = newTUIModel(tuiHooks{}, false, "", false)
	m.input.SetValue("abc")
	if strings.Contains(m.View(), "characters") {
		t.Error("count shown while disabled")
	}
}

func TestTUIRecordsAppAfterBlur(t *testing.T) {
	front := "Terminal"
	var targets []string
	hooks := tuiHooks{
		Submit: func(_, target string) send.Outcome {
			targets = append(targets, target)
			return send.Outcome{Chars: 1, Notice: send.Notice{Style: send.Success, Title: "Pasted"}}
		},
		Frontmost: func() string { return front },
	}
	m := newTUIModel(hooks, false, "", false)

	// Startup lookup finds the terminal running the form.
	for _, msg := range runCmd(m.Init()) {
		if fm, ok := msg.(frontmostMsg); ok {
			m, _ = update(t, m, fm)
		}
	}
	if m.host != "Terminal" || m.returnTo != "" {
		t.Fatalf("host = %q, returnTo = %q", m.host, m.returnTo)
	}
	if !strings.Contains(m.View(), "switch to the target app") {
		t.Error("view should hint that no target is known")
	}

	front = "Slack"
	m, cmd := update(t, m, tea.BlurMsg{})
	m, _ = update(t, m, cmd())
	if m.returnTo != "Slack" {
		t.Fatalf("returnTo = %q, want Slack", m.returnTo)
	}
	if !strings.Contains(m.View(), "→ Slack") {
		t.Error("view should name the recorded app")
	}

	// Switching between the terminal's own windows keeps the recorded app.
	front = "Terminal"
	m, cmd = update(t, m, tea.BlurMsg{})
	m, _ = update(t, m, cmd())
	if m.returnTo != "Slack" {
		t.Errorf("returnTo = %q, want Slack kept", m.returnTo)
	}

	m.input.SetValue("hi")
	_, cmd = update(t, m, keyMsg(tea.KeyCtrlS))
	findDone(t, runCmd(cmd))
	if len(targets) != 1 || targets[0] != "Slack" {
		t.Errorf("submit targets = %q, want [Slack]", targets)
	}
}

func TestTUIBlurWithoutFrontmost(t *testing.T) {
	m := newTUIModel(tuiHooks{}, false, "", false)
	if _, cmd := update(t, m, tea.BlurMsg{}); cmd != nil {
		t.Error("blur should do nothing when the focused app cannot be named")
	}
}
