//go:build integration

package test_test

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var testBinary string

func TestMain(m *testing.M) {
	testBinary = os.Getenv("IMEPASTE_TEST_BIN")
	if testBinary == "" {
		fmt.Fprintln(os.Stderr, "IMEPASTE_TEST_BIN not set; build the binary and point the variable at it")
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func cmds(parts ...string) string {
	return strings.Join(parts, "\n") + "\n"
}

// runImepaste runs the binary in -test mode with logs (and history) under
// logDir and returns its stdout.
func runImepaste(t *testing.T, logDir, stdin string, args ...string) string {
	t.Helper()
	cmdArgs := append([]string{
		"-test",
		"-logpath", logDir,
		"-config", filepath.Join(logDir, "missing.yaml"),
		"-settle", "0",
	}, args...)

	cmd := exec.Command(testBinary, cmdArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = os.Environ()

	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("imepaste exited with error: %v\noutput: %s", err, out)
	}
	return string(out)
}

func readLog(t *testing.T, logDir, filename string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(logDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("failed to read %s: %v", filename, err)
	}
	return string(data)
}

func requireLine(t *testing.T, out, want string) {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if line == want {
			return
		}
	}
	t.Errorf("missing line %q\noutput:\n%s", want, out)
}

// --- Paste path ---

func TestPasteJapanese(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("CLIP previous", "TEXT こんにちは", "TEXT 世界", "SUBMIT", "SHOWCLIP", "QUIT"))

	requireLine(t, out, "NOTICE success Pasted: Sent via keystroke, text also on clipboard")
	requireLine(t, out, `CLIP "こんにちは\n世界"`)

	diag := readLog(t, logDir, "diagnostics_log.txt")
	if !strings.Contains(diag, "submission") {
		t.Error("expected a submission entry in diagnostics")
	}
	if !strings.Contains(diag, "outcome=pasted") || !strings.Contains(diag, "chars=8") {
		t.Errorf("submission fields missing:\n%s", diag)
	}
	if strings.Contains(diag, "こんにちは") {
		t.Error("diagnostics must not contain submitted text")
	}
}

func TestEmptySubmission(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("TEXT   ", "TEXT ", "SUBMIT", "SHOWCLIP", "QUIT"))

	requireLine(t, out, "NOTICE info Please enter text")
	requireLine(t, out, `CLIP ""`)
	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "outcome=invalid") {
		t.Error("expected outcome=invalid in diagnostics")
	}
}

// --- Fallbacks ---

func TestPermissionDeniedCopiesOnly(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("DENY", "TEXT hello", "SUBMIT", "SHOWCLIP", "QUIT"))

	requireLine(t, out, "NOTICE info Copied to clipboard: Grant Accessibility permission to enable auto-paste")
	requireLine(t, out, `CLIP "hello"`)
	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "permission probe failed") {
		t.Error("expected the failed probe in diagnostics")
	}
}

func TestKeystrokeRefused(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("BREAK", "CLIP previous", "TEXT hello", "SUBMIT", "SHOWCLIP", "QUIT"))

	requireLine(t, out, "NOTICE failure Paste failed: Check Accessibility settings. Text saved to clipboard")
	requireLine(t, out, `CLIP "hello"`)
}

func TestAutomationError(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("FAIL", "TEXT hello", "SUBMIT", "FIX", "TEXT again", "SUBMIT", "QUIT"))

	requireLine(t, out, "NOTICE failure Automation failed: Text saved to clipboard")
	requireLine(t, out, "NOTICE success Pasted: Sent via keystroke, text also on clipboard")
}

func TestBinaryClipboardNotRestored(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("BINARY", "TEXT hello", "SUBMIT", "SHOWCLIP", "QUIT"))

	requireLine(t, out, "NOTICE success Pasted: Sent via keystroke, text also on clipboard")
	requireLine(t, out, `CLIP "hello"`)
}

func TestPasteReturnsToRecordedApp(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("FRONT Slack", "SHOW", "FRONT Terminal", "TEXT hi", "SUBMIT", "QUIT"))

	requireLine(t, out, `TARGET "Slack"`)
	requireLine(t, out, "NOTICE success Pasted: Sent via keystroke, text also on clipboard")
	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "target=Slack") {
		t.Error("expected target=Slack in diagnostics")
	}
}

func TestConfiguredTargetWins(t *testing.T) {
	logDir := t.TempDir()
	_ = runImepaste(t, logDir, cmds("FRONT Slack", "SHOW", "TEXT hi", "SUBMIT", "QUIT"), "-target", "Notes")

	if !strings.Contains(readLog(t, logDir, "diagnostics_log.txt"), "target=Notes") {
		t.Error("expected target=Notes in diagnostics")
	}
}

// --- History ---

func TestHistoryPersistsAcrossRuns(t *testing.T) {
	logDir := t.TempDir()
	_ = runImepaste(t, logDir, cmds("TEXT first", "SUBMIT", "TEXT second", "SUBMIT", "TEXT first", "SUBMIT", "QUIT"))

	out := runImepaste(t, logDir, cmds("HISTORY", "QUIT"))
	requireLine(t, out, "HISTORY 2")
	requireLine(t, out, `  1 "first"`)
	requireLine(t, out, `  2 "second"`)
}

func TestHistoryLimit(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("TEXT a", "SUBMIT", "TEXT b", "SUBMIT", "TEXT c", "SUBMIT", "HISTORY", "QUIT"),
		"-maxhistory", "2")
	requireLine(t, out, "HISTORY 2")
	requireLine(t, out, `  1 "c"`)
	requireLine(t, out, `  2 "b"`)
}

func TestHistoryDisabled(t *testing.T) {
	logDir := t.TempDir()
	out := runImepaste(t, logDir, cmds("TEXT a", "SUBMIT", "HISTORY", "QUIT"), "-history=false")
	requireLine(t, out, "HISTORY 0")
}

// --- Session ---

func TestSessionLogged(t *testing.T) {
	logDir := t.TempDir()
	_ = runImepaste(t, logDir, cmds("TEXT a", "SUBMIT", "TEXT b", "SUBMIT", "QUIT"))

	diag := readLog(t, logDir, "diagnostics_log.txt")
	if !strings.Contains(diag, "session_start") || !strings.Contains(diag, "mode=test") {
		t.Error("expected session_start mode=test")
	}
	if !strings.Contains(diag, "session_end") || !strings.Contains(diag, "count=2") {
		t.Error("expected session_end count=2")
	}
}

func TestInvalidConfigExits(t *testing.T) {
	logDir := t.TempDir()
	cmd := exec.Command(testBinary, "-test", "-logpath", logDir, "-maxhistory", "50")
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected a non-zero exit, output: %s", out)
	}
	if !strings.Contains(string(out), "max_history_items") {
		t.Errorf("error should name the field: %s", out)
	}
}
