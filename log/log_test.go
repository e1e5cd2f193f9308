package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir(""); SetLevel("info") })
	return tmp
}

func readDiag(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestResolveDirFlag(t *testing.T) {
	got, err := ResolveDir("/tmp/mylog")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/mylog" {
		t.Errorf("got %q, want /tmp/mylog", got)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("IMEPASTE_LOG_PATH", "/tmp/imepaste-env-log")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/imepaste-env-log" {
		t.Errorf("got %q, want /tmp/imepaste-env-log", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("IMEPASTE_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("expected non-empty default directory")
	}
}

func TestInitCreatesFile(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "diagnostics_log.txt")); err != nil {
		t.Errorf("diagnostics_log.txt not created: %v", err)
	}
}

func TestLogBeforeInitIsNoop(t *testing.T) {
	setupLogDir(t)
	Info("dropped")
	Submission(Record{Chars: 3})
}

func TestSubmissionFields(t *testing.T) {
	tmp := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatal(err)
	}

	Submission(Record{Chars: 7, Strategy: "keystroke", Permission: true, Outcome: "pasted", TotalMs: 312})
	Close()

	line := readDiag(t, tmp)
	for _, want := range []string{"submission", "chars=7", "strategy=keystroke", "outcome=pasted", "permission=true"} {
		if !strings.Contains(line, want) {
			t.Errorf("log missing %q, got: %q", want, line)
		}
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	tmp := setupLogDir(t)
	SetLevel("warn")
	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Info("quiet-info")
	Warn("loud-warn")
	Close()

	out := readDiag(t, tmp)
	if strings.Contains(out, "quiet-info") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(out, "loud-warn") {
		t.Error("warn message missing")
	}
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
