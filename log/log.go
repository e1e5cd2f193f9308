package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	level    = zerolog.InfoLevel
	pid      int
	dir      string
)

// Record describes one submission for the diagnostics log. It never holds
// the submitted text itself.
type Record struct {
	Chars      int
	Strategy   string
	Target     string
	Permission bool
	Outcome    string // "pasted", "copied", "failed", "invalid", "busy"
	TotalMs    float64
	Err        string
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absolute(flagPath)
	}

	// Priority 2: IMEPASTE_LOG_PATH environment variable
	if envPath := os.Getenv("IMEPASTE_LOG_PATH"); envPath != "" {
		return absolute(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absolute(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// SetLevel accepts debug, info, warn or error. Unknown values keep the
// current level.
func SetLevel(name string) {
	l, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		return
	}
	logMu.Lock()
	level = l
	if logReady {
		diagLog = diagLog.Level(l)
	}
	logMu.Unlock()
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Submission(r Record) {
	if !logReady {
		return
	}
	ev := diagLog.Info().
		Int("chars", r.Chars).
		Str("outcome", r.Outcome).
		Bool("permission", r.Permission).
		Float64("total_ms", r.TotalMs)
	if r.Strategy != "" {
		ev = ev.Str("strategy", r.Strategy)
	}
	if r.Target != "" {
		ev = ev.Str("target", r.Target)
	}
	if r.Err != "" {
		ev = ev.Str("err", r.Err)
	}
	ev.Msg("submission")
}

func SessionStart(mode string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("mode", mode).
		Msg("session_start")
}

func SessionEnd(count int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("count", count).
		Msg("session_end")
}
