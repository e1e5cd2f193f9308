package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"imepaste/clipboard"
	"imepaste/config"
	"imepaste/doctor"
	"imepaste/history"
	"imepaste/keystroke"
	"imepaste/kv"
	"imepaste/log"
	"imepaste/permission"
	"imepaste/send"
	"imepaste/shell"
	"imepaste/shutdown"
)

var version = "dev"

// Fyne and the hotkey backends need the main goroutine on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// app is one wired session: a clipboard gateway, an automation runner and
// the sender built on top of them.
type app struct {
	cfg     *config.Config
	clip    *clipboard.Gateway
	checker permission.Checker
	history *history.Store // nil when preserve_history is off
	sender  *send.Sender
	self    string // own process name, never a paste target
	count   atomic.Int64
}

// deps are the platform pieces newApp wires together. Test mode swaps them
// for fakes.
type deps struct {
	backend  clipboard.Backend
	runner   shell.Runner
	checker  permission.Checker
	storage  kv.Store
	notifier send.Notifier
}

func systemDeps(cfg *config.Config, notifier send.Notifier) deps {
	// osascript, and with it System Events, only exists on macOS.
	var runner shell.Runner
	if runtime.GOOS == "darwin" {
		runner = shell.Exec{}
	}
	return deps{
		backend:  clipboard.NewSystem(runner),
		runner:   runner,
		checker:  permission.Default(runner, cfg.NativePaste),
		storage:  kv.NewFile(config.StoragePath()),
		notifier: notifier,
	}
}

func newApp(cfg *config.Config, d deps) *app {
	a := &app{cfg: cfg, clip: clipboard.New(d.backend), checker: d.checker, self: selfName()}

	opts := send.Options{
		Clipboard:   a.clip,
		Permission:  d.checker,
		Notifier:    d.notifier,
		SettleDelay: cfg.SettleDelay,
		TargetApp:   cfg.TargetApp,
	}
	if d.runner != nil {
		opts.Keystroke = keystroke.NewInjector(d.runner)
	}
	if cfg.PreserveHistory {
		a.history = history.New(d.storage, cfg.MaxHistoryItems)
		opts.History = a.history
	}
	if cfg.NativePaste {
		opts.Direct = keystroke.NewNative(a.clip, cfg.SettleDelay)
	}
	a.sender = send.New(opts)
	return a
}

func (a *app) submit(ctx context.Context, text string) send.Outcome {
	return a.submitTo(ctx, text, "")
}

// submitTo pastes into target, an application recorded by the form. Empty
// means whatever is frontmost.
func (a *app) submitTo(ctx context.Context, text, target string) send.Outcome {
	a.count.Add(1)
	return a.sender.SubmitTo(ctx, text, target)
}

// frontmost names the focused application, or "" when it is imepaste itself
// or the platform cannot tell.
func (a *app) frontmost(ctx context.Context) string {
	fr, ok := a.checker.(permission.FrontmostReader)
	if !ok {
		return ""
	}
	name, err := fr.Frontmost(ctx)
	if err != nil {
		log.Debugf("frontmost: %v", err)
		return ""
	}
	if name == "" || strings.EqualFold(name, a.self) {
		return ""
	}
	return name
}

func selfName() string {
	exe, err := os.Executable()
	if err != nil {
		return "imepaste"
	}
	return filepath.Base(exe)
}

func (a *app) recent() []string {
	if a.history == nil {
		return nil
	}
	return a.history.Get()
}

func (a *app) clearHistory() {
	if a.history != nil {
		a.history.Clear()
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: imepaste [flags] [send [text...] | history [clear] | doctor | config]\n\n")
	fmt.Fprintf(out, "Without a subcommand imepaste opens the terminal form (or the window with -gui).\n\n")
	flag.PrintDefaults()
}

func isSubcommand(s string) bool {
	switch s {
	case "send", "history", "doctor", "config":
		return true
	}
	return false
}

// parseCommand parses flags on both sides of the subcommand and returns the
// subcommand ("" for none) and its arguments.
func parseCommand(fs *flag.FlagSet, args []string) (string, []string, error) {
	var sub string
	if len(args) > 0 && isSubcommand(args[0]) {
		sub, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", nil, err
	}
	if sub != "" || fs.NArg() == 0 {
		return sub, fs.Args(), nil
	}
	if !isSubcommand(fs.Arg(0)) {
		return "", nil, fmt.Errorf("unknown command %q", fs.Arg(0))
	}
	sub = fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return "", nil, err
	}
	return sub, fs.Args(), nil
}

func run(args []string) int {
	flag.Usage = usage
	configFlag := flag.String("config", "", "config file path (default: "+config.DefaultConfigPath()+")")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	guiFlag := flag.Bool("gui", false, "Run the window and tray instead of the terminal form")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven, fake clipboard and automation)")
	onceFlag := flag.Bool("once", false, "Close the terminal form first, then paste the submitted text")
	targetFlag := flag.String("target", "", "Application to activate before pasting")
	settleFlag := flag.Duration("settle", config.DefaultSettleDelay, "Wait after the paste keystroke before restoring the clipboard")
	nativeFlag := flag.Bool("native", false, "Try a synthesized key event before osascript")
	historyFlag := flag.Bool("history", true, "Keep recent submissions")
	maxHistoryFlag := flag.Int("maxhistory", history.DefaultMax, "Number of submissions to keep")
	countFlag := flag.Bool("charcount", true, "Show the character count in the form")
	logLevelFlag := flag.String("loglevel", "info", "Diagnostics level: debug, info, warn or error")
	sub, subArgs, err := parseCommand(flag.CommandLine, args)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			usage()
		}
		return 2
	}

	if *versionFlag {
		fmt.Printf("imepaste %s\n", version)
		return 0
	}

	cfgPath := *configFlag
	if cfgPath == "" {
		cfgPath = config.DefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.TargetApp = *targetFlag
		case "settle":
			cfg.SettleDelay = *settleFlag
		case "native":
			cfg.NativePaste = *nativeFlag
		case "history":
			cfg.PreserveHistory = *historyFlag
		case "maxhistory":
			cfg.MaxHistoryItems = *maxHistoryFlag
		case "charcount":
			cfg.ShowCharCount = *countFlag
		case "loglevel":
			cfg.LogLevel = *logLevelFlag
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		return 1
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}
	initCrashLog()

	log.SetLevel(cfg.LogLevel)
	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	mode := sub
	switch {
	case *testFlag:
		mode = "test"
	case mode != "":
	case *guiFlag:
		mode = "gui"
	case *onceFlag:
		mode = "once"
	default:
		mode = "tui"
	}
	if mode == "config" {
		return runConfig(cfgPath, cfg, os.Stdout)
	}
	log.SessionStart(mode)

	var a *app
	code := func() int {
		switch mode {
		case "test":
			cfg.NativePaste = false
			return runTestMode(cfg, os.Stdin, os.Stdout, &a)
		case "gui":
			return runGUI(ctx, cfg, &a)
		}

		a = newApp(cfg, systemDeps(cfg, nil))
		switch mode {
		case "send":
			return runSend(ctx, a, subArgs)
		case "history":
			return runHistory(a, subArgs, os.Stdout)
		case "doctor":
			return doctor.Run(ctx, doctor.Env{
				Clipboard:  a.clip,
				Permission: a.checker,
				Sender:     a.sender,
				In:         os.Stdin,
				Out:        os.Stdout,
				Countdown:  3,
			})
		}
		return runTUI(ctx, a, mode == "once")
	}()

	if a != nil {
		log.SessionEnd(int(a.count.Load()))
	}
	return code
}

// initCrashLog sends Go runtime crash output to crash_log.txt in the log
// directory.
func initCrashLog() {
	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func runSend(ctx context.Context, a *app, args []string) int {
	text, err := sendInput(args, os.Stdin, term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	out := a.submit(ctx, text)
	fmt.Println(out.Notice)
	if out.Notice.Style == send.Failure {
		return 1
	}
	return 0
}

var errNoInput = errors.New("no text: pass it as arguments or pipe it on stdin")

// sendInput joins args, or reads all of in when no args are given and in
// is not a terminal.
func sendInput(args []string, in io.Reader, tty bool) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if tty {
		return "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func runHistory(a *app, args []string, w io.Writer) int {
	if a.history == nil {
		fmt.Fprintln(w, "History is disabled (preserve_history: false)")
		return 0
	}
	if len(args) > 0 {
		if args[0] != "clear" {
			fmt.Fprintf(os.Stderr, "Error: unknown history command %q (use: history [clear])\n", args[0])
			return 2
		}
		a.history.Clear()
		fmt.Fprintln(w, "History cleared")
		return 0
	}

	items := a.history.Get()
	if len(items) == 0 {
		fmt.Fprintln(w, "No history")
		return 0
	}
	for i, item := range items {
		fmt.Fprintf(w, "%2d  %s\n", i+1, oneLine(item))
	}
	return 0
}

// runConfig writes the effective settings to path when no file exists yet
// and prints them.
func runConfig(path string, cfg *config.Config, w io.Writer) int {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := cfg.Save(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(w, "# created %s\n", path)
	} else {
		fmt.Fprintf(w, "# %s\n", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	w.Write(data)
	return 0
}

// oneLine flattens multi-line entries for list displays.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ⏎ ")
}
