//go:build gui

// Package gui is the desktop form: a window with a multi-line entry that
// hides itself before pasting, plus a tray menu.
package gui

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"imepaste/log"
	"imepaste/login"
	"imepaste/send"
)

// Options connect the window to a session. History and ClearHistory are nil
// when history is off. Frontmost names the focused application before the
// window shows; the paste goes back to it.
type Options struct {
	Submit       func(text, target string) send.Outcome
	Frontmost    func() string
	History      func() []string
	ClearHistory func()
	ShowCount    bool
	Target       string
	HotkeyLabel  string
}

type App struct {
	opts    Options
	fyneApp fyne.App
	window  fyne.Window
	entry   *formEntry
	status  *widget.Label
	count   *widget.Label
	sendBtn *widget.Button
	recent  *widget.Select
	items   []string
	busy    atomic.Bool

	mu       sync.Mutex
	returnTo string
}

func New(opts Options) *App {
	return &App{opts: opts}
}

// Run builds the window and tray and blocks in the Fyne event loop.
func (a *App) Run() error {
	a.fyneApp = app.NewWithID("com.imepaste.app")
	a.fyneApp.Settings().SetTheme(&darkTheme{})

	a.window = a.fyneApp.NewWindow("imepaste")
	a.window.SetContent(a.build())
	a.window.Resize(fyne.NewSize(520, 320))
	a.window.CenterOnScreen()
	// Closing the window keeps the tray and hotkey alive.
	a.window.SetCloseIntercept(a.window.Hide)

	a.setupTray()
	a.refreshHistory()
	a.remember()
	a.window.Show()
	a.window.Canvas().Focus(a.entry)

	a.fyneApp.Run()
	return nil
}

func (a *App) build() fyne.CanvasObject {
	a.entry = newFormEntry(a.submit)
	a.entry.SetPlaceHolder("Type or paste text")

	a.status = widget.NewLabel("")
	a.status.Wrapping = fyne.TextWrapWord
	a.count = widget.NewLabel("")
	a.count.Importance = widget.LowImportance
	a.entry.OnChanged = a.updateCount
	a.updateCount("")

	a.sendBtn = widget.NewButtonWithIcon("Send", theme.MailSendIcon(), a.submit)
	a.sendBtn.Importance = widget.HighImportance

	bar := []fyne.CanvasObject{}
	if a.opts.History != nil {
		a.recent = widget.NewSelect(nil, a.recall)
		a.recent.PlaceHolder = "Recent"
		clearBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), a.clearHistory)
		bar = append(bar, a.recent, clearBtn)
	}
	bar = append(bar, layout.NewSpacer(), a.count, a.sendBtn)

	header := widget.NewLabel(a.headerText())
	header.TextStyle = fyne.TextStyle{Bold: true}

	bottom := container.NewVBox(container.NewHBox(bar...), a.status)
	return container.NewBorder(header, bottom, nil, nil, a.entry)
}

func (a *App) headerText() string {
	text := "Compose, then " + shortcutLabel() + " to paste"
	if a.opts.Target != "" {
		text += " into " + a.opts.Target
	}
	return text
}

func (a *App) updateCount(s string) {
	if !a.opts.ShowCount {
		a.count.Hide()
		return
	}
	a.count.SetText(fmt.Sprintf("%d characters", utf8.RuneCountInString(s)))
}

// submit hides the window so the paste lands in the app underneath, then
// runs the submission off the UI goroutine.
func (a *App) submit() {
	text := a.entry.Text
	target := a.target()
	if strings.TrimSpace(text) == "" {
		a.setNotice(a.opts.Submit(text, target).Notice)
		return
	}
	if !a.busy.CompareAndSwap(false, true) {
		return
	}
	a.sendBtn.Disable()
	a.status.SetText("Sending...")
	a.window.Hide()

	go func() {
		out := a.opts.Submit(text, target)
		fyne.Do(func() {
			a.busy.Store(false)
			a.sendBtn.Enable()
			a.setNotice(out.Notice)
			if out.Notice.Style == send.Failure {
				a.Show()
				return
			}
			a.entry.SetText("")
			a.refreshHistory()
		})
	}()
}

func (a *App) setNotice(n send.Notice) {
	switch n.Style {
	case send.Success:
		a.status.Importance = widget.SuccessImportance
	case send.Failure:
		a.status.Importance = widget.DangerImportance
	default:
		a.status.Importance = widget.MediumImportance
	}
	a.status.SetText(n.String())
}

// Notify posts a system notification for submissions made while the window
// was hidden. Validation notices only go to the status line.
func (a *App) Notify(n send.Notice) {
	if !a.busy.Load() || a.fyneApp == nil {
		return
	}
	a.fyneApp.SendNotification(fyne.NewNotification(n.Title, n.Message))
}

func (a *App) recall(label string) {
	if label == "" {
		return
	}
	for i, opt := range a.recent.Options {
		if opt == label && i < len(a.items) {
			a.entry.SetText(a.items[i])
			a.window.Canvas().Focus(a.entry)
			return
		}
	}
}

func (a *App) refreshHistory() {
	if a.recent == nil {
		return
	}
	a.items = a.opts.History()
	labels := make([]string, len(a.items))
	for i, item := range a.items {
		labels[i] = historyLabel(i, item)
	}
	a.recent.ClearSelected()
	a.recent.SetOptions(labels)
}

func (a *App) clearHistory() {
	if a.opts.ClearHistory == nil {
		return
	}
	a.opts.ClearHistory()
	a.refreshHistory()
	a.setNotice(send.Notice{Style: send.Info, Title: "History cleared"})
}

func (a *App) setupTray() {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	items := []*fyne.MenuItem{fyne.NewMenuItem("Show ("+a.opts.HotkeyLabel+")", a.Show)}
	menu := fyne.NewMenu("imepaste")

	if login.Supported() {
		startAtLogin := fyne.NewMenuItem("Start at Login", nil)
		startAtLogin.Checked = login.Enabled()
		startAtLogin.Action = func() {
			var err error
			if startAtLogin.Checked {
				err = login.Disable()
			} else {
				err = login.Enable()
			}
			if err != nil {
				log.Warnf("start at login: %v", err)
			}
			startAtLogin.Checked = login.Enabled()
			menu.Refresh()
		}
		items = append(items, startAtLogin)
	}
	if a.opts.ClearHistory != nil {
		items = append(items, fyne.NewMenuItem("Clear History", a.clearHistory))
	}

	menu.Items = items
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(trayIcon())
}

// remember records the application that had focus before the window.
func (a *App) remember() {
	if a.opts.Frontmost == nil {
		return
	}
	name := a.opts.Frontmost()
	if name == "" {
		return
	}
	a.mu.Lock()
	a.returnTo = name
	a.mu.Unlock()
}

func (a *App) target() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.returnTo
}

// Show records the focused application, then brings the window forward
// with the entry focused.
func (a *App) Show() {
	a.remember()
	fyne.Do(func() {
		if a.window == nil {
			return
		}
		a.window.Show()
		a.window.RequestFocus()
		a.window.Canvas().Focus(a.entry)
	})
}

func (a *App) Quit() {
	if a.fyneApp != nil {
		fyne.Do(a.fyneApp.Quit)
	}
}

func historyLabel(i int, text string) string {
	const width = 40
	flat := strings.ReplaceAll(text, "\n", " ⏎ ")
	if utf8.RuneCountInString(flat) > width {
		flat = string([]rune(flat)[:width]) + "…"
	}
	return fmt.Sprintf("%d. %s", i+1, flat)
}

func shortcutLabel() string {
	if runtime.GOOS == "darwin" {
		return "Cmd+Enter"
	}
	return "Ctrl+Enter"
}
