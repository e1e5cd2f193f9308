package main

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imepaste/log"
	"imepaste/permission"
	"imepaste/send"
)

// TUI message types
type submitDoneMsg struct{ out send.Outcome }

// frontmostMsg names the application focused after the terminal lost focus.
// host marks the lookup made at startup, which finds the terminal itself.
type frontmostMsg struct {
	name string
	host bool
}

type tuiKeyMap struct {
	Submit key.Binding
	Prev   key.Binding
	Next   key.Binding
	Forget key.Binding
	Quit   key.Binding
}

func defaultTUIKeys() tuiKeyMap {
	return tuiKeyMap{
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "send")),
		Prev:   key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p/n", "history")),
		Next:   key.NewBinding(key.WithKeys("ctrl+n")),
		Forget: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// tuiHooks connect the form to the session. History and ClearHistory are
// nil when history is off; Frontmost is nil where the focused application
// cannot be named.
type tuiHooks struct {
	Submit       func(text, target string) send.Outcome
	Frontmost    func() string
	History      func() []string
	ClearHistory func()
}

type tuiModel struct {
	input     textarea.Model
	spinner   spinner.Model
	keys      tuiKeyMap
	hooks     tuiHooks
	showCount bool
	target    string
	once      bool // quit on submit and leave the paste to the caller

	host     string // terminal running the form
	returnTo string // last application the user switched to

	busy   bool
	notice *send.Notice
	recall int    // index into history while browsing, -1 otherwise
	draft  string // form text saved when browsing starts
	width  int

	submitted string
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	noticeStyles = map[send.Style]lipgloss.Style{
		send.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		send.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		send.Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func newTUIModel(hooks tuiHooks, showCount bool, target string, once bool) tuiModel {
	ta := textarea.New()
	ta.Placeholder = "Type or paste text, then press ctrl+s"
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(8)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return tuiModel{
		input:     ta,
		spinner:   s,
		keys:      defaultTUIKeys(),
		hooks:     hooks,
		showCount: showCount,
		target:    target,
		once:      once,
		recall:    -1,
	}
}

func (m tuiModel) Init() tea.Cmd {
	if m.hooks.Frontmost == nil {
		return textarea.Blink
	}
	return tea.Batch(textarea.Blink, m.lookupFrontmost(true))
}

func (m tuiModel) lookupFrontmost(host bool) tea.Cmd {
	frontmost := m.hooks.Frontmost
	return func() tea.Msg {
		return frontmostMsg{name: frontmost(), host: host}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 2)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.BlurMsg:
		if m.hooks.Frontmost == nil {
			return m, nil
		}
		return m, m.lookupFrontmost(false)

	case frontmostMsg:
		switch {
		case msg.name == "":
		case msg.host:
			m.host = msg.name
		case msg.name != m.host:
			m.returnTo = msg.name
		}
		return m, nil

	case submitDoneMsg:
		m.busy = false
		n := msg.out.Notice
		m.notice = &n
		if n.Style != send.Failure && msg.out.Chars > 0 {
			m.input.Reset()
			m.recall = -1
		}
		return m, m.input.Focus()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		case key.Matches(msg, m.keys.Prev):
			return m.browse(1), nil
		case key.Matches(msg, m.keys.Next):
			return m.browse(-1), nil
		case key.Matches(msg, m.keys.Forget):
			if m.hooks.ClearHistory != nil {
				m.hooks.ClearHistory()
				m.recall = -1
				m.notice = &send.Notice{Style: send.Info, Title: "History cleared"}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if m.once && strings.TrimSpace(text) != "" {
		m.submitted = text
		return m, tea.Quit
	}
	m.busy = true
	m.notice = nil
	m.input.Blur()
	submit, target := m.hooks.Submit, m.returnTo
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return submitDoneMsg{out: submit(text, target)}
	})
}

// browse moves through history: step 1 goes to older entries, -1 back
// toward the draft the user was typing.
func (m tuiModel) browse(step int) tuiModel {
	if m.hooks.History == nil {
		return m
	}
	items := m.hooks.History()
	next := m.recall + step
	if next < -1 || next >= len(items) {
		return m
	}
	if m.recall == -1 {
		m.draft = m.input.Value()
	}
	m.recall = next
	if next == -1 {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(items[next])
	}
	return m
}

func (m tuiModel) View() string {
	var b strings.Builder

	title := titleStyle.Render("imepaste")
	switch {
	case m.target != "":
		title += dimStyle.Render(" → " + m.target)
	case m.returnTo != "":
		title += dimStyle.Render(" → " + m.returnTo)
	case m.hooks.Frontmost != nil && !m.once:
		title += dimStyle.Render("  switch to the target app once so the paste can return to it")
	}
	b.WriteString(title + "\n\n")
	b.WriteString(m.input.View() + "\n")

	var info []string
	if m.showCount {
		info = append(info, dimStyle.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(m.input.Value()))))
	}
	if m.recall >= 0 {
		info = append(info, dimStyle.Render(fmt.Sprintf("history %d", m.recall+1)))
	}
	b.WriteString(strings.Join(info, dimStyle.Render(" · ")) + "\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " Sending...\n")
	case m.notice != nil:
		b.WriteString(noticeStyles[m.notice.Style].Render(m.notice.String()) + "\n")
	default:
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.helpLine() + "\n")
	return b.String()
}

func (m tuiModel) helpLine() string {
	bindings := []key.Binding{m.keys.Submit}
	if m.hooks.History != nil {
		bindings = append(bindings, m.keys.Prev, m.keys.Forget)
	}
	bindings = append(bindings, m.keys.Quit)

	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+helpStyle.Render(" "+h.Desc))
	}
	return strings.Join(parts, helpStyle.Render("  "))
}

func runTUI(ctx context.Context, a *app, once bool) int {
	hooks := tuiHooks{
		Submit: func(text, target string) send.Outcome { return a.submitTo(ctx, text, target) },
	}
	if _, ok := a.checker.(permission.FrontmostReader); ok {
		hooks.Frontmost = func() string { return a.frontmost(ctx) }
	}
	if a.history != nil {
		hooks.History = a.recent
		hooks.ClearHistory = a.clearHistory
	}

	p := tea.NewProgram(newTUIModel(hooks, a.cfg.ShowCharCount, a.cfg.TargetApp, once),
		tea.WithContext(ctx), tea.WithReportFocus())
	final, err := p.Run()
	if err != nil && ctx.Err() == nil {
		log.Errorf("TUI error: %v", err)
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	m, ok := final.(tuiModel)
	if !ok || m.submitted == "" {
		return 0
	}
	// The form is gone, so the paste lands in whatever had focus before it.
	out := a.submitTo(ctx, m.submitted, m.returnTo)
	fmt.Println(out.Notice)
	if out.Notice.Style == send.Failure {
		return 1
	}
	return 0
}
