// Package console is a terminal chat client that talks to the bot directly,
// standing in for a chat transport during local use.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/runoshun/taskbot/internal/domain"
)

// Config contains configuration for the console.
type Config struct {
	Handler  domain.UpdateHandler
	Clock    domain.Clock
	UserID   string
	UserName string
	Mode     domain.Visibility
}

type speaker int

const (
	speakerUser speaker = iota
	speakerBot
)

type line struct {
	at   time.Time
	text string
	who  speaker
}

// Model is the bubbletea model for the console.
type Model struct {
	input    textinput.Model
	help     help.Model
	err      error
	config   Config
	keys     KeyMap
	lines    []line
	options  []domain.Option
	viewport viewport.Model
	width    int
	height   int
	busy     bool
	quitting bool
}

type replyMsg struct {
	reply domain.Reply
}

// New creates a new console model.
func New(cfg Config) Model {
	if cfg.Clock == nil {
		cfg.Clock = domain.RealClock{}
	}
	ti := textinput.New()
	ti.Placeholder = "Type /help or a message..."
	ti.CharLimit = 4096
	ti.Prompt = "> "
	ti.Focus()

	h := help.New()
	h.Styles.ShortKey = statusStyle
	h.Styles.ShortDesc = statusStyle
	h.Styles.ShortSeparator = statusStyle

	return Model{
		config:   cfg,
		keys:     DefaultKeyMap(),
		input:    ti,
		help:     h,
		viewport: viewport.New(80, 20),
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model. The session opens with /start like a new chat.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.send(domain.Inbound{Command: "start"}))
}

// send delivers one inbound event to the handler off the UI goroutine.
func (m Model) send(in domain.Inbound) tea.Cmd {
	in.UserID = m.config.UserID
	in.UserName = m.config.UserName
	in.ChatID = m.config.UserID
	handler := m.config.Handler
	return func() tea.Msg {
		return replyMsg{reply: handler.Handle(context.Background(), in)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.updateViewportContent()
		return m, nil

	case replyMsg:
		m.busy = false
		m.applyReply(msg.reply)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case m.busy:
		return m, nil

	case key.Matches(msg, m.keys.Choose) && m.input.Value() == "" && len(m.options) > 0:
		idx, _ := strconv.Atoi(msg.String())
		return m.choose(idx)

	case key.Matches(msg, m.keys.Send):
		text := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if text == "" {
			return m, nil
		}
		return m.submit(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit turns a typed line into an inbound event. A bare number selects
// a listed option.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	if n, err := strconv.Atoi(text); err == nil && len(m.options) > 0 {
		return m.choose(n)
	}
	m.record(speakerUser, text)
	m.err = nil
	m.busy = true
	if cmd, _, ok := domain.ParseCommand(text); ok {
		return m, m.send(domain.Inbound{Command: cmd})
	}
	return m, m.send(domain.Inbound{Text: text})
}

// choose presses the option numbered n (1-based).
func (m Model) choose(n int) (tea.Model, tea.Cmd) {
	if n < 1 || n > len(m.options) {
		m.err = fmt.Errorf("no option %d", n)
		return m, nil
	}
	opt := m.options[n-1]
	m.record(speakerUser, "["+opt.Label+"]")
	m.options = nil
	m.err = nil
	m.busy = true
	return m, m.send(domain.Inbound{Action: opt.Action})
}

func (m *Model) applyReply(r domain.Reply) {
	if r.IsEmpty() {
		return
	}
	m.options = nil
	for _, row := range r.Options {
		m.options = append(m.options, row...)
	}
	m.record(speakerBot, r.Text)
}

func (m *Model) record(who speaker, text string) {
	m.lines = append(m.lines, line{at: m.config.Clock.Now(), who: who, text: text})
	m.updateViewportContent()
}

func (m *Model) updateLayout() {
	// Header, two input border lines, input, option line, status
	vpHeight := m.height - 1 - 3 - 1 - 1 - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = m.width - 2
	m.viewport.Height = vpHeight
	m.input.Width = m.width - 6
	m.help.Width = m.width - 2
}

func (m *Model) updateViewportContent() {
	wrapWidth := m.viewport.Width - 2
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var out []string
	for _, l := range m.lines {
		label := botStyle.Render("BOT")
		if l.who == speakerUser {
			label = userStyle.Render("YOU")
		}
		prefix := fmt.Sprintf("[%s] ", l.at.Format("15:04:05"))
		indent := strings.Repeat(" ", runewidth.StringWidth(prefix)+5)
		for i, wrapped := range strings.Split(wrapText(l.text, wrapWidth-len(indent)), "\n") {
			if i == 0 {
				out = append(out, prefix+label+": "+wrapped)
				continue
			}
			out = append(out, indent+wrapped)
		}
	}
	m.viewport.SetContent(strings.Join(out, "\n"))
	m.viewport.GotoBottom()
}

// optionLine lists the pending options with their numbers.
func (m Model) optionLine() string {
	if len(m.options) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.options))
	for i, opt := range m.options {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, opt.Label))
	}
	return optionStyle.Render(" " + strings.Join(parts, "  "))
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf(" taskbot console - %s (%s mode) ", m.config.UserName, m.config.Mode)
	b.WriteString(titleStyle.Width(m.width).Render(title))
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.optionLine())
	b.WriteString("\n")
	b.WriteString(borderStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")

	var status string
	switch {
	case m.err != nil:
		status = errorStyle.Render(" Error: " + m.err.Error())
	case m.busy:
		status = statusStyle.Render(" ...")
	default:
		status = " " + m.help.View(m.keys)
	}
	b.WriteString(status)
	return b.String()
}

// Run starts the console TUI.
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
