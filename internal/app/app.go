package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/inference/internal/bot"
	"github.com/abhisek/inference/internal/ui/components"
	"github.com/abhisek/inference/internal/ui/layout"
	"github.com/abhisek/inference/internal/ui/theme"
)

// Runner handles one parsed command. *bot.Handler satisfies it.
type Runner interface {
	Handle(ctx context.Context, sess bot.Session, req bot.Request) error
}

// Status is the header summary for the local player.
type Status struct {
	Progress int
	Solved   int
	Total    int
}

// Options wires the terminal to a handler and a player identity.
type Options struct {
	Runner     Runner
	Status     func(ctx context.Context) (Status, error)
	UserID     string
	UserName   string
	Channel    string
	Privileged bool
}

// replyMsg carries the messages one command produced.
type replyMsg struct {
	texts  []string
	err    error
	status *Status
}

// AppModel is the root Bubble Tea model: a transcript above a prompt.
type AppModel struct {
	opts       Options
	input      components.CommandInput
	transcript []string
	status     Status
	pending    int
	width      int
	height     int
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:    opts,
		input:   components.NewCommandInput("chapter or question id, then an answer", 200),
		pending: 1, // the contents listing issued by Init
	}
}

func (m AppModel) Init() tea.Cmd {
	// Start with the table of contents.
	return tea.Batch(m.input.Init(), m.command(bot.Request{}))
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case replyMsg:
		m.pending = max(m.pending-1, 0)
		for _, t := range msg.texts {
			m.transcript = append(m.transcript, renderReply(t))
		}
		if msg.err != nil {
			m.transcript = append(m.transcript, theme.Failure.Render("error: "+msg.err.Error()))
		}
		if msg.status != nil {
			m.status = *msg.status
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m AppModel) submit() (tea.Model, tea.Cmd) {
	line := m.input.Take()
	switch line {
	case "quit", "exit":
		return m, tea.Quit
	case "clear":
		m.transcript = nil
		return m, nil
	}

	m.transcript = append(m.transcript, theme.Prompt.Render("> "+line))
	req, err := bot.ParseLine(line)
	if err != nil {
		m.transcript = append(m.transcript, theme.Failure.Render(err.Error()))
		return m, nil
	}
	m.pending++
	return m, m.command(req)
}

// command handles req off the UI goroutine and reports back with a replyMsg.
func (m AppModel) command(req bot.Request) tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		ctx := context.Background()
		sess := &bufferSession{opts: opts}
		err := opts.Runner.Handle(ctx, sess, req)

		msg := replyMsg{texts: sess.texts(), err: err}
		if opts.Status != nil {
			if st, err := opts.Status(ctx); err == nil {
				msg.status = &st
			}
		}
		return msg
	}
}

func renderReply(text string) string {
	switch {
	case strings.HasPrefix(text, "Correct!"):
		return theme.ReplyRight.Render(text)
	case text == "Incorrect.":
		return theme.ReplyWrong.Render(text)
	}
	return theme.Reply.Render(text)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := fmt.Sprintf("Chapter %d", m.status.Progress)
	bar := components.NewProgressBar("", m.status.Solved, m.status.Total, 28).View()
	header := layout.RenderHeader(title, bar, m.width)

	footer := layout.RenderFooter([]layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "↑↓", Description: "History"},
		{Key: "Ctrl+C", Description: "Quit"},
	}, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	prompt := m.input.View()
	if m.pending > 0 {
		prompt += "  " + theme.Hint.Render("…")
	}
	body := layout.TailLines(strings.Join(m.transcript, "\n"), contentHeight-1)
	content := body + "\n" + prompt

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// bufferSession collects a command's messages for the transcript.
type bufferSession struct {
	opts Options

	mu  sync.Mutex
	out []string
}

func (s *bufferSession) UserID() string    { return s.opts.UserID }
func (s *bufferSession) UserName() string  { return s.opts.UserName }
func (s *bufferSession) ChannelID() string { return s.opts.Channel }
func (s *bufferSession) Privileged() bool  { return s.opts.Privileged }

func (s *bufferSession) Send(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = append(s.out, text)
	return nil
}

func (s *bufferSession) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.out...)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
