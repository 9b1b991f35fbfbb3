// Package tui is the interactive terminal advisor: a log of operator
// commands, a status panel with hands, count, bet and statistics, and the
// current recommendation above a command prompt.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-advisor/internal/command"
	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/session"
)

const sidebarWidth = 52

type focus int

const (
	focusLog focus = iota
	focusInput
)

// SaveFunc persists the session after a mutating command.
type SaveFunc func(*session.State) error

// Model is the bubbletea model for the advisor.
type Model struct {
	state    *session.State
	executor *command.Executor
	save     SaveFunc
	logger   *log.Logger

	logView viewport.Model
	input   textinput.Model
	entries []string
	focus   focus

	width    int
	height   int
	quitting bool
}

// New returns a model driving state. save may be nil.
func New(state *session.State, executor *command.Executor, save SaveFunc, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = `Enter a command ("p A K", "d 10", "win", "help")`
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 60
	ti.Prompt = "> "
	ti.PromptStyle = promptStyle
	ti.TextStyle = inputTextStyle

	m := &Model{
		state:    state,
		executor: executor,
		save:     save,
		logger:   logger.WithPrefix("tui"),
		logView:  vp,
		input:    ti,
		focus:    focusInput,
	}
	m.addEntry(display.InfoStyle.Render("Type help for commands."))
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Resized", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focus == focusInput {
				m.focus = focusLog
				m.input.Blur()
			} else {
				m.focus = focusInput
				cmds = append(cmds, m.input.Focus())
			}
			return m, tea.Batch(cmds...)
		case "enter":
			if m.focus == focusInput {
				line := strings.TrimSpace(m.input.Value())
				m.input.SetValue("")
				if m.Submit(line) {
					m.quitting = true
					return m, tea.Quit
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		m.logView, cmd = m.logView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// Submit runs one command line against the session, logs the outcome and
// saves the session if it changed. It reports whether the operator asked to
// quit.
func (m *Model) Submit(line string) bool {
	if line == "" {
		return false
	}
	m.addEntry(promptStyle.Render("> ") + line)

	res, err := m.executor.Run(context.Background(), m.state, line)
	if err != nil {
		m.logger.Debug("Command rejected", "input", line, "error", err)
		style := display.ErrorStyle
		if errors.Is(err, command.ErrNotAllowed) {
			style = display.WarningStyle
		}
		m.addEntry(style.Render(err.Error()))
		return false
	}

	for _, l := range strings.Split(res.Message, "\n") {
		m.addEntry(l)
	}
	if res.Changed && m.save != nil {
		if err := m.save(m.state); err != nil {
			m.logger.Warn("Failed to save session", "error", err)
			m.addEntry(display.WarningStyle.Render("session not saved: " + err.Error()))
		}
	}
	return res.Quit
}

func (m *Model) addEntry(entry string) {
	m.entries = append(m.entries, entry)
	m.logView.SetContent(strings.Join(m.entries, "\n"))
	if m.logView.Height > 0 && m.logView.Width > 0 {
		m.logView.GotoBottom()
	}
}

// Entries returns the log lines.
func (m *Model) Entries() []string {
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionPane := pane(m.focus == focusInput, m.width-2, actionHeight).Render(actionContent)

	topHeight := m.height - actionHeight - 4
	sidebar := pane(false, sidebarWidth, topHeight).Render(Status(m.state))

	m.logView.Width = max(1, m.width-sidebarWidth-4)
	m.logView.Height = max(1, topHeight)
	logPane := pane(m.focus == focusLog, m.logView.Width, m.logView.Height).Render(m.logView.View())

	top := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, top, actionPane)
}

func (m *Model) renderActionPane() string {
	var b strings.Builder
	b.WriteString(Advice(m.state))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.focus == focusLog {
		b.WriteString(hintStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn page, Tab to input"))
	} else {
		b.WriteString(hintStyle.Render("Tab to scroll log • Enter to submit • Esc to quit"))
	}
	return b.String()
}
