package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/clipchat-cli/internal/ports"
)

type completionDoneMsg struct {
	content string
	err     error
}

type completionSpinnerModel struct {
	spinner spinner.Model
	label   string
	fetch   tea.Cmd
	content string
	err     error
	done    bool
}

func newCompletionSpinnerModel(label string, fetch tea.Cmd) completionSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return completionSpinnerModel{
		spinner: s,
		label:   label,
		fetch:   fetch,
	}
}

func (m completionSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch)
}

func (m completionSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case completionDoneMsg:
		m.done = true
		m.content = msg.content
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m completionSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

// spinnerCompletion decorates the completion client with a terminal spinner
// for the duration of the blocking call. The orchestrator stays unaware of
// presentation concerns.
type spinnerCompletion struct {
	inner ports.CompletionClient
	out   io.Writer
}

var _ ports.CompletionClient = spinnerCompletion{}

func withSpinner(inner ports.CompletionClient, out io.Writer) ports.CompletionClient {
	return spinnerCompletion{inner: inner, out: out}
}

func (s spinnerCompletion) Complete(ctx context.Context, model string, messages []ports.ChatMessage) (string, error) {
	fetchCmd := func() tea.Msg {
		content, err := s.inner.Complete(ctx, model, messages)
		return completionDoneMsg{content: content, err: err}
	}

	p := tea.NewProgram(
		newCompletionSpinnerModel("Waiting for "+model+"...", fetchCmd),
		tea.WithInput(nil),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		// When ctx expires, tea kills the program and reports its own error;
		// the caller needs the context error to pick the timeout notice.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", err
	}

	result, ok := finalModel.(completionSpinnerModel)
	if !ok {
		return "", fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.content, result.err
}
