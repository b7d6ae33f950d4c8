// Package transcript renders a session's stored history for the terminal.
package transcript

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

// Renderer implements the transcript hook by writing the full rendered
// history after every mutation.
type Renderer struct {
	out io.Writer
}

var _ ports.TranscriptRenderer = (*Renderer)(nil)

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) TranscriptChanged(session domain.Session) {
	fmt.Fprintln(r.out, Render(session))
}

func Render(session domain.Session) string {
	s := newStyles()

	lines := []string{
		s.title.Render(fmt.Sprintf("clipchat session %s", session.ID)),
		s.header.Render(headerLine(session)),
		s.context.Render(contextLine(session.Captured)),
	}

	if len(session.Messages) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("No messages. History was cleared; captured context is kept.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, msg := range session.Messages {
		lines = append(lines, s.section.Render(renderMessage(msg, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(session domain.Session) string {
	return fmt.Sprintf("created %s | %d messages",
		session.CreatedAt.Local().Format(time.DateTime), len(session.Messages))
}

func contextLine(captured domain.CapturedContent) string {
	screenshot := "no screenshot"
	switch {
	case captured.HasScreenshotURL():
		screenshot = "screenshot " + captured.ScreenshotURL
	case captured.HasScreenshot():
		screenshot = "screenshot " + captured.ScreenshotPath + " (local only)"
	}

	return fmt.Sprintf("captured %d bytes of text | %s", len(captured.Text), screenshot)
}

func renderMessage(msg domain.Message, s styles) string {
	label := s.assistant
	switch msg.Role {
	case domain.RoleUser:
		label = s.userRole
	case domain.RoleSystem:
		label = s.system
	}

	header := label.Render(string(msg.Role))
	if !msg.Timestamp.IsZero() {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ",
			s.header.Render(msg.Timestamp.Local().Format(time.TimeOnly)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, s.body.Render(msg.Content))
}
