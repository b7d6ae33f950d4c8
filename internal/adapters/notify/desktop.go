// Package notify delivers user-visible notices. Desktop delivery goes
// through notify-send when present; the terminal fallback keeps notices
// visible on headless or stripped-down systems.
package notify

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/clipchat-cli/internal/ports"
)

const sendTimeout = 2 * time.Second

var severityStyles = map[ports.Severity]lipgloss.Style{
	ports.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	ports.SeverityWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	ports.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
}

type Desktop struct {
	fallback io.Writer
	desktop  bool
}

var _ ports.Notifier = (*Desktop)(nil)

// NewDesktop writes every notice to fallback and additionally mirrors it to
// the desktop when enabled.
func NewDesktop(fallback io.Writer, desktop bool) *Desktop {
	return &Desktop{fallback: fallback, desktop: desktop}
}

func (d *Desktop) Notify(severity ports.Severity, message string) {
	style, ok := severityStyles[severity]
	if !ok {
		style = severityStyles[ports.SeverityInfo]
	}

	fmt.Fprintf(d.fallback, "%s %s\n", style.Render(fmt.Sprintf("[%s]", severity)), message)

	if d.desktop {
		sendDesktopNotice(severity, message)
	}
}

func sendDesktopNotice(severity ports.Severity, message string) {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	urgency := "normal"
	if severity == ports.SeverityError {
		urgency = "critical"
	}

	_ = exec.CommandContext(ctx, path, "-u", urgency, "clipchat", message).Run()
}
