package ports

import "github.com/bnema/clipchat-cli/internal/domain"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier delivers user-visible notices. The orchestrator never writes to
// the terminal or desktop directly; the presentation layer implements this.
type Notifier interface {
	Notify(severity Severity, message string)
}

// TranscriptRenderer is invoked after every session mutation with the current
// persisted state.
type TranscriptRenderer interface {
	TranscriptChanged(session domain.Session)
}

// Prompter blocks for the next user turn. ok is false when the user cancelled
// the prompt (EOF or interrupt), which terminates the session.
type Prompter interface {
	ReadInput() (text string, ok bool, err error)
}
