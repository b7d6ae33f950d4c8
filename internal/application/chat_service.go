package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateProcessing
	StateTerminated
)

const defaultRequestTimeout = 60 * time.Second

// Exit tokens are matched case-sensitively against the trimmed input.
var exitTokens = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
}

const helpText = `Commands:
  help     show this help
  history  re-render the stored transcript
  clear    wipe the message history (captured context is kept)
  exit | quit | bye  end the session

Anything else is sent to the model as your next turn.`

// ChatService drives one interactive session as a turn-based state machine.
// A single goroutine owns the loop: the prompt is not re-entered while a
// completion call is in flight, and the only cancellation point is the
// user-cancel path at the prompt.
type ChatService struct {
	sessions   *SessionService
	completion ports.CompletionClient
	prompter   ports.Prompter
	renderer   ports.TranscriptRenderer
	notifier   ports.Notifier
	logger     *log.Logger

	model          string
	requestTimeout time.Duration
	state          State
}

func NewChatService(
	sessions *SessionService,
	completion ports.CompletionClient,
	prompter ports.Prompter,
	renderer ports.TranscriptRenderer,
	notifier ports.Notifier,
	logger *log.Logger,
	model string,
	requestTimeout time.Duration,
) *ChatService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return &ChatService{
		sessions:       sessions,
		completion:     completion,
		prompter:       prompter,
		renderer:       renderer,
		notifier:       notifier,
		logger:         logger,
		model:          model,
		requestTimeout: requestTimeout,
		state:          StateIdle,
	}
}

func (c *ChatService) State() State {
	return c.state
}

// Run enters the interactive loop for an already-created session and returns
// when the user ends it. The returned error is non-nil only for store write
// failures, which terminate the session rather than leave it inconsistent.
func (c *ChatService) Run(ctx context.Context, session *domain.Session) error {
	c.state = StateAwaitingInput
	c.renderer.TranscriptChanged(*session)

	for c.state == StateAwaitingInput {
		input, ok, err := c.prompter.ReadInput()
		if err != nil {
			c.terminate(session, fmt.Sprintf("Input closed (%v).", err))
			return nil
		}
		if !ok {
			c.terminate(session, "Session cancelled.")
			return nil
		}

		if err := c.HandleInput(ctx, session, input); err != nil {
			return err
		}
	}

	return nil
}

// HandleInput applies one user turn. It is exposed separately from Run so the
// state machine can be driven without a prompter.
func (c *ChatService) HandleInput(ctx context.Context, session *domain.Session, input string) error {
	if c.state != StateAwaitingInput {
		return fmt.Errorf("input received in state %d", c.state)
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if _, isExit := exitTokens[input]; isExit {
		c.terminate(session, "Session ended.")
		return nil
	}

	switch input {
	case "help":
		c.notifier.Notify(ports.SeverityInfo, helpText)
		return nil
	case "history":
		c.renderer.TranscriptChanged(*session)
		return nil
	case "clear":
		if err := c.sessions.Clear(ctx, session); err != nil {
			return c.fatalStoreFailure(session, err)
		}
		c.renderer.TranscriptChanged(*session)
		return nil
	}

	return c.processTurn(ctx, session, input)
}

func (c *ChatService) processTurn(ctx context.Context, session *domain.Session, input string) error {
	c.state = StateProcessing
	defer func() {
		if c.state == StateProcessing {
			c.state = StateAwaitingInput
		}
	}()

	if err := c.sessions.Append(ctx, session, domain.RoleUser, input); err != nil {
		return c.fatalStoreFailure(session, err)
	}
	c.renderer.TranscriptChanged(*session)

	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	started := time.Now()
	content, err := c.completion.Complete(reqCtx, c.model, BuildWireMessages(*session))
	if err != nil {
		// The user's own message stays persisted; the turn just yields no
		// assistant entry. No retry.
		c.logger.Warn("completion failed", "model", c.model, "err", err)
		c.notifier.Notify(ports.SeverityError, completionFailureNotice(err))
		return nil
	}

	if strings.TrimSpace(content) == "" {
		c.logger.Warn("completion returned empty content", "model", c.model)
		c.notifier.Notify(ports.SeverityError, completionFailureNotice(domain.ErrMalformedResponse))
		return nil
	}

	c.logger.Debug("completion succeeded", "model", c.model, "elapsed", time.Since(started))

	if err := c.sessions.Append(ctx, session, domain.RoleAssistant, content); err != nil {
		return c.fatalStoreFailure(session, err)
	}
	c.renderer.TranscriptChanged(*session)

	return nil
}

func (c *ChatService) terminate(session *domain.Session, reason string) {
	c.state = StateTerminated
	c.notifier.Notify(ports.SeverityInfo, fmt.Sprintf(
		"%s Transcript saved to %s", reason, c.sessions.TranscriptPath(session.ID),
	))
}

// fatalStoreFailure ends the session: the record is the only history, so
// continuing after a failed write would silently lose turns.
func (c *ChatService) fatalStoreFailure(session *domain.Session, err error) error {
	c.state = StateTerminated
	c.notifier.Notify(ports.SeverityError, fmt.Sprintf(
		"History write failed, ending session. Last good transcript: %s",
		c.sessions.TranscriptPath(session.ID),
	))

	return fmt.Errorf("session %s store failure: %w", session.ID, err)
}

func completionFailureNotice(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "The completion API rejected the configured key. Check `clipchat auth status`."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The completion API returned an unusable response. Your message was kept; try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The completion request timed out. Your message was kept; try again."
	default:
		return fmt.Sprintf("Completion request failed: %v. Your message was kept; try again.", err)
	}
}
