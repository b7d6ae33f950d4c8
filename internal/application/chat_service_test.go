package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

type chatHarness struct {
	service    *ChatService
	sessions   *SessionService
	repo       *memoryRepo
	completion *fakeCompletion
	notifier   *recordingNotifier
	renderer   *recordingRenderer
}

func newChatHarness(t *testing.T, completion *fakeCompletion, inputs ...string) (*chatHarness, *domain.Session) {
	t.Helper()

	repo := newMemoryRepo()
	sessions := NewSessionService(repo, newFixedClock())
	notifier := &recordingNotifier{}
	renderer := &recordingRenderer{}

	session, err := sessions.Create(context.Background(), "", domain.CapturedContent{Text: "hello world"})
	require.NoError(t, err)

	service := NewChatService(
		sessions,
		completion,
		&scriptedPrompter{inputs: inputs},
		renderer,
		notifier,
		nil,
		"openrouter/sonoma-sky-alpha",
		time.Second,
	)

	return &chatHarness{
		service:    service,
		sessions:   sessions,
		repo:       repo,
		completion: completion,
		notifier:   notifier,
		renderer:   renderer,
	}, &session
}

func (h *chatHarness) mustEnterLoop(t *testing.T, session *domain.Session) {
	t.Helper()
	h.service.state = StateAwaitingInput
	h.renderer.TranscriptChanged(*session)
}

func lastNotice(t *testing.T, notifier *recordingNotifier) notice {
	t.Helper()
	require.NotEmpty(t, notifier.notices)
	return notifier.notices[len(notifier.notices)-1]
}

func TestRunEndsOnExitTokenWithoutCallingAPI(t *testing.T) {
	t.Parallel()

	for _, token := range []string{"exit", "quit", "bye"} {
		t.Run(token, func(t *testing.T) {
			t.Parallel()

			completion := &fakeCompletion{content: "unused"}
			h, session := newChatHarness(t, completion, token)

			require.NoError(t, h.service.Run(context.Background(), session))

			assert.Equal(t, StateTerminated, h.service.State())
			assert.Empty(t, completion.requests)
			assert.Contains(t, lastNotice(t, h.notifier).message, h.sessions.TranscriptPath(session.ID))

			loaded, err := h.sessions.Load(context.Background(), session.ID)
			require.NoError(t, err)
			assert.Len(t, loaded.Messages, 1)
		})
	}
}

func TestExitTokensAreCaseSensitive(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{content: "Reply."}
	h, session := newChatHarness(t, completion, "EXIT", "exit")

	require.NoError(t, h.service.Run(context.Background(), session))

	// "EXIT" is an ordinary turn; only the lowercase token terminates.
	require.Len(t, completion.requests, 1)
	loaded, err := h.sessions.Load(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 3)
	assert.Equal(t, "EXIT", loaded.Messages[1].Content)
}

func TestRunEndsWhenPromptIsCancelled(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{}
	h, session := newChatHarness(t, completion) // no inputs: immediate cancel

	require.NoError(t, h.service.Run(context.Background(), session))
	assert.Equal(t, StateTerminated, h.service.State())
	assert.Empty(t, completion.requests)
}

func TestHelpHistoryAndEmptyInputDoNotCallAPI(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{}
	h, session := newChatHarness(t, completion, "help", "   ", "history", "exit")

	require.NoError(t, h.service.Run(context.Background(), session))

	assert.Empty(t, completion.requests)

	var sawHelp bool
	for _, n := range h.notifier.notices {
		if n.severity == ports.SeverityInfo && n.message == helpText {
			sawHelp = true
		}
	}
	assert.True(t, sawHelp, "help text notice expected")

	// initial render + history re-render
	assert.GreaterOrEqual(t, h.renderer.calls, 2)
}

func TestClearTruncatesHistoryAndKeepsSessionAlive(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{content: "Summary."}
	h, session := newChatHarness(t, completion, "summarize", "clear", "exit")

	require.NoError(t, h.service.Run(context.Background(), session))

	loaded, err := h.sessions.Load(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Messages)
	assert.Equal(t, "hello world", loaded.Captured.Text)
	assert.Equal(t, session.ID, loaded.ID)
}

func TestFailedCompletionKeepsUserTurnAndContinues(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{err: domain.ErrMalformedResponse}
	h, session := newChatHarness(t, completion)
	h.mustEnterLoop(t, session)

	require.NoError(t, h.service.HandleInput(context.Background(), session, "summarize"))

	assert.Equal(t, StateAwaitingInput, h.service.State())

	loaded, err := h.sessions.Load(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2)
	assert.Equal(t, domain.RoleUser, loaded.Messages[1].Role)

	last := lastNotice(t, h.notifier)
	assert.Equal(t, ports.SeverityError, last.severity)
}

func TestUnauthorizedCompletionIsReportedPerTurn(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{err: domain.ErrUnauthorized}
	h, session := newChatHarness(t, completion)
	h.mustEnterLoop(t, session)

	require.NoError(t, h.service.HandleInput(context.Background(), session, "summarize"))
	assert.Contains(t, lastNotice(t, h.notifier).message, "rejected")
	assert.Equal(t, StateAwaitingInput, h.service.State())
}

func TestEmptyCompletionContentIsTreatedAsMalformed(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{content: "   "}
	h, session := newChatHarness(t, completion)
	h.mustEnterLoop(t, session)

	require.NoError(t, h.service.HandleInput(context.Background(), session, "summarize"))

	loaded, err := h.sessions.Load(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 2)
	assert.Equal(t, ports.SeverityError, lastNotice(t, h.notifier).severity)
}

func TestStoreWriteFailureTerminatesSession(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{content: "Summary."}
	h, session := newChatHarness(t, completion)
	h.mustEnterLoop(t, session)

	h.repo.failSave = true
	err := h.service.HandleInput(context.Background(), session, "summarize")
	require.ErrorIs(t, err, errWriteRefused)
	assert.Equal(t, StateTerminated, h.service.State())
	assert.Equal(t, ports.SeverityError, lastNotice(t, h.notifier).severity)
	assert.Empty(t, completion.requests)
}

func TestEndToEndTextOnlyConversation(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{content: "Summary."}
	h, session := newChatHarness(t, completion, "summarize", "exit")

	require.NoError(t, h.service.Run(context.Background(), session))

	loaded, err := h.sessions.Load(context.Background(), session.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 3)

	assert.Equal(t, domain.RoleUser, loaded.Messages[0].Role)
	assert.Contains(t, loaded.Messages[0].Content, "hello world")
	assert.Equal(t, domain.RoleUser, loaded.Messages[1].Role)
	assert.Equal(t, "summarize", loaded.Messages[1].Content)
	assert.Equal(t, domain.RoleAssistant, loaded.Messages[2].Role)
	assert.Equal(t, "Summary.", loaded.Messages[2].Content)

	// The request carried the full history: seed plus the user's turn.
	require.Len(t, completion.requests, 1)
	require.Len(t, completion.requests[0], 2)
	assert.Contains(t, completion.requests[0][0].Text, "hello world")
}

func TestEndToEndScreenshotConversationSendsMultimodalSeed(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	sessions := NewSessionService(repo, newFixedClock())
	completion := &fakeCompletion{content: "I can see the screen."}
	notifier := &recordingNotifier{}
	renderer := &recordingRenderer{}

	session, err := sessions.Create(context.Background(), "", domain.CapturedContent{
		Text:           "hello world",
		ScreenshotPath: "/tmp/shot.png",
		ScreenshotURL:  "https://host/x.png",
	})
	require.NoError(t, err)

	service := NewChatService(sessions, completion, &scriptedPrompter{inputs: []string{"summarize", "exit"}},
		renderer, notifier, nil, "openrouter/sonoma-sky-alpha", time.Second)

	require.NoError(t, service.Run(context.Background(), &session))

	require.Len(t, completion.requests, 1)
	wire := completion.requests[0]
	require.Len(t, wire, 2)

	require.Len(t, wire[0].Parts, 2)
	assert.Equal(t, domain.PartKindText, wire[0].Parts[0].Kind)
	assert.Equal(t, domain.PartKindImage, wire[0].Parts[1].Kind)
	assert.Equal(t, "https://host/x.png", wire[0].Parts[1].URL)
	assert.Nil(t, wire[1].Parts)
	assert.Equal(t, "summarize", wire[1].Text)
}

func TestHandleInputOutsideAwaitingInputIsRejected(t *testing.T) {
	t.Parallel()

	completion := &fakeCompletion{}
	h, session := newChatHarness(t, completion)

	err := h.service.HandleInput(context.Background(), session, "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrMalformedResponse))
}
