package application

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)}
}

type fakeTextSource struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *fakeTextSource) Name() string {
	return s.name
}

func (s *fakeTextSource) Read(context.Context) (string, error) {
	s.calls++
	return s.text, s.err
}

type fakeCapturer struct {
	name  string
	data  []byte
	err   error
	calls int
}

func (c *fakeCapturer) Name() string {
	return c.name
}

func (c *fakeCapturer) Capture(_ context.Context, path string) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(path, c.data, 0o600)
}

type fakeUploader struct {
	name  string
	url   string
	err   error
	calls int
}

func (u *fakeUploader) Name() string {
	return u.name
}

func (u *fakeUploader) Upload(context.Context, string) (string, error) {
	u.calls++
	return u.url, u.err
}

type fakeCompletion struct {
	content  string
	err      error
	requests [][]ports.ChatMessage
}

func (c *fakeCompletion) Complete(_ context.Context, _ string, messages []ports.ChatMessage) (string, error) {
	c.requests = append(c.requests, messages)
	return c.content, c.err
}

type scriptedPrompter struct {
	inputs []string
	next   int
}

func (p *scriptedPrompter) ReadInput() (string, bool, error) {
	if p.next >= len(p.inputs) {
		return "", false, nil
	}

	input := p.inputs[p.next]
	p.next++
	return input, true, nil
}

type notice struct {
	severity ports.Severity
	message  string
}

type recordingNotifier struct {
	notices []notice
}

func (n *recordingNotifier) Notify(severity ports.Severity, message string) {
	n.notices = append(n.notices, notice{severity: severity, message: message})
}

type recordingRenderer struct {
	calls int
	last  domain.Session
}

func (r *recordingRenderer) TranscriptChanged(session domain.Session) {
	r.calls++
	r.last = session
}

var errWriteRefused = errors.New("disk full")

// memoryRepo is an in-process repository for orchestrator tests that need to
// force store failures.
type memoryRepo struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]domain.Session
	failSave bool
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: map[domain.SessionID]domain.Session{}}
}

func (r *memoryRepo) Save(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failSave {
		return errWriteRefused
	}

	stored := session
	stored.Messages = append([]domain.Message(nil), session.Messages...)
	r.sessions[session.ID] = stored
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id domain.SessionID) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (r *memoryRepo) List(context.Context) ([]domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]domain.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (r *memoryRepo) Path(id domain.SessionID) string {
	return "/memory/session_" + string(id) + ".json"
}
