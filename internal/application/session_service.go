package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

// SessionService owns session lifecycle on top of the repository. The
// persisted record is authoritative: every mutation is written through before
// it is considered applied, and a failed write rolls the in-memory session
// back so the two never diverge.
type SessionService struct {
	repo  ports.SessionRepository
	clock ports.Clock
}

func NewSessionService(repo ports.SessionRepository, clock ports.Clock) *SessionService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &SessionService{repo: repo, clock: clock}
}

// Create persists a fresh session seeded with a single user message built
// from the captured text. Callers may pre-allocate the id (so companion
// files such as the screenshot can share the session key); an empty id is
// allocated here.
func (s *SessionService) Create(ctx context.Context, id domain.SessionID, content domain.CapturedContent) (domain.Session, error) {
	if strings.TrimSpace(content.Text) == "" {
		return domain.Session{}, domain.ErrNoTextAvailable
	}

	now := s.clock.Now()
	if id == "" {
		id = domain.NewSessionID(now)
	}
	session := domain.Session{
		ID:        id,
		CreatedAt: now,
		Captured:  content,
		Messages: []domain.Message{{
			Role:      domain.RoleUser,
			Content:   SeedMessageText(content.Text),
			Timestamp: now,
		}},
	}

	if err := s.repo.Save(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("persist new session: %w", err)
	}

	return session, nil
}

func (s *SessionService) Append(ctx context.Context, session *domain.Session, role domain.Role, text string) error {
	session.Messages = append(session.Messages, domain.Message{
		Role:      role,
		Content:   text,
		Timestamp: s.clock.Now(),
	})

	if err := s.repo.Save(ctx, *session); err != nil {
		session.Messages = session.Messages[:len(session.Messages)-1]
		return fmt.Errorf("persist session message: %w", err)
	}

	return nil
}

// Clear truncates the message history while preserving the session identity
// and its captured content.
func (s *SessionService) Clear(ctx context.Context, session *domain.Session) error {
	previous := session.Messages
	session.Messages = []domain.Message{}

	if err := s.repo.Save(ctx, *session); err != nil {
		session.Messages = previous
		return fmt.Errorf("persist cleared session: %w", err)
	}

	return nil
}

func (s *SessionService) Load(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session %s: %w", id, err)
	}

	return session, nil
}

func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	sessions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

// TranscriptPath reports where a session's record is persisted.
func (s *SessionService) TranscriptPath(id domain.SessionID) string {
	return s.repo.Path(id)
}
