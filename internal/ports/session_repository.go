package ports

import (
	"context"

	"github.com/bnema/clipchat-cli/internal/domain"
)

type SessionRepository interface {
	GetByID(ctx context.Context, id domain.SessionID) (domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	Save(ctx context.Context, session domain.Session) error

	// Path reports where the session record lives on disk, for user-facing
	// notices about the persisted transcript.
	Path(id domain.SessionID) string
}
