package ports

import (
	"context"

	"github.com/bnema/clipchat-cli/internal/domain"
)

// ChatMessage is the wire projection of a stored message. Parts is nil for
// plain text messages; when set it carries the multimodal body and Text is
// ignored by transports.
type ChatMessage struct {
	Role  domain.Role
	Text  string
	Parts []domain.ContentPart
}

type CompletionClient interface {
	Complete(ctx context.Context, model string, messages []ChatMessage) (string, error)
}
