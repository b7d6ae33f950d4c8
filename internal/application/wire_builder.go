package application

import (
	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

// BuildWireMessages projects stored history into the request shape. When the
// session carries an uploaded screenshot URL, the seed message (the first
// stored message, role user) is emitted as multimodal parts: its original
// text followed by the image reference. Later messages always stay plain
// text; repeating the image on every turn would bloat every request.
//
// The seed is identified by position, never by content, so a turn that
// repeats the seed text stays plain. The captured content survives `clear`,
// and the first user message of the fresh history takes over as the seed and
// carries the image again.
//
// The projection is computed fresh on each call and never written back to the
// store.
func BuildWireMessages(session domain.Session) []ports.ChatMessage {
	messages := make([]ports.ChatMessage, 0, len(session.Messages))

	for i, msg := range session.Messages {
		wire := ports.ChatMessage{Role: msg.Role, Text: msg.Content}

		if i == 0 && msg.Role == domain.RoleUser && session.Captured.HasScreenshotURL() {
			wire.Parts = []domain.ContentPart{
				domain.TextPart(msg.Content),
				domain.ImagePart(session.Captured.ScreenshotURL),
			}
		}

		messages = append(messages, wire)
	}

	return messages
}
