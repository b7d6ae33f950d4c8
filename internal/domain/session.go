package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

type SessionID string

// Session is one capture-and-converse conversation. The persisted record is
// the source of truth; the in-memory value is written through on every turn.
type Session struct {
	ID        SessionID
	CreatedAt time.Time
	Captured  CapturedContent
	Messages  []Message
}

// NewSessionID derives an identifier from the creation instant plus a short
// random suffix so two sessions started within the same second cannot
// overwrite each other's file.
func NewSessionID(now time.Time) SessionID {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)

	return SessionID(now.UTC().Format("20060102T150405") + "-" + hex.EncodeToString(suffix))
}
