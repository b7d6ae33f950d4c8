package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one stored conversation entry. Content is always the plain
// string form; the multimodal projection of the seed message happens at wire
// build time and is never stored.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

type PartKind string

const (
	PartKindText  PartKind = "text"
	PartKindImage PartKind = "image"
)

// ContentPart is one element of a multimodal message body. Text is set for
// text parts, URL for image parts.
type ContentPart struct {
	Kind PartKind
	Text string
	URL  string
}

func TextPart(text string) ContentPart {
	return ContentPart{Kind: PartKindText, Text: text}
}

func ImagePart(url string) ContentPart {
	return ContentPart{Kind: PartKindImage, URL: url}
}
