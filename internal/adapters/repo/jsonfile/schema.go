package jsonfile

import (
	"time"

	"github.com/bnema/clipchat-cli/internal/domain"
)

const schemaVersion = 1

type fileSchema struct {
	Version   int            `json:"version"`
	SessionID string         `json:"session_id"`
	CreatedAt string         `json:"created_at"`
	Captured  capturedSchema `json:"captured_content"`
	Messages  []messageSchema `json:"messages"`
}

type capturedSchema struct {
	Text           string `json:"text"`
	ScreenshotPath string `json:"screenshot_path,omitempty"`
	ScreenshotURL  string `json:"screenshot_url,omitempty"`
}

type messageSchema struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func toSchema(session domain.Session) fileSchema {
	messages := make([]messageSchema, 0, len(session.Messages))
	for _, msg := range session.Messages {
		messages = append(messages, messageSchema{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: formatTime(msg.Timestamp),
		})
	}

	return fileSchema{
		Version:   schemaVersion,
		SessionID: string(session.ID),
		CreatedAt: formatTime(session.CreatedAt),
		Captured: capturedSchema{
			Text:           session.Captured.Text,
			ScreenshotPath: session.Captured.ScreenshotPath,
			ScreenshotURL:  session.Captured.ScreenshotURL,
		},
		Messages: messages,
	}
}

func fromSchema(file fileSchema) domain.Session {
	messages := make([]domain.Message, 0, len(file.Messages))
	for _, msg := range file.Messages {
		messages = append(messages, domain.Message{
			Role:      domain.Role(msg.Role),
			Content:   msg.Content,
			Timestamp: parseTime(msg.Timestamp),
		})
	}

	return domain.Session{
		ID:        domain.SessionID(file.SessionID),
		CreatedAt: parseTime(file.CreatedAt),
		Captured: domain.CapturedContent{
			Text:           file.Captured.Text,
			ScreenshotPath: file.Captured.ScreenshotPath,
			ScreenshotURL:  file.Captured.ScreenshotURL,
		},
		Messages: messages,
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339Nano)
}
