// Package openrouter implements the completion port against the OpenRouter
// chat completions endpoint.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ ports.CompletionClient = (*Client)(nil)

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

// wireMessage content is either a plain string or an ordered part list,
// depending on whether the source message carries multimodal parts.
type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type wirePart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *wireImageURL `json:"image_url,omitempty"`
}

type wireImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, model string, messages []ports.ChatMessage) (string, error) {
	payload := chatRequest{
		Model:    model,
		Messages: encodeMessages(messages),
		Stream:   false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	endpoint := c.baseURL + "/chat/completions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+c.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("perform chat request: %w", err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		if response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrUnauthorized, response.StatusCode, trimmedBody(data))
		}
		return "", fmt.Errorf("chat request status %d: %s", response.StatusCode, trimmedBody(data))
	}

	var decoded chatResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode body: %w", domain.ErrMalformedResponse, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", domain.ErrMalformedResponse)
	}

	content := decoded.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty message content", domain.ErrMalformedResponse)
	}

	return content, nil
}

func encodeMessages(messages []ports.ChatMessage) []wireMessage {
	encoded := make([]wireMessage, 0, len(messages))
	for _, msg := range messages {
		encoded = append(encoded, wireMessage{
			Role:    string(msg.Role),
			Content: encodeContent(msg),
		})
	}

	return encoded
}

func encodeContent(msg ports.ChatMessage) any {
	if len(msg.Parts) == 0 {
		return msg.Text
	}

	parts := make([]wirePart, 0, len(msg.Parts))
	for _, part := range msg.Parts {
		switch part.Kind {
		case domain.PartKindImage:
			parts = append(parts, wirePart{Type: "image_url", ImageURL: &wireImageURL{URL: part.URL}})
		default:
			parts = append(parts, wirePart{Type: "text", Text: part.Text})
		}
	}

	return parts
}

func trimmedBody(data []byte) string {
	body := strings.TrimSpace(string(data))
	if len(body) > 512 {
		body = body[:512] + "..."
	}

	return body
}
