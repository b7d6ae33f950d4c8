// Package upload pushes screenshots to temporary image hosting services.
// Hosts are tried in a fixed priority order by the capture cascade; each
// adapter only knows how to talk to its own endpoint and extract a URL.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/clipchat-cli/internal/ports"
)

const (
	DefaultNullPointerURL = "https://0x0.st"
	DefaultFileIOURL      = "https://file.io"
	DefaultTmpFilesURL    = "https://tmpfiles.org/api/v1/upload"
)

// NullPointerHost uploads to 0x0.st, which answers with the bare URL as the
// response body.
type NullPointerHost struct {
	httpClient *http.Client
	endpoint   string
}

var _ ports.ImageUploader = (*NullPointerHost)(nil)

func NewNullPointerHost(httpClient *http.Client, endpoint string) *NullPointerHost {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultNullPointerURL
	}

	return &NullPointerHost{httpClient: httpClient, endpoint: endpoint}
}

func (h *NullPointerHost) Name() string {
	return "0x0.st"
}

func (h *NullPointerHost) Upload(ctx context.Context, path string) (string, error) {
	body, status, err := postFile(ctx, h.httpClient, h.endpoint, path)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("upload status %d", status)
	}

	return strings.TrimSpace(string(body)), nil
}

// FileIOHost uploads to file.io, which answers with {"link": "..."}.
type FileIOHost struct {
	httpClient *http.Client
	endpoint   string
}

var _ ports.ImageUploader = (*FileIOHost)(nil)

func NewFileIOHost(httpClient *http.Client, endpoint string) *FileIOHost {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultFileIOURL
	}

	return &FileIOHost{httpClient: httpClient, endpoint: endpoint}
}

func (h *FileIOHost) Name() string {
	return "file.io"
}

func (h *FileIOHost) Upload(ctx context.Context, path string) (string, error) {
	body, status, err := postFile(ctx, h.httpClient, h.endpoint, path)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("upload status %d", status)
	}

	var payload struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.Link == "" || payload.Link == "null" {
		return "", fmt.Errorf("upload response missing link")
	}

	return payload.Link, nil
}

// TmpFilesHost uploads to tmpfiles.org, which nests the URL under data.url.
type TmpFilesHost struct {
	httpClient *http.Client
	endpoint   string
}

var _ ports.ImageUploader = (*TmpFilesHost)(nil)

func NewTmpFilesHost(httpClient *http.Client, endpoint string) *TmpFilesHost {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultTmpFilesURL
	}

	return &TmpFilesHost{httpClient: httpClient, endpoint: endpoint}
}

func (h *TmpFilesHost) Name() string {
	return "tmpfiles.org"
}

func (h *TmpFilesHost) Upload(ctx context.Context, path string) (string, error) {
	body, status, err := postFile(ctx, h.httpClient, h.endpoint, path)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", fmt.Errorf("upload status %d", status)
	}

	var payload struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if payload.Data.URL == "" || payload.Data.URL == "null" {
		return "", fmt.Errorf("upload response missing url")
	}

	return payload.Data.URL, nil
}

// Hosts returns the upload cascade in priority order.
func Hosts(httpClient *http.Client) []ports.ImageUploader {
	return []ports.ImageUploader{
		NewNullPointerHost(httpClient, ""),
		NewFileIOHost(httpClient, ""),
		NewTmpFilesHost(httpClient, ""),
	}
}
