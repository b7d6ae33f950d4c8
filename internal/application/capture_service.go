package application

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bnema/clipchat-cli/internal/domain"
	"github.com/bnema/clipchat-cli/internal/ports"
)

var uploadErrorMarkers = []string{"error", "failed", "invalid"}

// CaptureService resolves the content a session is seeded from. Text comes
// from an ordered short-circuit cascade of selection/clipboard sources; the
// screenshot and upload cascades are best-effort and only degrade the result.
type CaptureService struct {
	textSources []ports.TextSource
	capturers   []ports.ScreenshotCapturer
	uploaders   []ports.ImageUploader
	logger      *log.Logger
}

func NewCaptureService(
	textSources []ports.TextSource,
	capturers []ports.ScreenshotCapturer,
	uploaders []ports.ImageUploader,
	logger *log.Logger,
) *CaptureService {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &CaptureService{
		textSources: textSources,
		capturers:   capturers,
		uploaders:   uploaders,
		logger:      logger,
	}
}

// Resolve captures text plus an optional screenshot at screenshotPath.
// It fails only when every text source comes back empty.
func (s *CaptureService) Resolve(ctx context.Context, screenshotPath string) (domain.CapturedContent, error) {
	text, ok := s.resolveText(ctx)
	if !ok {
		return domain.CapturedContent{}, domain.ErrNoTextAvailable
	}

	content := domain.CapturedContent{Text: text}

	if screenshotPath == "" {
		return content, nil
	}

	if !s.captureScreenshot(ctx, screenshotPath) {
		return content, nil
	}
	content.ScreenshotPath = screenshotPath

	if url, uploaded := s.uploadScreenshot(ctx, screenshotPath); uploaded {
		content.ScreenshotURL = url
	}

	return content, nil
}

func (s *CaptureService) resolveText(ctx context.Context) (string, bool) {
	for _, source := range s.textSources {
		text, err := source.Read(ctx)
		if err != nil {
			s.logger.Debug("text source failed", "source", source.Name(), "err", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			s.logger.Debug("text source empty", "source", source.Name())
			continue
		}

		s.logger.Debug("text resolved", "source", source.Name(), "bytes", len(text))
		return text, true
	}

	return "", false
}

func (s *CaptureService) captureScreenshot(ctx context.Context, path string) bool {
	// The external capturers will not create the parent directory themselves,
	// and on a fresh install it does not exist yet.
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		s.logger.Debug("screenshot directory unavailable", "path", filepath.Dir(path), "err", err)
		return false
	}

	for _, capturer := range s.capturers {
		if err := capturer.Capture(ctx, path); err != nil {
			s.logger.Debug("screenshot capturer failed", "capturer", capturer.Name(), "err", err)
			continue
		}

		info, err := os.Stat(path)
		if err != nil || info.Size() == 0 {
			s.logger.Debug("screenshot capturer produced no file", "capturer", capturer.Name())
			_ = os.Remove(path)
			continue
		}

		s.logger.Debug("screenshot captured", "capturer", capturer.Name(), "path", path)
		return true
	}

	return false
}

func (s *CaptureService) uploadScreenshot(ctx context.Context, path string) (string, bool) {
	for _, uploader := range s.uploaders {
		url, err := uploader.Upload(ctx, path)
		if err != nil {
			s.logger.Debug("upload host failed", "host", uploader.Name(), "err", err)
			continue
		}

		url, ok := normalizeUploadURL(url)
		if !ok {
			s.logger.Debug("upload host returned unusable result", "host", uploader.Name())
			continue
		}

		s.logger.Debug("screenshot uploaded", "host", uploader.Name(), "url", url)
		return url, true
	}

	return "", false
}

// normalizeUploadURL validates a hosting service's response and rewrites a
// plain http scheme to https. Hosts sometimes answer 200 with an error string
// in the body, so the scheme check alone is not enough.
func normalizeUploadURL(raw string) (string, bool) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", false
	}

	lower := strings.ToLower(url)
	for _, marker := range uploadErrorMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}

	switch {
	case strings.HasPrefix(url, "https://"):
		return url, true
	case strings.HasPrefix(url, "http://"):
		return "https://" + strings.TrimPrefix(url, "http://"), true
	default:
		return "", false
	}
}
