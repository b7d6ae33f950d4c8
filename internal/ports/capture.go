package ports

import "context"

// TextSource reads user-selected text from one clipboard-adjacent mechanism.
// An error or empty result means "absent here, try the next source"; it is
// never fatal on its own.
type TextSource interface {
	Name() string
	Read(ctx context.Context) (string, error)
}

// ScreenshotCapturer writes a full-screen capture to path. Implementations
// report an error when the underlying tool is missing or produced nothing.
type ScreenshotCapturer interface {
	Name() string
	Capture(ctx context.Context, path string) error
}

// ImageUploader pushes a local image file to one temporary hosting service
// and returns its public URL.
type ImageUploader interface {
	Name() string
	Upload(ctx context.Context, path string) (string, error)
}
