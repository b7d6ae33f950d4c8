// Package screenshot captures the full screen by shelling out to whichever
// capture tool the desktop provides, in preference order.
package screenshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/bnema/clipchat-cli/internal/ports"
)

const captureTimeout = 5 * time.Second

var ErrUnavailable = errors.New("screenshot utility unavailable")

type commandCapturer struct {
	name string
	argv func(path string) []string
}

var _ ports.ScreenshotCapturer = commandCapturer{}

func (c commandCapturer) Name() string {
	return c.name
}

func (c commandCapturer) Capture(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	argv := c.argv(path)
	binPath, err := exec.LookPath(argv[0])
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", argv[0], ErrUnavailable)
		}
		return fmt.Errorf("locate %s: %w", argv[0], err)
	}

	cmd := exec.CommandContext(ctx, binPath, argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("%s: %w: %s", c.name, err, detail)
		}
		return fmt.Errorf("%s: %w", c.name, err)
	}

	return nil
}

func NewGnomeScreenshotCapturer() ports.ScreenshotCapturer {
	return commandCapturer{name: "gnome-screenshot", argv: func(path string) []string {
		return []string{"gnome-screenshot", "-f", path}
	}}
}

func NewScrotCapturer() ports.ScreenshotCapturer {
	return commandCapturer{name: "scrot", argv: func(path string) []string {
		return []string{"scrot", "-o", path}
	}}
}

// NewImportCapturer uses ImageMagick's import against the root window.
func NewImportCapturer() ports.ScreenshotCapturer {
	return commandCapturer{name: "imagemagick-import", argv: func(path string) []string {
		return []string{"import", "-window", "root", path}
	}}
}

// Capturers returns the screenshot cascade in preference order.
func Capturers() []ports.ScreenshotCapturer {
	return []ports.ScreenshotCapturer{
		NewGnomeScreenshotCapturer(),
		NewScrotCapturer(),
		NewImportCapturer(),
	}
}
