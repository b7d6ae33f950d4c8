// Package x11 reads user-selected text by shelling out to the clipboard
// utilities available on an X11 desktop. Each source is one entry in the
// capture cascade; a missing binary or non-zero exit just means "absent
// here", never a hard failure.
package x11

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

const sourceTimeout = 2 * time.Second

var ErrUnavailable = errors.New("clipboard utility unavailable")

type commandSource struct {
	name string
	argv []string
}

var _ ports.TextSource = commandSource{}

func (s commandSource) Name() string {
	return s.name
}

func (s commandSource) Read(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	path, err := exec.LookPath(s.argv[0])
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", s.argv[0], ErrUnavailable)
		}
		return "", fmt.Errorf("locate %s: %w", s.argv[0], err)
	}

	cmd := exec.CommandContext(ctx, path, s.argv[1:]...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return "", fmt.Errorf("%s: %w: %s", s.name, err, detail)
		}
		return "", fmt.Errorf("%s: %w", s.name, err)
	}

	return stdout.String(), nil
}

// NewPrimarySelectionSource reads the X11 primary selection via xclip.
func NewPrimarySelectionSource() ports.TextSource {
	return commandSource{name: "xclip-primary", argv: []string{"xclip", "-selection", "primary", "-o"}}
}

// NewCopyQSelectionSource reads the selection as reported by the CopyQ
// clipboard manager.
func NewCopyQSelectionSource() ports.TextSource {
	return commandSource{name: "copyq-selection", argv: []string{"copyq", "selection"}}
}

// NewAltSelectionSource reads the primary selection via xsel, for desktops
// where xclip is absent or misbehaving.
func NewAltSelectionSource() ports.TextSource {
	return commandSource{name: "xsel-primary", argv: []string{"xsel", "-p"}}
}

// NewCopyQClipboardSource reads the general clipboard from CopyQ, the last
// resort of the cascade.
func NewCopyQClipboardSource() ports.TextSource {
	return commandSource{name: "copyq-clipboard", argv: []string{"copyq", "clipboard"}}
}

// Sources returns the text cascade in resolution priority order.
func Sources() []ports.TextSource {
	return []ports.TextSource{
		NewPrimarySelectionSource(),
		NewCopyQSelectionSource(),
		NewAltSelectionSource(),
		NewCopyQClipboardSource(),
	}
}
