// Package prompt reads user turns from a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/clipchat-cli/internal/ports"
)

var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

// Terminal is a line-oriented prompter. EOF (Ctrl-D) reports a cancelled
// prompt, which is the session's cooperative cancellation point.
type Terminal struct {
	reader *bufio.Reader
	out    io.Writer
}

var _ ports.Prompter = (*Terminal)(nil)

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{reader: bufio.NewReader(in), out: out}
}

func (t *Terminal) ReadInput() (string, bool, error) {
	fmt.Fprint(t.out, promptStyle.Render("you>")+" ")

	line, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				return line, true, nil
			}
			return "", false, nil
		}
		return "", false, err
	}

	return line, true, nil
}
