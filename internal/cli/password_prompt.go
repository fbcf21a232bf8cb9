package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readTerminalPassword reads from stdin with echo disabled.
func readTerminalPassword(output io.Writer) func(label string) (string, error) {
	return func(label string) (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return "", ErrNotATerminal
		}

		fmt.Fprint(output, label)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(output)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}

		password := strings.TrimRight(string(raw), "\r\n")
		if password == "" {
			return "", ErrPromptCancelled
		}
		return password, nil
	}
}
