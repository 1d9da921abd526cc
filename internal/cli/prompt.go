package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// promptPassword reads a password from the controlling terminal without
// echoing it. When stdin is not a terminal there is nobody to ask, so the
// missing option is reported instead.
func promptPassword(output io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("missing required option --password (stdin is not a terminal, cannot prompt)")
	}
	fmt.Fprint(output, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(output)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if len(raw) == 0 {
		return "", errors.New("password must not be empty")
	}
	return string(raw), nil
}
