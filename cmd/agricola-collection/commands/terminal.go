package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	collection "github.com/koizuka/agricola-collection"
	"golang.org/x/term"
)

// terminal implements collection.Interaction on line based input.
// Passwords are read without echo when the input is a terminal.
type terminal struct {
	in  *bufio.Reader
	tty *os.File
	out io.Writer
}

func newTerminal(in io.Reader, out io.Writer) *terminal {
	t := &terminal{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.tty = f
	}
	return t
}

func (t *terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if line == "" {
			return "", collection.ErrCanceled
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *terminal) Prompt(message string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(t.out, "%s [%s] ", message, defaultValue)
	} else {
		fmt.Fprintf(t.out, "%s ", message)
	}
	line, err := t.readLine()
	if err != nil {
		return "", err
	}
	if line = strings.TrimSpace(line); line == "" {
		return defaultValue, nil
	}
	return line, nil
}

func (t *terminal) Password(message string) (string, error) {
	fmt.Fprintf(t.out, "%s ", message)
	if t.tty != nil {
		b, err := term.ReadPassword(int(t.tty.Fd()))
		fmt.Fprintln(t.out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return t.readLine()
}

func (t *terminal) Confirm(message string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N] ", message)
	line, err := t.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
