package credentials

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal is the interactive input used by Prompter.
type Terminal interface {
	IsTerminal() bool
	ReadLine() (string, error)
	// ReadPassword reads a line without echoing it.
	ReadPassword() (string, error)
}

type stdinTerminal struct {
	fd     int
	reader *bufio.Reader
}

// NewStdinTerminal returns a Terminal reading from os.Stdin.
func NewStdinTerminal() Terminal {
	return &stdinTerminal{fd: int(os.Stdin.Fd()), reader: bufio.NewReader(os.Stdin)}
}

func (t *stdinTerminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

func (t *stdinTerminal) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *stdinTerminal) ReadPassword() (string, error) {
	b, err := term.ReadPassword(t.fd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Prompter asks the user for a username (echoed) and a password (masked).
type Prompter struct {
	term Terminal
	out  io.Writer
}

// NewPrompter creates a Prompter that writes prompts to out.
func NewPrompter(t Terminal, out io.Writer) *Prompter {
	return &Prompter{term: t, out: out}
}

// Prompt asks for the credentials of endpoint. It fails with
// *CredentialUnavailableError when input is not a terminal.
func (p *Prompter) Prompt(endpoint string) (Credentials, error) {
	if !p.term.IsTerminal() {
		return Credentials{}, &CredentialUnavailableError{
			Endpoint: endpoint,
			Reason:   "no stored credentials and input is not interactive",
		}
	}

	fmt.Fprintf(p.out, "Username for %s: ", endpoint)
	username, err := p.term.ReadLine()
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read username: %w", err)
	}
	username = strings.TrimSpace(username)

	fmt.Fprintf(p.out, "Password for %s: ", endpoint)
	password, err := p.term.ReadPassword()
	fmt.Fprintln(p.out)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}

	if username == "" || password == "" {
		return Credentials{}, &CredentialUnavailableError{Endpoint: endpoint, Reason: "empty username or password"}
	}
	return Credentials{Username: username, Password: password}, nil
}
