// Package prompt reads answers from a user at a terminal: hidden passphrase
// input for the tty dialog, and simple choice and confirmation questions for
// the config subcommands. Every reader has a mock for tests.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input ends before the user answered,
// for example after Ctrl-D at an empty passphrase prompt.
var ErrNoInput = errors.New("no input")

// CredentialReader reads a secret without echoing it.
type CredentialReader interface {
	// ReadCredential writes prompt and reads one line of hidden input.
	ReadCredential(prompt string) (string, error)
}

// TerminalCredentialReader reads hidden input from a terminal with
// golang.org/x/term. Prompts go to Out, which is usually the same terminal.
type TerminalCredentialReader struct {
	In  *os.File
	Out io.Writer
}

// NewTerminalCredentialReader creates a TerminalCredentialReader.
func NewTerminalCredentialReader(in *os.File, out io.Writer) *TerminalCredentialReader {
	return &TerminalCredentialReader{In: in, Out: out}
}

// ReadCredential disables echo on In while the line is read. The terminal
// state is restored before returning.
func (r *TerminalCredentialReader) ReadCredential(prompt string) (string, error) {
	fd := int(r.In.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("read passphrase: %s is not a terminal", r.In.Name())
	}
	_, _ = fmt.Fprint(r.Out, prompt)

	secret, err := term.ReadPassword(fd)
	// ReadPassword swallows the newline.
	_, _ = fmt.Fprintln(r.Out)
	if errors.Is(err, io.EOF) {
		return "", ErrNoInput
	}
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(secret), nil
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MockCredentialReader returns queued secrets in order.
type MockCredentialReader struct {
	// Credentials is returned one per call.
	Credentials []string
	// Errors takes precedence over Credentials at the same index.
	Errors []error
	// Calls records every prompt.
	Calls []string

	callIndex int
}

// NewMockCredentialReader creates a MockCredentialReader.
func NewMockCredentialReader(credentials ...string) *MockCredentialReader {
	return &MockCredentialReader{Credentials: credentials}
}

// ReadCredential returns the next queued secret or error. An exhausted
// queue reports ErrNoInput.
func (m *MockCredentialReader) ReadCredential(prompt string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	i := m.callIndex
	m.callIndex++

	if i < len(m.Errors) && m.Errors[i] != nil {
		return "", m.Errors[i]
	}
	if i < len(m.Credentials) {
		return m.Credentials[i], nil
	}
	return "", ErrNoInput
}

// Chooser asks the user to pick one of several choices.
type Chooser interface {
	// Choose returns the zero-based index of the selected choice. An empty
	// answer selects def.
	Choose(question string, choices []string, def int) (int, error)
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	// Confirm returns the answer. An empty answer selects defaultYes.
	Confirm(question string, defaultYes bool) (bool, error)
}

// LinePrompter implements Chooser and Confirmer over line-based input.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter reading answers from r and
// writing questions to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

// Choose lists the choices numbered from 1 and reads a selection.
func (p *LinePrompter) Choose(question string, choices []string, def int) (int, error) {
	if len(choices) == 0 {
		return 0, errors.New("no choices")
	}
	if def < 0 || def >= len(choices) {
		return 0, fmt.Errorf("default %d out of range [0, %d)", def, len(choices))
	}

	_, _ = fmt.Fprintln(p.out, question)
	for i, c := range choices {
		mark := ""
		if i == def {
			mark = " (default)"
		}
		_, _ = fmt.Fprintf(p.out, "  %d. %s%s\n", i+1, c, mark)
	}
	_, _ = fmt.Fprintf(p.out, "Select [%d]: ", def+1)

	answer, err := p.readAnswer()
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return def, nil
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("invalid selection %q", answer)
	}
	if n < 1 || n > len(choices) {
		return 0, fmt.Errorf("selection %d out of range 1-%d", n, len(choices))
	}
	return n - 1, nil
}

// Confirm accepts y/yes and n/no in any case.
func (p *LinePrompter) Confirm(question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	_, _ = fmt.Fprintf(p.out, "%s %s ", question, hint)

	answer, err := p.readAnswer()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid answer %q: expected y or n", answer)
}

// readAnswer reads one trimmed line. A final line without a newline is
// accepted; input that is already exhausted is ErrNoInput.
func (p *LinePrompter) readAnswer() (string, error) {
	line, err := p.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrNoInput
		}
	} else if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// MockPrompter implements Chooser and Confirmer with queued answers. When a
// queue runs out the question's default is returned.
type MockPrompter struct {
	Choices  []int
	Confirms []bool
	// Questions records every question asked, in order.
	Questions []string

	chooseIndex  int
	confirmIndex int
}

// Choose returns the next queued choice.
func (m *MockPrompter) Choose(question string, choices []string, def int) (int, error) {
	m.Questions = append(m.Questions, question)
	if m.chooseIndex < len(m.Choices) {
		c := m.Choices[m.chooseIndex]
		m.chooseIndex++
		return c, nil
	}
	return def, nil
}

// Confirm returns the next queued answer.
func (m *MockPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	m.Questions = append(m.Questions, question)
	if m.confirmIndex < len(m.Confirms) {
		c := m.Confirms[m.confirmIndex]
		m.confirmIndex++
		return c, nil
	}
	return defaultYes, nil
}
