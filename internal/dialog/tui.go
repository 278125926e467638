package dialog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/xdg/pinwarden/internal/form"
)

// TUI asks with a bubbletea form drawn on the terminal. Enter confirms,
// Esc or Ctrl-C cancels and Ctrl-T shows or hides the typed text.
type TUI struct {
	path    string
	noColor bool
	open    func(path string) (*os.File, error)
}

// NewTUI creates a TUI dialog that uses path when the caller names no
// terminal. Colors are off when noColor is set, NO_COLOR is in the
// environment or the caller reports a dumb terminal.
func NewTUI(path string, noColor bool) *TUI {
	return &TUI{path: path, noColor: noColor, open: openTTY}
}

// Ask implements Dialog.
func (t *TUI) Ask(ctx context.Context, f form.Form, h form.Hints) (string, error) {
	tty, err := t.open(ttyPath(h, t.path))
	if err != nil {
		return "", err
	}
	defer func() { _ = tty.Close() }()

	renderer := lipgloss.NewRenderer(tty)
	if t.noColor || termenv.EnvNoColor() || h.TTYType == "dumb" {
		renderer.SetColorProfile(termenv.Ascii)
	}

	program := tea.NewProgram(
		newModel(NewScreen(f, h), newStyles(renderer)),
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithContext(ctx),
	)
	final, err := program.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("run dialog: %w", err)
	}
	return final.(model).result()
}

type styles struct {
	frame  lipgloss.Style
	title  lipgloss.Style
	errMsg lipgloss.Style
	hint   lipgloss.Style
	help   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		frame:  r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		title:  r.NewStyle().Bold(true),
		errMsg: r.NewStyle().Foreground(lipgloss.Color("9")),
		hint:   r.NewStyle().Faint(true),
		help:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// frameOverhead is the border plus horizontal padding of styles.frame.
const frameOverhead = 4

// model is the bubbletea model of one dialog. fields[1] is only used when
// the passphrase has to be repeated.
type model struct {
	screen    Screen
	styles    styles
	fields    [2]textinput.Model
	count     int
	focus     int
	width     int
	mismatch  bool
	submitted bool
	cancelled bool
}

func newModel(s Screen, st styles) model {
	m := model{screen: s, styles: st, count: 1, width: fallbackWidth}
	m.fields[0] = newField(s.Prompt)
	if s.Repeat {
		m.fields[1] = newField(s.RepeatPrompt)
		m.count = 2
	}
	m.fields[0].Focus()
	return m
}

func newField(label string) textinput.Model {
	in := textinput.New()
	in.Prompt = label + " "
	in.EchoMode = textinput.EchoPassword
	in.EchoCharacter = '•'
	return in
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyCtrlT:
			m.toggleEcho()
			return m, nil
		case tea.KeyEnter:
			return m.enter()
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus], cmd = m.fields[m.focus].Update(msg)
	return m, cmd
}

// enter moves to the repeat field, or finishes when the entries agree.
// Mismatched entries are cleared and the form starts over.
func (m model) enter() (tea.Model, tea.Cmd) {
	if m.focus < m.count-1 {
		m.fields[m.focus].Blur()
		m.focus++
		return m, m.fields[m.focus].Focus()
	}
	if m.count == 2 && m.fields[0].Value() != m.fields[1].Value() {
		m.mismatch = true
		for i := range m.count {
			m.fields[i].Reset()
			m.fields[i].Blur()
		}
		m.focus = 0
		return m, m.fields[0].Focus()
	}
	m.submitted = true
	return m, tea.Quit
}

func (m *model) toggleEcho() {
	mode := textinput.EchoNormal
	if m.fields[0].EchoMode == textinput.EchoNormal {
		mode = textinput.EchoPassword
	}
	for i := range m.count {
		m.fields[i].EchoMode = mode
	}
}

func (m model) result() (string, error) {
	if !m.submitted {
		return "", ErrCancelled
	}
	return m.fields[0].Value(), nil
}

func (m model) View() string {
	if m.submitted || m.cancelled {
		return ""
	}

	width := max(m.width-frameOverhead, 20)
	var b strings.Builder
	if m.screen.Title != "" {
		b.WriteString(m.styles.title.Render(m.screen.Title) + "\n\n")
	}
	if m.screen.Description != "" {
		b.WriteString(ansi.Wrap(m.screen.Description, width, " ") + "\n\n")
	}
	switch {
	case m.mismatch:
		b.WriteString(m.styles.errMsg.Render("Passphrases do not match.") + "\n")
	case m.screen.Error != "":
		b.WriteString(m.styles.errMsg.Render(m.screen.Error) + "\n")
	}
	for i := range m.count {
		b.WriteString(m.fields[i].View() + "\n")
	}
	if m.screen.Constraints != "" {
		b.WriteString(m.styles.hint.Render(m.screen.Constraints) + "\n")
	}
	help := fmt.Sprintf("enter %s • esc %s • ctrl+t show/hide", m.screen.OK, m.screen.Cancel)
	b.WriteString("\n" + m.styles.help.Render(ansi.Wrap(help, width, " ")))

	return m.styles.frame.Render(b.String()) + "\n"
}
