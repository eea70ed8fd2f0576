// Package repl implements the interactive expression evaluator.
//
// Expressions typed at the prompt are evaluated immediately; a line of
// the form "name = expr" binds the result to a name that later lines
// may reference. Up and down arrows walk the input history.
package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhollis/cfgexpr/lang"
	"github.com/mhollis/cfgexpr/log"
)

const prompt = "➜ "

// Styles.
//
//nolint:gochecknoglobals
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	bindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func helpMessage() string {
	return `
Commands:

  help     Print this cruft
  names    List bound names and their values
  clear    Clear all bound names
  quit     Exit

Usage:
  Type an expression to evaluate it
  Type "name = expr" to bind a value for later expressions
  Use Up/Down arrows for history navigation
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// Run starts the REPL.
func Run(ctx context.Context, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "repl start")

	p := tea.NewProgram(newModel(logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	input      textinput.Model
	reg        *lang.Registry
	logger     log.Logger
	history    []string
	historyIdx int
	quitting   bool
}

func newModel(logger log.Logger) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		input:  ti,
		reg:    lang.NewRegistry(),
		logger: logger,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	if strings.TrimSpace(m.input.Value()) == "" {
		b.WriteString(hintStyle.Render(
			`Type an expression, "name = expr", or help`,
		))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.historyIdx = len(m.history)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		return m.executeInput()

	case tea.KeyUp:
		if m.historyIdx > 0 {
			m.historyIdx--
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		}

		return m, nil

	case tea.KeyDown:
		switch {
		case m.historyIdx < len(m.history)-1:
			m.historyIdx++
			m.input.SetValue(m.history[m.historyIdx])
			m.input.CursorEnd()
		case m.historyIdx == len(m.history)-1:
			m.historyIdx++
			m.input.SetValue("")
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) executeInput() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	m.input.SetValue("")

	m.logger.Trace("repl input", slog.String("line", line))

	echo := promptStyle.Render(prompt) + line

	switch line {
	case "help":
		return m, tea.Println(echo + "\n" + helpMessage())

	case "names":
		return m, tea.Println(echo + "\n" + m.renderNames())

	case "clear":
		m.reg.Clear()

		return m, tea.Println(echo + "\n" + hintStyle.Render("names cleared"))

	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit
	}

	return m, tea.Println(echo + "\n" + m.evaluate(line))
}

func (m model) renderNames() string {
	names := m.reg.Names()
	if len(names) == 0 {
		return hintStyle.Render("no names bound")
	}

	var b strings.Builder

	for _, name := range names {
		v, _ := m.reg.Value(name)
		b.WriteString(bindStyle.Render(name))
		b.WriteString(" = ")
		b.WriteString(resultStyle.Render(lang.FormatValue(v)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// evaluate runs one line, either a binding or a bare expression, and
// returns the rendered result.
func (m model) evaluate(line string) string {
	name, expr, bound := splitBinding(line)

	node, err := lang.Parse(expr, m.reg, nil)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	v, err := node.Evaluate(m.reg, nil)
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	if bound {
		if m.reg.Known(name) {
			if err := m.reg.Update(name, v); err != nil {
				return errorStyle.Render("error: " + err.Error())
			}
		} else if err := m.reg.SubscribeValue(name, v); err != nil {
			return errorStyle.Render("error: " + err.Error())
		}

		return bindStyle.Render(name) + " = " +
			resultStyle.Render(lang.FormatValue(v))
	}

	return resultStyle.Render(lang.FormatValue(v))
}

// splitBinding recognizes a "name = expr" line. The name must be a
// plain identifier; anything else is treated as expression text.
func splitBinding(line string) (name, expr string, ok bool) {
	lhs, rhs, found := strings.Cut(line, "=")
	if !found {
		return "", line, false
	}

	name = strings.TrimSpace(lhs)
	if name == "" {
		return "", line, false
	}

	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return "", line, false
		}
	}

	return name, rhs, true
}
