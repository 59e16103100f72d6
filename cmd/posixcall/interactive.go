//go:build linux

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	posixruntime "github.com/xcbridge/posix-runtime"
	"github.com/xcbridge/posix-runtime/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	b        *bridge.Bridge
	ops      []*bridge.Op
	inputs   []textinput.Model
	inParams []bridge.Param
	result   []string
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(b *bridge.Bridge) *interactiveModel {
	return &interactiveModel{
		b:     b,
		ops:   b.Ops(),
		state: stateSelectOp,
	}
}

type callResultMsg struct {
	err   error
	lines []string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				m.b.Close()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callOp
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOp

			case stateShowResult:
				m.state = stateSelectOp
				m.result = nil
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = nil
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.lines
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// prepareInputs builds one text field per input parameter; outputs are
// allocated at call time.
func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inParams = nil
	for _, p := range op.Params {
		switch p.Kind {
		case bridge.ParamString, bridge.ParamInt, bridge.ParamUint, bridge.ParamHandle:
			m.inParams = append(m.inParams, p)
		}
	}
	m.inputs = make([]textinput.Model, len(m.inParams))
	for i, p := range m.inParams {
		ti := textinput.New()
		ti.Placeholder = p.Hint()
		ti.Prompt = p.Name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callOp() tea.Msg {
	op := m.ops[m.selected]

	inputs := make([]string, len(m.inputs))
	for i := range m.inputs {
		inputs[i] = m.inputs[i].Value()
	}
	args, err := bindArgs(op, inputs)
	if err != nil {
		return callResultMsg{err: err}
	}

	o, err := m.b.Call(op.Name, args...)
	if err != nil {
		return callResultMsg{err: err}
	}

	lines := []string{o.String()}
	for i, p := range op.Params {
		if v, ok := renderOut(p, args[i]); ok {
			lines = append(lines, fmt.Sprintf("%s = %s", p.Name, v))
		}
	}
	return callResultMsg{lines: lines}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("posixcall"))
	b.WriteString(fmt.Sprintf("  %d operations, %d live handles\n\n",
		len(m.ops), m.b.Handles().Len()))

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation to call:\n\n")
		for i, op := range m.ops {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatOp(op)))
			} else {
				b.WriteString(cursor + m.formatOp(op))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", opStyle.Render(op.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(m.inParams[i].Hint()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			for i, line := range m.result {
				if i == 0 {
					b.WriteString(resultStyle.Render(line))
				} else {
					b.WriteString("  " + line)
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatOp(op *bridge.Op) string {
	var params []string
	for _, p := range op.Params {
		params = append(params, p.Name+": "+typeStyle.Render(p.Kind.String()))
	}
	return opStyle.Render(op.Name) + "(" + strings.Join(params, ", ") + ")"
}

func runInteractive(opts []bridge.Option) error {
	b, err := posixruntime.New(opts...)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newInteractiveModel(b), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
