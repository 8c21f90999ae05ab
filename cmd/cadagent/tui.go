package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"cadagent/pkg/agent"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	codeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")). // cyan, like the classic terminal dump
			PaddingLeft(2)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	confirmStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// exitWords end the session, case-insensitively, from the instruction prompt.
var exitWords = map[string]bool{"q": true, "quit": true, "exit": true, "/exit": true}

type uiState int

const (
	stateInstruction uiState = iota
	stateGenerating
	stateConfirming
	stateExecuting
)

type preparedMsg struct {
	turn  *agent.Turn
	early *agent.Outcome
}

type outcomeMsg struct {
	outcome agent.Outcome
}

type model struct {
	ctx   context.Context
	agent *agent.Agent

	state uiState
	turn  *agent.Turn

	viewport viewport.Model
	textarea textarea.Model
	renderer *glamour.TermRenderer
	// content is a plain string because bubbletea copies the model on
	// every update.
	content string
	width   int
	height  int
}

func initialModel(ctx context.Context, ag *agent.Agent) model {
	ta := textarea.New()
	ta.Placeholder = "Enter a command (or 'q' to quit)..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 500
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false

	vp := viewport.New(80, 20)

	// Standard style avoids terminal queries that leak into input.
	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("light"),
		glamour.WithWordWrap(80),
	)

	m := model{
		ctx:      ctx,
		agent:    ag,
		state:    stateInstruction,
		viewport: vp,
		textarea: ta,
		renderer: r,
	}
	m.appendLine(titleStyle.Render("CATIA GENERATIVE AGENT (Text-to-Geometry)"))
	m.appendLine(dimStyle.Render("Connected to CATIA. One instruction per turn; y confirms execution."))
	return m
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}

		switch m.state {
		case stateInstruction:
			if km.Type == tea.KeyEnter {
				return m.submitInstruction()
			}
			var cmd tea.Cmd
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)

		case stateConfirming:
			// A single literal affirmative token executes; anything else
			// declines.
			if strings.EqualFold(km.String(), "y") {
				m.state = stateExecuting
				m.appendLine(dimStyle.Render("Executing..."))
				turn := m.turn
				cmds = append(cmds, func() tea.Msg {
					return outcomeMsg{outcome: m.agent.Execute(m.ctx, turn)}
				})
			} else {
				out := m.agent.Cancel(m.turn)
				m.reportOutcome(out)
				m.backToInstruction()
			}
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.textarea.SetWidth(msg.Width)
		m.viewport.Height = msg.Height - m.textarea.Height() - 3
		if m.viewport.Height < 0 {
			m.viewport.Height = 0
		}
		m.renderer, _ = glamour.NewTermRenderer(
			glamour.WithStandardStyle("light"),
			glamour.WithWordWrap(max(20, m.width-4)),
		)
		m.refresh()

	case preparedMsg:
		if msg.early != nil {
			m.reportOutcome(*msg.early)
			m.backToInstruction()
			break
		}
		m.turn = msg.turn
		m.state = stateConfirming
		m.appendLine("")
		m.appendLine(dimStyle.Render("GENERATED CODE:"))
		m.appendLine(codeStyle.Render(msg.turn.Script))

	case outcomeMsg:
		m.reportOutcome(msg.outcome)
		m.backToInstruction()
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	cmds = append(cmds, vpCmd)

	return m, tea.Batch(cmds...)
}

func (m model) submitInstruction() (tea.Model, tea.Cmd) {
	v := strings.TrimSpace(m.textarea.Value())
	if v == "" {
		return m, nil
	}
	if exitWords[strings.ToLower(v)] {
		return m, tea.Quit
	}

	m.textarea.Reset()
	m.appendLine("")
	m.appendLine(dimStyle.Render(strings.Repeat("-", 30)))
	m.appendLine(userStyle.Render("You: ") + v)
	m.appendLine(dimStyle.Render("Thinking..."))
	m.state = stateGenerating

	ctx := m.ctx
	ag := m.agent
	return m, func() tea.Msg {
		turn, early := ag.Prepare(ctx, v)
		return preparedMsg{turn: turn, early: early}
	}
}

func (m *model) reportOutcome(o agent.Outcome) {
	switch o.Status {
	case agent.StatusSuccess:
		m.appendLine(okStyle.Render("Success!"))
		if o.Output != "" {
			m.appendLine(dimStyle.Render(strings.TrimRight(o.Output, "\n")))
		}
	case agent.StatusCancelled:
		m.appendLine(dimStyle.Render("Cancelled."))
	case agent.StatusConfigRejected, agent.StatusGenerationFailed:
		m.appendLine(errorStyle.Render("Error: ") + o.Err.Error())
	case agent.StatusExtractionFailed:
		m.appendLine(errorStyle.Render("No valid code found in the model response."))
		m.appendLine(m.renderProse(o.Turn.Raw))
	case agent.StatusExecutionFailed:
		m.appendLine(errorStyle.Render("Execution failed:"))
		if o.Output != "" {
			m.appendLine(dimStyle.Render(strings.TrimRight(o.Output, "\n")))
		}
		m.appendLine(dimStyle.Render(o.Diagnostic))
	}
}

// renderProse renders non-code model text for operator inspection.
func (m *model) renderProse(raw string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(raw); err == nil {
			return rendered
		}
	}
	return raw
}

func (m *model) backToInstruction() {
	m.state = stateInstruction
	m.turn = nil
	m.textarea.Focus()
}

func (m *model) appendLine(s string) {
	m.content += s + "\n"
	m.refresh()
}

func (m *model) refresh() {
	m.viewport.SetContent(m.content)
	m.viewport.GotoBottom()
}

func (m model) View() string {
	var footer string
	switch m.state {
	case stateConfirming:
		footer = confirmStyle.Render("Execute this? (y/n)")
	case stateGenerating, stateExecuting:
		footer = dimStyle.Render("Working... (Esc to quit)")
	default:
		footer = m.textarea.View()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		"",
		footer,
	)
}
