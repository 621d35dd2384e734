package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

type AddModel struct {
	CommonModel
	api API

	input   textinput.Model
	spinner spinner.Model
	saving  bool

	last *expense.Expense
	err  error
}

func NewAddModel(api API) AddModel {
	ti := textinput.New()
	ti.Placeholder = "Spent 250 on lunch at Cafe Mocha"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AddModel{api: api, input: ti, spinner: s}
}

func (m AddModel) Title() string { return "Add Expense" }

func (m AddModel) ShortHelp() string {
	return "Enter: save | Esc: back"
}

func (m AddModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m AddModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addResultMsg:
		m.saving = false
		m.err = msg.err

		if msg.err == nil {
			m.last = msg.expense
			m.input.Reset()
		}

		return m, nil

	case spinner.TickMsg:
		if !m.saving {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			m.saving = true
			m.err = nil

			return m, tea.Batch(m.spinner.Tick, m.createCmd(text))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m AddModel) View() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("What did you spend on?"),
		"",
		m.input.View(),
		"",
	}

	switch {
	case m.saving:
		lines = append(lines, fmt.Sprintf("%s Parsing...", m.spinner.View()))
	case m.err != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(errorText(m.err)))
	case m.last != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(
			fmt.Sprintf("✓ Added %s %s • %s • %s",
				CategoryIcon(m.last.Category), m.last.Description, m.last.Category,
				FormatAmount(m.last.Amount, m.last.Currency)),
		))
	}

	return lipgloss.NewStyle().Padding(2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

type addResultMsg struct {
	expense *expense.Expense
	err     error
}

func (m AddModel) createCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		e, err := m.api.Create(ctx, text)

		return addResultMsg{expense: e, err: err}
	}
}
