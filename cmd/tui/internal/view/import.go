package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/spendlog/internal/importer"
)

const importTimeout = 5 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

// ImportModel submits every line of a notes file as a free-text expense.
type ImportModel struct {
	CommonModel
	api API

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	summary importer.Summary
	err     error
}

func NewImportModel(api API) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".txt", ".md", ".csv"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{api: api, filePicker: fp, spinner: s}
}

func (m ImportModel) Title() string { return "Import Notes" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			switch m.state {
			case importStateResult:
				m.state = importStateFilePick
				m.err = nil
				m.summary = importer.Summary{}

				return m, m.filePicker.Init()
			case importStateImporting:
				return m, nil
			}

			return m, Back
		}

	case importResultMsg:
		m.state = importStateResult
		m.summary = msg.summary
		m.err = msg.err

		return m, nil

	case spinner.TickMsg:
		if m.state != importStateImporting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a notes file (one expense per line):\n\n" + m.filePicker.View(),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing from %s...", m.spinner.View(), m.path),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	if m.err != nil && len(m.summary.Results) == 0 {
		return style.Render(red.Render("Error: "+m.err.Error()) + "\n\n(Esc to go back)")
	}

	var sb strings.Builder

	sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(
		fmt.Sprintf("Imported %d of %d entries.", m.summary.Succeeded(), len(m.summary.Results)),
	))

	if m.summary.Failed() > 0 {
		sb.WriteString("\n\nFailed:\n")

		for _, r := range m.summary.Results {
			if r.Err == nil {
				continue
			}

			sb.WriteString(red.Render(fmt.Sprintf("  line %d: %s (%s)", r.Line, r.Input, errorText(r.Err))))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n(Esc to go back)")

	return style.Render(sb.String())
}

type importResultMsg struct {
	summary importer.Summary
	err     error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		entries, err := importer.ReadEntries(f)
		if err != nil {
			return importResultMsg{err: err}
		}

		if len(entries) == 0 {
			return importResultMsg{err: fmt.Errorf("no entries found in %s", path)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		summary, err := importer.Run(ctx, entries, importer.DefaultConcurrency,
			func(ctx context.Context, input string) error {
				_, err := m.api.Create(ctx, input)
				return err
			})

		return importResultMsg{summary: summary, err: err}
	}
}
