package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/spendlog/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/spendlog/internal/client"
	"github.com/MrJamesThe3rd/spendlog/internal/config"
)

const logFile = "spendlog-tui.log"

type model struct {
	api    *client.Client
	apiURL string
	health error

	currentView View

	addView    view.AddModel
	listView   view.ListModel
	importView view.ImportModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewAdd    View = 1
	ViewList   View = 2
	ViewImport View = 3
	ViewExport View = 4
)

type healthMsg struct {
	err error
}

func initialModel(cfg *config.Config) model {
	api := client.New(cfg.Client.APIURL, cfg.Client.Timeout)

	return model{
		api:         api,
		apiURL:      cfg.Client.APIURL,
		currentView: ViewMenu,
		addView:     view.NewAddModel(api),
		listView:    view.NewListModel(api),
		importView:  view.NewImportModel(api),
		exportView:  view.NewExportModel(api),
	}
}

func (m model) Init() tea.Cmd {
	return m.healthCmd()
}

func (m model) healthCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.APICtx()
		defer cancel()

		return healthMsg{err: m.api.Health(ctx)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case healthMsg:
		m.health = msg.err
		if msg.err != nil {
			slog.Warn("api health check failed", "error", msg.err, "url", m.apiURL)
		}

		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewAdd
				m.addView = view.NewAddModel(m.api)

				return m, m.addView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.api)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.api)

				return m, m.importView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.api)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, m.healthCmd()
	}

	switch m.currentView {
	case ViewAdd:
		var newModel tea.Model
		newModel, cmd = m.addView.Update(msg)
		m.addView = newModel.(view.AddModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		status := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("● connected to " + m.apiURL)
		if m.health != nil {
			status = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("● server unreachable at " + m.apiURL)
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Spendlog\n\n" +
				status + "\n\n" +
				"1. Add Expense\n" +
				"2. List Expenses\n" +
				"3. Import Notes\n" +
				"4. Export Expenses\n\n" +
				"q. Quit",
		)
	case ViewAdd:
		return m.withHelp(m.addView)
	case ViewList:
		return m.withHelp(m.listView)
	case ViewImport:
		return m.withHelp(m.importView)
	case ViewExport:
		return m.withHelp(m.exportView)
	}

	return "Unknown View"
}

func (m model) withHelp(v view.View) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).PaddingLeft(1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	_ = godotenv.Load()

	// The terminal belongs to bubbletea, so logs go to a file.
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer f.Close()

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(initialModel(cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
