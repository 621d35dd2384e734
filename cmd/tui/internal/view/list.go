package view

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
	listStateConfirmDelete
)

// editFields backs the huh forms; it lives on the heap so the bindings
// survive bubbletea's value-copied models.
type editFields struct {
	amount      string
	currency    string
	category    string
	description string
	merchant    string
	confirm     bool
}

type ListModel struct {
	CommonModel
	api API

	state    listState
	table    table.Model
	expenses []*expense.Expense
	form     *huh.Form
	fields   *editFields

	loading bool
	err     error
	status  string
}

func NewListModel(api API) ListModel {
	columns := []table.Column{
		{Title: "", Width: 3},
		{Title: "Category", Width: 18},
		{Title: "Amount", Width: 12},
		{Title: "Description", Width: 32},
		{Title: "Merchant", Width: 18},
		{Title: "When", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		api:     api,
		table:   t,
		fields:  &editFields{},
		loading: true,
	}
}

func (m ListModel) Title() string { return "Expenses" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateEdit:
		return "Navigate form | Esc: cancel"
	case listStateConfirmDelete:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | e: edit | d: delete | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.expenses = msg.expenses
			m.refreshTable()
		}

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = "Error: " + errorText(msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))

		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit, listStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.status = ""

			return m, m.loadCmd()
		case "e":
			return m.enterEditMode()
		case "d", "delete":
			return m.enterConfirmDelete()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *expense.Expense {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	return m.expenses[idx]
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	merchant := ""
	if e.Merchant != nil {
		merchant = *e.Merchant
	}

	m.fields = &editFields{
		amount:      e.Amount.String(),
		currency:    e.Currency,
		category:    e.Category,
		description: e.Description,
		merchant:    merchant,
	}

	categories := expense.Categories
	if !expense.IsKnownCategory(e.Category) {
		categories = append(slices.Clone(expense.Categories), e.Category)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.fields.amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("currency").
				Title("Currency").
				CharLimit(3).
				Value(&m.fields.currency).
				Validate(validateCurrency),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(huh.NewOptions(categories...)...).
				Value(&m.fields.category),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.fields.description).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("merchant").
				Title("Merchant").
				Description("Leave empty to clear").
				CharLimit(100).
				Value(&m.fields.merchant),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) enterConfirmDelete() (tea.Model, tea.Cmd) {
	e := m.selected()
	if e == nil {
		return m, nil
	}

	m.fields = &editFields{}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", e.Description)).
				Description(FormatAmount(e.Amount, e.Currency)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&m.fields.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == listStateConfirmDelete {
		if !m.fields.confirm {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd()
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("Error: %s\n\n(r to retry, Esc to go back)", errorText(m.err)),
		)
	}

	header := fmt.Sprintf("%d expenses | Total: %s", len(m.expenses), m.totals())

	var body string
	if len(m.expenses) == 0 {
		body = lipgloss.NewStyle().Faint(true).Render("No expenses yet. Add one from the menu.")
	} else {
		body = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		body,
	)

	if m.state != listStateBrowse && m.form != nil {
		title := "Delete Expense"
		if m.state == listStateEdit {
			title = "Edit Expense"
		}

		original := ""
		if e := m.selected(); e != nil {
			original = e.OriginalInput
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\nOriginal: %s\n\n%s", title, original, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// totals sums amounts per currency, in first-seen order.
func (m ListModel) totals() string {
	sums := map[string]decimal.Decimal{}

	var order []string

	for _, e := range m.expenses {
		if _, ok := sums[e.Currency]; !ok {
			order = append(order, e.Currency)
		}

		sums[e.Currency] = sums[e.Currency].Add(e.Amount)
	}

	if len(order) == 0 {
		return FormatAmount(decimal.Zero, "")
	}

	parts := make([]string, 0, len(order))
	for _, c := range order {
		parts = append(parts, FormatAmount(sums[c], c))
	}

	return strings.Join(parts, " + ")
}

func (m *ListModel) refreshTable() {
	now := time.Now()

	rows := make([]table.Row, 0, len(m.expenses))
	for _, e := range m.expenses {
		merchant := ""
		if e.Merchant != nil {
			merchant = *e.Merchant
		}

		rows = append(rows, table.Row{
			CategoryIcon(e.Category),
			e.Category,
			FormatAmount(e.Amount, e.Currency),
			e.Description,
			merchant,
			RelativeTime(e.CreatedAt, now),
		})
	}

	m.table.SetRows(rows)
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return errors.New("amount must be positive")
	}

	return nil
}

func validateCurrency(s string) error {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return errors.New("currency must be a 3-letter code")
	}

	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return errors.New("currency must be a 3-letter code")
		}
	}

	return nil
}

// updateParams returns only the fields that differ from e.
func (f *editFields) updateParams(e *expense.Expense) expense.UpdateParams {
	var params expense.UpdateParams

	if amount, err := decimal.NewFromString(strings.TrimSpace(f.amount)); err == nil && !amount.Equal(e.Amount) {
		params.Amount = &amount
	}

	if c := strings.ToUpper(strings.TrimSpace(f.currency)); c != e.Currency {
		params.Currency = &c
	}

	if f.category != e.Category {
		params.Category = new(f.category)
	}

	if d := strings.TrimSpace(f.description); d != e.Description {
		params.Description = &d
	}

	current := ""
	if e.Merchant != nil {
		current = *e.Merchant
	}

	if mr := strings.TrimSpace(f.merchant); mr != current {
		params.Merchant = &mr
	}

	return params
}

// Messages

type loadListMsg struct {
	expenses []*expense.Expense
	err      error
}

func (m ListModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		es, err := m.api.List(ctx)

		return loadListMsg{expenses: es, err: err}
	}
}

type listSaveMsg struct {
	status string
	err    error
}

func (m ListModel) saveCmd() tea.Cmd {
	e := m.selected()
	if e == nil {
		return nil
	}

	params := m.fields.updateParams(e)
	if params.IsEmpty() {
		return func() tea.Msg { return listSaveMsg{status: "No changes."} }
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if _, err := m.api.Update(ctx, e.ID, params); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Expense updated."}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	e := m.selected()
	if e == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		if err := m.api.Delete(ctx, e.ID); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Expense deleted."}
	}
}
