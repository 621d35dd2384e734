package view

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/export"
)

// View is the interface that all TUI screens implement.
type View interface {
	tea.Model
	Title() string
	ShortHelp() string
}

// API is the expense server as seen by the screens.
type API interface {
	Create(ctx context.Context, input string) (*expense.Expense, error)
	List(ctx context.Context) ([]*expense.Expense, error)
	Update(ctx context.Context, id int64, params expense.UpdateParams) (*expense.Expense, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, w io.Writer, format export.Format) error
}

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
