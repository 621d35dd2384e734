package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

// Format is a supported export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}

	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// Filename returns a dated download name for the format.
func (f Format) Filename(now time.Time) string {
	return fmt.Sprintf("expenses_%s.%s", now.Format("20060102"), f)
}

// Lister is the read side of the expense service.
type Lister interface {
	List(ctx context.Context) ([]*expense.Expense, error)
}

type Service struct {
	expenses Lister
}

func NewService(expenses Lister) *Service {
	return &Service{expenses: expenses}
}

const sheetName = "Expenses"

var header = []string{"ID", "Date", "Amount", "Currency", "Category", "Description", "Merchant", "Original Input"}

// Write renders every expense, newest first, to w.
func (s *Service) Write(ctx context.Context, w io.Writer, format Format) error {
	es, err := s.expenses.List(ctx)
	if err != nil {
		return fmt.Errorf("listing expenses: %w", err)
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, es)
	case FormatXLSX:
		return writeXLSX(w, es)
	}

	return fmt.Errorf("unsupported export format %q", format)
}

func row(e *expense.Expense) []string {
	merchant := ""
	if e.Merchant != nil {
		merchant = *e.Merchant
	}

	return []string{
		fmt.Sprintf("%d", e.ID),
		e.CreatedAt.Format(time.DateTime),
		e.Amount.StringFixed(2),
		e.Currency,
		e.Category,
		e.Description,
		merchant,
		e.OriginalInput,
	}
}

func writeCSV(w io.Writer, es []*expense.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, e := range es {
		if err := cw.Write(row(e)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeXLSX(w io.Writer, es []*expense.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}

	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if err := f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, e := range es {
		cells := row(e)
		values := []any{e.ID, cells[1], e.Amount.InexactFloat64(), cells[3], cells[4], cells[5], cells[6], cells[7]}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", e.ID, err)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "B", 20)
	_ = f.SetColWidth(sheetName, "E", "G", 20)
	_ = f.SetColWidth(sheetName, "H", "H", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
