package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense reads an expense row in selectExpenseColumns order.
func scanExpense(s scanner) (*expense.Expense, error) {
	var e expense.Expense

	var merchant sql.NullString

	var createdAt timestamp

	if err := s.Scan(
		&e.ID, &e.Amount, &e.Currency, &e.Category, &e.Description,
		&merchant, &e.OriginalInput, &createdAt,
	); err != nil {
		return nil, err
	}

	if merchant.Valid {
		e.Merchant = &merchant.String
	}

	e.CreatedAt = createdAt.Time

	return &e, nil
}

const selectExpenseColumns = `id, amount, currency, category, description, merchant, original_input, created_at`

// CreateExpense inserts e and overwrites it with the stored row, including the
// assigned id, created_at and any column defaults. An empty currency takes the
// column default.
func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	cols := []string{"amount", "category", "description", "merchant", "original_input"}
	args := []any{e.Amount, e.Category, e.Description, e.Merchant, e.OriginalInput}

	if e.Currency != "" {
		cols = append(cols, "currency")
		args = append(args, e.Currency)
	}

	query := fmt.Sprintf(
		`INSERT INTO expenses (%s) VALUES (%s) RETURNING `+selectExpenseColumns,
		strings.Join(cols, ", "), placeholders(len(cols)),
	)

	stored, err := scanExpense(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	*e = *stored

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id int64) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses WHERE id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*expense.Expense, 0)

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense applies the non-nil fields of params in a single statement.
// An empty merchant is stored as NULL.
func (s *Store) UpdateExpense(ctx context.Context, id int64, params expense.UpdateParams) (*expense.Expense, error) {
	var (
		sets []string
		args []any
	)

	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if params.Amount != nil {
		set("amount", *params.Amount)
	}

	if params.Currency != nil {
		set("currency", *params.Currency)
	}

	if params.Category != nil {
		set("category", *params.Category)
	}

	if params.Description != nil {
		set("description", *params.Description)
	}

	if params.Merchant != nil {
		var merchant *string
		if *params.Merchant != "" {
			merchant = params.Merchant
		}

		set("merchant", merchant)
	}

	if len(sets) == 0 {
		return s.GetExpense(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE expenses SET %s WHERE id = $%d RETURNING `+selectExpenseColumns,
		strings.Join(sets, ", "), len(args),
	)

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("updating expense: %w", err)
	}

	return e, nil
}

// DeleteExpense reports whether a row was removed.
func (s *Store) DeleteExpense(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}

	return n > 0, nil
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", i+1)
	}

	return strings.Join(ps, ", ")
}
