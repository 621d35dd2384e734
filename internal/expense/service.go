package expense

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/spendlog/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id int64) (*Expense, error)
	ListExpenses(ctx context.Context) ([]*Expense, error)
	UpdateExpense(ctx context.Context, id int64, params UpdateParams) (*Expense, error)
	DeleteExpense(ctx context.Context, id int64) (bool, error)
}

// Parser turns free text into a structured expense. Failures are reported as
// *ParseError.
type Parser interface {
	Parse(ctx context.Context, text string) (ParsedExpense, error)
}

type Service struct {
	repo   Repository
	parser Parser
}

func NewService(repo Repository, parser Parser) *Service {
	return &Service{repo: repo, parser: parser}
}

// Create parses input and stores the result. The stored OriginalInput is
// input exactly as given.
func (s *Service) Create(ctx context.Context, input string) (*Expense, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyInput
	}

	parsed, err := s.parser.Parse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("parsing input: %w", err)
	}

	e := &Expense{
		Amount:        parsed.Amount,
		Currency:      parsed.Currency,
		Category:      parsed.Category,
		Description:   parsed.Description,
		Merchant:      parsed.Merchant,
		OriginalInput: input,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, fmt.Errorf("storing expense: %w", err)
	}

	metrics.ExpensesCreated.Inc()

	return e, nil
}

func (s *Service) List(ctx context.Context) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

// Update applies the supplied fields. An empty update returns the current
// record unchanged.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (*Expense, error) {
	if params.Amount != nil && !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if params.IsEmpty() {
		return s.repo.GetExpense(ctx, id)
	}

	return s.repo.UpdateExpense(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteExpense(ctx, id)
	if err != nil {
		return err
	}

	if !deleted {
		return ErrNotFound
	}

	return nil
}
