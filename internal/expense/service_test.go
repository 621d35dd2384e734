package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

func TestService_Create(t *testing.T) {
	type args struct {
		input string
	}

	type testCase struct {
		name        string
		args        args
		setupParser func(m *expense.MockParser)
		setupRepo   func(m *expense.MockRepository)
		wantErr     bool
		wantErrIs   error
	}

	parsed := expense.ParsedExpense{
		Amount:      decimal.NewFromInt(500),
		Currency:    "INR",
		Category:    expense.CategoryFood,
		Description: "Groceries",
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{input: "Spent 500 on groceries"},
			setupParser: func(m *expense.MockParser) {
				m.EXPECT().Parse(gomock.Any(), "Spent 500 on groceries").Return(parsed, nil)
			},
			setupRepo: func(m *expense.MockRepository) {
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *expense.Expense) error {
						e.ID = 1
						e.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name:      "EmptyInput",
			args:      args{input: ""},
			wantErr:   true,
			wantErrIs: expense.ErrEmptyInput,
		},
		{
			name:      "WhitespaceInput",
			args:      args{input: "   \t"},
			wantErr:   true,
			wantErrIs: expense.ErrEmptyInput,
		},
		{
			name: "ParserDeclines",
			args: args{input: "hello there"},
			setupParser: func(m *expense.MockParser) {
				m.EXPECT().Parse(gomock.Any(), "hello there").Return(expense.ParsedExpense{}, &expense.ParseError{
					Kind:    expense.ErrUnparseable,
					Message: "Could not parse expense.",
				})
			},
			wantErr:   true,
			wantErrIs: expense.ErrUnparseable,
		},
		{
			name: "RepoError",
			args: args{input: "Lunch 200"},
			setupParser: func(m *expense.MockParser) {
				m.EXPECT().Parse(gomock.Any(), "Lunch 200").Return(parsed, nil)
			},
			setupRepo: func(m *expense.MockRepository) {
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			parser := expense.NewMockParser(ctrl)

			if tt.setupParser != nil {
				tt.setupParser(parser)
			}

			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}

			svc := expense.NewService(repo, parser)
			got, err := svc.Create(context.Background(), tt.args.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)

				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
			assert.Equal(t, tt.args.input, got.OriginalInput)
			assert.True(t, parsed.Amount.Equal(got.Amount))
			assert.Equal(t, parsed.Category, got.Category)
		})
	}
}

func TestService_Create_PreservesOriginalInputVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := "  Chai   40 @ Tapri ☕ \n"

	parser := expense.NewMockParser(ctrl)
	parser.EXPECT().Parse(gomock.Any(), input).Return(expense.ParsedExpense{
		Amount:      decimal.NewFromInt(40),
		Currency:    "INR",
		Category:    expense.CategoryFood,
		Description: "Chai",
	}, nil)

	repo := expense.NewMockRepository(ctrl)

	var stored *expense.Expense

	repo.EXPECT().
		CreateExpense(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense) error {
			stored = e
			return nil
		})

	got, err := expense.NewService(repo, parser).Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input, got.OriginalInput)
	assert.Equal(t, input, stored.OriginalInput)
	assert.Equal(t, "Chai", got.Description)
}

func TestService_Update(t *testing.T) {
	type testCase struct {
		name      string
		params    expense.UpdateParams
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	desc := "Dinner"
	negative := decimal.NewFromInt(-5)

	tests := []testCase{
		{
			name:   "Success",
			params: expense.UpdateParams{Description: &desc},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					UpdateExpense(gomock.Any(), int64(7), expense.UpdateParams{Description: &desc}).
					Return(&expense.Expense{ID: 7, Description: desc}, nil)
			},
		},
		{
			name:   "EmptyUpdateReadsCurrent",
			params: expense.UpdateParams{},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().GetExpense(gomock.Any(), int64(7)).Return(&expense.Expense{ID: 7}, nil)
			},
		},
		{
			name:    "NonPositiveAmount",
			params:  expense.UpdateParams{Amount: &negative},
			wantErr: expense.ErrInvalidAmount,
		},
		{
			name:   "NotFound",
			params: expense.UpdateParams{Description: &desc},
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().
					UpdateExpense(gomock.Any(), int64(7), gomock.Any()).
					Return(nil, expense.ErrNotFound)
			},
			wantErr: expense.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := expense.NewService(repo, expense.NewMockParser(ctrl))
			got, err := svc.Update(context.Background(), 7, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), got.ID)
		})
	}
}

func TestService_Delete(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().DeleteExpense(gomock.Any(), int64(3)).Return(true, nil)
			},
		},
		{
			name: "NotFound",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().DeleteExpense(gomock.Any(), int64(3)).Return(false, nil)
			},
			wantErr: expense.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := expense.NewService(repo, expense.NewMockParser(ctrl)).Delete(context.Background(), 3)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	repo.EXPECT().ListExpenses(gomock.Any()).Return([]*expense.Expense{{ID: 2}, {ID: 1}}, nil)

	got, err := expense.NewService(repo, expense.NewMockParser(ctrl)).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestIsKnownCategory(t *testing.T) {
	assert.True(t, expense.IsKnownCategory(expense.CategoryBills))
	assert.True(t, expense.IsKnownCategory("Other"))
	assert.False(t, expense.IsKnownCategory("Groceries"))
	assert.False(t, expense.IsKnownCategory("food & dining"))
}
