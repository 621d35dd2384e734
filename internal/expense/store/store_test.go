package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MrJamesThe3rd/spendlog/internal/database"
	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/expense/store"
)

type StoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *store.Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	db, err := database.New(database.DriverSQLite, filepath.Join(s.T().TempDir(), "expenses.db"))
	s.Require().NoError(err)

	s.db = db
	s.store = store.New(db)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	s.db.Close()
}

func (s *StoreSuite) newExpense(amount int64) *expense.Expense {
	merchant := gofakeit.Company()

	return &expense.Expense{
		Amount:        decimal.NewFromInt(amount),
		Currency:      "INR",
		Category:      expense.CategoryFood,
		Description:   gofakeit.Sentence(3),
		Merchant:      &merchant,
		OriginalInput: gofakeit.Sentence(5),
	}
}

func (s *StoreSuite) count() int {
	var n int
	s.Require().NoError(s.db.QueryRow(`SELECT COUNT(*) FROM expenses`).Scan(&n))

	return n
}

func (s *StoreSuite) TestCreate_ReturnsStoredRow() {
	e := s.newExpense(200)
	input := e.OriginalInput

	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	s.NotZero(e.ID)
	s.False(e.CreatedAt.IsZero())
	s.Equal(input, e.OriginalInput)
	s.True(decimal.NewFromInt(200).Equal(e.Amount))
}

func (s *StoreSuite) TestCreate_AppliesCurrencyDefault() {
	e := s.newExpense(50)
	e.Currency = ""

	s.Require().NoError(s.store.CreateExpense(s.ctx, e))
	s.Equal("INR", e.Currency)
}

func (s *StoreSuite) TestCreate_NullMerchant() {
	e := s.newExpense(75)
	e.Merchant = nil

	s.Require().NoError(s.store.CreateExpense(s.ctx, e))
	s.Nil(e.Merchant)

	got, err := s.store.GetExpense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Nil(got.Merchant)
}

func (s *StoreSuite) TestCreate_FractionalAmount() {
	e := s.newExpense(0)
	e.Amount = decimal.RequireFromString("12.50")

	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	got, err := s.store.GetExpense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("12.5").Equal(got.Amount))
}

func (s *StoreSuite) TestCreateThenGet_RoundTrip() {
	e := s.newExpense(200)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	got, err := s.store.GetExpense(s.ctx, e.ID)
	s.Require().NoError(err)

	s.Equal(e.ID, got.ID)
	s.True(e.Amount.Equal(got.Amount))
	s.Equal(e.Currency, got.Currency)
	s.Equal(e.Category, got.Category)
	s.Equal(e.Description, got.Description)
	s.Equal(e.Merchant, got.Merchant)
	s.Equal(e.OriginalInput, got.OriginalInput)
	s.True(e.CreatedAt.Equal(got.CreatedAt))
}

func (s *StoreSuite) TestGet_NotFound() {
	got, err := s.store.GetExpense(s.ctx, 999)
	s.ErrorIs(err, expense.ErrNotFound)
	s.Nil(got)
}

func (s *StoreSuite) TestList_Empty() {
	got, err := s.store.ListExpenses(s.ctx)
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *StoreSuite) TestList_NewestFirst() {
	const n = 4

	ids := make([]int64, 0, n)

	for i := range n {
		e := s.newExpense(int64(100 + i))
		s.Require().NoError(s.store.CreateExpense(s.ctx, e))
		ids = append(ids, e.ID)
	}

	got, err := s.store.ListExpenses(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(got, n)

	for i, e := range got {
		s.Equal(ids[n-1-i], e.ID)
	}

	for i := 1; i < len(got); i++ {
		s.False(got[i].CreatedAt.After(got[i-1].CreatedAt))
	}
}

func (s *StoreSuite) TestUpdate_OnlySuppliedFields() {
	e := s.newExpense(300)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	desc := "Team lunch"

	got, err := s.store.UpdateExpense(s.ctx, e.ID, expense.UpdateParams{Description: &desc})
	s.Require().NoError(err)

	s.Equal(desc, got.Description)
	s.True(e.Amount.Equal(got.Amount))
	s.Equal(e.Category, got.Category)
	s.Equal(e.Merchant, got.Merchant)
	s.Equal(e.Currency, got.Currency)
	s.Equal(e.OriginalInput, got.OriginalInput)
}

func (s *StoreSuite) TestUpdate_AllFields() {
	e := s.newExpense(300)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	var (
		amount   = decimal.NewFromInt(450)
		currency = "USD"
		category = expense.CategoryTravel
		desc     = "Taxi to airport"
		merchant = "Uber"
	)

	got, err := s.store.UpdateExpense(s.ctx, e.ID, expense.UpdateParams{
		Amount:      &amount,
		Currency:    &currency,
		Category:    &category,
		Description: &desc,
		Merchant:    &merchant,
	})
	s.Require().NoError(err)

	s.True(amount.Equal(got.Amount))
	s.Equal(currency, got.Currency)
	s.Equal(category, got.Category)
	s.Equal(desc, got.Description)
	s.Require().NotNil(got.Merchant)
	s.Equal(merchant, *got.Merchant)
}

func (s *StoreSuite) TestUpdate_EmptyMerchantClears() {
	e := s.newExpense(300)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	empty := ""

	got, err := s.store.UpdateExpense(s.ctx, e.ID, expense.UpdateParams{Merchant: &empty})
	s.Require().NoError(err)
	s.Nil(got.Merchant)
}

func (s *StoreSuite) TestUpdate_NotFound() {
	e := s.newExpense(300)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	desc := "ghost"

	got, err := s.store.UpdateExpense(s.ctx, e.ID+100, expense.UpdateParams{Description: &desc})
	s.ErrorIs(err, expense.ErrNotFound)
	s.Nil(got)

	stored, err := s.store.GetExpense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.Equal(e.Description, stored.Description)
}

func (s *StoreSuite) TestDelete() {
	e := s.newExpense(300)
	s.Require().NoError(s.store.CreateExpense(s.ctx, e))

	deleted, err := s.store.DeleteExpense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.True(deleted)
	s.Equal(0, s.count())

	deleted, err = s.store.DeleteExpense(s.ctx, e.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StoreSuite) TestDelete_MissingLeavesCount() {
	s.Require().NoError(s.store.CreateExpense(s.ctx, s.newExpense(10)))
	s.Require().NoError(s.store.CreateExpense(s.ctx, s.newExpense(20)))

	deleted, err := s.store.DeleteExpense(s.ctx, 12345)
	s.Require().NoError(err)
	s.False(deleted)
	s.Equal(2, s.count())
}

func (s *StoreSuite) TestIDsNotReused() {
	first := s.newExpense(10)
	s.Require().NoError(s.store.CreateExpense(s.ctx, first))

	_, err := s.store.DeleteExpense(s.ctx, first.ID)
	s.Require().NoError(err)

	second := s.newExpense(20)
	s.Require().NoError(s.store.CreateExpense(s.ctx, second))
	s.Greater(second.ID, first.ID)
}

func TestStore_CreateError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO expenses").WillReturnError(errors.New("disk I/O error"))

	e := &expense.Expense{Amount: decimal.NewFromInt(1), Category: "Other", Description: "x", OriginalInput: "x 1"}

	err = store.New(db).CreateExpense(context.Background(), e)
	assert.ErrorContains(t, err, "creating expense")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM expenses ORDER BY created_at DESC, id DESC").
		WillReturnError(errors.New("database is locked"))

	got, err := store.New(db).ListExpenses(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_DeleteNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM expenses WHERE id = ").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := store.New(db).DeleteExpense(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetScansTextTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "amount", "currency", "category", "description", "merchant", "original_input", "created_at",
	}).AddRow(int64(5), "200", "INR", "Food & Dining", "Lunch", nil, "Lunch 200", "2026-10-18 12:30:00")

	mock.ExpectQuery("SELECT (.+) FROM expenses WHERE id = ").WithArgs(int64(5)).WillReturnRows(rows)

	got, err := store.New(db).GetExpense(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.ID)
	assert.Nil(t, got.Merchant)
	assert.Equal(t, 2026, got.CreatedAt.Year())
	assert.Equal(t, 30, got.CreatedAt.Minute())
	assert.True(t, decimal.NewFromInt(200).Equal(got.Amount))
}
