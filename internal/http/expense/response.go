package expense

import (
	"encoding/json"
	"time"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

type expenseResponse struct {
	ID            int64       `json:"id"`
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	Category      string      `json:"category"`
	Description   string      `json:"description"`
	Merchant      *string     `json:"merchant"`
	OriginalInput string      `json:"original_input"`
	CreatedAt     time.Time   `json:"created_at"`
}

type expenseEnvelope struct {
	Success bool            `json:"success"`
	Expense expenseResponse `json:"expense"`
}

type listEnvelope struct {
	Success  bool              `json:"success"`
	Expenses []expenseResponse `json:"expenses"`
}

type messageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Amount:        json.Number(e.Amount.String()),
		Currency:      e.Currency,
		Category:      e.Category,
		Description:   e.Description,
		Merchant:      e.Merchant,
		OriginalInput: e.OriginalInput,
		CreatedAt:     e.CreatedAt,
	}
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, 0, len(es))
	for _, e := range es {
		resp = append(resp, toResponse(e))
	}

	return resp
}
