package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/http/respond"
)

const (
	msgInputRequired = "Input is required"
	msgInvalidBody   = "Invalid request body"
	msgInvalidID     = "Invalid expense id"
	msgNotFound      = "Expense not found"
	msgDeleted       = "Expense deleted successfully"
	msgCreateFailed  = "Failed to create expense"
	msgFetchFailed   = "Failed to fetch expenses"
	msgGetFailed     = "Failed to fetch expense"
	msgUpdateFailed  = "Failed to update expense"
	msgDeleteFailed  = "Failed to delete expense"
)

type Handler struct {
	svc      *expense.Service
	validate *validator.Validate

	// splitParseErrors maps upstream parser failures to 502 instead of 400.
	splitParseErrors bool
}

func NewHandler(svc *expense.Service, splitParseErrors bool) *Handler {
	return &Handler{
		svc:              svc,
		validate:         newValidator(),
		splitParseErrors: splitParseErrors,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Input string `json:"input"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	e, err := h.svc.Create(r.Context(), req.Input)
	if err != nil {
		h.createError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "expense created", "id", e.ID, "category", e.Category)

	respond.JSON(w, http.StatusCreated, expenseEnvelope{Success: true, Expense: toResponse(e)})
}

func (h *Handler) createError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, expense.ErrEmptyInput) {
		respond.Error(w, http.StatusBadRequest, msgInputRequired)
		return
	}

	var perr *expense.ParseError
	if errors.As(err, &perr) {
		status := http.StatusBadRequest
		if h.splitParseErrors && !expense.UserInputError(err) {
			status = http.StatusBadGateway
		}

		slog.WarnContext(r.Context(), "failed to parse expense", "error", err, "status", status)
		respond.Error(w, status, perr.Message)

		return
	}

	slog.ErrorContext(r.Context(), "failed to create expense", "error", err)
	respond.Error(w, http.StatusInternalServerError, msgCreateFailed)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	es, err := h.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list expenses", "error", err)
		respond.Error(w, http.StatusInternalServerError, msgFetchFailed)

		return
	}

	respond.JSON(w, http.StatusOK, listEnvelope{Success: true, Expenses: toResponseList(es)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		slog.ErrorContext(r.Context(), "failed to get expense", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, msgGetFailed)

		return
	}

	respond.JSON(w, http.StatusOK, expenseEnvelope{Success: true, Expense: toResponse(e)})
}

// updateExpenseRequest fields are all optional. An empty merchant clears it.
type updateExpenseRequest struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty" validate:"omitnil,len=3,alpha"`
	Category    *string          `json:"category,omitempty" validate:"omitnil,min=1,max=50"`
	Description *string          `json:"description,omitempty" validate:"omitnil,min=1"`
	Merchant    *string          `json:"merchant,omitempty" validate:"omitnil,max=100"`
}

// normalize trims string fields and upper-cases the currency code.
func (req *updateExpenseRequest) normalize() {
	req.Currency = trimmed(req.Currency)
	req.Category = trimmed(req.Category)
	req.Description = trimmed(req.Description)
	req.Merchant = trimmed(req.Merchant)

	if req.Currency != nil {
		req.Currency = new(strings.ToUpper(*req.Currency))
	}
}

func (req updateExpenseRequest) params() expense.UpdateParams {
	return expense.UpdateParams{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
		Merchant:    req.Merchant,
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	req.normalize()

	if err := h.validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	e, err := h.svc.Update(r.Context(), id, req.params())
	if err != nil {
		switch {
		case errors.Is(err, expense.ErrNotFound):
			respond.Error(w, http.StatusNotFound, msgNotFound)
		case errors.Is(err, expense.ErrInvalidAmount):
			respond.Error(w, http.StatusBadRequest, "Amount must be a positive number")
		default:
			slog.ErrorContext(r.Context(), "failed to update expense", "error", err, "id", id)
			respond.Error(w, http.StatusInternalServerError, msgUpdateFailed)
		}

		return
	}

	respond.JSON(w, http.StatusOK, expenseEnvelope{Success: true, Expense: toResponse(e)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, expense.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgNotFound)
			return
		}

		slog.ErrorContext(r.Context(), "failed to delete expense", "error", err, "id", id)
		respond.Error(w, http.StatusInternalServerError, msgDeleteFailed)

		return
	}

	respond.JSON(w, http.StatusOK, messageEnvelope{Success: true, Message: msgDeleted})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}

	return id, true
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}

	return new(strings.TrimSpace(*s))
}
