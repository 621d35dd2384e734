// Package client is a typed HTTP client for the expense API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/export"
)

// APIError is a non-2xx response. Message is the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type expenseBody struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Merchant      *string         `json:"merchant"`
	OriginalInput string          `json:"original_input"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (b expenseBody) toExpense() *expense.Expense {
	return &expense.Expense{
		ID:            b.ID,
		Amount:        b.Amount,
		Currency:      b.Currency,
		Category:      b.Category,
		Description:   b.Description,
		Merchant:      b.Merchant,
		OriginalInput: b.OriginalInput,
		CreatedAt:     b.CreatedAt,
	}
}

type envelope struct {
	Success  bool          `json:"success"`
	Error    string        `json:"error"`
	Message  string        `json:"message"`
	Expense  *expenseBody  `json:"expense"`
	Expenses []expenseBody `json:"expenses"`
	Status   string        `json:"status"`
}

func (c *Client) Health(ctx context.Context) error {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/health", nil, &env); err != nil {
		return err
	}

	if env.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", env.Status)
	}

	return nil
}

// Create submits free text for parsing and storage.
func (c *Client) Create(ctx context.Context, input string) (*expense.Expense, error) {
	var env envelope
	if err := c.do(ctx, http.MethodPost, "/api/expenses", map[string]string{"input": input}, &env); err != nil {
		return nil, err
	}

	return env.expense()
}

func (c *Client) List(ctx context.Context) ([]*expense.Expense, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, "/api/expenses", nil, &env); err != nil {
		return nil, err
	}

	out := make([]*expense.Expense, 0, len(env.Expenses))
	for _, b := range env.Expenses {
		out = append(out, b.toExpense())
	}

	return out, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*expense.Expense, error) {
	var env envelope
	if err := c.do(ctx, http.MethodGet, expensePath(id), nil, &env); err != nil {
		return nil, err
	}

	return env.expense()
}

type updateBody struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
	Merchant    *string          `json:"merchant,omitempty"`
}

func (c *Client) Update(ctx context.Context, id int64, params expense.UpdateParams) (*expense.Expense, error) {
	body := updateBody{
		Amount:      params.Amount,
		Currency:    params.Currency,
		Category:    params.Category,
		Description: params.Description,
		Merchant:    params.Merchant,
	}

	var env envelope
	if err := c.do(ctx, http.MethodPut, expensePath(id), body, &env); err != nil {
		return nil, err
	}

	return env.expense()
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, expensePath(id), nil, &envelope{})
}

// Export streams the server-rendered export file into w.
func (c *Client) Export(ctx context.Context, w io.Writer, format export.Format) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/expenses/export?format="+url.QueryEscape(string(format)), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download export: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, out *envelope) error {
	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	return &APIError{Status: resp.StatusCode, Message: env.Error}
}

func (e envelope) expense() (*expense.Expense, error) {
	if e.Expense == nil {
		return nil, errors.New("response has no expense")
	}

	return e.Expense.toExpense(), nil
}

func expensePath(id int64) string {
	return "/api/expenses/" + strconv.FormatInt(id, 10)
}
