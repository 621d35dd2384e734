package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
	"github.com/MrJamesThe3rd/spendlog/internal/metrics"
)

const DefaultTimeout = 15 * time.Second

// User-facing messages for each failure class.
const (
	msgUpstream    = "Failed to call the language model"
	msgEmpty       = "No response from AI"
	msgMalformed   = "Could not parse AI response"
	msgUnparseable = "Could not extract amount. Try saying 'Lunch 200'"
)

// Completer sends a prompt to a language model and returns its text output.
// An empty string means the model produced no text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Parser implements expense.Parser on top of a Completer.
type Parser struct {
	completer       Completer
	defaultCurrency string
	timeout         time.Duration
}

func New(completer Completer, defaultCurrency string, timeout time.Duration) *Parser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Parser{
		completer:       completer,
		defaultCurrency: defaultCurrency,
		timeout:         timeout,
	}
}

// modelOutput mirrors the JSON contract given to the model.
type modelOutput struct {
	Amount      *decimal.Decimal `json:"amount"`
	Currency    string           `json:"currency"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Merchant    *string          `json:"merchant"`
	Error       json.RawMessage  `json:"error"`
}

// declined reports whether the model filled in the error field.
func (o modelOutput) declined() bool {
	v := bytes.TrimSpace(o.Error)
	if len(v) == 0 {
		return false
	}

	switch string(v) {
	case "null", `""`, "false":
		return false
	}

	return true
}

func (p *Parser) Parse(ctx context.Context, text string) (expense.ParsedExpense, error) {
	start := time.Now()

	parsed, err := p.parse(ctx, text)

	outcome := "ok"

	var perr *expense.ParseError
	if errors.As(err, &perr) {
		outcome = outcomeLabel(perr.Kind)
	}

	metrics.ObserveParse(outcome, time.Since(start))

	return parsed, err
}

func (p *Parser) parse(ctx context.Context, text string) (expense.ParsedExpense, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.completer.Complete(ctx, buildPrompt(text))
	if err != nil {
		slog.Error("failed to call language model", "error", err)
		return expense.ParsedExpense{}, &expense.ParseError{Kind: expense.ErrUpstreamUnavailable, Message: msgUpstream, Err: err}
	}

	if strings.TrimSpace(raw) == "" {
		return expense.ParsedExpense{}, &expense.ParseError{Kind: expense.ErrEmptyResponse, Message: msgEmpty}
	}

	obj, ok := extractJSON(raw)
	if !ok {
		slog.Warn("no JSON object in model response", "response", raw)
		return expense.ParsedExpense{}, &expense.ParseError{Kind: expense.ErrMalformedResponse, Message: msgMalformed}
	}

	var out modelOutput
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		slog.Warn("failed to decode model response", "error", err, "response", obj)
		return expense.ParsedExpense{}, &expense.ParseError{
			Kind:    expense.ErrMalformedResponse,
			Message: msgMalformed,
			Err:     fmt.Errorf("decoding model output: %w", err),
		}
	}

	if out.declined() || out.Amount == nil || !out.Amount.IsPositive() {
		return expense.ParsedExpense{}, &expense.ParseError{Kind: expense.ErrUnparseable, Message: msgUnparseable}
	}

	return p.normalize(out, text), nil
}

// normalize fills gaps the model left empty. Values the model supplied are
// kept as given.
func (p *Parser) normalize(out modelOutput, text string) expense.ParsedExpense {
	parsed := expense.ParsedExpense{
		Amount:      *out.Amount,
		Currency:    strings.TrimSpace(out.Currency),
		Category:    strings.TrimSpace(out.Category),
		Description: strings.TrimSpace(out.Description),
	}

	if parsed.Currency == "" {
		parsed.Currency = p.defaultCurrency
	}

	if parsed.Category == "" {
		parsed.Category = expense.CategoryOther
	}

	if parsed.Description == "" {
		parsed.Description = text
	}

	if out.Merchant != nil {
		if m := strings.TrimSpace(*out.Merchant); m != "" {
			parsed.Merchant = &m
		}
	}

	return parsed
}

// extractJSON returns the span from the first '{' to the last '}'.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')

	if start < 0 || end < start {
		return "", false
	}

	return s[start : end+1], true
}

func outcomeLabel(kind error) string {
	switch kind {
	case expense.ErrUpstreamUnavailable:
		return "upstream_unavailable"
	case expense.ErrEmptyResponse:
		return "empty_response"
	case expense.ErrMalformedResponse:
		return "malformed_response"
	case expense.ErrUnparseable:
		return "unparseable"
	}

	return "error"
}
