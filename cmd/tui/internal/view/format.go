package view

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendlog/internal/expense"
)

const apiTimeout = 30 * time.Second

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var categoryIcons = map[string]string{
	expense.CategoryFood:          "🍔",
	expense.CategoryTransport:     "🚗",
	expense.CategoryShopping:      "🛍️",
	expense.CategoryEntertainment: "🎬",
	expense.CategoryBills:         "📄",
	expense.CategoryHealth:        "💊",
	expense.CategoryTravel:        "✈️",
	expense.CategoryOther:         "📦",
}

// FormatAmount renders an amount with its currency symbol, or the code
// when no symbol is known.
func FormatAmount(amount decimal.Decimal, currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return sym + amount.StringFixed(2)
	}

	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

// CategoryIcon falls back to a generic box for categories outside the
// fixed set.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}

	return "📦"
}

// RelativeTime renders t relative to now for recent entries and as a date
// otherwise.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}

	return FormatDate(t)
}

// APICtx returns a context with a standard timeout for server calls.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}
