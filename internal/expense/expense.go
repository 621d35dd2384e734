package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category labels the model is instructed to choose from. Stored values are
// not restricted to this set.
const (
	CategoryFood          = "Food & Dining"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryBills         = "Bills & Utilities"
	CategoryHealth        = "Health"
	CategoryTravel        = "Travel"
	CategoryOther         = "Other"
)

// Categories lists the known categories in display order.
var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryBills,
	CategoryHealth,
	CategoryTravel,
	CategoryOther,
}

// IsKnownCategory reports whether c is one of Categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Expense represents a single logged spend.
type Expense struct {
	ID            int64
	Amount        decimal.Decimal
	Currency      string
	Category      string
	Description   string
	Merchant      *string
	OriginalInput string // Verbatim text the user submitted
	CreatedAt     time.Time
}

// ParsedExpense is the structured result of interpreting free text.
type ParsedExpense struct {
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	Merchant    *string
}

// UpdateParams holds the fields of a partial update. Nil fields are left
// untouched. An empty Merchant clears it.
type UpdateParams struct {
	Amount      *decimal.Decimal
	Currency    *string
	Category    *string
	Description *string
	Merchant    *string
}

func (p UpdateParams) IsEmpty() bool {
	return p.Amount == nil && p.Currency == nil && p.Category == nil &&
		p.Description == nil && p.Merchant == nil
}
