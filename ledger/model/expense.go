package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical form of an expense date. Canonical dates sort
// lexically in chronological order.
const DateLayout = "2006-01-02"

// Categories is the fixed set offered to the user. The first entry is the default.
var Categories = []string{
	"Food", "Transport", "Housing", "Bills", "Clothing",
	"Health", "Education", "Entertainment", "Travel", "Other",
}

const (
	// DefaultCategory is used when the caller leaves the category blank.
	DefaultCategory = "Food"
	// FallbackCategory labels records with no category when grouping.
	FallbackCategory = "Other"
)

// Expense is a single recorded expense, mapped from storage.
type Expense struct {
	// ID is assigned on insert and only used to target deletes.
	ID          string
	Description string
	// Amount is invalid only for stored documents whose amount is missing or not a number.
	Amount   decimal.NullDecimal
	Category string
	Date     string
}

// RawExpense holds the four fields as typed by the user.
type RawExpense struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// IsKnownCategory reports whether category is one of Categories.
func IsKnownCategory(category string) bool {
	return slices.Contains(Categories, category)
}
