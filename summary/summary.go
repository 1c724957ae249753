// Package summary computes totals and grouped sums over a working set.
// Every function is pure: it only reads the records it is given.
package summary

import (
	"sort"

	"expensetracker/ledger/model"

	"github.com/shopspring/decimal"
)

// Grouped maps group keys to summed amounts. Keys holds the presentation order.
type Grouped struct {
	Keys   []string
	Totals map[string]decimal.Decimal
}

// Len returns the number of groups.
func (g Grouped) Len() int {
	return len(g.Keys)
}

// Sum adds up every group total.
func (g Grouped) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, k := range g.Keys {
		sum = sum.Add(g.Totals[k])
	}

	return sum
}

// Total sums the amounts of records. Records without a usable amount are skipped.
func Total(records []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
	}

	return total
}

// FormatAmount renders d with exactly two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ByDate groups records by date. Keys are sorted ascending, which for
// canonical dates is chronological order.
func ByDate(records []model.Expense) Grouped {
	g := group(records, func(r model.Expense) string { return r.Date })
	sort.Strings(g.Keys)

	return g
}

// ByCategory groups records by category, labelling blank ones as Other.
// Keys keep the order in which each category first appears.
func ByCategory(records []model.Expense) Grouped {
	return group(records, func(r model.Expense) string {
		if r.Category == "" {
			return model.FallbackCategory
		}
		return r.Category
	})
}

func group(records []model.Expense, keyOf func(model.Expense) string) Grouped {
	g := Grouped{Totals: make(map[string]decimal.Decimal)}
	for _, r := range records {
		key := keyOf(r)
		sum, seen := g.Totals[key]
		if !seen {
			g.Keys = append(g.Keys, key)
			sum = decimal.Zero
		}
		if r.Amount.Valid {
			sum = sum.Add(r.Amount.Decimal)
		}
		g.Totals[key] = sum
	}

	return g
}
