package ledger

import (
	"strings"
	"time"

	"expensetracker/ledger/model"

	"github.com/shopspring/decimal"
)

const (
	msgDescriptionRequired = "description required"
	msgAmountNotNumeric    = "amount must be numeric"
	msgDateFormat          = "date must be YYYY-MM-DD"
	msgRangeInverted       = "from date after to date"
	msgNoRecordsSelected   = "no records selected"
)

// ValidateExpense turns the raw form fields into a record ready for Add.
// It has no side effects.
func ValidateExpense(input model.RawExpense) (model.Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return model.Expense{}, ValidationError(msgDescriptionRequired)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(input.Amount))
	if err != nil {
		return model.Expense{}, ValidationError(msgAmountNotNumeric)
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = model.DefaultCategory
	}

	date, err := ValidateDate(input.Date)
	if err != nil {
		return model.Expense{}, err
	}

	return model.Expense{
		Description: description,
		Amount:      decimal.NewNullDecimal(amount),
		Category:    category,
		Date:        date,
	}, nil
}

// ValidateDate checks s against model.DateLayout, including calendar validity,
// and returns it in canonical form.
func ValidateDate(s string) (string, error) {
	parsed, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ValidationError(msgDateFormat)
	}

	return parsed.Format(model.DateLayout), nil
}
