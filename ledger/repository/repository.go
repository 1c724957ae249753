package repository

import (
	"context"
	"errors"

	"expensetracker/ledger/model"
)

// ErrInvalidID is returned when an id is not in the store's identifier format.
var ErrInvalidID = errors.New("invalid expense id")

// ErrNotFound is returned when no stored expense has the given id.
var ErrNotFound = errors.New("expense not found")

// Repository defines the persistence operations the ledger relies on.
// Find methods return expenses ordered by date, then by insertion.
type Repository interface {
	InsertExpense(ctx context.Context, expense model.Expense) (string, error)
	FindAllExpenses(ctx context.Context) ([]model.Expense, error)
	// FindExpensesBetween returns expenses with from <= date <= to, both canonical.
	FindExpensesBetween(ctx context.Context, from, to string) ([]model.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}
