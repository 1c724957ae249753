// Package ledger records expenses and loads them back into working sets.
// It is the only component allowed to talk to the expense store.
package ledger

import (
	"context"
	"errors"

	"expensetracker/appcontext"
	"expensetracker/ledger/model"
	"expensetracker/ledger/repository"
)

// Ledger translates user requests into repository queries.
type Ledger struct {
	repo repository.Repository
}

// New creates a Ledger on top of repo.
func New(repo repository.Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Add stores a validated expense and returns the id assigned to it.
// Failures are not retried.
func (l *Ledger) Add(ctx context.Context, expense model.Expense) (string, error) {
	logger := appcontext.LoggerFromContext(ctx)

	id, err := l.repo.InsertExpense(ctx, expense)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to add expense", "description", expense.Description, "error", err)
		return "", PersistenceError("add expense", err)
	}

	logger.InfoContext(ctx, "Expense added", "id", id, "date", expense.Date, "category", expense.Category)
	return id, nil
}

// ListAll loads every stored expense ordered by date.
func (l *Ledger) ListAll(ctx context.Context) (WorkingSet, error) {
	records, err := l.repo.FindAllExpenses(ctx)
	if err != nil {
		return WorkingSet{}, PersistenceError("list expenses", err)
	}

	appcontext.LoggerFromContext(ctx).DebugContext(ctx, "Loaded all expenses", "count", len(records))
	return WorkingSet{View: ViewAll, Records: records}, nil
}

// ListByDateRange loads expenses dated within [from, to], ordered by date.
// Invalid or inverted bounds fail before any query is issued.
func (l *Ledger) ListByDateRange(ctx context.Context, from, to string) (WorkingSet, error) {
	from, err := ValidateDate(from)
	if err != nil {
		return WorkingSet{}, err
	}
	to, err = ValidateDate(to)
	if err != nil {
		return WorkingSet{}, err
	}
	if from > to {
		return WorkingSet{}, ValidationError(msgRangeInverted)
	}

	records, err := l.repo.FindExpensesBetween(ctx, from, to)
	if err != nil {
		return WorkingSet{}, PersistenceError("list expenses by date range", err)
	}

	appcontext.LoggerFromContext(ctx).DebugContext(ctx, "Loaded expenses in range",
		"from", from, "to", to, "count", len(records))
	return WorkingSet{View: ViewFiltered, From: from, To: to, Records: records}, nil
}

// DeleteByIds deletes each id independently; one failure does not stop the
// others. The working set is always reloaded unfiltered afterwards.
func (l *Ledger) DeleteByIds(ctx context.Context, ids []string) (*DeleteReport, WorkingSet, error) {
	if len(ids) == 0 {
		return nil, WorkingSet{}, ValidationError(msgNoRecordsSelected)
	}

	logger := appcontext.LoggerFromContext(ctx)
	report := &DeleteReport{}

	for _, id := range ids {
		if err := l.repo.DeleteExpense(ctx, id); err != nil {
			logger.WarnContext(ctx, "Failed to delete expense", "id", id, "error", err)
			report.AddFailure(id, deleteFailureReason(err))
			continue
		}
		report.AddSuccess(id)
	}

	ws, err := l.ListAll(ctx)
	if err != nil {
		return report, WorkingSet{}, err
	}

	return report, ws, nil
}

func deleteFailureReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrInvalidID):
		return repository.ErrInvalidID.Error()
	case errors.Is(err, repository.ErrNotFound):
		return repository.ErrNotFound.Error()
	default:
		return err.Error()
	}
}
