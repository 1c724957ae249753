package ledger

import (
	"fmt"
	"log/slog"
)

// DeleteOutcome is the result of deleting a single id.
type DeleteOutcome struct {
	ID      string
	Deleted bool
	Reason  string
}

// DeleteReport collects per-id outcomes of a batch delete, in request order.
type DeleteReport struct {
	Outcomes     []DeleteOutcome
	DeletedCount int
	FailedCount  int
}

// AddSuccess records a deleted id.
func (r *DeleteReport) AddSuccess(id string) {
	r.DeletedCount++
	r.Outcomes = append(r.Outcomes, DeleteOutcome{ID: id, Deleted: true})
}

// AddFailure records an id that could not be deleted and why.
func (r *DeleteReport) AddFailure(id, reason string) {
	r.FailedCount++
	r.Outcomes = append(r.Outcomes, DeleteOutcome{ID: id, Reason: reason})
}

// Failed returns the outcomes that did not delete anything.
func (r *DeleteReport) Failed() []DeleteOutcome {
	var failed []DeleteOutcome
	for _, o := range r.Outcomes {
		if !o.Deleted {
			failed = append(failed, o)
		}
	}

	return failed
}

// Log prints the batch summary to the provided logger.
func (r *DeleteReport) Log(logger *slog.Logger) {
	logger.Info("--- Delete Summary ---")
	logger.Info(fmt.Sprintf("Requested: %d", len(r.Outcomes)))
	logger.Info(fmt.Sprintf("Deleted: %d", r.DeletedCount))
	logger.Info(fmt.Sprintf("Failed: %d", r.FailedCount))
	if r.FailedCount > 0 {
		logger.Info("Failed ids:")
		for _, o := range r.Failed() {
			logger.Info(fmt.Sprintf("- %s: %s", o.ID, o.Reason))
		}
	}
	logger.Info("----------------------")
}
