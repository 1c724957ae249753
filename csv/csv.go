// Package csv writes working sets to CSV and reads exported files back.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"expensetracker/appcontext"
	"expensetracker/ledger"
	"expensetracker/ledger/model"
	"expensetracker/summary"
)

// Header is the first row of every export.
var Header = []string{"Description", "Amount", "Category", "Date"}

// ErrNothingToExport is returned for an empty working set. No file is created.
var ErrNothingToExport = errors.New("no records to export")

var errWriteCsv = errors.New("error while writing CSV")

// WriteCsvError wraps a failure to write a row or flush the output.
func WriteCsvError(baseErr error) error {
	return fmt.Errorf("%w, %w", errWriteCsv, baseErr)
}

// Write streams the header and one row per record to w.
// Amounts carry exactly two fractional digits; a record without a usable
// amount gets an empty amount cell.
func Write(w io.Writer, records []model.Expense) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return WriteCsvError(err)
	}

	for _, r := range records {
		amount := ""
		if r.Amount.Valid {
			amount = summary.FormatAmount(r.Amount.Decimal)
		}
		if err := writer.Write([]string{r.Description, amount, r.Category, r.Date}); err != nil {
			return WriteCsvError(err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return WriteCsvError(err)
	}

	return nil
}

// ExportFile writes records to filePath and returns the number of rows written.
func ExportFile(ctx context.Context, records []model.Expense, filePath string) (int, error) {
	logger := appcontext.LoggerFromContext(ctx)

	if len(records) == 0 {
		logger.InfoContext(ctx, "Nothing to export", "filePath", filePath)
		return 0, ErrNothingToExport
	}

	file, err := os.Create(filePath)
	if err != nil {
		return 0, ledger.IOError(filePath, err)
	}

	if err = Write(file, records); err != nil {
		_ = file.Close()
		return 0, ledger.IOError(filePath, err)
	}
	if err = file.Close(); err != nil {
		return 0, ledger.IOError(filePath, err)
	}

	logger.InfoContext(ctx, "Exported expenses", "filePath", filePath, "rows", len(records))
	return len(records), nil
}
