// Package ingest imports previously exported CSV files back into the ledger.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expensetracker/appcontext"
	csvparser "expensetracker/csv"
	"expensetracker/ledger"
	"expensetracker/ledger/model"
)

var errNotCsv = errors.New("not a valid CSV file")

// ExpenseAdder stores one validated expense. *ledger.Ledger satisfies it.
type ExpenseAdder interface {
	Add(ctx context.Context, expense model.Expense) (string, error)
}

// Dependencies holds what an Importer needs.
type Dependencies struct {
	Ledger ExpenseAdder
	Parser csvparser.Parser
}

// Importer walks a directory of CSV files and adds every valid row.
type Importer struct {
	deps               Dependencies
	ImportDir          string
	ProcessedDir       string
	MoveProcessedFiles bool
}

// NewImporter creates a new Importer.
func NewImporter(deps Dependencies, importDir, processedDir string, moveProcessedFiles bool) *Importer {
	return &Importer{
		deps:               deps,
		ImportDir:          importDir,
		ProcessedDir:       processedDir,
		MoveProcessedFiles: moveProcessedFiles,
	}
}

// Import runs the import over ImportDir and logs the resulting stats.
func (i *Importer) Import(ctx context.Context) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Starting expense import")

	if _, err := os.Stat(i.ImportDir); err != nil {
		logger.ErrorContext(
			ctx,
			"The directory does not exist. Please create it and place your CSV files inside.",
			"dir", i.ImportDir,
			"error", err,
		)
		return nil, fmt.Errorf("stat check for directory %s: %w", i.ImportDir, err)
	}

	stats, err := ImportCSVFiles(ctx, i.deps.Ledger, i.deps.Parser, i.ImportDir, i.ProcessedDir, i.MoveProcessedFiles)
	if err != nil {
		logger.ErrorContext(ctx, "Error importing CSV files", "error", err)
		return nil, fmt.Errorf("import of CSV files failed: %w", err)
	}

	logger.InfoContext(ctx, "Expense import completed.")
	stats.Log(logger)

	return stats, nil
}

// ImportCSVFiles processes every CSV file in importDir. A failing file is
// recorded in the stats and does not stop the others.
func ImportCSVFiles(
	ctx context.Context,
	adder ExpenseAdder,
	parser csvparser.Parser,
	importDir string,
	processedDir string,
	moveProcessedFiles bool,
) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Reading expenses from directory", "dir", importDir)

	files, err := os.ReadDir(importDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	stats := NewStats()
	stats.TotalFiles = len(files)

	for _, file := range files {
		if !validateFile(file) {
			stats.AddFailure(file.Name(), errNotCsv.Error())
			logger.WarnContext(ctx, "file was not processed", "fileName", file.Name(), "reason", errNotCsv)
			continue
		}

		err = processFile(ctx, adder, parser, file, importDir, processedDir, moveProcessedFiles, stats)
		if err != nil {
			stats.AddFailure(file.Name(), err.Error())
			logger.ErrorContext(ctx, "failed to process file", "file", file.Name(), "error", err)
		} else {
			stats.IncrementProcessed()
		}
	}

	return stats, nil
}

// Return true only if the entry pointed to by FILE is a CSV file.
func validateFile(file os.DirEntry) bool {
	return !file.IsDir() && strings.EqualFold(filepath.Ext(file.Name()), ".csv")
}

// processFile adds the valid rows of one file. Invalid rows are skipped; a
// storage failure aborts the file and leaves it in place. Rows stored before
// the failure are recorded in stats.Partial, since a retry stores them again.
func processFile(
	ctx context.Context,
	adder ExpenseAdder,
	parser csvparser.Parser,
	file os.DirEntry,
	importDir string,
	processedDir string,
	moveProcessedFiles bool,
	stats *Stats,
) error {
	logger := appcontext.LoggerFromContext(ctx)
	filePath := filepath.Join(importDir, filepath.Base(file.Name()))

	rows, err := parser.Parse(ctx, filePath)
	if err != nil {
		return err
	}

	stored := 0
	for n, row := range rows {
		expense, validationErr := ledger.ValidateExpense(row)
		if validationErr != nil {
			stats.RowsSkipped++
			logger.WarnContext(ctx, "Skipping invalid row", "file", file.Name(), "row", n+1, "error", validationErr)
			continue
		}

		if _, err = adder.Add(ctx, expense); err != nil {
			stats.AddPartial(file.Name(), n+1, stored)
			return fmt.Errorf("failed to add row %d after storing %d row(s): %w", n+1, stored, err)
		}
		stored++
		stats.RowsImported++
	}

	if moveProcessedFiles {
		if err = moveFile(filePath, processedDir); err != nil {
			return fmt.Errorf("failed to move file: %w", err)
		}
	}

	return nil
}

func moveFile(filePath, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o750); err != nil {
		return fmt.Errorf("failed to create processed directory '%s': %w", processedDir, err)
	}

	newPath := filepath.Join(processedDir, filepath.Base(filePath))
	if err := os.Rename(filePath, newPath); err != nil {
		return fmt.Errorf("failed to move file from '%s' to '%s': %w", filePath, newPath, err)
	}

	return nil
}
