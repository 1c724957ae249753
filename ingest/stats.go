package ingest

import (
	"fmt"
	"log/slog"
	"sort"
)

// Stats holds statistics about an import run.
type Stats struct {
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	RowsImported   int
	RowsSkipped    int
	Failures       map[string]string
	// Partial maps a failed file to the data row that could not be stored.
	// Rows before it were stored and are added again if the file is re-imported.
	Partial map[string]PartialImport
}

// PartialImport describes a file whose import stopped partway through.
type PartialImport struct {
	FailedRow  int
	RowsStored int
}

// NewStats creates and initializes a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Failures: make(map[string]string),
		Partial:  make(map[string]PartialImport),
	}
}

// AddFailure records a failed file and its reason.
func (s *Stats) AddFailure(file, reason string) {
	s.FailedFiles++
	s.Failures[file] = reason
}

// AddPartial records that file stopped at failedRow after storing rowsStored rows.
func (s *Stats) AddPartial(file string, failedRow, rowsStored int) {
	if rowsStored == 0 {
		return
	}
	s.Partial[file] = PartialImport{FailedRow: failedRow, RowsStored: rowsStored}
}

// IncrementProcessed increments the count of successfully processed files.
func (s *Stats) IncrementProcessed() {
	s.ProcessedFiles++
}

// Log prints the final statistics to the provided logger.
func (s *Stats) Log(logger *slog.Logger) {
	logger.Info("--- Import Stats ---")
	logger.Info(fmt.Sprintf("Total files found: %d", s.TotalFiles))
	logger.Info(fmt.Sprintf("Files processed: %d", s.ProcessedFiles))
	logger.Info(fmt.Sprintf("Files failed/skipped: %d", s.FailedFiles))
	logger.Info(fmt.Sprintf("Rows imported: %d", s.RowsImported))
	logger.Info(fmt.Sprintf("Rows skipped: %d", s.RowsSkipped))
	if s.FailedFiles > 0 {
		logger.Info("Failed files:")
		files := make([]string, 0, len(s.Failures))
		for file := range s.Failures {
			files = append(files, file)
		}
		sort.Strings(files)
		for _, file := range files {
			logger.Info(fmt.Sprintf("- %s: %s", file, s.Failures[file]))
			if p, ok := s.Partial[file]; ok {
				logger.Info(fmt.Sprintf("  %d row(s) before row %d were stored; re-importing the file adds them again",
					p.RowsStored, p.FailedRow))
			}
		}
	}
	logger.Info("--------------------")
}
