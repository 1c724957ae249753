package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"expensetracker/appcontext"
	"expensetracker/ledger/model"
)

var errMissingColumn = errors.New("required column is missing from CSV header")

// MissingColumnError names the header column that could not be found.
func MissingColumnError(column string) error {
	return fmt.Errorf("%w, %s", errMissingColumn, column)
}

// Parse reads rows in the export format. Columns are located by header name,
// case-insensitively, so their order does not matter. Rows are returned raw;
// validating them is up to the caller.
func Parse(ctx context.Context, r io.Reader) ([]model.RawExpense, error) {
	logger := appcontext.LoggerFromContext(ctx)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range Header {
		if _, ok := colIndex[strings.ToLower(col)]; !ok {
			return nil, MissingColumnError(col)
		}
	}

	var rows []model.RawExpense
	for line := 2; ; line++ {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read CSV record on line %d: %w", line, readErr)
		}

		if len(record) < len(header) {
			logger.WarnContext(ctx, "Skipping invalid record", "reason", "not enough columns", "line", line)
			continue
		}

		rows = append(rows, model.RawExpense{
			Description: safeGet(record, colIndex["description"]),
			Amount:      safeGet(record, colIndex["amount"]),
			Category:    safeGet(record, colIndex["category"]),
			Date:        safeGet(record, colIndex["date"]),
		})
	}

	return rows, nil
}

// ParseFile opens filePath and parses it with Parse.
func ParseFile(ctx context.Context, filePath string) ([]model.RawExpense, error) {
	appcontext.LoggerFromContext(ctx).InfoContext(ctx, "Parsing expenses from csv", "filePath", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	return Parse(ctx, file)
}

// safeGet retrieves slice[index] safely.
func safeGet(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}

	return ""
}

// Parser reads expense rows from a file.
type Parser interface {
	Parse(ctx context.Context, filePath string) ([]model.RawExpense, error)
}

type fileParser struct{}

// NewParser returns a Parser for files in the export format.
func NewParser() Parser {
	return fileParser{}
}

// Parse implements Parser with ParseFile.
func (fileParser) Parse(ctx context.Context, filePath string) ([]model.RawExpense, error) {
	return ParseFile(ctx, filePath)
}
