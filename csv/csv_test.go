package csv

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"expensetracker/ledger"
	"expensetracker/ledger/model"

	"github.com/shopspring/decimal"
)

// createTempCSV creates a temporary CSV file with the given content.
func createTempCSV(t *testing.T, filename, content string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test CSV file: %v", err)
	}
	return filePath
}

func record(desc, amount, category, date string) model.Expense {
	return model.Expense{
		ID:          "65a000000000000000000001",
		Description: desc,
		Amount:      decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		Category:    category,
		Date:        date,
	}
}

func TestWrite_Format(t *testing.T) {
	var buf bytes.Buffer
	records := []model.Expense{
		record("Coffee", "3.5", "Food", "2024-01-05"),
		record("Bus", "2", "Transport", "2024-01-05"),
		record("Fine, late", "-0.125", "Bills", "2024-01-06"),
	}

	if err := Write(&buf, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "Description,Amount,Category,Date\n" +
		"Coffee,3.50,Food,2024-01-05\n" +
		"Bus,2.00,Transport,2024-01-05\n" +
		"\"Fine, late\",-0.13,Bills,2024-01-06\n"
	if buf.String() != want {
		t.Errorf("Unexpected CSV output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWrite_MissingAmountIsBlank(t *testing.T) {
	var buf bytes.Buffer
	records := []model.Expense{{Description: "Legacy", Category: "Other", Date: "2023-05-01"}}

	if err := Write(&buf, records); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Legacy,,Other,2023-05-01") {
		t.Errorf("Expected blank amount cell, got:\n%s", buf.String())
	}
}

func TestExportFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	filePath := filepath.Join(t.TempDir(), "export.csv")
	records := []model.Expense{
		record("Coffee", "3.50", "Food", "2024-01-05"),
		record("Bus \"express\"", "2.004", "Transport", "2024-01-05"),
		record("Rent\nFebruary", "950", "Housing", "2024-02-01"),
		record("Refund", "-12.5", "", "2024-02-03"),
	}

	n, err := ExportFile(ctx, records, filePath)
	if err != nil {
		t.Fatalf("ExportFile failed: %v", err)
	}
	if n != len(records) {
		t.Errorf("Expected %d rows written, got %d", len(records), n)
	}

	rows, err := ParseFile(ctx, filePath)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(rows) != len(records) {
		t.Fatalf("Expected %d rows, got %d", len(records), len(rows))
	}

	for i, r := range records {
		want := model.RawExpense{
			Description: r.Description,
			Amount:      r.Amount.Decimal.StringFixed(2),
			Category:    r.Category,
			Date:        r.Date,
		}
		if rows[i] != want {
			t.Errorf("Row %d: expected %+v, got %+v", i, want, rows[i])
		}
	}
}

func TestExportFile_EmptyWorkingSet(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "empty.csv")

	_, err := ExportFile(context.Background(), nil, filePath)
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("Expected ErrNothingToExport, got %v", err)
	}
	if _, statErr := os.Stat(filePath); !os.IsNotExist(statErr) {
		t.Errorf("Expected no file to be created, stat returned %v", statErr)
	}
}

func TestExportFile_UnwritableDestination(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "missing-dir", "export.csv")

	_, err := ExportFile(context.Background(), []model.Expense{record("a", "1", "Food", "2024-01-01")}, filePath)
	if !errors.Is(err, ledger.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
}

func TestParse_ColumnOrderAndCase(t *testing.T) {
	content := "date,CATEGORY,amount,Description\n2024-01-05,Food,3.50,Coffee\n"

	rows, err := Parse(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := model.RawExpense{Description: "Coffee", Amount: "3.50", Category: "Food", Date: "2024-01-05"}
	if len(rows) != 1 || rows[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, rows)
	}
}

func TestParse_MissingColumn(t *testing.T) {
	_, err := Parse(context.Background(), strings.NewReader("Description,Amount,Date\nx,1,2024-01-01\n"))
	if !errors.Is(err, errMissingColumn) || !strings.Contains(err.Error(), "Category") {
		t.Errorf("Expected missing Category column error, got %v", err)
	}
}

func TestParse_ShortRowSkipped(t *testing.T) {
	content := "Description,Amount,Category,Date\nCoffee,3.50\nBus,2.00,Transport,2024-01-05\n"

	rows, err := Parse(context.Background(), strings.NewReader(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Description != "Bus" {
		t.Errorf("Expected only the Bus row, got %+v", rows)
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	filePath := createTempCSV(t, "empty.csv", "")

	rows, err := ParseFile(context.Background(), filePath)
	if err != nil {
		t.Fatalf("Expected ParseFile to succeed for empty file, but got error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %d", len(rows))
	}
}

func TestParseFile_FileNotFound(t *testing.T) {
	_, err := ParseFile(context.Background(), "non_existent_file.csv")
	if err == nil {
		t.Fatalf("Expected ParseFile to fail for file not found, but got nil error")
	}
	expectedErrorMsg := "failed to open file"
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("Expected error message to contain '%s', got '%s'", expectedErrorMsg, err.Error())
	}
}
