package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
	"time"

	"expensetracker/appcontext"
	"expensetracker/ledger"
	"expensetracker/ledger/model"
	"expensetracker/ledger/repository"

	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	nextID   int
	expenses []model.Expense
}

func (f *fakeRepo) InsertExpense(_ context.Context, expense model.Expense) (string, error) {
	f.nextID++
	expense.ID = fmt.Sprintf("%024x", f.nextID)
	f.expenses = append(f.expenses, expense)
	return expense.ID, nil
}

func (f *fakeRepo) FindAllExpenses(ctx context.Context) ([]model.Expense, error) {
	return f.FindExpensesBetween(ctx, "0000-01-01", "9999-12-31")
}

func (f *fakeRepo) FindExpensesBetween(_ context.Context, from, to string) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeRepo) DeleteExpense(_ context.Context, id string) error {
	for i, e := range f.expenses {
		if e.ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return appcontext.WithLogger(context.Background(), logger)
}

func newTestApp(repo *fakeRepo) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	a := newApp(ledger.New(repo), out, "en")
	a.today = func() time.Time { return time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC) }
	return a, out
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: []string{}},
		{line: "list", want: []string{"list"}},
		{line: "  total   -from 2024-01-01 ", want: []string{"total", "-from", "2024-01-01"}},
		{line: `add -desc "Coffee beans" -amount 3.50`, want: []string{"add", "-desc", "Coffee beans", "-amount", "3.50"}},
		{line: `add -desc Joe\'s`, want: []string{"add", "-desc", "Joe's"}},
		{line: `add -desc ""`, want: []string{"add", "-desc", ""}},
		{line: `add -desc Tea # evening`, want: []string{"add", "-desc", "Tea"}},
		{line: `add -desc "Fish & chips"`, want: []string{"add", "-desc", "Fish & chips"}},
		{line: `add -desc 'Joe\'s'`, wantErr: true},
		{line: `add -desc "unterminated`, wantErr: true},
		{line: `add -desc Tea\`, wantErr: true},
	}

	for _, tt := range tests {
		got, err := splitArgs(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Errorf("splitArgs(%q): expected an error, got %q", tt.line, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("splitArgs(%q) failed: %v", tt.line, err)
			continue
		}
		if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("splitArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	largest := decimal.RequireFromString("10")

	if got := bar(decimal.RequireFromString("10"), largest, 40); got != strings.Repeat("#", 40) {
		t.Errorf("Expected a full bar, got %q", got)
	}
	if got := bar(decimal.RequireFromString("5"), largest, 40); got != strings.Repeat("#", 20) {
		t.Errorf("Expected a half bar, got %q", got)
	}
	if got := bar(decimal.RequireFromString("-2.5"), largest, 40); got != strings.Repeat("-", 10) {
		t.Errorf("Expected a negative bar, got %q", got)
	}
	if got := bar(decimal.RequireFromString("0.01"), largest, 40); got != "#" {
		t.Errorf("Expected small non-zero totals to show, got %q", got)
	}
	if got := bar(decimal.Zero, decimal.Zero, 40); got != "" {
		t.Errorf("Expected no bar for a zero scale, got %q", got)
	}
}

func TestShell_Session(t *testing.T) {
	a, out := newTestApp(&fakeRepo{})
	exportPath := filepath.Join(t.TempDir(), "out.csv")

	input := strings.Join([]string{
		`add -desc "Coffee" -amount 3.50 -category Food -date 2024-01-05`,
		`add -desc Bus -amount 2.00 -category Transport -date 2024-01-06`,
		`total`,
		`by-category`,
		`list -from 2024-01-06 -to 2024-01-06`,
		`total`,
		`export -out ` + exportPath,
		`quit`,
		`total`,
	}, "\n")

	if err := a.runShell(testContext(), strings.NewReader(input)); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Expense added",
		"Total: 5.50",
		"Food",
		"Transport",
		"Total 2024-01-06 to 2024-01-06: 2.00",
		"Exported 1 rows",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Count(got, "Total: ") != 1 {
		t.Errorf("Expected commands after quit to be ignored, got:\n%s", got)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "Bus") || strings.Contains(string(data), "Coffee") {
		t.Errorf("Expected only the filtered record in the export, got:\n%s", data)
	}
}

func TestShell_ErrorsDoNotEndSession(t *testing.T) {
	a, out := newTestApp(&fakeRepo{})

	input := strings.Join([]string{
		`add -desc "" -amount 1`,
		`list -from 2024-02-01 -to 2024-01-01`,
		`bogus`,
		`add -desc "unterminated`,
		`add -desc Tea -amount 1.25`,
	}, "\n")

	if err := a.runShell(testContext(), strings.NewReader(input)); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}

	got := out.String()
	if strings.Count(got, prompt+"error: ") != 4 {
		t.Errorf("Expected 4 errors, got:\n%s", got)
	}
	if !strings.Contains(got, "Expense added") {
		t.Errorf("Expected the last add to succeed, got:\n%s", got)
	}
	if a.ws.Len() != 1 || a.ws.Records[0].Date != "2024-01-10" {
		t.Errorf("Expected one record dated today, got %+v", a.ws.Records)
	}
}

func TestDispatch_Delete(t *testing.T) {
	repo := &fakeRepo{}
	a, out := newTestApp(repo)
	ctx := testContext()

	if err := a.dispatch(ctx, "add", []string{"-desc", "Rent", "-amount", "900", "-category", "Housing"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	id := a.ws.Records[0].ID
	out.Reset()

	if err := a.dispatch(ctx, "delete", []string{"-yes", id, "not-an-id"}); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "deleted "+id) || !strings.Contains(got, "1 deleted, 1 failed") {
		t.Errorf("Unexpected delete output:\n%s", got)
	}
	if !a.ws.IsEmpty() || a.ws.View != ledger.ViewAll {
		t.Errorf("Expected an empty unfiltered working set, got %+v", a.ws)
	}
}

func TestDispatch_DeleteNeedsConfirmation(t *testing.T) {
	repo := &fakeRepo{}
	a, _ := newTestApp(repo)
	ctx := testContext()

	if err := a.dispatch(ctx, "add", []string{"-desc", "Rent", "-amount", "900"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	err := a.dispatch(ctx, "delete", []string{a.ws.Records[0].ID})
	if !errors.Is(err, ledger.ErrValidation) {
		t.Errorf("Expected a validation error without -yes, got %v", err)
	}
	if len(repo.expenses) != 1 {
		t.Errorf("Expected nothing to be deleted, %d record(s) left", len(repo.expenses))
	}
}

func TestShell_DeleteAsksForConfirmation(t *testing.T) {
	repo := &fakeRepo{}
	a, out := newTestApp(repo)
	id := fmt.Sprintf("%024x", 1)

	input := strings.Join([]string{
		`add -desc Rent -amount 900 -category Housing`,
		`delete ` + id,
		`n`,
		`delete ` + id,
		`yes`,
	}, "\n")

	if err := a.runShell(testContext(), strings.NewReader(input)); err != nil {
		t.Fatalf("runShell failed: %v", err)
	}

	got := out.String()
	if strings.Count(got, "Delete 1 selected record(s)? [y/N]") != 2 {
		t.Errorf("Expected two confirmation questions, got:\n%s", got)
	}
	if !strings.Contains(got, "Delete cancelled") || !strings.Contains(got, "deleted "+id) {
		t.Errorf("Expected one cancelled and one confirmed delete, got:\n%s", got)
	}
	if len(repo.expenses) != 0 {
		t.Errorf("Expected the record to be deleted, %d left", len(repo.expenses))
	}
}

func TestAmount_ExactWithLocaleGrouping(t *testing.T) {
	tests := []struct {
		lang   string
		amount string
		want   string
	}{
		{"en", "5.5", "5.50"},
		{"en", "-1234.5", "-1,234.50"},
		{"en", "12345678901234567.89", "12,345,678,901,234,567.89"},
		{"en", "123456789012345678901.01", "123456789012345678901.01"},
		{"en", "-0.001", "0.00"},
		{"de", "1234.5", "1.234,50"},
	}

	for _, tt := range tests {
		a := newApp(ledger.New(&fakeRepo{}), io.Discard, tt.lang)
		if got := a.amount(decimal.RequireFromString(tt.amount)); got != tt.want {
			t.Errorf("amount(%s) in %s = %q, want %q", tt.amount, tt.lang, got, tt.want)
		}
	}
}

func TestDispatch_EmptyWorkingSet(t *testing.T) {
	a, out := newTestApp(&fakeRepo{})
	ctx := testContext()

	if err := a.dispatch(ctx, "by-date", nil); err != nil {
		t.Fatalf("by-date failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "none.csv")
	if err := a.dispatch(ctx, "export", []string{"-out", path}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "No records to graph") || !strings.Contains(got, "No records to export") {
		t.Errorf("Unexpected output:\n%s", got)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected no export file, stat returned %v", err)
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	a, _ := newTestApp(&fakeRepo{})

	if err := a.dispatch(testContext(), "frobnicate", nil); err == nil {
		t.Error("Expected an error for an unknown command")
	}
}

func TestPrintUsage_ListsCommands(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)

	for name := range commands {
		if !strings.Contains(buf.String(), "  "+name) {
			t.Errorf("Expected usage to mention %s", name)
		}
	}
}
