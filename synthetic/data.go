package synthetic

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	csvexport "expensetracker/csv"
	"expensetracker/ledger"
	"expensetracker/ledger/model"
)

// FileName is the name of the generated CSV file.
const FileName = "synthetic-expenses.csv"

// descriptions holds sample descriptions per category.
var descriptions = map[string][]string{
	"Food":          {"Groceries", "Coffee", "Lunch", "Bakery"},
	"Transport":     {"Bus ticket", "Taxi", "Fuel", "Parking"},
	"Housing":       {"Rent", "Repairs"},
	"Bills":         {"Electricity", "Internet", "Phone"},
	"Clothing":      {"Shoes", "Jacket"},
	"Health":        {"Pharmacy", "Dentist"},
	"Education":     {"Books", "Online course"},
	"Entertainment": {"Cinema", "Concert", "Streaming"},
	"Travel":        {"Hotel", "Flight"},
	"Other":         {"Gift", "Donation"},
}

// RandomExpenses returns rows random expenses dated within the 90 days up to end.
// It returns nil when rows is not positive.
func RandomExpenses(rng *rand.Rand, rows int, end time.Time) []model.Expense {
	if rows <= 0 {
		return nil
	}

	expenses := make([]model.Expense, 0, rows)
	for i := 0; i < rows; i++ {
		category := model.Categories[rng.Intn(len(model.Categories))]
		options := descriptions[category]
		raw := model.RawExpense{
			Description: fmt.Sprintf("%s #%d", options[rng.Intn(len(options))], i),
			Amount:      fmt.Sprintf("%.2f", 1+rng.Float64()*199),
			Category:    category,
			Date:        end.AddDate(0, 0, -rng.Intn(90)).Format(model.DateLayout),
		}
		// Generated fields always pass validation.
		expense, err := ledger.ValidateExpense(raw)
		if err != nil {
			continue
		}
		expenses = append(expenses, expense)
	}

	return expenses
}

// GenerateSyntheticData writes rows random expenses in the export format to
// dir and returns the file path.
func GenerateSyntheticData(ctx context.Context, rows int, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	filePath := filepath.Join(dir, FileName)
	if _, err := csvexport.ExportFile(ctx, RandomExpenses(rng, rows, time.Now()), filePath); err != nil {
		return "", fmt.Errorf("failed to write synthetic data: %w", err)
	}

	return filePath, nil
}

// ExpenseAdder stores one validated expense.
type ExpenseAdder interface {
	Add(ctx context.Context, expense model.Expense) (string, error)
}

// GenerateAndPersistSyntheticData adds rows random expenses through adder.
func GenerateAndPersistSyntheticData(ctx context.Context, adder ExpenseAdder, rows int) (int, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	added := 0
	for _, expense := range RandomExpenses(rng, rows, time.Now()) {
		if _, err := adder.Add(ctx, expense); err != nil {
			return added, err
		}
		added++
	}

	return added, nil
}
