package synthetic

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"expensetracker/config"
	"expensetracker/ledger"
)

// OpenLedger connects to storage and returns an adder plus a function that
// releases the connection.
type OpenLedger func(ctx context.Context) (ExpenseAdder, func(), error)

// RunGenerateSyntheticData generates synthetic expenses for testing.
func RunGenerateSyntheticData(
	ctx context.Context,
	logger *slog.Logger,
	args []string,
	cfg *config.Config,
	open OpenLedger,
) error {
	genFlagSet := flag.NewFlagSet("generate-synthetic-data", flag.ContinueOnError)
	rows := genFlagSet.Int("rows", cfg.SyntheticDataRows, "Number of rows to generate")
	dir := genFlagSet.String("dir", cfg.SyntheticDataDir, "Directory to write synthetic data to")
	persistToMongo := genFlagSet.Bool("persist-to-mongo", false, "Persist synthetic data to MongoDB")
	if err := genFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *rows <= 0 {
		return fmt.Errorf("%w: rows must be positive, got %d", ledger.ErrValidation, *rows)
	}

	if *persistToMongo {
		adder, closeFn, err := open(ctx)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer closeFn()

		added, err := GenerateAndPersistSyntheticData(ctx, adder, *rows)
		if err != nil {
			return fmt.Errorf("failed to generate and persist synthetic data after %d rows: %w", added, err)
		}
		logger.InfoContext(ctx, "Synthetic data generated and persisted successfully", "rows", added)
		return nil
	}

	logger.InfoContext(ctx, "Generating synthetic data")
	filePath, err := GenerateSyntheticData(ctx, *rows, *dir)
	if err != nil {
		return fmt.Errorf("failed to generate synthetic data: %w", err)
	}
	logger.InfoContext(ctx, "Synthetic data generated successfully", "file", filePath)
	return nil
}
