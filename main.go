// main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"expensetracker/appcontext"
	"expensetracker/config"
	csvparser "expensetracker/csv"
	"expensetracker/ingest"
	"expensetracker/ledger"
	"expensetracker/storage"
	"expensetracker/synthetic"
)

const minArgs = 2

func main() {
	envErr := config.LoadEnvFile()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevelFromEnv(),
	}))
	if envErr != nil {
		logger.Warn("Ignoring .env file", "error", envErr)
	}

	if len(os.Args) < minArgs {
		logger.Error("Usage: expensetracker <command> [options]")
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := run(logger, command, args); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string, args []string) error {
	ctx := appcontext.WithLogger(context.Background(), logger)
	cfg := config.LoadConfig(ctx, logger)

	switch command {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return nil
	case "shell":
		l, closeFn, err := openLedger(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		return newApp(l, os.Stdout, cfg.DisplayLanguage).runShell(ctx, os.Stdin)
	case "import":
		return runImport(ctx, logger, cfg, args)
	case "generate-synthetic-data":
		open := func(ctx context.Context) (synthetic.ExpenseAdder, func(), error) {
			return openLedger(ctx, cfg)
		}
		return synthetic.RunGenerateSyntheticData(ctx, logger, args, cfg, open)
	}

	if _, ok := commands[command]; !ok {
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	l, closeFn, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	a := newApp(l, os.Stdout, cfg.DisplayLanguage)
	stdin := bufio.NewReader(os.Stdin)
	a.confirm = func(question string) bool {
		fmt.Fprintf(os.Stdout, "%s [y/N] ", question)
		answer, err := stdin.ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		return isYes(answer)
	}

	return a.dispatch(ctx, command, args)
}

// openLedger connects to MongoDB and returns a ledger over the configured
// collection, plus a function that disconnects.
func openLedger(ctx context.Context, cfg *config.Config) (*ledger.Ledger, func(), error) {
	logger := appcontext.LoggerFromContext(ctx)

	client, err := storage.ConnectToMongoDBFunc(ctx, cfg.MongoURI)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to MongoDB", "error", err)
		return nil, nil, ledger.PersistenceError("connect", err)
	}

	closeFn := func() {
		if deferErr := client.Disconnect(context.WithoutCancel(ctx)); deferErr != nil {
			logger.ErrorContext(ctx, "Error disconnecting from MongoDB", "error", deferErr)
		}
	}

	provider := storage.NewMongoProvider(client, cfg.DatabaseName)
	repo := storage.NewMongoRepository(provider, cfg.CollectionName, cfg.OperationTimeout)

	return ledger.New(repo), closeFn, nil
}

func runImport(ctx context.Context, logger *slog.Logger, cfg *config.Config, args []string) error {
	flags := newFlagSet("import", os.Stderr)
	dir := flags.String("dir", cfg.ImportDir, "Directory holding CSV files to import")
	processedDir := flags.String("processed-dir", cfg.ProcessedDir, "Directory processed files are moved to")
	move := flags.Bool("move", cfg.MoveProcessedFiles, "Move imported files to the processed directory")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	l, closeFn, err := openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	importer := ingest.NewImporter(
		ingest.Dependencies{Ledger: l, Parser: csvparser.NewParser()},
		*dir, *processedDir, *move,
	)
	stats, err := importer.Import(ctx)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Import finished", "imported", stats.RowsImported, "skipped", stats.RowsSkipped)
	return nil
}
