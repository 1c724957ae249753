package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"expensetracker/appcontext"
	csvexport "expensetracker/csv"
	"expensetracker/ledger"
	"expensetracker/ledger/model"
	"expensetracker/summary"

	"golang.org/x/text/message"
)

// app runs ledger commands against one working set. One-shot commands start
// from an empty working set; the shell keeps it between commands. confirm asks
// the user a yes/no question; when it is nil, destructive commands need -yes.
type app struct {
	ledger     *ledger.Ledger
	out        io.Writer
	confirm    func(question string) bool
	printer    *message.Printer
	decimalSep string
	ws         ledger.WorkingSet
	today      func() time.Time
}

func newApp(l *ledger.Ledger, out io.Writer, lang string) *app {
	printer := newPrinter(lang)

	return &app{
		ledger:     l,
		out:        out,
		printer:    printer,
		decimalSep: decimalSeparator(printer),
		today:      time.Now,
	}
}

type command struct {
	usage string
	run   func(a *app, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"add":         {"add -desc TEXT -amount NUMBER [-category NAME] [-date YYYY-MM-DD]", (*app).cmdAdd},
	"list":        {"list [-from YYYY-MM-DD -to YYYY-MM-DD]", (*app).cmdList},
	"delete":      {"delete [-yes] ID [ID...]", (*app).cmdDelete},
	"total":       {"total [-from YYYY-MM-DD -to YYYY-MM-DD]", (*app).cmdTotal},
	"by-date":     {"by-date [-from YYYY-MM-DD -to YYYY-MM-DD]", (*app).cmdByDate},
	"by-category": {"by-category [-from YYYY-MM-DD -to YYYY-MM-DD]", (*app).cmdByCategory},
	"export":      {"export -out FILE [-from YYYY-MM-DD -to YYYY-MM-DD]", (*app).cmdExport},
}

var commandOrder = []string{"add", "list", "delete", "total", "by-date", "by-category", "export"}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	return cmd.run(a, ctx, args)
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)

	return flags
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	flags := newFlagSet("add", a.out)
	desc := flags.String("desc", "", "Description of the expense")
	amount := flags.String("amount", "", "Amount, e.g. 12.50")
	category := flags.String("category", model.DefaultCategory, "Category")
	date := flags.String("date", a.today().Format(model.DateLayout), "Date as YYYY-MM-DD")
	if err := flags.Parse(args); err != nil {
		return err
	}

	expense, err := ledger.ValidateExpense(model.RawExpense{
		Description: *desc,
		Amount:      *amount,
		Category:    *category,
		Date:        *date,
	})
	if err != nil {
		return err
	}
	if !model.IsKnownCategory(expense.Category) {
		appcontext.LoggerFromContext(ctx).WarnContext(ctx, "Category is not one of the standard categories",
			"category", expense.Category)
	}

	id, err := a.ledger.Add(ctx, expense)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Expense added (%s)\n", id)

	ws, err := a.ledger.ListAll(ctx)
	if err != nil {
		return err
	}
	a.ws = ws
	fmt.Fprintf(a.out, "%d record(s) loaded\n", a.ws.Len())

	return nil
}

// rangeFlags registers -from and -to on flags.
func rangeFlags(flags *flag.FlagSet) (*string, *string) {
	from := flags.String("from", "", "First date of the range, YYYY-MM-DD")
	to := flags.String("to", "", "Last date of the range, YYYY-MM-DD")

	return from, to
}

// load replaces the working set when a range is given or nothing is loaded
// yet; otherwise the current working set is kept.
func (a *app) load(ctx context.Context, from, to string, force bool) error {
	var (
		ws  ledger.WorkingSet
		err error
	)

	switch {
	case from != "" || to != "":
		ws, err = a.ledger.ListByDateRange(ctx, from, to)
	case force || a.ws.View == ledger.ViewEmpty:
		ws, err = a.ledger.ListAll(ctx)
	default:
		return nil
	}
	if err != nil {
		return err
	}

	a.ws = ws
	return nil
}

func (a *app) cmdList(ctx context.Context, args []string) error {
	flags := newFlagSet("list", a.out)
	from, to := rangeFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := a.load(ctx, *from, *to, true); err != nil {
		return err
	}

	a.printRecords()
	a.printTotal()
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	flags := newFlagSet("delete", a.out)
	yes := flags.Bool("yes", false, "Delete without asking for confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ids := flags.Args()
	if len(ids) > 0 && !*yes {
		if a.confirm == nil {
			return ledger.ValidationError("confirmation required, pass -yes")
		}
		if !a.confirm(fmt.Sprintf("Delete %d selected record(s)?", len(ids))) {
			fmt.Fprintln(a.out, "Delete cancelled")
			return nil
		}
	}

	report, ws, err := a.ledger.DeleteByIds(ctx, ids)
	if report != nil {
		a.printDeleteReport(report)
	}
	if err != nil {
		return err
	}

	a.ws = ws
	fmt.Fprintf(a.out, "%d record(s) loaded\n", a.ws.Len())
	return nil
}

func (a *app) cmdTotal(ctx context.Context, args []string) error {
	flags := newFlagSet("total", a.out)
	from, to := rangeFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := a.load(ctx, *from, *to, false); err != nil {
		return err
	}

	a.printTotal()
	return nil
}

func (a *app) cmdByDate(ctx context.Context, args []string) error {
	return a.grouped(ctx, "by-date", args, summary.ByDate)
}

func (a *app) cmdByCategory(ctx context.Context, args []string) error {
	return a.grouped(ctx, "by-category", args, summary.ByCategory)
}

func (a *app) grouped(ctx context.Context, name string, args []string, groupBy func([]model.Expense) summary.Grouped) error {
	flags := newFlagSet(name, a.out)
	from, to := rangeFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}

	if err := a.load(ctx, *from, *to, false); err != nil {
		return err
	}

	if a.ws.IsEmpty() {
		fmt.Fprintln(a.out, "No records to graph")
		return nil
	}

	a.printChart(groupBy(a.ws.Records))
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	flags := newFlagSet("export", a.out)
	out := flags.String("out", "", "Destination CSV file")
	from, to := rangeFlags(flags)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return ledger.ValidationError("export destination required")
	}

	if err := a.load(ctx, *from, *to, false); err != nil {
		return err
	}

	n, err := csvexport.ExportFile(ctx, a.ws.Records, *out)
	if errors.Is(err, csvexport.ErrNothingToExport) {
		fmt.Fprintln(a.out, "No records to export")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d rows to %s\n", n, *out)
	return nil
}
