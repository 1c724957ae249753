package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"expensetracker/ledger"
	"expensetracker/summary"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const chartWidth = 40

func newPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}

	return message.NewPrinter(tag)
}

// decimalSeparator returns the separator p puts between whole and fractional digits.
func decimalSeparator(p *message.Printer) string {
	return strings.TrimSuffix(strings.TrimPrefix(p.Sprintf("%.1f", 1.5), "1"), "5")
}

// amount renders d with two decimals and locale grouping. The digits come
// from the decimal itself; the printer only groups the whole part. Whole parts
// beyond int64 are printed ungrouped.
func (a *app) amount(d decimal.Decimal) string {
	fixed := summary.FormatAmount(d)
	whole, frac, _ := strings.Cut(strings.TrimPrefix(fixed, "-"), ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
	}
	return sign + a.printer.Sprintf("%d", n) + a.decimalSep + frac
}

func (a *app) printRecords() {
	if a.ws.IsEmpty() {
		fmt.Fprintln(a.out, "No records")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, r := range a.ws.Records {
		amount := ""
		if r.Amount.Valid {
			amount = a.amount(r.Amount.Decimal)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, r.Category, amount, r.Description)
	}
	_ = tw.Flush()
}

func (a *app) printTotal() {
	label := "Total"
	if a.ws.View == ledger.ViewFiltered {
		label = fmt.Sprintf("Total %s to %s", a.ws.From, a.ws.To)
	}

	fmt.Fprintf(a.out, "%s: %s\n", label, a.amount(summary.Total(a.ws.Records)))
}

func (a *app) printDeleteReport(report *ledger.DeleteReport) {
	for _, o := range report.Outcomes {
		if o.Deleted {
			fmt.Fprintf(a.out, "deleted %s\n", o.ID)
			continue
		}
		fmt.Fprintf(a.out, "failed  %s: %s\n", o.ID, o.Reason)
	}
	fmt.Fprintf(a.out, "%d deleted, %d failed\n", report.DeletedCount, report.FailedCount)
}

// printChart draws one horizontal bar per key, scaled to the largest
// absolute total. Negative totals are drawn with '-'.
func (a *app) printChart(g summary.Grouped) {
	largest := decimal.Zero
	for _, key := range g.Keys {
		if abs := g.Totals[key].Abs(); abs.GreaterThan(largest) {
			largest = abs
		}
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, key := range g.Keys {
		total := g.Totals[key]
		fmt.Fprintf(tw, "%s\t%s\t %s\t\n", key, a.amount(total), bar(total, largest, chartWidth))
	}
	_ = tw.Flush()
}

func bar(value, largest decimal.Decimal, width int) string {
	if largest.IsZero() {
		return ""
	}

	n := int(value.Abs().Mul(decimal.NewFromInt(int64(width))).Div(largest).Round(0).IntPart())
	if n == 0 && !value.IsZero() {
		n = 1
	}

	mark := "#"
	if value.IsNegative() {
		mark = "-"
	}
	return strings.Repeat(mark, n)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: expensetracker <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w, "  import [-dir DIR] [-processed-dir DIR] [-move]")
	fmt.Fprintln(w, "      a file that fails partway stays in DIR; importing it again re-adds its stored rows")
	fmt.Fprintln(w, "  generate-synthetic-data [-rows N] [-dir DIR] [-persist-to-mongo]")
	fmt.Fprintln(w, "  shell")
	fmt.Fprintln(w, "  help")
}
