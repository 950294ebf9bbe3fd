package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/dvloznov/finance-dashboard/internal/analytics"
	"github.com/dvloznov/finance-dashboard/internal/format"
)

var (
	heading  = color.New(color.Bold, color.Underline)
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
	muted    = color.New(color.FgHiBlack)
)

func signed(amount float64) *color.Color {
	if amount < 0 {
		return negative
	}
	return positive
}

func renderSummary(w io.Writer, snap analytics.Snapshot) {
	heading.Fprintf(w, "Overview (%d transactions)\n", snap.Count)
	fmt.Fprintf(w, "  %-10s ", snap.Labels.Income)
	positive.Fprintln(w, format.Money(snap.Totals.Income))
	fmt.Fprintf(w, "  %-10s ", snap.Labels.Expense)
	negative.Fprintln(w, format.Money(snap.Totals.Expense))
	fmt.Fprintf(w, "  %-10s ", snap.Labels.Balance)
	signed(snap.Totals.Balance).Fprintln(w, format.Money(snap.Totals.Balance))

	fmt.Fprintln(w)
	heading.Fprintf(w, "%s by category\n", snap.Labels.Expense)
	if len(snap.Categories) == 0 {
		muted.Fprintln(w, "  none")
	}
	for _, c := range snap.Categories {
		fmt.Fprintf(w, "  %-16s %12s  %6s\n", c.Category, format.Money(c.Amount), format.Percent(c.Percentage))
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Monthly")
	for _, m := range snap.Monthly {
		fmt.Fprintf(w, "  %s  %12s  %12s  ", m.Month, format.Money(m.Income), format.Money(m.Expense))
		signed(m.Net).Fprintf(w, "%12s\n", format.Money(m.Net))
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Balance trend")
	if snap.BalanceTrend == nil {
		muted.Fprintln(w, "  not enough data")
	}
	for _, p := range snap.BalanceTrend {
		fmt.Fprintf(w, "  %s  ", p.Date)
		signed(p.Balance).Fprintf(w, "%12s\n", format.Money(p.Balance))
	}

	fmt.Fprintln(w)
	heading.Fprintln(w, "Recent transactions")
	for _, tx := range snap.Recent {
		fmt.Fprintf(w, "  %s  %-30.30s %-16s ", tx.Date, tx.Description, tx.Category)
		signed(tx.Amount).Fprintf(w, "%12s\n", format.Money(tx.Amount))
	}
}
