// Package analytics derives the dashboard statistics from a transaction
// list. Every function is pure: inputs are never modified and the same
// input always yields the same output.
package analytics

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// RecentLimit is how many transactions Recent returns.
const RecentLimit = 10

// Totals are the headline sums. Expense is an absolute value.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// BalancePoint is the running balance after one transaction.
type BalancePoint struct {
	Date    civil.Date `json:"date"`
	Balance float64    `json:"balance"`
}

// MonthlyPL is the profit/loss of one YYYY-MM month.
type MonthlyPL struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// ComputeTotals sums inflows and outflows. Empty input gives zeros.
func ComputeTotals(txs []domain.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		if tx.Amount >= 0 {
			t.Income += tx.Amount
		} else {
			t.Expense += math.Abs(tx.Amount)
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// CategoryBreakdown groups expenses by category, largest first. Equal
// amounts keep the order in which their categories first appeared. The
// result is empty, never nil, when there are no expenses.
func CategoryBreakdown(txs []domain.Transaction) []CategoryShare {
	var (
		order  []string
		sums   = make(map[string]float64)
		expSum float64
	)
	for _, tx := range txs {
		if tx.Amount >= 0 {
			continue
		}
		abs := math.Abs(tx.Amount)
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += abs
		expSum += abs
	}

	shares := make([]CategoryShare, 0, len(order))
	if expSum == 0 {
		return shares
	}

	for _, cat := range order {
		shares = append(shares, CategoryShare{
			Category:   cat,
			Amount:     sums[cat],
			Percentage: sums[cat] / expSum * 100,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares
}

// BalanceTrend orders transactions by date (ties keep input order) and
// emits the cumulative balance after each one, starting from zero. It
// returns nil when fewer than two transactions are available.
func BalanceTrend(txs []domain.Transaction) []BalancePoint {
	if len(txs) < 2 {
		return nil
	}

	sorted := sortedByDate(txs)
	points := make([]BalancePoint, 0, len(sorted))
	running := 0.0
	for _, tx := range sorted {
		running += tx.Amount
		points = append(points, BalancePoint{Date: tx.Date, Balance: running})
	}
	return points
}

// MonthlyProfitLoss groups by month and sums income and expense
// separately, ordered by month ascending.
func MonthlyProfitLoss(txs []domain.Transaction) []MonthlyPL {
	byMonth := make(map[string]*MonthlyPL)
	for _, tx := range txs {
		key := tx.MonthKey()
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyPL{Month: key}
			byMonth[key] = m
		}
		if tx.Amount >= 0 {
			m.Income += tx.Amount
		} else {
			m.Expense += math.Abs(tx.Amount)
		}
	}

	months := make([]MonthlyPL, 0, len(byMonth))
	for _, m := range byMonth {
		m.Net = m.Income - m.Expense
		months = append(months, *m)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month < months[j].Month
	})
	return months
}

// Recent returns up to RecentLimit transactions, newest date first.
func Recent(txs []domain.Transaction) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}

func sortedByDate(txs []domain.Transaction) []domain.Transaction {
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
