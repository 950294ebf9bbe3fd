package analytics

import "github.com/dvloznov/finance-dashboard/internal/domain"

// Snapshot is every derived statistic for one transaction list. It is
// rebuilt from scratch whenever the list changes.
type Snapshot struct {
	Labels       domain.Labels        `json:"labels"`
	Count        int                  `json:"count"`
	Totals       Totals               `json:"totals"`
	Categories   []CategoryShare      `json:"categories"`
	BalanceTrend []BalancePoint       `json:"balance_trend"` // null when unavailable
	Monthly      []MonthlyPL          `json:"monthly"`
	Recent       []domain.Transaction `json:"recent"`
}

// Compute builds a snapshot. The hint only affects labels.
func Compute(txs []domain.Transaction, hint domain.DomainHint) Snapshot {
	return Snapshot{
		Labels:       hint.Labels(),
		Count:        len(txs),
		Totals:       ComputeTotals(txs),
		Categories:   CategoryBreakdown(txs),
		BalanceTrend: BalanceTrend(txs),
		Monthly:      MonthlyProfitLoss(txs),
		Recent:       Recent(txs),
	}
}
