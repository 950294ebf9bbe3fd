package domain

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// Kind tags a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// UncategorizedCategory is used whenever no category is known.
const UncategorizedCategory = "Uncategorized"

// KindOf derives the kind from the sign of amount. Zero counts as income.
func KindOf(amount float64) Kind {
	if amount >= 0 {
		return KindIncome
	}
	return KindExpense
}

// Transaction is the canonical record every component works with.
// Values are immutable once built: construct them through NewTransaction
// so Kind always agrees with the sign of Amount.
type Transaction struct {
	ID          int64      `json:"id"`
	Date        civil.Date `json:"date"` // YYYY-MM-DD, no time or zone
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"` // inflow positive, outflow negative
	Kind        Kind       `json:"type"`
}

// NewTransaction builds a transaction and derives its kind.
func NewTransaction(id int64, date civil.Date, description, category string, amount float64) Transaction {
	if category == "" {
		category = UncategorizedCategory
	}
	return Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      amount,
		Kind:        KindOf(amount),
	}
}

// IsIncome reports whether the transaction is an inflow.
func (t Transaction) IsIncome() bool {
	return t.Amount >= 0
}

// MonthKey returns the zero-padded YYYY-MM prefix of the date.
func (t Transaction) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", t.Date.Year, int(t.Date.Month))
}

// Today returns the current calendar date in UTC.
func Today() civil.Date {
	return civil.DateOf(time.Now().UTC())
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (civil.Date, error) {
	return civil.ParseDate(s)
}
