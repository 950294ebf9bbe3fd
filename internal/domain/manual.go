package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Categories is the fixed list offered for manual entry.
var Categories = []string{
	"Food & Drink",
	"Groceries",
	"Transport",
	"Entertainment",
	"Shopping",
	"Housing",
	"Utilities",
	"Income",
}

// ValidationError rejects a manual entry before any transaction is built.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ManualEntry is the raw form input for a hand-entered transaction.
type ManualEntry struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Direction   Kind   `json:"direction"`
}

// NewManualTransaction validates the entry and builds a transaction dated
// today. Amount must be a positive number; its sign comes from Direction.
func NewManualTransaction(entry ManualEntry, id int64) (Transaction, error) {
	description := strings.TrimSpace(entry.Description)
	if description == "" {
		return Transaction{}, &ValidationError{Field: "description", Reason: "must not be empty"}
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(entry.Amount), 64)
	if err != nil {
		return Transaction{}, &ValidationError{Field: "amount", Reason: fmt.Sprintf("%q is not a number", entry.Amount)}
	}
	if !(amount > 0) || math.IsInf(amount, 1) {
		return Transaction{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	category, ok := LookupCategory(entry.Category)
	if !ok {
		return Transaction{}, &ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of %v", entry.Category, Categories)}
	}

	switch entry.Direction {
	case KindExpense:
		amount = -amount
	case KindIncome:
	default:
		return Transaction{}, &ValidationError{Field: "direction", Reason: fmt.Sprintf("%q is not income or expense", entry.Direction)}
	}

	return NewTransaction(id, Today(), description, category, amount), nil
}

// LookupCategory matches name against Categories ignoring case and
// surrounding space, returning the canonical spelling.
func LookupCategory(name string) (string, bool) {
	norm := normalizeCategory(name)
	for _, c := range Categories {
		if normalizeCategory(c) == norm {
			return c, true
		}
	}
	return "", false
}

func normalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
