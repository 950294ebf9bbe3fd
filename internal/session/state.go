// Package session holds per-user dashboard state. State values are
// changed only through the reducers below, which return new states and
// leave their inputs untouched.
package session

import (
	"errors"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// ErrTransactionNotFound is returned by Remove for an unknown id.
var ErrTransactionNotFound = errors.New("transaction not found")

// State is the transaction list of one session plus its domain hint.
type State struct {
	Transactions []domain.Transaction `json:"transactions"`
	Hint         domain.DomainHint    `json:"domain"`
}

// NewState returns an empty state for hint.
func NewState(hint domain.DomainHint) State {
	return State{Transactions: []domain.Transaction{}, Hint: hint}
}

// Clone returns a state whose slice does not alias s.
func (s State) Clone() State {
	out := State{Hint: s.Hint, Transactions: make([]domain.Transaction, len(s.Transactions))}
	copy(out.Transactions, s.Transactions)
	return out
}

// AddManual puts tx at the head of the list.
func AddManual(s State, tx domain.Transaction) State {
	txs := make([]domain.Transaction, 0, len(s.Transactions)+1)
	txs = append(txs, tx)
	txs = append(txs, s.Transactions...)
	return State{Transactions: txs, Hint: s.Hint}
}

// AppendBatch adds a reconciled batch after the existing transactions.
func AppendBatch(s State, batch []domain.Transaction) State {
	txs := make([]domain.Transaction, 0, len(s.Transactions)+len(batch))
	txs = append(txs, s.Transactions...)
	txs = append(txs, batch...)
	return State{Transactions: txs, Hint: s.Hint}
}

// Remove drops the transaction with the given id.
func Remove(s State, id int64) (State, error) {
	txs := make([]domain.Transaction, 0, len(s.Transactions))
	found := false
	for _, tx := range s.Transactions {
		if tx.ID == id && !found {
			found = true
			continue
		}
		txs = append(txs, tx)
	}
	if !found {
		return s, fmt.Errorf("remove %d: %w", id, ErrTransactionNotFound)
	}
	return State{Transactions: txs, Hint: s.Hint}, nil
}

// Replace swaps the whole list, e.g. when loading sample data.
func Replace(s State, txs []domain.Transaction) State {
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	return State{Transactions: out, Hint: s.Hint}
}
