// Package advisor answers free-text questions about a transaction list
// using a text generation model.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// MaxContextTransactions is how many transactions, from the head of the
// list, are embedded in a request.
const MaxContextTransactions = 50

var (
	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoTransactions is returned when there is nothing to advise on.
	ErrNoTransactions = errors.New("no transactions to analyse")
)

// AdvisoryError wraps a failed call to the text generation service.
type AdvisoryError struct {
	Err error
}

func (e *AdvisoryError) Error() string {
	return fmt.Sprintf("advisory query failed: %v", e.Err)
}

func (e *AdvisoryError) Unwrap() error {
	return e.Err
}

// TextGenerator produces free text for a prompt.
//
//go:generate mockgen -destination=mocks/mock_advisor.go -package=mocks -source=advisor.go TextGenerator
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Advisor is stateless; every Ask is independent.
type Advisor struct {
	gen TextGenerator
}

// New creates an Advisor over gen.
func New(gen TextGenerator) *Advisor {
	return &Advisor{gen: gen}
}

// Ask returns the model's answer to question unmodified.
func (a *Advisor) Ask(ctx context.Context, txs []domain.Transaction, question string, hint domain.DomainHint) (string, error) {
	log := logger.FromContext(ctx)

	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if len(txs) == 0 {
		return "", ErrNoTransactions
	}

	prompt, err := buildPrompt(txs, question, hint)
	if err != nil {
		return "", fmt.Errorf("advisor.Ask: %w", err)
	}

	answer, err := a.gen.GenerateText(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("domain", string(hint)).Msg("Advisory query failed")
		return "", &AdvisoryError{Err: err}
	}

	log.Info().
		Int("transactions", min(len(txs), MaxContextTransactions)).
		Int("answer_bytes", len(answer)).
		Msg("Advisory query answered")

	return answer, nil
}

func buildPrompt(txs []domain.Transaction, question string, hint domain.DomainHint) (string, error) {
	if len(txs) > MaxContextTransactions {
		txs = txs[:MaxContextTransactions]
	}

	data, err := json.MarshalIndent(txs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("buildPrompt: marshal transactions: %w", err)
	}

	var b strings.Builder
	if hint == domain.HintBusiness {
		b.WriteString("You are an expert business financial analyst. The data below is a company's ledger; positive amounts are revenue and negative amounts are costs.\n")
	} else {
		b.WriteString("You are an expert personal financial advisor. The data below is one person's transactions; positive amounts are income and negative amounts are expenses.\n")
	}
	b.WriteString("Based on the following JSON transaction data, answer the user's question.\n")
	b.WriteString("Provide a short, accurate and actionable response. Keep the advice direct and to the point.\n\n")
	b.WriteString("Transaction Data:\n")
	b.Write(data)
	b.WriteString("\n\nUser's Question:\n")
	b.WriteString(question)
	b.WriteString("\n")

	return b.String(), nil
}
