package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

// Step is a single stage of the import pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is shared across the steps of one import.
type State struct {
	RawText      string
	Hint         domain.DomainHint
	Rows         []tabular.RawRow
	Transactions []domain.Transaction
}

// ParseStep splits RawText into rows. It is skipped when rows are
// already present.
type ParseStep struct{}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	if state.Rows != nil {
		return nil
	}
	rows, err := tabular.Parse(state.RawText)
	if err != nil {
		return err
	}
	state.Rows = rows
	return nil
}

// ReconcileStep maps Rows to canonical transactions.
type ReconcileStep struct {
	Reconciler *Reconciler
}

func (s *ReconcileStep) Execute(ctx context.Context, state *State) error {
	txs, err := s.Reconciler.Reconcile(ctx, state.Rows, state.Hint)
	if err != nil {
		return err
	}
	state.Transactions = txs
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially and stops at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewImportPipeline returns the parse → reconcile pipeline.
func NewImportPipeline(r *Reconciler) *Pipeline {
	return NewPipeline(
		&ParseStep{},
		&ReconcileStep{Reconciler: r},
	)
}

// ImportText parses and reconciles rawText in one go.
func ImportText(ctx context.Context, r *Reconciler, rawText string, hint domain.DomainHint) ([]domain.Transaction, error) {
	state := &State{RawText: rawText, Hint: hint}
	if err := NewImportPipeline(r).Execute(ctx, state); err != nil {
		return nil, err
	}
	return state.Transactions, nil
}
