package pipeline

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

// ReconciliationError aborts a whole batch. No transactions from a failed
// batch are ever returned.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: %s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// Reconciler converts raw rows with unknown columns into canonical
// transactions using a ColumnMapper. It never retries.
type Reconciler struct {
	mapper ColumnMapper
	nextID func() int64
	today  func() civil.Date
}

// NewReconciler creates a reconciler using the process-wide id generator.
func NewReconciler(mapper ColumnMapper) *Reconciler {
	return &Reconciler{
		mapper: mapper,
		nextID: domain.NextID,
		today:  domain.Today,
	}
}

// Reconcile maps the first MaxReconcileRows rows to transactions.
func (r *Reconciler) Reconcile(ctx context.Context, rows []tabular.RawRow, hint domain.DomainHint) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx).With().Str("domain", string(hint)).Logger()

	if len(rows) == 0 {
		return []domain.Transaction{}, nil
	}

	batch := rows
	if len(batch) > MaxReconcileRows {
		log.Warn().
			Int("rows", len(rows)).
			Int("limit", MaxReconcileRows).
			Msg("Row count over limit, only the first rows are reconciled")
		batch = batch[:MaxReconcileRows]
	}

	prompt, err := buildReconcilePrompt(hint, batch)
	if err != nil {
		return nil, &ReconciliationError{Op: "build prompt", Err: err}
	}

	raw, err := r.mapper.MapColumns(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("Column mapping call failed")
		return nil, &ReconciliationError{Op: "map columns", Err: err}
	}

	objs, err := decodeModelArray(raw)
	if err != nil {
		log.Error().Err(err).Int("response_bytes", len(raw)).Msg("Malformed column mapping response")
		return nil, &ReconciliationError{Op: "decode response", Err: err}
	}

	txs := transformModelOutput(objs, r.nextID, r.today(), log)

	log.Info().
		Int("rows_sent", len(batch)).
		Int("transactions", len(txs)).
		Msg("Rows reconciled")

	return txs, nil
}
