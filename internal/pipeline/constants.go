package pipeline

// Limits and fallbacks for reconciliation.
const (
	// MaxReconcileRows caps how many raw rows are sent to the model so the
	// request size stays predictable. Later rows are not reconciled.
	MaxReconcileRows = 100

	// DefaultDescription replaces a missing or empty description.
	DefaultDescription = "No Description"
)
