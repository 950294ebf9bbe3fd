package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/tabular"
)

// buildReconcilePrompt asks the model to map rows onto the canonical
// fields, with sign rules worded for the domain hint.
func buildReconcilePrompt(hint domain.DomainHint, rows []tabular.RawRow) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("buildReconcilePrompt: marshal rows: %w", err)
	}

	in, out := hint.InflowTerm(), hint.OutflowTerm()

	var b strings.Builder
	fmt.Fprintf(&b, "You are an intelligent data processor for %s financial data.\n", hint)
	b.WriteString("Analyze the raw JSON rows taken from a user's spreadsheet and convert them into a standardized list of transactions.\n")
	b.WriteString("Identify the columns for date, description, category and amount even when they use unusual names.\n\n")

	b.WriteString("The target format is a JSON array of objects with these keys:\n")
	b.WriteString("- \"date\": string in \"YYYY-MM-DD\" format.\n")
	b.WriteString("- \"description\": string.\n")
	fmt.Fprintf(&b, "- \"category\": string. Use %q if not found.\n", domain.UncategorizedCategory)
	fmt.Fprintf(&b, "- \"amount\": number. Every %s must be positive and every %s must be negative.\n\n", in, out)

	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "1. Amount: handle a single amount column or separate debit/credit (%s/%s) columns. Convert debits to negative numbers. Strip currency symbols and thousands separators.\n", in, out)
	b.WriteString("2. Date: find the date column and convert it to YYYY-MM-DD.\n")
	b.WriteString("3. Description: pick the most likely description column.\n")
	b.WriteString("4. Output one object per input row, in input order.\n\n")

	b.WriteString("Return ONLY the standardized JSON array.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n\n")

	fmt.Fprintf(&b, "Raw Data (up to %d rows):\n", MaxReconcileRows)
	b.Write(data)
	b.WriteString("\n")

	return b.String(), nil
}
