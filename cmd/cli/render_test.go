package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/dvloznov/finance-dashboard/internal/analytics"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func TestRenderSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	renderSummary(&buf, analytics.Compute(domain.SampleTransactions(), domain.HintBusiness))
	out := buf.String()

	assert.Contains(t, out, "Overview (6 transactions)")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "$3,250.00")
	assert.Contains(t, out, "$151.54")
	assert.Contains(t, out, "Profit")
	assert.Contains(t, out, "$3,098.46")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "2024-07")
	assert.Contains(t, out, "Client Payment")
}

func TestRenderSummary_Empty(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	renderSummary(&buf, analytics.Compute(nil, domain.HintPersonal))
	out := buf.String()

	assert.Contains(t, out, "Overview (0 transactions)")
	assert.Contains(t, out, "$0.00")
	assert.Contains(t, out, "not enough data")
}
