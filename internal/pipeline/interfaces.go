package pipeline

import (
	"context"

	"google.golang.org/genai"
)

// ColumnMapper is the external inference service that maps arbitrary
// spreadsheet columns onto the canonical transaction fields. It returns
// the model's raw response text, which the reconciler treats as untrusted.
//
//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks -source=interfaces.go ColumnMapper
type ColumnMapper interface {
	MapColumns(ctx context.Context, prompt string) (string, error)
}

// JSONGenerator is the part of the Gemini client the mapper needs.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// GeminiColumnMapper is the ColumnMapper backed by a Gemini model with a
// strict array-of-transactions response schema.
type GeminiColumnMapper struct {
	gen JSONGenerator
}

// NewGeminiColumnMapper creates a mapper over gen.
func NewGeminiColumnMapper(gen JSONGenerator) *GeminiColumnMapper {
	return &GeminiColumnMapper{gen: gen}
}

// MapColumns sends prompt and requests a response matching TransactionArraySchema.
func (m *GeminiColumnMapper) MapColumns(ctx context.Context, prompt string) (string, error) {
	return m.gen.GenerateJSON(ctx, prompt, TransactionArraySchema())
}

// TransactionArraySchema describes the array the model must return.
func TransactionArraySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date":        {Type: genai.TypeString, Description: "Transaction date in YYYY-MM-DD format."},
				"description": {Type: genai.TypeString, Description: "Description of the transaction."},
				"category":    {Type: genai.TypeString, Description: "Category of the transaction."},
				"amount":      {Type: genai.TypeNumber, Description: "Transaction amount. Negative for outflows, positive for inflows."},
			},
			Required: []string{"date", "description", "category", "amount"},
		},
	}
}
