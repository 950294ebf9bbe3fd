package pipeline

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// transformModelOutput turns decoded model objects into canonical
// transactions. Missing or unusable fields fall back to defaults instead
// of failing the batch.
func transformModelOutput(
	objs []map[string]interface{},
	nextID func() int64,
	today civil.Date,
	log zerolog.Logger,
) []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(objs))

	for i, obj := range objs {
		date := today
		if s := stringField(obj, "date"); s != "" {
			parsed, err := domain.ParseDate(s)
			if err != nil {
				log.Warn().Int("index", i).Str("date", s).Msg("Unparseable date from model, using today")
			} else {
				date = parsed
			}
		}

		description := stringField(obj, "description")
		if description == "" {
			description = DefaultDescription
		}

		category := stringField(obj, "category")
		if category == "" {
			category = domain.UncategorizedCategory
		}

		txs = append(txs, domain.NewTransaction(nextID(), date, description, category, numberField(obj, "amount")))
	}

	return txs
}

// stringField returns the trimmed value for key. Non-string scalars are
// formatted; null and absent keys give "".
func stringField(m map[string]interface{}, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64, bool:
		return fmt.Sprint(val)
	default:
		return ""
	}
}

// numberField returns the numeric value for key, or 0 for anything that
// is not a JSON number.
func numberField(m map[string]interface{}, key string) float64 {
	if f, ok := m[key].(float64); ok {
		return f
	}
	return 0
}
