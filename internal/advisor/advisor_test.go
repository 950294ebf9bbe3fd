package advisor_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/advisor/mocks"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func makeTransactions(n int) []domain.Transaction {
	txs := make([]domain.Transaction, n)
	for i := range txs {
		txs[i] = domain.NewTransaction(int64(i+1), civil.Date{Year: 2024, Month: 1, Day: 1},
			fmt.Sprintf("tx-%03d", i), "Misc", -1)
	}
	return txs
}

func TestAsk_ReturnsAnswerVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockTextGenerator(ctrl)
	answer := "  **Spend less** on coffee.\n"
	gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).Return(answer, nil).Times(1)

	got, err := advisor.New(gen).Ask(context.Background(), makeTransactions(3), "Where can I save?", domain.HintPersonal)
	require.NoError(t, err)
	assert.Equal(t, answer, got)
}

func TestAsk_LimitsContextAndFramesDomain(t *testing.T) {
	tests := []struct {
		hint  domain.DomainHint
		frame string
	}{
		{domain.HintPersonal, "personal financial advisor"},
		{domain.HintBusiness, "business financial analyst"},
	}

	for _, tt := range tests {
		t.Run(string(tt.hint), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			gen := mocks.NewMockTextGenerator(ctrl)
			gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
				assert.Contains(t, prompt, tt.frame)
				assert.Contains(t, prompt, "tx-049")
				assert.NotContains(t, prompt, "tx-050")
				assert.Contains(t, prompt, "Is my margin healthy?")
				return "ok", nil
			})

			_, err := advisor.New(gen).Ask(context.Background(), makeTransactions(80), "Is my margin healthy?", tt.hint)
			require.NoError(t, err)
		})
	}
}

func TestAsk_QuestionIsNotEscaped(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockTextGenerator(ctrl)
	question := "Why is \"Rent\" so high?\nAnd what about café spending?"
	gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
		assert.True(t, strings.HasSuffix(prompt, question+"\n"))
		assert.NotContains(t, prompt, `\"Rent\"`)
		return "ok", nil
	})

	_, err := advisor.New(gen).Ask(context.Background(), makeTransactions(3), "  "+question+"\n\t", domain.HintPersonal)
	require.NoError(t, err)
}

func TestAsk_Guards(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockTextGenerator(ctrl)
	a := advisor.New(gen)

	_, err := a.Ask(context.Background(), makeTransactions(1), "   ", domain.HintPersonal)
	assert.ErrorIs(t, err, advisor.ErrEmptyQuestion)

	_, err = a.Ask(context.Background(), nil, "anything?", domain.HintPersonal)
	assert.ErrorIs(t, err, advisor.ErrNoTransactions)
}

func TestAsk_ServiceFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gen := mocks.NewMockTextGenerator(ctrl)
	cause := errors.New("deadline exceeded")
	gen.EXPECT().GenerateText(gomock.Any(), gomock.Any()).Return("", cause).Times(1)

	txs := makeTransactions(2)
	before := append([]domain.Transaction(nil), txs...)

	_, err := advisor.New(gen).Ask(context.Background(), txs, "why?", domain.HintPersonal)

	var aerr *advisor.AdvisoryError
	require.True(t, errors.As(err, &aerr))
	assert.ErrorIs(t, err, cause)
	assert.True(t, strings.HasPrefix(err.Error(), "advisory query failed"))
	assert.Equal(t, before, txs)
}
