package session

import (
	"errors"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/finance-dashboard/internal/domain"
)

func tx(id int64, amount float64) domain.Transaction {
	return domain.NewTransaction(id, civil.Date{Year: 2024, Month: 5, Day: 1}, "d", "c", amount)
}

func ids(s State) []int64 {
	out := make([]int64, len(s.Transactions))
	for i, t := range s.Transactions {
		out[i] = t.ID
	}
	return out
}

func TestReducers(t *testing.T) {
	base := State{Transactions: []domain.Transaction{tx(1, 10), tx(2, -5)}, Hint: domain.HintPersonal}

	added := AddManual(base, tx(3, -1))
	assert.Equal(t, []int64{3, 1, 2}, ids(added))

	appended := AppendBatch(base, []domain.Transaction{tx(4, 1), tx(5, 2)})
	assert.Equal(t, []int64{1, 2, 4, 5}, ids(appended))

	removed, err := Remove(base, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(removed))

	replaced := Replace(base, []domain.Transaction{tx(9, 9)})
	assert.Equal(t, []int64{9}, ids(replaced))
	assert.Equal(t, domain.HintPersonal, replaced.Hint)

	// inputs are never mutated
	assert.Equal(t, []int64{1, 2}, ids(base))
}

func TestRemove_Unknown(t *testing.T) {
	base := State{Transactions: []domain.Transaction{tx(1, 10)}}

	got, err := Remove(base, 42)
	assert.True(t, errors.Is(err, ErrTransactionNotFound))
	assert.Equal(t, []int64{1}, ids(got))
}

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore()
	id := s.Create(NewState(domain.HintBusiness))

	st, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, domain.HintBusiness, st.Hint)
	assert.Empty(t, st.Transactions)

	_, err = s.Update(id, func(st State) (State, error) {
		return AddManual(st, tx(1, 5)), nil
	})
	require.NoError(t, err)

	st, err = s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(st))

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, s.Delete(id), ErrSessionNotFound)
}

func TestStore_FailedUpdateLeavesStateUntouched(t *testing.T) {
	s := NewStore()
	id := s.Create(State{Transactions: []domain.Transaction{tx(1, 1)}})

	boom := errors.New("reconcile failed")
	_, err := s.Update(id, func(st State) (State, error) {
		st.Transactions[0].Amount = 999
		return State{}, boom
	})
	assert.ErrorIs(t, err, boom)

	st, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1.0, st.Transactions[0].Amount)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	id := s.Create(State{Transactions: []domain.Transaction{tx(1, 1)}})

	st, err := s.Get(id)
	require.NoError(t, err)
	st.Transactions[0].Description = "changed"

	again, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "d", again.Transactions[0].Description)
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	s := NewStore()
	id := s.Create(NewState(domain.HintPersonal))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Update(id, func(st State) (State, error) {
				return AppendBatch(st, []domain.Transaction{tx(int64(i), 1)}), nil
			})
		}(i)
	}
	wg.Wait()

	st, err := s.Get(id)
	require.NoError(t, err)
	assert.Len(t, st.Transactions, 50)
}
