package ledger

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/lanchonete/internal/model"
)

func counterIDs() func() string {
	var n int
	return func() string {
		n++
		return strconv.Itoa(n)
	}
}

func TestAppend_StoresSnapshot(t *testing.T) {
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return fixed }), WithIDGenerator(counterIDs()))

	items := []model.LineItem{{ProductID: "2", Name: "Batatinha Frita", Price: 700}}
	order, err := l.Append("u1", items, 700, model.PaymentPIX)
	require.NoError(t, err)

	assert.Equal(t, "1", order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, int64(700), order.Total)
	assert.Equal(t, model.PaymentPIX, order.PaymentMethod)
	assert.Equal(t, fixed, order.CreatedAt)

	items[0].Price = 1
	stored := l.List()
	require.Len(t, stored, 1)
	assert.Equal(t, int64(700), stored[0].Items[0].Price)
}

func TestAppend_UnknownPaymentMethod(t *testing.T) {
	l := New()

	_, err := l.Append("u1", nil, 0, model.PaymentMethod("Boleto"))
	require.ErrorIs(t, err, model.ErrUnknownPaymentMethod)
	assert.Zero(t, l.Len())
}

func TestAppend_GeneratesUniqueIDs(t *testing.T) {
	l := New()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		o, err := l.Append("u1", nil, 0, model.PaymentCash)
		require.NoError(t, err)
		_, dup := seen[o.ID]
		require.False(t, dup, "duplicate id %s", o.ID)
		seen[o.ID] = struct{}{}
	}
}

func TestList_AppendOrder(t *testing.T) {
	l := New(WithIDGenerator(counterIDs()))

	for _, m := range model.PaymentMethods {
		_, err := l.Append("u1", nil, 0, m)
		require.NoError(t, err)
	}

	orders := l.List()
	require.Len(t, orders, 3)
	for i, o := range orders {
		assert.Equal(t, strconv.Itoa(i+1), o.ID)
		assert.Equal(t, model.PaymentMethods[i], o.PaymentMethod)
	}
}

func TestList_ReturnsCopies(t *testing.T) {
	l := New()
	_, err := l.Append("u1", []model.LineItem{{Name: "Coxinha", Price: 500}}, 500, model.PaymentCash)
	require.NoError(t, err)

	first := l.List()
	first[0].Items[0].Name = "changed"
	first[0].Total = 0

	second := l.List()
	assert.Equal(t, "Coxinha", second[0].Items[0].Name)
	assert.Equal(t, int64(500), second[0].Total)
}

func TestListByUser(t *testing.T) {
	l := New(WithIDGenerator(counterIDs()))

	_, err := l.Append("alice", nil, 100, model.PaymentCash)
	require.NoError(t, err)
	_, err = l.Append("bob", nil, 200, model.PaymentPIX)
	require.NoError(t, err)
	_, err = l.Append("alice", nil, 300, model.PaymentCreditCard)
	require.NoError(t, err)

	alice := l.ListByUser("alice")
	require.Len(t, alice, 2)
	assert.Equal(t, int64(100), alice[0].Total)
	assert.Equal(t, int64(300), alice[1].Total)

	assert.Empty(t, l.ListByUser("carol"))
}

func TestAppend_Concurrent(t *testing.T) {
	l := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = l.Append("u", nil, 1, model.PaymentCash)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, l.Len())
}
