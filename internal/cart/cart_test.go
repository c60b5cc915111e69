package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/lanchonete/internal/model"
)

var (
	coxinha     = model.Product{ID: "1", Name: "Coxinha", Price: 500}
	batatinha   = model.Product{ID: "2", Name: "Batatinha Frita", Price: 700}
	refrigerant = model.Product{ID: "3", Name: "Refrigerante", Price: 400}
)

func sumPrices(items []model.LineItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price
	}
	return sum
}

func TestAdd_TotalMatchesSum(t *testing.T) {
	s := New()
	adds := []model.Product{coxinha, batatinha, coxinha, refrigerant, coxinha}

	for i, p := range adds {
		s.Add(p)
		snap := s.Snapshot()
		assert.Len(t, snap.Items, i+1)
		assert.Equal(t, sumPrices(snap.Items), snap.Total)
	}

	assert.Equal(t, int64(2600), s.Total())
	assert.Equal(t, 5, s.Len())
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		wantErr   bool
		wantTotal int64
		wantNames []string
	}{
		{
			name:      "first",
			index:     0,
			wantTotal: 1100,
			wantNames: []string{"Batatinha Frita", "Refrigerante"},
		},
		{
			name:      "middle",
			index:     1,
			wantTotal: 900,
			wantNames: []string{"Coxinha", "Refrigerante"},
		},
		{
			name:      "last",
			index:     2,
			wantTotal: 1200,
			wantNames: []string{"Coxinha", "Batatinha Frita"},
		},
		{
			name:      "negative",
			index:     -1,
			wantErr:   true,
			wantTotal: 1600,
			wantNames: []string{"Coxinha", "Batatinha Frita", "Refrigerante"},
		},
		{
			name:      "past end",
			index:     3,
			wantErr:   true,
			wantTotal: 1600,
			wantNames: []string{"Coxinha", "Batatinha Frita", "Refrigerante"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Add(coxinha)
			s.Add(batatinha)
			s.Add(refrigerant)

			_, err := s.Remove(tt.index)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIndexOutOfRange)
			} else {
				require.NoError(t, err)
			}

			snap := s.Snapshot()
			names := make([]string, 0, len(snap.Items))
			for _, it := range snap.Items {
				names = append(names, it.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, snap.Total)
		})
	}
}

func TestRemove_ReturnsRemovedItem(t *testing.T) {
	s := New()
	s.Add(coxinha)
	s.Add(batatinha)

	removed, err := s.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "Coxinha", removed.Name)
	assert.Equal(t, int64(700), s.Total())
}

func TestRemove_EmptyCart(t *testing.T) {
	s := New()

	_, err := s.Remove(0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Total())
}

func TestClear(t *testing.T) {
	s := New()
	s.Clear()
	assert.Zero(t, s.Len())

	s.Add(coxinha)
	s.Add(batatinha)
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Total())

	s.Clear()
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Total())
}

func TestSnapshot_IsIndependent(t *testing.T) {
	s := New()
	s.Add(coxinha)
	snap := s.Snapshot()

	s.Add(batatinha)
	_, err := s.Remove(0)
	require.NoError(t, err)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, "Coxinha", snap.Items[0].Name)
	assert.Equal(t, int64(500), snap.Total)
}

func TestAdd_CopiesProductByValue(t *testing.T) {
	s := New()
	p := coxinha
	s.Add(p)
	p.Price = 9999

	assert.Equal(t, int64(500), s.Snapshot().Items[0].Price)
}
