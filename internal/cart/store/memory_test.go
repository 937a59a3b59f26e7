package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryStore() *MemoryStore {
	return NewMemoryStore(slog.New(slog.DiscardHandler))
}

func Test_MemoryStore_RoundTrip(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	items := []LineItem{
		{ID: "p1", Title: "Wireless Headphones", Price: 2999, Image: "🎧", Quantity: 2},
		{ID: "p5", Title: "USB-C Charging Cable", Price: 299, Image: "🔌", Quantity: 1},
	}
	require.NoError(t, s.Save(ctx, "cart_a", items))

	got, err := s.Load(ctx, "cart_a")
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func Test_MemoryStore_AbsentKeyReadsEmpty(t *testing.T) {
	s := newTestMemoryStore()

	got, err := s.Load(context.Background(), "never_written")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func Test_MemoryStore_MalformedPayloadReadsEmpty(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	testCases := []struct {
		name string
		raw  []byte
	}{
		{name: "not json", raw: []byte("][ not json")},
		{name: "wrong shape", raw: []byte(`{"id":"p1"}`)},
		{name: "empty payload", raw: []byte("")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s.Put("cart_b", tc.raw)
			got, err := s.Load(ctx, "cart_b")
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func Test_MemoryStore_KeysAreIndependent(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cart_a", []LineItem{{ID: "p1", Quantity: 1}}))
	require.NoError(t, s.Save(ctx, "cart_b", []LineItem{{ID: "p2", Quantity: 3}}))

	a, err := s.Load(ctx, "cart_a")
	require.NoError(t, err)
	b, err := s.Load(ctx, "cart_b")
	require.NoError(t, err)

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, "p1", a[0].ID)
	assert.Equal(t, "p2", b[0].ID)
}

func Test_MemoryStore_SaveNilStoresEmptyList(t *testing.T) {
	s := newTestMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "cart_a", []LineItem{{ID: "p1", Quantity: 1}}))
	require.NoError(t, s.Save(ctx, "cart_a", nil))

	got, err := s.Load(ctx, "cart_a")
	require.NoError(t, err)
	assert.Empty(t, got)
}
