package sqlitestore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hifood/hifood-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open(":memory:")
	require.NoError(t, err)
	return s
}

// The sqlite driver must satisfy the same contract as the JSON file
// driver so either can sit behind the services.
func TestContract(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recs, err := s.List(ctx, store.CollectionProducts)
	require.NoError(t, err)
	require.Empty(t, recs)

	_, err = s.Get(ctx, store.CollectionProducts, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Upsert(ctx, store.CollectionProducts, store.Record{
		ID: "p1", Data: json.RawMessage(`{"id":"p1","price":45000}`),
	}))
	require.NoError(t, s.Upsert(ctx, store.CollectionProducts, store.Record{
		ID: "p2", Data: json.RawMessage(`{"id":"p2","price":55000}`),
	}))

	rec, err := s.Get(ctx, store.CollectionProducts, "p1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"p1","price":45000}`, string(rec.Data))

	// Insertion order is preserved on List.
	recs, err = s.List(ctx, store.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "p1", recs[0].ID)
	require.Equal(t, "p2", recs[1].ID)

	require.NoError(t, s.Upsert(ctx, store.CollectionProducts, store.Record{
		ID: "p1", Data: json.RawMessage(`{"id":"p1","price":50000}`),
	}))
	recs, err = s.List(ctx, store.CollectionProducts)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.ErrorIs(t, s.Delete(ctx, store.CollectionProducts, "ghost"), store.ErrNotFound)
	require.NoError(t, s.Delete(ctx, store.CollectionProducts, "p2"))

	require.NoError(t, s.Replace(ctx, store.CollectionProducts, nil))
	recs, err = s.List(ctx, store.CollectionProducts)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, store.CollectionUsers, store.Record{
		ID: "u1", Data: json.RawMessage(`{"id":"u1"}`),
	}))
	require.NoError(t, s.Upsert(ctx, store.CollectionOrders, store.Record{
		ID: "u1", Data: json.RawMessage(`{"id":"u1","total":120000}`),
	}))

	require.NoError(t, s.Delete(ctx, store.CollectionUsers, "u1"))

	rec, err := s.Get(ctx, store.CollectionOrders, "u1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"u1","total":120000}`, string(rec.Data))
}
