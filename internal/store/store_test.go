package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/dailycost/internal/clock"
	"github.com/erazemk/dailycost/internal/db"
	"github.com/erazemk/dailycost/internal/model"
)

var epoch = time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC)

// newTestStore returns a store over a fresh database, its clock, and one user.
func newTestStore(t *testing.T) (*Store, *clock.Stub, int64) {
	t.Helper()

	clk := clock.NewStub(epoch)
	s := New(db.NewTestDB(t), clk)

	u, err := s.CreateUser(context.Background(), "alice", "hash")
	require.NoError(t, err)

	return s, clk, u.ID
}

func addUser(t *testing.T, s *Store, username string) int64 {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return u.ID
}

func addItem(t *testing.T, s *Store, userID int64, name, purchasedAt string, price int64) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), userID, model.ItemDraft{
		Name:        name,
		PurchasedAt: purchasedAt,
		PriceCents:  &price,
	})
	require.NoError(t, err)
	return item
}

func addTag(t *testing.T, s *Store, userID int64, name string) *model.Tag {
	t.Helper()
	tag, err := s.CreateTag(context.Background(), userID, model.TagDraft{Name: name})
	require.NoError(t, err)
	return tag
}

func ptr[T any](v T) *T { return &v }
