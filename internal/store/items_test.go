package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/dailycost/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	s, _, uid := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateItem(ctx, uid, model.ItemDraft{
		Name:        "  Laptop ",
		PurchasedAt: "2024-01-01",
		PriceCents:  ptr(int64(120000)),
		Remark:      ptr("work machine"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", created.Name)
	assert.False(t, created.Archived)
	assert.Nil(t, created.ArchivedAt)
	assert.Nil(t, created.ArchivedDailyPriceCents)

	got, err := s.GetItem(ctx, uid, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.PurchasedAt, got.PurchasedAt)
	assert.Equal(t, created.PriceCents, got.PriceCents)
	assert.Equal(t, "work machine", *got.Remark)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func TestItemDerivedPrice(t *testing.T) {
	s, _, uid := newTestStore(t)

	item := addItem(t, s, uid, "Laptop", "2024-01-01", 120000)
	assert.Equal(t, int64(10), item.UsageDays)
	assert.Equal(t, int64(12000), item.DailyPriceCents)
}

func TestCreateItemValidation(t *testing.T) {
	s, _, uid := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		draft model.ItemDraft
	}{
		{"blank name", model.ItemDraft{Name: "  ", PurchasedAt: "2024-01-01", PriceCents: ptr(int64(1))}},
		{"missing price", model.ItemDraft{Name: "x", PurchasedAt: "2024-01-01"}},
		{"negative price", model.ItemDraft{Name: "x", PurchasedAt: "2024-01-01", PriceCents: ptr(int64(-1))}},
		{"bad date", model.ItemDraft{Name: "x", PurchasedAt: "01/01/2024", PriceCents: ptr(int64(1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateItem(ctx, uid, tt.draft)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestItemsAreScopedToUser(t *testing.T) {
	s, _, alice := newTestStore(t)
	bob := addUser(t, s, "bob")
	ctx := context.Background()

	item := addItem(t, s, alice, "Bike", "2023-06-01", 50000)

	_, err := s.GetItem(ctx, bob, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.UpdateItem(ctx, bob, item.ID, model.ItemPatch{Name: ptr("Stolen")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.ArchiveItem(ctx, bob, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	deleted, err := s.DeleteItem(ctx, bob, item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := s.GetItem(ctx, alice, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike", got.Name)
}

func TestUpdateItemSparse(t *testing.T) {
	s, clk, uid := newTestStore(t)
	ctx := context.Background()

	item := addItem(t, s, uid, "Phone", "2024-01-01", 80000)
	clk.Advance(time.Hour)

	updated, err := s.UpdateItem(ctx, uid, item.ID, model.ItemPatch{PriceCents: ptr(int64(90000))})
	require.NoError(t, err)
	assert.Equal(t, "Phone", updated.Name)
	assert.Equal(t, "2024-01-01", updated.PurchasedAt)
	assert.Equal(t, int64(90000), updated.PriceCents)
	assert.True(t, updated.UpdatedAt.After(item.UpdatedAt))

	_, err = s.UpdateItem(ctx, uid, item.ID, model.ItemPatch{Name: ptr(" ")})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.UpdateItem(ctx, uid, 9999, model.ItemPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	s, _, uid := newTestStore(t)
	ctx := context.Background()

	item := addItem(t, s, uid, "Chair", "2022-03-15", 15000)
	tag := addTag(t, s, uid, "Furniture")
	_, err := s.ReplaceTags(ctx, uid, item.ID, []int64{tag.ID})
	require.NoError(t, err)

	deleted, err := s.DeleteItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = s.GetItem(ctx, uid, item.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	ids, err := s.ListItemsForTag(ctx, uid, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	deleted, err = s.DeleteItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestArchiveFreezesDailyPrice(t *testing.T) {
	s, clk, uid := newTestStore(t)
	ctx := context.Background()

	item := addItem(t, s, uid, "Laptop", "2024-01-01", 120000)

	archived, err := s.ArchiveItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	require.NotNil(t, archived.ArchivedAt)
	require.NotNil(t, archived.ArchivedDailyPriceCents)
	assert.Equal(t, int64(12000), *archived.ArchivedDailyPriceCents)
	assert.Equal(t, int64(12000), archived.DailyPriceCents)

	// Time passing does not change an archived item's price.
	clk.Advance(10 * 24 * time.Hour)
	got, err := s.GetItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), got.DailyPriceCents)
	assert.Equal(t, int64(10), got.UsageDays)

	// Archiving again is a no-op.
	again, err := s.ArchiveItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.Equal(t, *archived.ArchivedDailyPriceCents, *again.ArchivedDailyPriceCents)
	assert.True(t, archived.ArchivedAt.Equal(*again.ArchivedAt))
}

func TestArchiveUnarchiveRoundTrip(t *testing.T) {
	s, clk, uid := newTestStore(t)
	ctx := context.Background()

	item := addItem(t, s, uid, "Laptop", "2024-01-01", 120000)

	first, err := s.ArchiveItem(ctx, uid, item.ID)
	require.NoError(t, err)

	live, err := s.UnarchiveItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.False(t, live.Archived)
	assert.Nil(t, live.ArchivedAt)
	assert.Nil(t, live.ArchivedDailyPriceCents)

	clk.Advance(10 * 24 * time.Hour)

	second, err := s.ArchiveItem(ctx, uid, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), *first.ArchivedDailyPriceCents)
	assert.Equal(t, int64(6000), *second.ArchivedDailyPriceCents)
}

func TestUnarchiveMissingItem(t *testing.T) {
	s, _, uid := newTestStore(t)

	_, err := s.UnarchiveItem(context.Background(), uid, 42)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
