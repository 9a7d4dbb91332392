package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/dailycost/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestUsageDays(t *testing.T) {
	purchased := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ref  time.Time
		want int64
	}{
		{"same instant", purchased, 1},
		{"same day afternoon", purchased.Add(15 * time.Hour), 1},
		{"one day", purchased.Add(24 * time.Hour), 1},
		{"ten days", time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC), 10},
		{"ten and a half days", time.Date(2024, 1, 11, 12, 0, 0, 0, time.UTC), 10},
		{"leap year", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 366},
		{"future purchase", purchased.Add(-72 * time.Hour), 1},
		{"non-UTC reference", time.Date(2024, 1, 11, 9, 0, 0, 0, time.FixedZone("CET", 3600)), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UsageDays(purchased, tt.ref))
		})
	}
}

func TestDailyPriceCents(t *testing.T) {
	tests := []struct {
		price, days, want int64
	}{
		{120000, 10, 12000},
		{100, 3, 33},
		{0, 5, 0},
		{999, 1, 999},
		{999, 0, 999},
		{5, 10, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DailyPriceCents(tt.price, tt.days), "DailyPriceCents(%d, %d)", tt.price, tt.days)
	}
}

func TestScenarioTenDays(t *testing.T) {
	item := &model.Item{PurchasedAt: "2024-01-01", PriceCents: 120000}
	now := date(t, "2024-01-11")

	days, price, err := Stats(item, now)
	require.NoError(t, err)
	assert.Equal(t, int64(10), days)
	assert.Equal(t, int64(12000), price)

	frozen, err := Freeze(item, now)
	require.NoError(t, err)
	assert.Equal(t, int64(12000), frozen)
}

func TestEffectiveDailyPriceArchivedIgnoresNow(t *testing.T) {
	archivedAt := date(t, "2024-01-11")
	frozen := int64(12000)
	item := &model.Item{
		PurchasedAt:             "2024-01-01",
		PriceCents:              120000,
		Archived:                true,
		ArchivedAt:              &archivedAt,
		ArchivedDailyPriceCents: &frozen,
	}

	for _, now := range []string{"2024-01-11", "2024-06-01", "2030-01-01"} {
		price, err := EffectiveDailyPrice(item, date(t, now))
		require.NoError(t, err)
		assert.Equal(t, int64(12000), price, "at %s", now)
	}

	days, _, err := Stats(item, date(t, "2030-01-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), days)
}

func TestEffectiveDailyPriceActive(t *testing.T) {
	item := &model.Item{PurchasedAt: "2024-01-01", PriceCents: 3000}

	price, err := EffectiveDailyPrice(item, date(t, "2024-01-31"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), price)

	price, err = EffectiveDailyPrice(item, date(t, "2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, int64(3000), price)
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "01/02/2024", "2024-01-01T00:00:00Z"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "ParseDate(%q)", s)
	}
	assert.Equal(t, "2024-02-29", FormatDate(date(t, "2024-02-29")))
}
