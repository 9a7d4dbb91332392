// Package pricing derives the daily cost of owning an item.
//
// All functions are pure. Purchase dates are calendar dates interpreted as
// midnight UTC; reference times are converted to UTC before comparison.
package pricing

import (
	"fmt"
	"time"

	"github.com/erazemk/dailycost/internal/model"
)

// DateLayout is the wire and storage format of purchase dates.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as a YYYY-MM-DD calendar date in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// UsageDays returns the whole days elapsed between purchase and ref, never less than 1.
func UsageDays(purchased, ref time.Time) int64 {
	days := int64(ref.UTC().Sub(purchased.UTC()) / day)
	return max(days, 1)
}

// DailyPriceCents spreads priceCents over usageDays, rounding down.
func DailyPriceCents(priceCents, usageDays int64) int64 {
	return priceCents / max(usageDays, 1)
}

// Stats returns the usage days and effective daily price of item at now.
// Archived items report the frozen price and the days up to archival.
func Stats(item *model.Item, now time.Time) (usageDays, dailyPriceCents int64, err error) {
	purchased, err := ParseDate(item.PurchasedAt)
	if err != nil {
		return 0, 0, err
	}

	ref := now
	if item.Archived && item.ArchivedAt != nil {
		ref = *item.ArchivedAt
	}
	usageDays = UsageDays(purchased, ref)

	if item.Archived && item.ArchivedDailyPriceCents != nil {
		return usageDays, *item.ArchivedDailyPriceCents, nil
	}
	return usageDays, DailyPriceCents(item.PriceCents, usageDays), nil
}

// EffectiveDailyPrice returns the frozen price for archived items and the
// live price at now for active ones.
func EffectiveDailyPrice(item *model.Item, now time.Time) (int64, error) {
	_, price, err := Stats(item, now)
	return price, err
}

// Freeze computes the daily price to store when item is archived at now.
func Freeze(item *model.Item, now time.Time) (int64, error) {
	purchased, err := ParseDate(item.PurchasedAt)
	if err != nil {
		return 0, err
	}
	return DailyPriceCents(item.PriceCents, UsageDays(purchased, now)), nil
}
