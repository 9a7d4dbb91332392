package model

import "time"

// Item is an owned thing with a purchase price and a derived daily cost.
type Item struct {
	ID                      int64      `json:"id"`
	UserID                  int64      `json:"user_id"`
	Name                    string     `json:"name"`
	PurchasedAt             string     `json:"purchased_at"`
	PriceCents              int64      `json:"price_cents"`
	Remark                  *string    `json:"remark"`
	Archived                bool       `json:"archived"`
	ArchivedAt              *time.Time `json:"archived_at"`
	ArchivedDailyPriceCents *int64     `json:"archived_daily_price_cents"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	// Derived on read, never stored.
	UsageDays       int64 `json:"usage_days"`
	DailyPriceCents int64 `json:"daily_price_cents"`
}

// ItemDraft holds the fields required to create an item.
type ItemDraft struct {
	Name        string  `json:"name" validate:"required,max=200"`
	PurchasedAt string  `json:"purchased_at" validate:"required,datetime=2006-01-02"`
	PriceCents  *int64  `json:"price_cents" validate:"required,min=0"`
	Remark      *string `json:"remark" validate:"omitnil,max=2000"`
}

// ItemPatch holds a sparse item update. Nil fields are left unchanged.
type ItemPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	PurchasedAt *string `json:"purchased_at" validate:"omitnil,datetime=2006-01-02"`
	PriceCents  *int64  `json:"price_cents" validate:"omitnil,min=0"`
	Remark      *string `json:"remark" validate:"omitnil,max=2000"`
}

// Empty reports whether the patch carries no fields.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.PurchasedAt == nil && p.PriceCents == nil && p.Remark == nil
}
