package model

import "time"

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#3B82F6"

// MaxItemTags caps how many distinct tags one item can carry.
const MaxItemTags = 500

// Tag is a per-user label that can be attached to many items.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TagDraft holds the fields for creating a tag.
type TagDraft struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"omitempty,rgbhex"`
}

// TagPatch holds a sparse tag update.
type TagPatch struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Color *string `json:"color" validate:"omitnil,rgbhex"`
}

// TagAssignment is the complete set of tags an item should carry.
type TagAssignment struct {
	TagIDs []int64 `json:"tag_ids" validate:"required,max=500,dive,gt=0"`
}
