package service

import (
	"context"

	"github.com/erazemk/dailycost/internal/model"
)

// ListTags returns the caller's tags.
func (s *Service) ListTags(ctx context.Context) ([]model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListTags(ctx, p.UserID)
}

// GetTag returns one of the caller's tags.
func (s *Service) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetTag(ctx, p.UserID, id)
}

// CreateTag creates a tag.
func (s *Service) CreateTag(ctx context.Context, d model.TagDraft) (*model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return s.store.CreateTag(ctx, p.UserID, d)
}

// UpdateTag renames or recolors a tag.
func (s *Service) UpdateTag(ctx context.Context, id int64, patch model.TagPatch) (*model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(patch); err != nil {
		return nil, err
	}
	return s.store.UpdateTag(ctx, p.UserID, id, patch)
}

// DeleteTag removes a tag from all items and deletes it.
func (s *Service) DeleteTag(ctx context.Context, id int64) error {
	p, err := principal(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteTag(ctx, p.UserID, id); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "user", p.Username, "tag_id", id)
	return nil
}

// ItemsForTag returns the IDs of the caller's items carrying a tag.
func (s *Service) ItemsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListItemsForTag(ctx, p.UserID, tagID)
}

// TagsForItem returns the tags on one of the caller's items.
func (s *Service) TagsForItem(ctx context.Context, itemID int64) ([]model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListTagsForItem(ctx, p.UserID, itemID)
}

// ReplaceItemTags sets the item's tags to exactly those in a.
func (s *Service) ReplaceItemTags(ctx context.Context, itemID int64, a model.TagAssignment) ([]model.Tag, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(a); err != nil {
		return nil, err
	}
	return s.store.ReplaceTags(ctx, p.UserID, itemID, a.TagIDs)
}
