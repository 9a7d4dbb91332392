package service

import (
	"context"

	"github.com/erazemk/dailycost/internal/model"
	"github.com/erazemk/dailycost/internal/pricing"
)

// ListItems returns one page of the caller's items.
func (s *Service) ListItems(ctx context.Context, f model.ItemFilter) (*model.Page[model.Item], error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return s.store.ListItems(ctx, p.UserID, f)
}

// GetItem returns one of the caller's items.
func (s *Service) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetItem(ctx, p.UserID, id)
}

// CreateItem records a new purchase.
func (s *Service) CreateItem(ctx context.Context, d model.ItemDraft) (*model.Item, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	if err := s.checkNotFuture(d.PurchasedAt); err != nil {
		return nil, err
	}

	item, err := s.store.CreateItem(ctx, p.UserID, d)
	if err != nil {
		return nil, err
	}
	s.logger.Info("item created", "user", p.Username, "item_id", item.ID)
	return item, nil
}

// UpdateItem applies a sparse update to one of the caller's items.
func (s *Service) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(patch); err != nil {
		return nil, err
	}
	if patch.PurchasedAt != nil {
		if err := s.checkNotFuture(*patch.PurchasedAt); err != nil {
			return nil, err
		}
	}
	return s.store.UpdateItem(ctx, p.UserID, id, patch)
}

// DeleteItem removes one of the caller's items. It reports false when
// there was nothing to delete.
func (s *Service) DeleteItem(ctx context.Context, id int64) (bool, error) {
	p, err := principal(ctx)
	if err != nil {
		return false, err
	}

	deleted, err := s.store.DeleteItem(ctx, p.UserID, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("item deleted", "user", p.Username, "item_id", id)
	}
	return deleted, nil
}

// ArchiveItem freezes an item's daily price.
func (s *Service) ArchiveItem(ctx context.Context, id int64) (*model.Item, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ArchiveItem(ctx, p.UserID, id)
}

// UnarchiveItem returns an item to live pricing.
func (s *Service) UnarchiveItem(ctx context.Context, id int64) (*model.Item, error) {
	p, err := principal(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.UnarchiveItem(ctx, p.UserID, id)
}

func (s *Service) checkNotFuture(date string) error {
	purchased, err := pricing.ParseDate(date)
	if err != nil {
		return &model.ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"purchased_at": "Must be a date in YYYY-MM-DD format"},
		}
	}
	if purchased.After(s.clock.Now()) {
		return &model.ValidationError{
			Message: "validation failed",
			Fields:  map[string]string{"purchased_at": "Must not be in the future"},
		}
	}
	return nil
}
