package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/dailycost/internal/model"
	"github.com/erazemk/dailycost/internal/pricing"
)

const itemColumns = `id, user_id, name, purchased_at, price_cents, remark, archived,
	archived_at, archived_daily_price_cents, created_at, updated_at`

// CreateItem creates a new active item owned by userID.
func (s *Store) CreateItem(ctx context.Context, userID int64, d model.ItemDraft) (*model.Item, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, model.NewValidationError("name required")
	}
	if d.PriceCents == nil || *d.PriceCents < 0 {
		return nil, model.NewValidationError("price_cents must be a non-negative integer")
	}
	if _, err := pricing.ParseDate(d.PurchasedAt); err != nil {
		return nil, model.NewValidationError("purchased_at must be a YYYY-MM-DD date")
	}

	now := s.clock.Now()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO items (user_id, name, purchased_at, price_cents, remark, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, name, d.PurchasedAt, *d.PriceCents, d.Remark, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.GetItem(ctx, userID, id)
}

// GetItem returns a non-deleted item owned by userID.
func (s *Store) GetItem(ctx context.Context, userID, id int64) (*model.Item, error) {
	return s.getItem(ctx, s.db, userID, id)
}

func (s *Store) getItem(ctx context.Context, q querier, userID, id int64) (*model.Item, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID,
	)
	item, err := s.scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// UpdateItem applies the non-nil fields of p and refreshes updated_at.
// Archival fields are changed only by ArchiveItem and UnarchiveItem.
func (s *Store) UpdateItem(ctx context.Context, userID, id int64, p model.ItemPatch) (*model.Item, error) {
	var sets []assignment
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, model.NewValidationError("name must not be empty")
		}
		sets = append(sets, assignment{"name", name})
	}
	if p.PurchasedAt != nil {
		if _, err := pricing.ParseDate(*p.PurchasedAt); err != nil {
			return nil, model.NewValidationError("purchased_at must be a YYYY-MM-DD date")
		}
		sets = append(sets, assignment{"purchased_at", *p.PurchasedAt})
	}
	if p.PriceCents != nil {
		if *p.PriceCents < 0 {
			return nil, model.NewValidationError("price_cents must be a non-negative integer")
		}
		sets = append(sets, assignment{"price_cents", *p.PriceCents})
	}
	if p.Remark != nil {
		sets = append(sets, assignment{"remark", *p.Remark})
	}
	sets = append(sets, assignment{"updated_at", s.clock.Now()})

	set, args := compileAssignments(sets)
	args = append(args, id, userID)

	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET `+set+` WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}

	return s.GetItem(ctx, userID, id)
}

// DeleteItem soft-deletes an item and removes its tag links.
// It reports false if there was no such item.
func (s *Store) DeleteItem(ctx context.Context, userID, id int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := s.clock.Now()
	result, err := tx.ExecContext(ctx,
		`UPDATE items SET deleted_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, now, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, id); err != nil {
		return false, fmt.Errorf("unlinking item tags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing item deletion: %w", err)
	}
	return true, nil
}

// ArchiveItem freezes the item's daily price at the current time.
// Archiving an already archived item returns it unchanged.
func (s *Store) ArchiveItem(ctx context.Context, userID, id int64) (*model.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := s.getItem(ctx, tx, userID, id)
	if err != nil {
		return nil, err
	}
	if item.Archived {
		return item, nil
	}

	now := s.clock.Now()
	frozen, err := pricing.Freeze(item, now)
	if err != nil {
		return nil, fmt.Errorf("freezing daily price: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET archived = 1, archived_at = ?, archived_daily_price_cents = ?, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		now, frozen, now, id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("archiving item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing archive: %w", err)
	}
	return s.GetItem(ctx, userID, id)
}

// UnarchiveItem clears the archival snapshot so the price is computed live again.
func (s *Store) UnarchiveItem(ctx context.Context, userID, id int64) (*model.Item, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET archived = 0, archived_at = NULL, archived_daily_price_cents = NULL, updated_at = ?
		 WHERE id = ? AND user_id = ? AND deleted_at IS NULL`,
		s.clock.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("unarchiving item: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("unarchiving item: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	return s.GetItem(ctx, userID, id)
}

// scanItem reads one item row and fills in its derived price fields.
func (s *Store) scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	if err := row.Scan(&item.ID, &item.UserID, &item.Name, &item.PurchasedAt, &item.PriceCents,
		&item.Remark, &item.Archived, &item.ArchivedAt, &item.ArchivedDailyPriceCents,
		&item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := s.derive(item, s.clock.Now()); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) derive(item *model.Item, now time.Time) error {
	days, price, err := pricing.Stats(item, now)
	if err != nil {
		return fmt.Errorf("deriving price for item %d: %w", item.ID, err)
	}
	item.UsageDays = days
	item.DailyPriceCents = price
	return nil
}
