package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/dailycost/internal/model"
)

// ListTagsForItem returns the tags linked to an item, ordered by name.
func (s *Store) ListTagsForItem(ctx context.Context, userID, itemID int64) ([]model.Tag, error) {
	if err := itemExists(ctx, s.db, userID, itemID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.user_id, t.name, t.color, t.created_at
		 FROM tags t
		 JOIN item_tags it ON it.tag_id = t.id
		 WHERE it.item_id = ? AND t.user_id = ?
		 ORDER BY t.name, t.id`, itemID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListItemsForTag returns the IDs of non-deleted items carrying a tag.
func (s *Store) ListItemsForTag(ctx context.Context, userID, tagID int64) ([]int64, error) {
	if err := tagExists(ctx, s.db, userID, tagID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT it.item_id
		 FROM item_tags it
		 JOIN items i ON i.id = it.item_id
		 WHERE it.tag_id = ? AND i.user_id = ? AND i.deleted_at IS NULL
		 ORDER BY it.item_id`, tagID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tag items: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceTags atomically replaces the item's tag set with tagIDs.
// Duplicate IDs collapse to one link. If any ID is not one of the user's
// tags nothing is changed.
func (s *Store) ReplaceTags(ctx context.Context, userID, itemID int64, tagIDs []int64) ([]model.Tag, error) {
	seen := make(map[int64]struct{}, len(tagIDs))
	ids := make([]int64, 0, len(tagIDs))
	for _, id := range tagIDs {
		if id <= 0 {
			return nil, &model.ValidationError{
				Message: "invalid tag ids",
				Fields:  map[string]string{"tag_ids": "must be positive integers"},
			}
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > model.MaxItemTags {
		return nil, &model.ValidationError{
			Message: "too many tag ids",
			Fields:  map[string]string{"tag_ids": fmt.Sprintf("must contain at most %d tags", model.MaxItemTags)},
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := itemExists(ctx, tx, userID, itemID); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		missing, err := missingTags(ctx, tx, userID, ids)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, &model.ValidationError{
				Message: "unknown tag ids",
				Fields:  map[string]string{"tag_ids": "unknown ids: " + joinIDs(missing)},
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
		return nil, fmt.Errorf("clearing item tags: %w", err)
	}

	now := s.clock.Now()
	for _, tagID := range ids {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag_id, created_at) VALUES (?, ?, ?)`,
			itemID, tagID, now,
		); err != nil {
			return nil, fmt.Errorf("linking tag %d: %w", tagID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item tags: %w", err)
	}

	return s.ListTagsForItem(ctx, userID, itemID)
}

func itemExists(ctx context.Context, q querier, userID, id int64) error {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM items WHERE id = ? AND user_id = ? AND deleted_at IS NULL`, id, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("item %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking item: %w", err)
	}
	return nil
}

// missingTags returns the IDs in ids that are not tags owned by userID.
func missingTags(ctx context.Context, q querier, userID int64, ids []int64) ([]int64, error) {
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id FROM tags WHERE user_id = ? AND id IN (`+placeholders(len(ids))+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("checking tags: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning tag id: %w", err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("checking tags: %w", err)
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
