package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/erazemk/dailycost/internal/model"
)

const tagColumns = `id, user_id, name, color, created_at`

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateTag creates a tag. A name already used by the same user is a conflict.
func (s *Store) CreateTag(ctx context.Context, userID int64, d model.TagDraft) (*model.Tag, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, model.NewValidationError("name required")
	}
	color := d.Color
	if color == "" {
		color = model.DefaultTagColor
	}
	if !colorPattern.MatchString(color) {
		return nil, model.NewValidationError("color must be #RRGGBB")
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, color, created_at) VALUES (?, ?, ?, ?)`,
		userID, name, color, s.clock.Now(),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("tag %q: %w", name, model.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting tag id: %w", err)
	}

	return s.GetTag(ctx, userID, id)
}

// GetTag returns a tag owned by userID.
func (s *Store) GetTag(ctx context.Context, userID, id int64) (*model.Tag, error) {
	t := &model.Tag{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tag %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return t, nil
}

// ListTags returns all of the user's tags ordered by name.
func (s *Store) ListTags(ctx context.Context, userID int64) ([]model.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE user_id = ? ORDER BY name, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	return scanTags(rows)
}

// UpdateTag applies the non-nil fields of p.
func (s *Store) UpdateTag(ctx context.Context, userID, id int64, p model.TagPatch) (*model.Tag, error) {
	var (
		sets []assignment
		name string
	)
	if p.Name != nil {
		name = strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, model.NewValidationError("name must not be empty")
		}
		sets = append(sets, assignment{"name", name})
	}
	if p.Color != nil {
		if !colorPattern.MatchString(*p.Color) {
			return nil, model.NewValidationError("color must be #RRGGBB")
		}
		sets = append(sets, assignment{"color", *p.Color})
	}
	if len(sets) == 0 {
		return s.GetTag(ctx, userID, id)
	}

	set, args := compileAssignments(sets)
	args = append(args, id, userID)

	result, err := s.db.ExecContext(ctx,
		`UPDATE tags SET `+set+` WHERE id = ? AND user_id = ?`, args...,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("tag %q: %w", name, model.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("updating tag: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("updating tag: %w", err)
	} else if n == 0 {
		return nil, fmt.Errorf("tag %d: %w", id, model.ErrNotFound)
	}

	return s.GetTag(ctx, userID, id)
}

// DeleteTag removes a tag and all its item links. Items are kept.
func (s *Store) DeleteTag(ctx context.Context, userID, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := tagExists(ctx, tx, userID, id); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM item_tags WHERE tag_id = ?`, id); err != nil {
		return fmt.Errorf("unlinking tag: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ? AND user_id = ?`, id, userID); err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tag deletion: %w", err)
	}
	return nil
}

func tagExists(ctx context.Context, q querier, userID, id int64) error {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM tags WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("tag %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking tag: %w", err)
	}
	return nil
}

func scanTags(rows *sql.Rows) ([]model.Tag, error) {
	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
