package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/dailycost/internal/model"
)

// predicate is one parameterized WHERE term. Clauses are fixed strings
// written in this file; user input only ever travels in args.
type predicate struct {
	clause string
	args   []any
}

// assignment is one "column = ?" term of an UPDATE.
type assignment struct {
	column string
	value  any
}

var itemOrder = map[model.SortOrder]string{
	model.SortAsc:  "purchased_at ASC, id ASC",
	model.SortDesc: "purchased_at DESC, id ASC",
}

// itemPredicates turns a filter into the WHERE terms shared by the count
// and page queries.
func itemPredicates(userID int64, f model.ItemFilter) []predicate {
	preds := []predicate{
		{clause: "user_id = ?", args: []any{userID}},
		{clause: "deleted_at IS NULL"},
	}

	if f.Archived != nil {
		preds = append(preds, predicate{clause: "archived = ?", args: []any{boolToInt(*f.Archived)}})
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		preds = append(preds, predicate{
			clause: `(LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(remark, '')) LIKE ? ESCAPE '\')`,
			args:   []any{pattern, pattern},
		})
	}

	return preds
}

func compileWhere(preds []predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		clauses = append(clauses, p.clause)
		args = append(args, p.args...)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func compileAssignments(sets []assignment) (string, []any) {
	cols := make([]string, 0, len(sets))
	args := make([]any, 0, len(sets))
	for _, a := range sets {
		cols = append(cols, a.column+" = ?")
		args = append(args, a.value)
	}
	return strings.Join(cols, ", "), args
}

// escapeLike escapes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// placeholders returns "?, ?, ?" with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// ListItems returns one page of the user's items matching f.
// Pages past the end yield no items but keep the totals.
func (s *Store) ListItems(ctx context.Context, userID int64, f model.ItemFilter) (*model.Page[model.Item], error) {
	f = f.Normalize()
	where, args := compileWhere(itemPredicates(userID, f))

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}

	page := &model.Page[model.Item]{
		Items:      []model.Item{},
		Total:      total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: (total + int64(f.PageSize) - 1) / int64(f.PageSize),
	}

	// Compare page numbers rather than offsets so huge pages cannot overflow.
	if int64(f.Page-1) >= page.TotalPages {
		return page, nil
	}
	offset := int64(f.Page-1) * int64(f.PageSize)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items`+where+
			` ORDER BY `+itemOrder[f.SortOrder]+` LIMIT ? OFFSET ?`,
		append(args, f.PageSize, offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := s.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		page.Items = append(page.Items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return page, nil
}
