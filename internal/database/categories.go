package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"moviecatalog/internal/types"
)

// ListCategories returns categories in creation order.
func (s *Store) ListCategories(ctx context.Context) (categories []types.Category, err error) {
	defer s.track("list_categories")(&err)

	rows, err := s.db.QueryContext(ctx, `SELECT id, title, created_at, updated_at FROM categories ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories = []types.Category{}
	for rows.Next() {
		var c types.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.Created, &c.Updated); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) GetCategory(ctx context.Context, id string) (c *types.Category, err error) {
	defer s.track("get_category")(&err)

	var cat types.Category
	err = s.db.QueryRowContext(ctx, `SELECT id, title, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Title, &cat.Created, &cat.Updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &cat, nil
}

// CreateCategory inserts c. A title already in use, ignoring case, returns
// ErrDuplicate.
func (s *Store) CreateCategory(ctx context.Context, c *types.Category) (err error) {
	defer s.track("create_category")(&err)

	now := s.now()
	c.ID = newID()
	c.Created, c.Updated = now, now
	_, err = s.db.ExecContext(ctx, `INSERT INTO categories (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.Title, c.Created, c.Updated)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, id, title string) (c *types.Category, err error) {
	defer s.track("update_category")(&err)

	res, err := s.db.ExecContext(ctx, `UPDATE categories SET title = ?, updated_at = ? WHERE id = ?`, title, s.now(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetCategory(ctx, id)
}

func (s *Store) DeleteCategory(ctx context.Context, id string) (err error) {
	defer s.track("delete_category")(&err)

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
