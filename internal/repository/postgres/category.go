package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/azlocal/directory/internal/store"
)

// CategoryRepo reads the category taxonomy as persisted in Postgres.
type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns all categories ordered by display name.
func (r *CategoryRepo) List(ctx context.Context) ([]store.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, name
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []store.Category
	for rows.Next() {
		var c store.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read categories: %w", err)
	}
	return cats, nil
}
