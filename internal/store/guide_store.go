package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

type GuideStore struct {
	db *sql.DB
}

func NewGuideStore(db *sql.DB) *GuideStore {
	return &GuideStore{db: db}
}

// ListCategories returns every guide category with its items, both in
// insertion order. Categories without items are included with an empty slice.
func (s *GuideStore) ListCategories(ctx context.Context) ([]*domain.GuideCategory, error) {
	return s.queryCategories(ctx, `
		SELECT c.category_id, c.name, COALESCE(c.icon, ''),
		       i.item_id, i.name, i.description, COALESCE(i.image_path, '')
		FROM guide_category c
		LEFT JOIN guide_item i ON i.category_id = c.category_id
		ORDER BY c.category_id ASC, i.item_id ASC
	`)
}

// likeEscaper makes query text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchItems returns the categories holding items whose name or description
// contains query, case-insensitively. Only matching items are included.
func (s *GuideStore) SearchItems(ctx context.Context, query string) ([]*domain.GuideCategory, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(query))) + "%"

	return s.queryCategories(ctx, `
		SELECT c.category_id, c.name, COALESCE(c.icon, ''),
		       i.item_id, i.name, i.description, COALESCE(i.image_path, '')
		FROM guide_category c
		JOIN guide_item i ON i.category_id = c.category_id
		WHERE LOWER(i.name) LIKE ? ESCAPE '\' OR LOWER(i.description) LIKE ? ESCAPE '\'
		ORDER BY c.category_id ASC, i.item_id ASC
	`, pattern, pattern)
}

func (s *GuideStore) queryCategories(ctx context.Context, query string, args ...any) ([]*domain.GuideCategory, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query guide: %w", err)
	}
	defer closeRows(rows)

	categories := make([]*domain.GuideCategory, 0)
	var current *domain.GuideCategory
	for rows.Next() {
		var (
			catID                     int64
			catName, icon             string
			itemID                    sql.NullInt64
			itemName, desc, imagePath sql.NullString
		)
		if err := rows.Scan(&catID, &catName, &icon, &itemID, &itemName, &desc, &imagePath); err != nil {
			return nil, fmt.Errorf("failed to scan guide row: %w", err)
		}

		if current == nil || current.ID != catID {
			current = &domain.GuideCategory{ID: catID, Name: catName, Icon: icon, Items: make([]*domain.GuideItem, 0)}
			categories = append(categories, current)
		}
		if itemID.Valid {
			current.Items = append(current.Items, &domain.GuideItem{
				ID:          itemID.Int64,
				CategoryID:  catID,
				Name:        itemName.String,
				Description: desc.String,
				ImagePath:   imagePath.String,
			})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guide rows: %w", err)
	}

	return categories, nil
}
