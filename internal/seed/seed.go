// Package seed loads the embedded recycling dataset and writes it into the
// database exactly once.
package seed

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

//go:embed recycle.yaml
var recycleYAML []byte

type Dataset struct {
	ID         string     `yaml:"id"`
	Districts  []District `yaml:"districts"`
	Categories []Category `yaml:"categories"`
}

type District struct {
	City          string  `yaml:"city"`
	District      string  `yaml:"district"`
	DischargeTime string  `yaml:"discharge_time"`
	Recyclables   []Entry `yaml:"recyclables"`
	BagColors     []Entry `yaml:"bag_colors"`
}

type Entry struct {
	Item  string `yaml:"item"`
	Value string `yaml:"value"`
}

type Category struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Items []Item `yaml:"items"`
}

type Item struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ImagePath   string `yaml:"image_path"`
}

// Load parses the embedded dataset.
func Load() (*Dataset, error) {
	return Parse(recycleYAML)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if ds.ID == "" {
		return nil, fmt.Errorf("seed data has no id")
	}
	return &ds, nil
}

// Apply inserts ds in a single transaction unless a seed with the same id was
// already applied. It reports whether anything was written.
func Apply(ctx context.Context, db *sql.DB, ds *Dataset) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var applied int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM applied_seeds WHERE id = ?`, ds.ID).Scan(&applied); err != nil {
		return false, fmt.Errorf("failed to check seed status: %w", err)
	}
	if applied > 0 {
		return false, nil
	}

	if err := insertDistricts(ctx, tx, ds.Districts); err != nil {
		return false, err
	}
	if err := insertCategories(ctx, tx, ds.Categories); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO applied_seeds (id) VALUES (?)`, ds.ID); err != nil {
		return false, fmt.Errorf("failed to record seed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit seed: %w", err)
	}
	return true, nil
}

func insertDistricts(ctx context.Context, tx *sql.Tx, districts []District) error {
	for _, d := range districts {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO city_district (city_name, district_name, discharge_time) VALUES (?, ?, ?)
		`, d.City, d.District, d.DischargeTime)
		if err != nil {
			return fmt.Errorf("failed to insert district %s: %w", d.District, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		if err := insertDetails(ctx, tx, id, domain.InfoTypeRecyclable, d.Recyclables); err != nil {
			return err
		}
		if err := insertDetails(ctx, tx, id, domain.InfoTypeBagColor, d.BagColors); err != nil {
			return err
		}
	}
	return nil
}

func insertDetails(ctx context.Context, tx *sql.Tx, districtID int64, infoType string, entries []Entry) error {
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recycle_detail (district_id, info_type, item_name, info_value) VALUES (?, ?, ?, ?)
		`, districtID, infoType, e.Item, e.Value); err != nil {
			return fmt.Errorf("failed to insert %s detail %s: %w", infoType, e.Item, err)
		}
	}
	return nil
}

func insertCategories(ctx context.Context, tx *sql.Tx, categories []Category) error {
	for _, c := range categories {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO guide_category (name, icon) VALUES (?, ?)
		`, c.Name, c.Icon)
		if err != nil {
			return fmt.Errorf("failed to insert category %s: %w", c.Name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		for _, it := range c.Items {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO guide_item (category_id, name, description, image_path) VALUES (?, ?, ?, ?)
			`, id, it.Name, it.Description, it.ImagePath); err != nil {
				return fmt.Errorf("failed to insert guide item %s: %w", it.Name, err)
			}
		}
	}
	return nil
}
