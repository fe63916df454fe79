package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

type DistrictStore struct {
	db *sql.DB
}

func NewDistrictStore(db *sql.DB) *DistrictStore {
	return &DistrictStore{db: db}
}

// GetByCityAndName returns nil, nil when no district matches.
func (s *DistrictStore) GetByCityAndName(ctx context.Context, city, name string) (*domain.District, error) {
	return s.getOne(ctx, `
		SELECT district_id, city_name, district_name, discharge_time FROM city_district
		WHERE city_name = ? AND district_name = ?
	`, city, name)
}

// GetByName looks a district up by its unique name alone.
func (s *DistrictStore) GetByName(ctx context.Context, name string) (*domain.District, error) {
	return s.getOne(ctx, `
		SELECT district_id, city_name, district_name, discharge_time FROM city_district
		WHERE district_name = ?
	`, name)
}

func (s *DistrictStore) getOne(ctx context.Context, query string, args ...any) (*domain.District, error) {
	d := &domain.District{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.City, &d.Name, &d.DischargeTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get district: %w", err)
	}
	return d, nil
}

func (s *DistrictStore) List(ctx context.Context) ([]*domain.District, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT district_id, city_name, district_name, discharge_time FROM city_district
		ORDER BY city_name ASC, district_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}
	defer closeRows(rows)

	var districts []*domain.District
	for rows.Next() {
		d := &domain.District{}
		if err := rows.Scan(&d.ID, &d.City, &d.Name, &d.DischargeTime); err != nil {
			return nil, fmt.Errorf("failed to scan district: %w", err)
		}
		districts = append(districts, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating districts: %w", err)
	}

	return districts, nil
}

// ListDetails returns the recyclable and bag colour rows of a district in
// insertion order.
func (s *DistrictStore) ListDetails(ctx context.Context, districtID int64) ([]*domain.RecycleDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT detail_id, district_id, info_type, item_name, info_value FROM recycle_detail
		WHERE district_id = ? ORDER BY detail_id ASC
	`, districtID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recycle details: %w", err)
	}
	defer closeRows(rows)

	var details []*domain.RecycleDetail
	for rows.Next() {
		d := &domain.RecycleDetail{}
		if err := rows.Scan(&d.ID, &d.DistrictID, &d.InfoType, &d.ItemName, &d.InfoValue); err != nil {
			return nil, fmt.Errorf("failed to scan recycle detail: %w", err)
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recycle details: %w", err)
	}

	return details, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
