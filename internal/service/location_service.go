package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/geocode"
)

// reverseGeocoder is the subset of geocode.Client that LocationService requires.
type reverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocode.Result, error)
}

// GeocodeResult carries the raw Nominatim body alongside the resolved place.
// Supported reports whether the place maps to a seeded district.
type GeocodeResult struct {
	Raw       json.RawMessage
	Resolved  geocode.Place
	Supported bool
}

// MarshalJSON merges "resolved" and "supported" into the Nominatim object so
// existing clients reading address fields keep working.
func (r *GeocodeResult) MarshalJSON() ([]byte, error) {
	body := map[string]json.RawMessage{}
	if len(r.Raw) > 0 {
		if err := json.Unmarshal(r.Raw, &body); err != nil {
			return nil, fmt.Errorf("failed to decode geocode body: %w", err)
		}
	}
	resolved, err := json.Marshal(r.Resolved)
	if err != nil {
		return nil, err
	}
	supported, err := json.Marshal(r.Supported)
	if err != nil {
		return nil, err
	}
	body["resolved"] = resolved
	body["supported"] = supported
	return json.Marshal(body)
}

type LocationService struct {
	geocoder  reverseGeocoder
	schedules scheduleFinder
	logger    *slog.Logger
}

func NewLocationService(geocoder reverseGeocoder, schedules scheduleFinder, logger *slog.Logger) *LocationService {
	return &LocationService{
		geocoder:  geocoder,
		schedules: schedules,
		logger:    logger,
	}
}

func (s *LocationService) ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodeResult, error) {
	if !geocode.ValidCoordinates(lat, lon) {
		return nil, fmt.Errorf("latitude %v longitude %v: %w", lat, lon, domain.ErrInvalidLocation)
	}

	res, err := s.geocoder.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}

	out := &GeocodeResult{Raw: res.Raw, Resolved: res.Address.Resolve()}
	if s.schedules != nil {
		loc, err := s.schedules.DistrictSchedule(ctx, out.Resolved.City, out.Resolved.DistrictKey)
		if err != nil {
			s.logger.Warn("district lookup after geocode failed", "error", err)
		} else {
			out.Supported = loc != nil
		}
	}

	s.logger.Info("location resolved",
		"city", out.Resolved.City,
		"district", out.Resolved.District,
		"supported", out.Supported,
	)
	return out, nil
}
