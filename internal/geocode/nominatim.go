// Package geocode reverse-geocodes coordinates through OpenStreetMap Nominatim.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

// Unknown is used for address parts Nominatim did not return.
const Unknown = "알수없음"

// Address holds the Nominatim address fields the app reads.
type Address struct {
	State        string `json:"state"`
	Province     string `json:"province"`
	City         string `json:"city"`
	County       string `json:"county"`
	CityDistrict string `json:"city_district"`
	Borough      string `json:"borough"`
	Suburb       string `json:"suburb"`
	Road         string `json:"road"`
	Postcode     string `json:"postcode"`
	CountryCode  string `json:"country_code"`
}

// Place is an address reduced to the city and district keys used by the
// recycling tables.
type Place struct {
	City        string `json:"city"`
	District    string `json:"district"`
	DistrictKey string `json:"districtKey"`
}

type Result struct {
	// Raw is the unmodified Nominatim response body.
	Raw         json.RawMessage
	DisplayName string
	Address     Address
}

// Resolve picks city and district the same way the browser client does:
// the state is the city, and county and city_district are joined for the
// district. DistrictKey is the district with all whitespace removed.
func (a Address) Resolve() Place {
	city := firstNonEmpty(a.State, a.City, a.Province)
	if city == "" {
		city = Unknown
	}

	var district string
	switch {
	case a.County != "" && a.CityDistrict != "":
		district = a.County + a.CityDistrict
	case a.County != "":
		district = a.County
	case a.CityDistrict != "":
		district = a.CityDistrict
	case a.Borough != "":
		district = a.Borough
	default:
		district = Unknown
	}

	return Place{City: city, District: district, DistrictKey: StripSpace(district)}
}

// StripSpace removes every whitespace rune from s.
func StripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// ValidCoordinates reports whether lat/lon are within WGS84 bounds.
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Result, error) {
	if !ValidCoordinates(lat, lon) {
		return nil, fmt.Errorf("lat=%v lon=%v: %w", lat, lon, domain.ErrInvalidLocation)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("accept-language", "ko")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// Nominatim's usage policy requires an identifying User-Agent.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nominatim: %w: %w", err, domain.ErrUpstream)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close nominatim response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read nominatim response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d: %s: %w", resp.StatusCode, body, domain.ErrUpstream)
	}

	var parsed struct {
		Error       string  `json:"error"`
		DisplayName string  `json:"display_name"`
		Address     Address `json:"address"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("nominatim: %s: %w", parsed.Error, domain.ErrUpstream)
	}

	return &Result{
		Raw:         json.RawMessage(body),
		DisplayName: parsed.DisplayName,
		Address:     parsed.Address,
	}, nil
}
