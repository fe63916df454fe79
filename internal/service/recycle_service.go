package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/geocode"
)

// districtRepository is the subset of store.DistrictStore that RecycleService requires.
type districtRepository interface {
	GetByCityAndName(ctx context.Context, city, name string) (*domain.District, error)
	GetByName(ctx context.Context, name string) (*domain.District, error)
	List(ctx context.Context) ([]*domain.District, error)
	ListDetails(ctx context.Context, districtID int64) ([]*domain.RecycleDetail, error)
}

// guideRepository is the subset of store.GuideStore that RecycleService requires.
type guideRepository interface {
	ListCategories(ctx context.Context) ([]*domain.GuideCategory, error)
	SearchItems(ctx context.Context, query string) ([]*domain.GuideCategory, error)
}

// LocationInfo is the per-district schedule served as location_info.
type LocationInfo struct {
	DischargeTime string            `json:"배출시간"`
	Recyclables   map[string]string `json:"재활용품"`
	BagColors     map[string]string `json:"봉투색상"`

	City     string                  `json:"-"`
	District string                  `json:"-"`
	Details  []*domain.RecycleDetail `json:"-"`
}

// Summary renders the schedule as text, keeping the seeded item order.
func (l *LocationInfo) Summary() string {
	var recyclables, bags []string
	for _, d := range l.Details {
		entry := d.ItemName + " " + d.InfoValue
		switch d.InfoType {
		case domain.InfoTypeRecyclable:
			recyclables = append(recyclables, entry)
		case domain.InfoTypeBagColor:
			bags = append(bags, entry)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "배출시간: %s", l.DischargeTime)
	if len(recyclables) > 0 {
		fmt.Fprintf(&sb, "\n%s: %s", domain.InfoTypeRecyclable, strings.Join(recyclables, " / "))
	}
	if len(bags) > 0 {
		fmt.Fprintf(&sb, "\n%s: %s", domain.InfoTypeBagColor, strings.Join(bags, " / "))
	}
	return sb.String()
}

type GuideData struct {
	Categories []GuideCategory `json:"categories"`
}

type GuideCategory struct {
	Name  string      `json:"name"`
	Icon  string      `json:"icon"`
	Items []GuideItem `json:"items"`
}

type GuideItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
}

// RecycleInfo is the /get-recycle-info payload. Location is nil when the
// district is not seeded.
type RecycleInfo struct {
	Location *LocationInfo `json:"location_info"`
	Guide    *GuideData    `json:"guide_data"`
}

type DistrictRef struct {
	City        string `json:"city"`
	District    string `json:"district"`
	DistrictKey string `json:"districtKey"`
}

type RecycleService struct {
	districts districtRepository
	guide     guideRepository
	logger    *slog.Logger
}

func NewRecycleService(districts districtRepository, guide guideRepository, logger *slog.Logger) *RecycleService {
	return &RecycleService{
		districts: districts,
		guide:     guide,
		logger:    logger,
	}
}

// GetRecycleInfo loads the district schedule and the disposal guide
// concurrently.
func (s *RecycleService) GetRecycleInfo(ctx context.Context, city, districtKey string) (*RecycleInfo, error) {
	var info RecycleInfo

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loc, err := s.DistrictSchedule(gctx, city, districtKey)
		if err != nil {
			return err
		}
		info.Location = loc
		return nil
	})
	g.Go(func() error {
		guide, err := s.Guide(gctx)
		if err != nil {
			return err
		}
		info.Guide = guide
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if info.Location == nil {
		s.logger.Info("no recycle data for district", "city", city, "district_key", districtKey)
	}
	return &info, nil
}

// DistrictSchedule returns nil, nil when no seeded district matches.
func (s *RecycleService) DistrictSchedule(ctx context.Context, city, districtKey string) (*LocationInfo, error) {
	d, err := s.findDistrict(ctx, city, districtKey)
	if err != nil || d == nil {
		return nil, err
	}

	details, err := s.districts.ListDetails(ctx, d.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list details for district %d: %w", d.ID, err)
	}

	info := &LocationInfo{
		DischargeTime: d.DischargeTime,
		Recyclables:   make(map[string]string),
		BagColors:     make(map[string]string),
		City:          d.City,
		District:      d.Name,
		Details:       details,
	}
	for _, det := range details {
		switch det.InfoType {
		case domain.InfoTypeRecyclable:
			info.Recyclables[det.ItemName] = det.InfoValue
		case domain.InfoTypeBagColor:
			info.BagColors[det.ItemName] = det.InfoValue
		default:
			s.logger.Warn("unknown recycle detail type", "district_id", d.ID, "info_type", det.InfoType)
		}
	}
	return info, nil
}

// findDistrict tries the exact city/district pair first. District names are
// unique, so the name alone is tried next, but only when city is not one of
// the seeded cities or names the matched district's own city. Keys such as
// "성남시분당구" come from addresses that carry both county and city_district;
// those are split after the first "시".
func (s *RecycleService) findDistrict(ctx context.Context, city, districtKey string) (*domain.District, error) {
	city = strings.TrimSpace(city)
	key := geocode.StripSpace(districtKey)
	if key == "" {
		return nil, nil
	}

	d, err := s.districts.GetByCityAndName(ctx, city, key)
	if err != nil || d != nil {
		return d, err
	}

	d, err = s.districts.GetByName(ctx, key)
	if err != nil {
		return nil, err
	}
	if d != nil {
		if d.City == city {
			return d, nil
		}
		seeded, err := s.isSeededCity(ctx, city)
		if err != nil {
			return nil, err
		}
		if !seeded {
			return d, nil
		}
	}

	if prefix, rest, ok := splitCityPrefix(key); ok {
		return s.districts.GetByCityAndName(ctx, prefix, rest)
	}
	return nil, nil
}

func (s *RecycleService) isSeededCity(ctx context.Context, city string) (bool, error) {
	districts, err := s.districts.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list districts: %w", err)
	}
	for _, d := range districts {
		if d.City == city {
			return true, nil
		}
	}
	return false, nil
}

func splitCityPrefix(key string) (string, string, bool) {
	const marker = "시"
	i := strings.Index(key, marker)
	if i <= 0 {
		return "", "", false
	}
	end := i + len(marker)
	if end >= len(key) {
		return "", "", false
	}
	return key[:end], key[end:], true
}

func (s *RecycleService) Guide(ctx context.Context) (*GuideData, error) {
	categories, err := s.guide.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load guide: %w", err)
	}
	return toGuideData(categories), nil
}

// SearchGuide returns the guide narrowed to items matching query. An empty
// query returns the full guide.
func (s *RecycleService) SearchGuide(ctx context.Context, query string) (*GuideData, error) {
	if strings.TrimSpace(query) == "" {
		return s.Guide(ctx)
	}
	categories, err := s.guide.SearchItems(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search guide: %w", err)
	}
	return toGuideData(categories), nil
}

func toGuideData(categories []*domain.GuideCategory) *GuideData {
	data := &GuideData{Categories: make([]GuideCategory, 0, len(categories))}
	for _, c := range categories {
		cat := GuideCategory{Name: c.Name, Icon: c.Icon, Items: make([]GuideItem, 0, len(c.Items))}
		for _, it := range c.Items {
			cat.Items = append(cat.Items, GuideItem{
				Name:        it.Name,
				Description: it.Description,
				ImagePath:   it.ImagePath,
			})
		}
		data.Categories = append(data.Categories, cat)
	}
	return data
}

func (s *RecycleService) Districts(ctx context.Context) ([]DistrictRef, error) {
	districts, err := s.districts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}

	refs := make([]DistrictRef, 0, len(districts))
	for _, d := range districts {
		refs = append(refs, DistrictRef{City: d.City, District: d.Name, DistrictKey: geocode.StripSpace(d.Name)})
	}
	return refs, nil
}
