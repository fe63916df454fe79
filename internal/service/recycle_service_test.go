package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/smartrecycle/internal/db"
	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/seed"
	"github.com/vbonduro/smartrecycle/internal/store"
)

func newTestRecycleService(t *testing.T) *RecycleService {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	ds, err := seed.Load()
	require.NoError(t, err)
	_, err = seed.Apply(context.Background(), d, ds)
	require.NoError(t, err)

	return NewRecycleService(store.NewDistrictStore(d), store.NewGuideStore(d), slog.Default())
}

func TestRecycleServiceGetRecycleInfo(t *testing.T) {
	svc := newTestRecycleService(t)

	info, err := svc.GetRecycleInfo(context.Background(), "서울특별시", "강남구")
	require.NoError(t, err)
	require.NotNil(t, info.Location)
	require.NotNil(t, info.Guide)

	assert.Equal(t, "월~금 오후 8시 ~ 오전 5시", info.Location.DischargeTime)
	assert.Equal(t, map[string]string{
		"페트병": "목요일",
		"비닐":  "목요일",
		"기타":  "월~금, 일 녹색 그물망",
	}, info.Location.Recyclables)
	assert.Equal(t, map[string]string{
		"소각용":  "원색",
		"음식물용": "하늘색",
		"재사용":  "연보라색",
	}, info.Location.BagColors)
	assert.Len(t, info.Guide.Categories, 6)
}

func TestRecycleServiceUnknownDistrict(t *testing.T) {
	svc := newTestRecycleService(t)

	info, err := svc.GetRecycleInfo(context.Background(), "대전광역시", "유성구")
	require.NoError(t, err)
	assert.Nil(t, info.Location)
	require.NotNil(t, info.Guide)
	assert.NotEmpty(t, info.Guide.Categories)
}

func TestRecycleServiceEmptyDistrictKey(t *testing.T) {
	svc := newTestRecycleService(t)

	loc, err := svc.DistrictSchedule(context.Background(), "서울특별시", "  ")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestRecycleServiceDistrictFallbacks(t *testing.T) {
	svc := newTestRecycleService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		city        string
		districtKey string
		want        string
	}{
		{"exact", "서울특별시", "서초구", "서초구"},
		{"name only", "서울", "해운대구", "해운대구"},
		{"county and city district", "경기도", "성남시분당구", "분당구"},
		{"spaces stripped", "경기도", "성남시 분당구", "분당구"},
		{"name belongs to another seeded city", "부산광역시", "강남구", ""},
		{"unknown name in seeded city", "서울특별시", "종로구", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := svc.DistrictSchedule(ctx, tt.city, tt.districtKey)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, loc)
				return
			}
			require.NotNil(t, loc)
			assert.Equal(t, tt.want, loc.District)
		})
	}
}

func TestLocationInfoSummary(t *testing.T) {
	svc := newTestRecycleService(t)

	loc, err := svc.DistrictSchedule(context.Background(), "성남시", "분당구")
	require.NoError(t, err)
	require.NotNil(t, loc)

	want := "배출시간: 월~금 일몰 후 ~ 오전 5시 (토요일 부분 수거)\n" +
		"재활용품: 일반 수거 전날 일몰 후 배출\n" +
		"봉투색상: 소각용 녹색 / 음식물용 노란색 / 재사용 옅은 회색"
	assert.Equal(t, want, loc.Summary())
}

func TestRecycleServiceGuide(t *testing.T) {
	svc := newTestRecycleService(t)

	guide, err := svc.Guide(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, guide.Categories)

	first := guide.Categories[0]
	assert.Equal(t, "가구/인테리어", first.Name)
	require.NotEmpty(t, first.Items)
	assert.Equal(t, "전구 (형광등/LED)", first.Items[0].Name)

	var total int
	for _, c := range guide.Categories {
		total += len(c.Items)
	}
	assert.Equal(t, 17, total)
}

func TestRecycleServiceDistricts(t *testing.T) {
	svc := newTestRecycleService(t)

	refs, err := svc.Districts(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 5)

	for _, r := range refs {
		assert.NotEmpty(t, r.City)
		assert.Equal(t, r.District, r.DistrictKey)
	}
}

type fakeDistricts struct {
	err error
}

func (f *fakeDistricts) GetByCityAndName(context.Context, string, string) (*domain.District, error) {
	return nil, f.err
}

func (f *fakeDistricts) GetByName(context.Context, string) (*domain.District, error) {
	return nil, f.err
}

func (f *fakeDistricts) List(context.Context) ([]*domain.District, error) {
	return nil, f.err
}

func (f *fakeDistricts) ListDetails(context.Context, int64) ([]*domain.RecycleDetail, error) {
	return nil, f.err
}

type fakeGuide struct {
	categories []*domain.GuideCategory
	err        error
}

func (f *fakeGuide) ListCategories(context.Context) ([]*domain.GuideCategory, error) {
	return f.categories, f.err
}

func (f *fakeGuide) SearchItems(context.Context, string) ([]*domain.GuideCategory, error) {
	return f.categories, f.err
}

func TestRecycleServiceStoreError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewRecycleService(&fakeDistricts{err: boom}, &fakeGuide{}, slog.Default())

	_, err := svc.GetRecycleInfo(context.Background(), "서울특별시", "강남구")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestRecycleServiceGuideMapping(t *testing.T) {
	svc := NewRecycleService(&fakeDistricts{}, &fakeGuide{categories: []*domain.GuideCategory{
		{ID: 1, Name: "기타", Icon: "fa-solid fa-box", Items: []*domain.GuideItem{
			{ID: 1, CategoryID: 1, Name: "우산", Description: "분리해서 배출", ImagePath: "/static/images/umbrella.jpg"},
		}},
		{ID: 2, Name: "빈 카테고리", Icon: "fa-solid fa-circle", Items: []*domain.GuideItem{}},
	}}, slog.Default())

	got, err := svc.Guide(context.Background())
	require.NoError(t, err)

	want := &GuideData{Categories: []GuideCategory{
		{Name: "기타", Icon: "fa-solid fa-box", Items: []GuideItem{
			{Name: "우산", Description: "분리해서 배출", ImagePath: "/static/images/umbrella.jpg"},
		}},
		{Name: "빈 카테고리", Icon: "fa-solid fa-circle", Items: []GuideItem{}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Guide() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecycleServiceSearchGuide(t *testing.T) {
	svc := newTestRecycleService(t)
	ctx := context.Background()

	got, err := svc.SearchGuide(ctx, "스티로폼")
	require.NoError(t, err)
	require.Len(t, got.Categories, 1)
	require.Len(t, got.Categories[0].Items, 1)
	want := &GuideData{Categories: []GuideCategory{{
		Name: "용기/포장재",
		Icon: got.Categories[0].Icon,
		Items: []GuideItem{{
			Name:        "스티로폼 (EPS)",
			Description: got.Categories[0].Items[0].Description,
			ImagePath:   got.Categories[0].Items[0].ImagePath,
		}},
	}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchGuide() mismatch (-want +got):\n%s", diff)
	}

	all, err := svc.SearchGuide(ctx, " ")
	require.NoError(t, err)
	assert.Len(t, all.Categories, 6)
}
