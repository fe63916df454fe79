package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/smartrecycle/internal/db"
)

func TestLoadEmbeddedDataset(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, ds.ID)
	require.Len(t, ds.Districts, 5)
	require.Len(t, ds.Categories, 6)

	gangnam := ds.Districts[0]
	assert.Equal(t, "서울특별시", gangnam.City)
	assert.Equal(t, "강남구", gangnam.District)
	assert.Equal(t, "월~금 오후 8시 ~ 오전 5시", gangnam.DischargeTime)
	assert.Equal(t, Entry{Item: "기타", Value: "월~금, 일 녹색 그물망"}, gangnam.Recyclables[2])
	assert.Equal(t, Entry{Item: "재사용", Value: "연보라색"}, gangnam.BagColors[2])

	bundang := ds.Districts[2]
	assert.Equal(t, "성남시", bundang.City)
	assert.Equal(t, []Entry{{Item: "일반", Value: "수거 전날 일몰 후 배출"}}, bundang.Recyclables)

	var items int
	for _, c := range ds.Categories {
		items += len(c.Items)
	}
	assert.Equal(t, 17, items)

	mirror := ds.Categories[0].Items[2]
	assert.Equal(t, "거울", mirror.Name)
	assert.Contains(t, mirror.Description, "\n\n작은 거울")
	assert.Equal(t, "/static/images/mirror.jpeg", mirror.ImagePath)
}

func TestParseRejectsMissingID(t *testing.T) {
	_, err := Parse([]byte("districts: []\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("districts: [\n"))
	assert.Error(t, err)
}

func TestApplyInsertsOnce(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	ds, err := Load()
	require.NoError(t, err)
	ctx := context.Background()

	applied, err := Apply(ctx, d, ds)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = Apply(ctx, d, ds)
	require.NoError(t, err)
	assert.False(t, applied)

	var districts, details, categories, items int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM city_district`).Scan(&districts))
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM recycle_detail`).Scan(&details))
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM guide_category`).Scan(&categories))
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM guide_item`).Scan(&items))

	assert.Equal(t, 5, districts)
	// 4 districts with 3+3 details, 분당구 with 1+3.
	assert.Equal(t, 28, details)
	assert.Equal(t, 6, categories)
	assert.Equal(t, 17, items)
}

func TestApplyRollsBackOnConflict(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	ds := &Dataset{
		ID: "dup",
		Districts: []District{
			{City: "서울특별시", District: "강남구", DischargeTime: "a"},
			{City: "서울특별시", District: "강남구", DischargeTime: "b"},
		},
	}

	_, err = Apply(context.Background(), d, ds)
	require.Error(t, err)

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM city_district`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM applied_seeds`).Scan(&n))
	assert.Zero(t, n)
}
