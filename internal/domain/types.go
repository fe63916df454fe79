package domain

// Info types stored in recycle_detail.info_type.
const (
	InfoTypeRecyclable = "재활용품"
	InfoTypeBagColor   = "봉투색상"
)

type District struct {
	ID            int64
	City          string
	Name          string
	DischargeTime string
}

type RecycleDetail struct {
	ID         int64
	DistrictID int64
	InfoType   string
	ItemName   string
	InfoValue  string
}

type GuideCategory struct {
	ID    int64
	Name  string
	Icon  string
	Items []*GuideItem
}

type GuideItem struct {
	ID          int64
	CategoryID  int64
	Name        string
	Description string
	ImagePath   string
}
