package area

import (
	"github.com/Kyz7/wip/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRegions are the first-level administrative regions of Korea.
var DefaultRegions = []models.Region{
	{Code: "seoul", Name: "서울"},
	{Code: "busan", Name: "부산"},
	{Code: "daegu", Name: "대구"},
	{Code: "incheon", Name: "인천"},
	{Code: "gwangju", Name: "광주"},
	{Code: "daejeon", Name: "대전"},
	{Code: "ulsan", Name: "울산"},
	{Code: "sejong", Name: "세종"},
	{Code: "gyeonggi", Name: "경기"},
	{Code: "gangwon", Name: "강원"},
	{Code: "chungbuk", Name: "충북"},
	{Code: "chungnam", Name: "충남"},
	{Code: "jeonbuk", Name: "전북"},
	{Code: "jeonnam", Name: "전남"},
	{Code: "gyeongbuk", Name: "경북"},
	{Code: "gyeongnam", Name: "경남"},
	{Code: "jeju", Name: "제주"},
}

// SeedRegions inserts any missing default region. Safe to run on every start.
func SeedRegions(db *gorm.DB) error {
	regions := make([]models.Region, len(DefaultRegions))
	copy(regions, DefaultRegions)

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&regions).Error
}
