package dashboard

import (
	"time"

	"github.com/Kyz7/wip/internal/models"
	"gorm.io/gorm"
)

type AdminLogView struct {
	AdminNickname  string             `json:"admin_nickname"`
	Action         models.AdminAction `json:"action"`
	PoliticianName *string            `json:"politician_name"`
	CreatedAt      time.Time          `json:"created_at"`
}

type PoliticianRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DuplicatedJurisdiction struct {
	Region         string          `json:"region"`
	District       *string         `json:"district"`
	Section        *string         `json:"section"`
	PoliticianList []PoliticianRef `json:"politician_list"`
}

type IntegrityReport struct {
	DuplicatedJurisdiction []DuplicatedJurisdiction `json:"duplicated_jurisdiction"`
}

// ListAdminLogs returns one page of the activity log, newest first.
func ListAdminLogs(db *gorm.DB, page, limit int) ([]AdminLogView, int64, error) {
	var total int64
	if err := db.Model(&models.AdminLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AdminLog
	err := db.Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	views := make([]AdminLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, AdminLogView{
			AdminNickname:  l.Nickname,
			Action:         l.Action,
			PoliticianName: l.PoliticianName,
			CreatedAt:      l.CreatedAt,
		})
	}
	return views, total, nil
}

// IntegrityErrors lists constituencies that more than one politician claims.
func IntegrityErrors(db *gorm.DB) (*IntegrityReport, error) {
	var constituencyIDs []uint
	err := db.Model(&models.Jurisdiction{}).
		Select("constituency_id").
		Group("constituency_id").
		Having("COUNT(DISTINCT politician_id) > 1").
		Pluck("constituency_id", &constituencyIDs).Error
	if err != nil {
		return nil, err
	}

	report := &IntegrityReport{DuplicatedJurisdiction: []DuplicatedJurisdiction{}}
	if len(constituencyIDs) == 0 {
		return report, nil
	}

	var constituencies []models.Constituency
	err = db.Preload("Region").
		Where("id IN ?", constituencyIDs).
		Order("id").
		Find(&constituencies).Error
	if err != nil {
		return nil, err
	}

	for _, c := range constituencies {
		var refs []PoliticianRef
		err := db.Model(&models.Politician{}).
			Select("politicians.id, politicians.name").
			Joins("JOIN jurisdictions ON jurisdictions.politician_id = politicians.id").
			Where("jurisdictions.constituency_id = ?", c.ID).
			Order("politicians.id").
			Scan(&refs).Error
		if err != nil {
			return nil, err
		}

		entry := DuplicatedJurisdiction{
			District:       c.District,
			Section:        c.Section,
			PoliticianList: refs,
		}
		if c.Region != nil {
			entry.Region = c.Region.Name
		}
		report.DuplicatedJurisdiction = append(report.DuplicatedJurisdiction, entry)
	}
	return report, nil
}
