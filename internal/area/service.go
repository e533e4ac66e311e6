package area

import (
	"errors"

	"github.com/Kyz7/wip/internal/models"
	"gorm.io/gorm"
)

var (
	ErrRegionNotFound       = errors.New("region info not found")
	ErrConstituencyNotFound = errors.New("constituency info not found")
)

type ConstituencyInput struct {
	Region   string  `json:"region" validate:"required"`
	District *string `json:"district"`
	Section  *string `json:"section"`
}

type ConstituencyView struct {
	AssemblyTerm int     `json:"assembly_term,omitempty"`
	Region       string  `json:"region"`
	District     *string `json:"district"`
	Section      *string `json:"section"`
}

// FindRegion accepts either a region code ("seoul") or its name ("서울").
func FindRegion(db *gorm.DB, region string) (*models.Region, error) {
	var r models.Region
	err := db.Where("code = ? OR name = ?", region, region).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func FindConstituency(db *gorm.DB, assemblyTerm int, in ConstituencyInput) (*models.Constituency, error) {
	region, err := FindRegion(db, in.Region)
	if err != nil {
		return nil, err
	}

	var c models.Constituency
	err = db.Where(map[string]interface{}{
		"assembly_term": assemblyTerm,
		"region_id":     region.ID,
		"district":      nullable(in.District),
		"section":       nullable(in.Section),
	}).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConstituencyNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Region = region
	return &c, nil
}

// CreateConstituencies registers constituencies for one assembly term.
// Existing ones are returned unchanged, so the call is idempotent.
func CreateConstituencies(db *gorm.DB, assemblyTerm int, inputs []ConstituencyInput) ([]models.Constituency, error) {
	created := make([]models.Constituency, 0, len(inputs))

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			existing, err := FindConstituency(tx, assemblyTerm, in)
			if err == nil {
				created = append(created, *existing)
				continue
			}
			if !errors.Is(err, ErrConstituencyNotFound) {
				return err
			}

			region, err := FindRegion(tx, in.Region)
			if err != nil {
				return err
			}
			c := models.Constituency{
				AssemblyTerm: assemblyTerm,
				RegionID:     region.ID,
				District:     in.District,
				Section:      in.Section,
			}
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			c.Region = region
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListConstituencies returns every constituency of a region in one term.
func ListConstituencies(db *gorm.DB, assemblyTerm int, region string) ([]ConstituencyView, error) {
	r, err := FindRegion(db, region)
	if err != nil {
		return nil, err
	}

	var rows []models.Constituency
	err = db.Where("assembly_term = ? AND region_id = ?", assemblyTerm, r.ID).
		Order("district, section").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]ConstituencyView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ConstituencyView{
			Region:   r.Name,
			District: row.District,
			Section:  row.Section,
		})
	}
	return views, nil
}

func ToView(c *models.Constituency) ConstituencyView {
	v := ConstituencyView{
		AssemblyTerm: c.AssemblyTerm,
		District:     c.District,
		Section:      c.Section,
	}
	if c.Region != nil {
		v.Region = c.Region.Name
	}
	return v
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func ListRegions(db *gorm.DB) ([]models.Region, error) {
	var regions []models.Region
	if err := db.Order("id").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}
