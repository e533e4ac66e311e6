package politician

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPoliticianNotFound = errors.New("politician not found")

// Actor is the admin performing a write, recorded in the admin log.
type Actor struct {
	AdminID  uint
	Nickname string
}

func Create(db *gorm.DB, actor Actor, req *Request) (*models.Politician, error) {
	var p *models.Politician
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		p, err = insert(tx, req)
		if err != nil {
			return err
		}
		return writeLog(tx, actor, p, models.ActionCreate, req)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// BulkCreate imports every request or none of them.
func BulkCreate(db *gorm.DB, actor Actor, reqs []Request) (int, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range reqs {
			p, err := insert(tx, &reqs[i])
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			if err := writeLog(tx, actor, p, models.ActionBulkCreate, &reqs[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(reqs), nil
}

func insert(tx *gorm.DB, req *Request) (*models.Politician, error) {
	var p models.Politician
	req.BaseInfo.apply(&p)

	if err := tx.Omit(clause.Associations).Create(&p).Error; err != nil {
		return nil, err
	}
	if err := replaceChildren(tx, &p, req); err != nil {
		return nil, err
	}
	return &p, nil
}

func replaceChildren(tx *gorm.DB, p *models.Politician, req *Request) error {
	if err := deleteChildren(tx, p.ID); err != nil {
		return err
	}

	detail := req.promiseDetail(p.ID)
	if err := tx.Create(&detail).Error; err != nil {
		return err
	}

	if committees := req.committees(p.ID); len(committees) > 0 {
		if err := tx.Create(&committees).Error; err != nil {
			return err
		}
	}

	jurisdictions := make([]models.Jurisdiction, 0, len(req.Constituency))
	for _, in := range req.Constituency {
		c, err := area.FindConstituency(tx, p.AssemblyTerm, in)
		if err != nil {
			return err
		}
		jurisdictions = append(jurisdictions, models.Jurisdiction{
			PoliticianID:   p.ID,
			ConstituencyID: c.ID,
		})
	}
	return tx.Create(&jurisdictions).Error
}

func deleteChildren(tx *gorm.DB, politicianID uint) error {
	for _, model := range []interface{}{
		&models.PromiseCountDetail{},
		&models.Committee{},
		&models.Jurisdiction{},
	} {
		if err := tx.Where("politician_id = ?", politicianID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func Get(db *gorm.DB, id uint) (*models.Politician, error) {
	var p models.Politician
	err := db.
		Preload("PromiseCountDetail").
		Preload("Committees").
		Preload("Jurisdictions.Constituency.Region").
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPoliticianNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the base info and every child row of a politician.
func Update(db *gorm.DB, actor Actor, id uint, req *Request) (*models.Politician, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Politician
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPoliticianNotFound
			}
			return err
		}

		req.BaseInfo.apply(&p)
		if err := tx.Omit(clause.Associations).Save(&p).Error; err != nil {
			return err
		}
		if err := replaceChildren(tx, &p, req); err != nil {
			return err
		}
		return writeLog(tx, actor, &p, models.ActionUpdate, req)
	})
	if err != nil {
		return nil, err
	}
	return Get(db, id)
}

func Delete(db *gorm.DB, actor Actor, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Politician
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPoliticianNotFound
			}
			return err
		}

		if err := deleteChildren(tx, p.ID); err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return err
		}
		return writeLog(tx, actor, &p, models.ActionDelete, nil)
	})
}

// SetProfileURL stores a new profile image location and returns the previous
// one so the caller can remove the old file.
func SetProfileURL(db *gorm.DB, actor Actor, id uint, url string) (*string, error) {
	var previous *string
	err := db.Transaction(func(tx *gorm.DB) error {
		var p models.Politician
		if err := tx.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPoliticianNotFound
			}
			return err
		}

		previous = p.ProfileURL
		if err := tx.Model(&p).Update("profile_url", url).Error; err != nil {
			return err
		}
		return writeLog(tx, actor, &p, models.ActionUpdate, map[string]string{"profile_url": url})
	})
	return previous, err
}

func writeLog(tx *gorm.DB, actor Actor, p *models.Politician, action models.AdminAction, detail interface{}) error {
	entry := models.AdminLog{
		AdminID:        actor.AdminID,
		Nickname:       actor.Nickname,
		PoliticianID:   &p.ID,
		PoliticianName: &p.Name,
		Action:         action,
	}
	if detail != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		entry.Detail = datatypes.JSON(raw)
	}
	return tx.Create(&entry).Error
}
