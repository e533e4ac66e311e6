package politician

import (
	"strings"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/models"
	"github.com/Kyz7/wip/internal/response"
	"gorm.io/gorm"
)

type SearchParams struct {
	Query        string `json:"query"`
	Party        string `json:"party,omitempty"`
	AssemblyTerm int    `json:"assembly_term,omitempty"`
	Region       string `json:"region,omitempty"`
	Page         int    `json:"page"`
	Limit        int    `json:"limit"`
	SortBy       string `json:"sort_by"`
	OrderBy      string `json:"order_by"`
}

type SearchResult struct {
	Politicians []models.Politician `json:"politicians"`
	Total       int64               `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
}

var sortableColumns = map[string]bool{
	"id":                      true,
	"name":                    true,
	"assembly_term":           true,
	"political_party":         true,
	"elected_count":           true,
	"total_promise_count":     true,
	"completed_promise_count": true,
	"created_at":              true,
	"updated_at":              true,
}

func (p *SearchParams) normalize() {
	p.Page = response.ClampPage(p.Page)
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if !sortableColumns[p.SortBy] {
		p.SortBy = "id"
	}
	if strings.ToLower(p.OrderBy) != "desc" {
		p.OrderBy = "asc"
	} else {
		p.OrderBy = "desc"
	}
}

func Search(db *gorm.DB, params SearchParams) (*SearchResult, error) {
	params.normalize()

	query := db.Model(&models.Politician{})

	if q := strings.TrimSpace(params.Query); q != "" {
		query = applyNameSearch(db, query, q)
	}
	if params.Party != "" {
		query = query.Where("political_party = ?", params.Party)
	}
	if params.AssemblyTerm > 0 {
		query = query.Where("assembly_term = ?", params.AssemblyTerm)
	}
	if params.Region != "" {
		region, err := area.FindRegion(db, params.Region)
		if err != nil {
			return nil, err
		}
		query = query.Where("politicians.id IN (?)", db.
			Table("jurisdictions").
			Select("jurisdictions.politician_id").
			Joins("JOIN constituencies ON constituencies.id = jurisdictions.constituency_id").
			Where("constituencies.region_id = ?", region.ID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var politicians []models.Politician
	err := query.
		Order("politicians." + params.SortBy + " " + params.OrderBy).
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Preload("Committees").
		Preload("Jurisdictions.Constituency.Region").
		Find(&politicians).Error
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Politicians: politicians,
		Total:       total,
		Page:        params.Page,
		Limit:       params.Limit,
	}, nil
}

func applyNameSearch(db *gorm.DB, query *gorm.DB, q string) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return query.Where("politicians.name ILIKE ?", "%"+q+"%")
	}
	return query.Where("LOWER(politicians.name) LIKE ?", "%"+strings.ToLower(q)+"%")
}
