package public

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/models"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

var ErrSearchKeyRequired = errors.New("one of name, party or region is required")

// constituencyCache holds per-region constituency lists. They change only
// when an admin registers new constituencies.
var constituencyCache = cache.New(10*time.Minute, time.Minute)

type PoliticianListItem struct {
	ID                   uint                    `json:"id"`
	Name                 string                  `json:"name"`
	AssemblyTerm         int                     `json:"assembly_term"`
	PoliticalParty       string                  `json:"political_party"`
	ProfileURL           *string                 `json:"profile_url"`
	ElectedCount         int                     `json:"elected_count"`
	PromiseExecutionRate *float64                `json:"promise_execution_rate"`
	Constituency         []area.ConstituencyView `json:"constituency"`
}

type Page struct {
	Items []PoliticianListItem
	Total int64
}

type SearchParams struct {
	AssemblyTerm int
	Name         string
	Party        string
	Region       string
	SortType     string
	Page         int
	Size         int
}

func Constituencies(db *gorm.DB, assemblyTerm int, region string) ([]area.ConstituencyView, error) {
	key := fmt.Sprintf("%d:%s", assemblyTerm, region)
	if cached, ok := constituencyCache.Get(key); ok {
		return cached.([]area.ConstituencyView), nil
	}

	views, err := area.ListConstituencies(db, assemblyTerm, region)
	if err != nil {
		return nil, err
	}
	constituencyCache.Set(key, views, cache.DefaultExpiration)
	return views, nil
}

// InvalidateConstituencies drops cached lists after constituencies change.
func InvalidateConstituencies() {
	constituencyCache.Flush()
}

// RankPoliticians orders politicians of one term by promise execution rate.
// Politicians without a rate always come last.
func RankPoliticians(db *gorm.DB, params SearchParams) (*Page, error) {
	var politicians []models.Politician
	err := db.Where("assembly_term = ?", params.AssemblyTerm).
		Preload("Jurisdictions.Constituency.Region").
		Order("id").
		Find(&politicians).Error
	if err != nil {
		return nil, err
	}
	return paginate(politicians, params), nil
}

func SearchPoliticians(db *gorm.DB, params SearchParams) (*Page, error) {
	query := db.Where("politicians.assembly_term = ?", params.AssemblyTerm)

	switch {
	case params.Name != "":
		query = query.Where("politicians.name LIKE ?", "%"+params.Name+"%")
	case params.Party != "":
		query = query.Where("politicians.political_party = ?", params.Party)
	case params.Region != "":
		region, err := regionByCode(db, params.Region)
		if err != nil {
			return nil, err
		}
		query = query.Where("politicians.id IN (?)", db.
			Table("jurisdictions").
			Select("jurisdictions.politician_id").
			Joins("JOIN constituencies ON constituencies.id = jurisdictions.constituency_id").
			Where("constituencies.region_id = ?", region.ID))
	default:
		return nil, ErrSearchKeyRequired
	}

	var politicians []models.Politician
	err := query.
		Preload("Jurisdictions.Constituency.Region").
		Order("politicians.id").
		Find(&politicians).Error
	if err != nil {
		return nil, err
	}
	return paginate(politicians, params), nil
}

// regionByCode accepts seeded region codes only.
func regionByCode(db *gorm.DB, code string) (*models.Region, error) {
	var r models.Region
	err := db.Where("code = ?", code).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, area.ErrRegionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func paginate(politicians []models.Politician, params SearchParams) *Page {
	items := make([]PoliticianListItem, 0, len(politicians))
	for i := range politicians {
		items = append(items, toListItem(&politicians[i]))
	}

	desc := params.SortType != "asc"
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PromiseExecutionRate, items[j].PromiseExecutionRate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case desc:
			return *a > *b
		default:
			return *a < *b
		}
	})

	total := int64(len(items))
	if params.Page <= 0 || params.Size <= 0 || params.Page-1 >= (len(items)+params.Size-1)/params.Size {
		return &Page{Items: []PoliticianListItem{}, Total: total}
	}
	start := (params.Page - 1) * params.Size
	end := start + params.Size
	if end > len(items) {
		end = len(items)
	}
	return &Page{Items: items[start:end], Total: total}
}

func toListItem(p *models.Politician) PoliticianListItem {
	item := PoliticianListItem{
		ID:                   p.ID,
		Name:                 p.Name,
		AssemblyTerm:         p.AssemblyTerm,
		PoliticalParty:       p.PoliticalParty,
		ProfileURL:           p.ProfileURL,
		ElectedCount:         p.ElectedCount,
		PromiseExecutionRate: p.PromiseExecutionRate(),
		Constituency:         []area.ConstituencyView{},
	}
	for _, j := range p.Jurisdictions {
		if j.Constituency != nil {
			view := area.ToView(j.Constituency)
			view.AssemblyTerm = 0
			item.Constituency = append(item.Constituency, view)
		}
	}
	return item
}
