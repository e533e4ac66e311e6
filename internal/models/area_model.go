package models

type Region struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"`
}

type Constituency struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	AssemblyTerm int     `gorm:"index:idx_constituency_lookup;not null" json:"assembly_term"`
	RegionID     uint    `gorm:"index:idx_constituency_lookup;not null" json:"region_id"`
	Region       *Region `gorm:"foreignKey:RegionID;constraint:OnDelete:RESTRICT" json:"region,omitempty"`
	District     *string `gorm:"size:64" json:"district"`
	Section      *string `gorm:"size:64" json:"section"`
}

// Jurisdiction assigns a constituency to a politician.
type Jurisdiction struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	PoliticianID   uint          `gorm:"index" json:"politician_id"`
	ConstituencyID uint          `gorm:"index" json:"constituency_id"`
	Constituency   *Constituency `gorm:"foreignKey:ConstituencyID" json:"constituency,omitempty"`
}
