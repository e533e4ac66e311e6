package models

import (
	"time"
)

type Politician struct {
	ID                          uint                `gorm:"primaryKey" json:"id"`
	Name                        string              `gorm:"size:64;index;not null" json:"name"`
	AssemblyTerm                int                 `gorm:"index;not null" json:"assembly_term"`
	ProfileURL                  *string             `gorm:"size:512" json:"profile_url"`
	PoliticalParty              string              `gorm:"size:64;index;not null" json:"political_party"`
	ElectedCount                int                 `json:"elected_count"`
	TotalPromiseCount           *int                `json:"total_promise_count"`
	CompletedPromiseCount       *int                `json:"completed_promise_count"`
	InProgressPromiseCount      *int                `json:"in_progress_promise_count"`
	PendingPromiseCount         *int                `json:"pending_promise_count"`
	DiscardedPromiseCount       *int                `json:"discarded_promise_count"`
	OtherPromiseCount           *int                `json:"other_promise_count"`
	ResolveRequiredPromiseCount *int                `json:"resolve_required_promise_count"`
	ResolvedPromiseCount        *int                `json:"resolved_promise_count"`
	TotalRequiredFunds          *int64              `json:"total_required_funds"`
	TotalSecuredFunds           *int64              `json:"total_secured_funds"`
	TotalExecutedFunds          *int64              `json:"total_executed_funds"`
	PromiseCountDetail          *PromiseCountDetail `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE" json:"promise_count_detail,omitempty"`
	Committees                  []Committee         `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE" json:"committees,omitempty"`
	Jurisdictions               []Jurisdiction      `gorm:"foreignKey:PoliticianID;constraint:OnDelete:CASCADE" json:"jurisdictions,omitempty"`
	CreatedAt                   time.Time           `json:"created_at"`
	UpdatedAt                   time.Time           `json:"updated_at"`
}

// PromiseExecutionRate is completed/total as a percentage, nil when the total
// is unknown or zero.
func (p *Politician) PromiseExecutionRate() *float64 {
	if p.TotalPromiseCount == nil || *p.TotalPromiseCount == 0 || p.CompletedPromiseCount == nil {
		return nil
	}
	rate := float64(*p.CompletedPromiseCount) / float64(*p.TotalPromiseCount) * 100
	return &rate
}

type PromiseCountDetail struct {
	ID                                   uint `gorm:"primaryKey" json:"id"`
	PoliticianID                         uint `gorm:"uniqueIndex" json:"politician_id"`
	CompletedNationalPromiseCount        *int `json:"completed_national_promise_count"`
	TotalNationalPromiseCount            *int `json:"total_national_promise_count"`
	CompletedLocalPromiseCount           *int `json:"completed_local_promise_count"`
	TotalLocalPromiseCount               *int `json:"total_local_promise_count"`
	CompletedLegislativePromiseCount     *int `json:"completed_legislative_promise_count"`
	TotalLegislativePromiseCount         *int `json:"total_legislative_promise_count"`
	CompletedFinancialPromiseCount       *int `json:"completed_financial_promise_count"`
	TotalFinancialPromiseCount           *int `json:"total_financial_promise_count"`
	CompletedInTermPromiseCount          *int `json:"completed_in_term_promise_count"`
	TotalInTermPromiseCount              *int `json:"total_in_term_promise_count"`
	CompletedAfterTermPromiseCount       *int `json:"completed_after_term_promise_count"`
	TotalAfterTermPromiseCount           *int `json:"total_after_term_promise_count"`
	CompletedOngoingBusinessPromiseCount *int `json:"completed_ongoing_business_promise_count"`
	TotalOngoingBusinessPromiseCount     *int `json:"total_ongoing_business_promise_count"`
	CompletedNewBusinessPromiseCount     *int `json:"completed_new_business_promise_count"`
	TotalNewBusinessPromiseCount         *int `json:"total_new_business_promise_count"`
}

type Committee struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	PoliticianID uint   `gorm:"index" json:"politician_id"`
	IsMain       bool   `json:"is_main"`
	Name         string `gorm:"size:128;not null" json:"name"`
}
