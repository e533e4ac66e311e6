package politician

import (
	"github.com/Kyz7/wip/internal/area"
	"github.com/Kyz7/wip/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

func sanitizeInput(input string) string {
	return policy.Sanitize(input)
}

type BaseInfo struct {
	Name                        string  `json:"name" validate:"required,max=64"`
	AssemblyTerm                int     `json:"assembly_term" validate:"required,gte=1"`
	ProfileURL                  *string `json:"profile_url" validate:"omitempty,max=512"`
	PoliticalParty              string  `json:"political_party" validate:"required,max=64"`
	ElectedCount                int     `json:"elected_count" validate:"gte=0"`
	TotalPromiseCount           *int    `json:"total_promise_count" validate:"omitempty,gte=0"`
	CompletedPromiseCount       *int    `json:"completed_promise_count" validate:"omitempty,gte=0"`
	InProgressPromiseCount      *int    `json:"in_progress_promise_count" validate:"omitempty,gte=0"`
	PendingPromiseCount         *int    `json:"pending_promise_count" validate:"omitempty,gte=0"`
	DiscardedPromiseCount       *int    `json:"discarded_promise_count" validate:"omitempty,gte=0"`
	OtherPromiseCount           *int    `json:"other_promise_count" validate:"omitempty,gte=0"`
	ResolveRequiredPromiseCount *int    `json:"resolve_required_promise_count" validate:"omitempty,gte=0"`
	ResolvedPromiseCount        *int    `json:"resolved_promise_count" validate:"omitempty,gte=0"`
	TotalRequiredFunds          *int64  `json:"total_required_funds" validate:"omitempty,gte=0"`
	TotalSecuredFunds           *int64  `json:"total_secured_funds" validate:"omitempty,gte=0"`
	TotalExecutedFunds          *int64  `json:"total_executed_funds" validate:"omitempty,gte=0"`
}

type CommitteeInput struct {
	IsMain bool   `json:"is_main"`
	Name   string `json:"name" validate:"required,max=128"`
}

// Request is the body of a single create or update, and one element of a
// bulk import.
type Request struct {
	BaseInfo           BaseInfo                 `json:"base_info"`
	PromiseCountDetail models.PromiseCountDetail `json:"promise_count_detail"`
	Constituency       []area.ConstituencyInput `json:"constituency" validate:"required,min=1,dive"`
	Committee          []CommitteeInput         `json:"committee" validate:"omitempty,dive"`
}

func (b *BaseInfo) apply(p *models.Politician) {
	p.Name = sanitizeInput(b.Name)
	p.AssemblyTerm = b.AssemblyTerm
	p.ProfileURL = b.ProfileURL
	p.PoliticalParty = sanitizeInput(b.PoliticalParty)
	p.ElectedCount = b.ElectedCount
	p.TotalPromiseCount = b.TotalPromiseCount
	p.CompletedPromiseCount = b.CompletedPromiseCount
	p.InProgressPromiseCount = b.InProgressPromiseCount
	p.PendingPromiseCount = b.PendingPromiseCount
	p.DiscardedPromiseCount = b.DiscardedPromiseCount
	p.OtherPromiseCount = b.OtherPromiseCount
	p.ResolveRequiredPromiseCount = b.ResolveRequiredPromiseCount
	p.ResolvedPromiseCount = b.ResolvedPromiseCount
	p.TotalRequiredFunds = b.TotalRequiredFunds
	p.TotalSecuredFunds = b.TotalSecuredFunds
	p.TotalExecutedFunds = b.TotalExecutedFunds
}

func (r *Request) committees(politicianID uint) []models.Committee {
	out := make([]models.Committee, 0, len(r.Committee))
	for _, c := range r.Committee {
		out = append(out, models.Committee{
			PoliticianID: politicianID,
			IsMain:       c.IsMain,
			Name:         sanitizeInput(c.Name),
		})
	}
	return out
}

func (r *Request) promiseDetail(politicianID uint) models.PromiseCountDetail {
	d := r.PromiseCountDetail
	d.ID = 0
	d.PoliticianID = politicianID
	return d
}
