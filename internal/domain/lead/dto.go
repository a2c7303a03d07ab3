package lead

import (
	"intakeflow/internal/domain"
)

// ListFilter narrows the operator lead listing. Zero values mean no filter.
type ListFilter struct {
	Status *domain.LeadStatus
	Score  *domain.Tier
	Limit  int
	Offset int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

func (f ListFilter) limit() int {
	switch {
	case f.Limit <= 0:
		return defaultListLimit
	case f.Limit > maxListLimit:
		return maxListLimit
	default:
		return f.Limit
	}
}

// UpdateLeadRequest represents an operator edit of status or notes
type UpdateLeadRequest struct {
	Status *string `json:"status" validate:"omitempty,lead_status"`
	Notes  *string `json:"notes" validate:"omitempty,max=5000"`
}

func (r UpdateLeadRequest) toUpdate() domain.LeadUpdate {
	var u domain.LeadUpdate
	if r.Status != nil {
		st, _ := domain.ParseLeadStatus(*r.Status)
		u.Status = &st
	}
	u.Notes = r.Notes
	return u
}

// LeadListResponse represents a paginated, most-recent-first listing
type LeadListResponse struct {
	Leads  []domain.Lead `json:"leads"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}
