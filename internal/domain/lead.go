package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tier is the scoring outcome assigned once when a lead is created.
type Tier string

const (
	TierHot         Tier = "hot"
	TierQualified   Tier = "qualified"
	TierUnqualified Tier = "unqualified"
)

var Tiers = []Tier{TierHot, TierQualified, TierUnqualified}

// ParseTier maps a stored score onto a tier.
func ParseTier(s string) (Tier, bool) {
	t := parseOption(s, Tiers)
	return t, IsKnown(t)
}

// LeadStatus is the operator-managed lifecycle tag.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusScheduled LeadStatus = "scheduled"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusNotFit    LeadStatus = "not_fit"
	LeadStatusClosed    LeadStatus = "closed"
)

var LeadStatuses = []LeadStatus{
	LeadStatusNew, LeadStatusContacted, LeadStatusScheduled,
	LeadStatusConverted, LeadStatusNotFit, LeadStatusClosed,
}

func ParseLeadStatus(s string) (LeadStatus, bool) {
	st := parseOption(s, LeadStatuses)
	return st, IsKnown(st)
}

// Lead is a persisted, scored intake record. Only Status and Notes change
// after creation.
type Lead struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirmID uuid.UUID `json:"firm_id" gorm:"type:uuid;not null;index:idx_leads_firm_created,priority:1"`

	CaseType                string  `json:"case_type" gorm:"type:varchar(64);not null"`
	State                   string  `json:"state" gorm:"type:varchar(64);not null"`
	Country                 *string `json:"country,omitempty" gorm:"type:varchar(128)"`
	ImmigrationStatus       string  `json:"immigration_status" gorm:"type:varchar(64);not null"`
	Timeline                string  `json:"timeline" gorm:"type:varchar(64);not null"`
	Budget                  string  `json:"budget" gorm:"type:varchar(64);not null"`
	PreviousAttorney        bool    `json:"previous_attorney" gorm:"not null;default:false"`
	PreviousAttorneyDetails *string `json:"previous_attorney_details,omitempty" gorm:"type:text"`
	CaseDetails             string  `json:"case_details" gorm:"type:text;not null"`

	ClientName       string `json:"client_name" gorm:"type:varchar(255);not null"`
	ClientEmail      string `json:"client_email" gorm:"type:varchar(255);not null"`
	ClientPhone      string `json:"client_phone" gorm:"type:varchar(32);not null"`
	PreferredContact string `json:"preferred_contact" gorm:"type:varchar(16);not null"`
	BestTime         string `json:"best_time" gorm:"type:varchar(32);not null"`

	Score  Tier       `json:"score" gorm:"type:varchar(16);not null;index"`
	Status LeadStatus `json:"status" gorm:"type:varchar(16);not null;default:'new'"`
	Notes  *string    `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"not null;index:idx_leads_firm_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func (l *Lead) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusNew
	}
	return nil
}

// NewLead flattens a completed draft into a lead for firmID.
func NewLead(d IntakeDraft, firmID uuid.UUID, score Tier, createdAt time.Time) *Lead {
	return &Lead{
		FirmID:                  firmID,
		CaseType:                d.CaseType,
		State:                   d.State,
		Country:                 optionalString(d.Country),
		ImmigrationStatus:       d.ImmigrationStatus,
		Timeline:                d.Timeline,
		Budget:                  d.Budget,
		PreviousAttorney:        d.PreviousAttorney,
		PreviousAttorneyDetails: optionalString(d.PreviousAttorneyDetails),
		CaseDetails:             d.CaseDetails,
		ClientName:              d.ClientName,
		ClientEmail:             d.ClientEmail,
		ClientPhone:             d.ClientPhone,
		PreferredContact:        d.PreferredContact,
		BestTime:                d.BestTime,
		Score:                   score,
		Status:                  LeadStatusNew,
		CreatedAt:               createdAt,
		UpdatedAt:               createdAt,
	}
}

// LeadUpdate is the operator-editable subset of a lead.
type LeadUpdate struct {
	Status *LeadStatus
	Notes  *string
}

func (u LeadUpdate) Empty() bool {
	return u.Status == nil && u.Notes == nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
