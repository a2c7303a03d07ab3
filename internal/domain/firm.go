package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Firm is a law firm receiving leads through its intake link.
type Firm struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name              string    `json:"firm_name" gorm:"type:varchar(255);not null"`
	Slug              string    `json:"firm_slug" gorm:"type:varchar(128);not null;uniqueIndex"`
	Email             string    `json:"email" gorm:"type:varchar(255);not null"`
	NotificationEmail string    `json:"notification_email" gorm:"type:varchar(255)"`
	ServiceStates     []string  `json:"service_states" gorm:"serializer:json"`
	MinBudget         int       `json:"min_budget" gorm:"not null;default:0"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Firm) TableName() string {
	return "firms"
}

func (f *Firm) BeforeCreate(_ *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Config snapshots the firm's scoring configuration.
func (f *Firm) Config() FirmConfig {
	return FirmConfig{
		ServiceStates: NewStateSet(f.ServiceStates...),
		MinBudget:     f.MinBudget,
	}
}

// FirmConfig is the read-only input to scoring.
type FirmConfig struct {
	ServiceStates StateSet
	MinBudget     int
}

// StateSet is a set of jurisdiction names, matched exactly.
type StateSet map[string]struct{}

func NewStateSet(states ...string) StateSet {
	set := make(StateSet, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return set
}

func (s StateSet) Contains(state string) bool {
	_, ok := s[state]
	return ok
}
