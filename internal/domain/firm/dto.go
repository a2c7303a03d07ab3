package firm

import (
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
)

// MinBudgetOptions are the thresholds offered in the settings form; 0 disables
// the threshold.
var MinBudgetOptions = []int{0, 2000, 5000, 10000}

// UpdateSettingsRequest is a partial settings update. Nil fields are left
// unchanged; an empty service_states list clears the service area.
type UpdateSettingsRequest struct {
	FirmName          *string  `json:"firm_name" validate:"omitempty,min=2,max=255"`
	FirmSlug          *string  `json:"firm_slug" validate:"omitempty,slug,max=128"`
	NotificationEmail *string  `json:"notification_email" validate:"omitempty,email"`
	ServiceStates     []string `json:"service_states" validate:"omitempty,dive,us_state"`
	MinBudget         *int     `json:"min_budget" validate:"omitempty,min=0"`
}

type CreateFirmRequest struct {
	Name              string   `json:"firm_name" validate:"required,min=2,max=255"`
	Slug              string   `json:"firm_slug" validate:"required,slug,max=128"`
	Email             string   `json:"email" validate:"required,email"`
	NotificationEmail string   `json:"notification_email" validate:"omitempty,email"`
	ServiceStates     []string `json:"service_states" validate:"omitempty,dive,us_state"`
	MinBudget         int      `json:"min_budget" validate:"min=0"`
}

type SettingsResponse struct {
	ID                uuid.UUID `json:"id"`
	FirmName          string    `json:"firm_name"`
	FirmSlug          string    `json:"firm_slug"`
	Email             string    `json:"email"`
	NotificationEmail string    `json:"notification_email"`
	ServiceStates     []string  `json:"service_states"`
	MinBudget         int       `json:"min_budget"`
	MinBudgetOptions  []int     `json:"min_budget_options"`
	IntakeURL         string    `json:"intake_url"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toSettingsResponse(f *domain.Firm, intakeURL string) *SettingsResponse {
	states := f.ServiceStates
	if states == nil {
		states = []string{}
	}
	return &SettingsResponse{
		ID:                f.ID,
		FirmName:          f.Name,
		FirmSlug:          f.Slug,
		Email:             f.Email,
		NotificationEmail: f.NotificationEmail,
		ServiceStates:     states,
		MinBudget:         f.MinBudget,
		MinBudgetOptions:  MinBudgetOptions,
		IntakeURL:         intakeURL,
		UpdatedAt:         f.UpdatedAt,
	}
}
