package firm

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
	"intakeflow/internal/pkg/validator"
)

type Service struct {
	repo          *Repository
	publicBaseURL string
	log           logger.Logger
}

// NewService builds the firm service. publicBaseURL prefixes intake links
// and may be empty, in which case links are root-relative.
func NewService(repo *Repository, publicBaseURL string, log logger.Logger) *Service {
	return &Service{
		repo:          repo,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log.With("component", "firm"),
	}
}

// IntakeURL is the public link clients open to start an intake.
func (s *Service) IntakeURL(slug string) string {
	return s.publicBaseURL + "/intake/" + slug
}

func (s *Service) GetByIdentifier(ctx context.Context, ident string) (*domain.Firm, error) {
	return s.repo.GetByIdentifier(ctx, ident)
}

func (s *Service) List(ctx context.Context) ([]domain.Firm, error) {
	return s.repo.List(ctx)
}

func (s *Service) Settings(ctx context.Context, firmID uuid.UUID) (*SettingsResponse, error) {
	f, err := s.repo.GetByID(ctx, firmID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(f, s.IntakeURL(f.Slug)), nil
}

func (s *Service) UpdateSettings(ctx context.Context, firmID uuid.UUID, req UpdateSettingsRequest) (*SettingsResponse, error) {
	if errs := validator.Validate(&req); errs != nil {
		return nil, &domain.ValidationError{Fields: errs}
	}

	f, err := s.repo.GetByID(ctx, firmID)
	if err != nil {
		return nil, err
	}

	if req.FirmName != nil {
		f.Name = strings.TrimSpace(*req.FirmName)
	}
	if req.FirmSlug != nil {
		f.Slug = *req.FirmSlug
	}
	if req.NotificationEmail != nil {
		f.NotificationEmail = strings.TrimSpace(*req.NotificationEmail)
	}
	if req.ServiceStates != nil {
		f.ServiceStates = dedupe(req.ServiceStates)
	}
	if req.MinBudget != nil {
		f.MinBudget = *req.MinBudget
	}

	if err := s.repo.SaveSettings(ctx, f); err != nil {
		return nil, err
	}
	s.log.Info("firm settings updated", "firm_id", f.ID, "service_states", len(f.ServiceStates), "min_budget", f.MinBudget)
	return toSettingsResponse(f, s.IntakeURL(f.Slug)), nil
}

func (s *Service) Create(ctx context.Context, req CreateFirmRequest) (*domain.Firm, error) {
	if errs := validator.Validate(&req); errs != nil {
		return nil, &domain.ValidationError{Fields: errs}
	}

	f := &domain.Firm{
		Name:              strings.TrimSpace(req.Name),
		Slug:              req.Slug,
		Email:             req.Email,
		NotificationEmail: req.NotificationEmail,
		ServiceStates:     dedupe(req.ServiceStates),
		MinBudget:         req.MinBudget,
	}
	if f.NotificationEmail == "" {
		f.NotificationEmail = f.Email
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.log.Info("firm created", "firm_id", f.ID, "firm_slug", f.Slug)
	return f, nil
}

func dedupe(states []string) []string {
	seen := make(map[string]struct{}, len(states))
	out := make([]string, 0, len(states))
	for _, st := range states {
		if _, ok := seen[st]; ok {
			continue
		}
		seen[st] = struct{}{}
		out = append(out, st)
	}
	return out
}
