package lead

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
	"intakeflow/internal/domain/scoring"
	"intakeflow/internal/logger"
	"intakeflow/internal/metrics"
	"intakeflow/internal/notify"
	"intakeflow/internal/pkg/validator"
)

// FirmLookup resolves a firm by slug or id.
type FirmLookup interface {
	GetByIdentifier(ctx context.Context, ident string) (*domain.Firm, error)
}

// HotLeadMailer emails a firm when a hot lead arrives.
type HotLeadMailer interface {
	SendHotLeadAlert(ctx context.Context, firm *domain.Firm, lead *domain.Lead) error
}

// Service coordinates lead submission and operator access to leads.
type Service struct {
	repo      *Repository
	firms     FirmLookup
	publisher notify.Publisher
	scoring   scoring.Options
	log       logger.Logger

	mailer  HotLeadMailer
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures optional collaborators.
type Option func(*Service)

func WithMailer(m HotLeadMailer) Option {
	return func(s *Service) { s.mailer = m }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo *Repository, firms FirmLookup, publisher notify.Publisher, scoringOpts scoring.Options, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		firms:     firms,
		publisher: publisher,
		scoring:   scoringOpts,
		log:       log.With("component", "lead"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit scores a finalized draft against the firm's current configuration
// and persists it as one lead. Once the lead is stored the submission has
// succeeded; notification and email failures after that point are logged.
func (s *Service) Submit(ctx context.Context, d domain.IntakeDraft, firmIdent string) (*domain.Lead, error) {
	firm, err := s.firms.GetByIdentifier(ctx, firmIdent)
	if err != nil {
		return nil, err
	}

	tier := scoring.Score(d, firm.Config(), s.scoring)
	lead := domain.NewLead(d, firm.ID, tier, s.now().UTC())
	if err := s.repo.Create(ctx, lead); err != nil {
		s.log.Error("lead create failed", "firm_id", firm.ID, "error", err)
		return nil, err
	}

	s.metrics.RecordLeadSubmitted(string(tier))
	s.log.Info("lead created", "lead_id", lead.ID, "firm_id", firm.ID, "score", tier)

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, notify.NewLeadCreated(lead)); err != nil {
			s.log.Warn("lead created notification failed", "lead_id", lead.ID, "error", err)
		}
	}
	if tier == domain.TierHot && s.mailer != nil {
		if err := s.mailer.SendHotLeadAlert(ctx, firm, lead); err != nil {
			s.log.Warn("hot lead email failed", "lead_id", lead.ID, "error", err)
		}
	}
	return lead, nil
}

func (s *Service) Get(ctx context.Context, firmID, id uuid.UUID) (*domain.Lead, error) {
	return s.repo.GetByID(ctx, firmID, id)
}

// List returns the firm's leads, most recent first.
func (s *Service) List(ctx context.Context, firmID uuid.UUID, f ListFilter) (*LeadListResponse, error) {
	leads, total, err := s.repo.ListByFirm(ctx, firmID, f)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []domain.Lead{}
	}
	return &LeadListResponse{Leads: leads, Total: total, Limit: f.limit(), Offset: f.Offset}, nil
}

// ListSince returns every lead created at or after since.
func (s *Service) ListSince(ctx context.Context, firmID uuid.UUID, since time.Time) ([]domain.Lead, error) {
	return s.repo.ListSince(ctx, firmID, since)
}

// Update changes a lead's status and/or notes. Score and answers are
// immutable.
func (s *Service) Update(ctx context.Context, firmID, id uuid.UUID, req UpdateLeadRequest) (*domain.Lead, error) {
	if errs := validator.Validate(&req); errs != nil {
		return nil, &domain.ValidationError{Fields: errs}
	}
	u := req.toUpdate()
	if u.Empty() {
		return nil, ErrEmptyUpdate
	}

	if err := s.repo.UpdateFields(ctx, firmID, id, u); err != nil {
		return nil, err
	}
	s.log.Info("lead updated", "lead_id", id, "firm_id", firmID)
	return s.repo.GetByID(ctx, firmID, id)
}
