package intake

import (
	"context"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
)

// FirmLookup resolves the firm an intake link points at.
type FirmLookup interface {
	GetByIdentifier(ctx context.Context, ident string) (*domain.Firm, error)
}

// Submitter scores and persists a finalized draft.
type Submitter interface {
	Submit(ctx context.Context, d domain.IntakeDraft, firmIdent string) (*domain.Lead, error)
}

// Service drives intake sessions on behalf of HTTP handlers.
type Service struct {
	store     *Store
	firms     FirmLookup
	submitter Submitter
	log       logger.Logger
}

func NewService(store *Store, firms FirmLookup, submitter Submitter, log logger.Logger) *Service {
	return &Service{
		store:     store,
		firms:     firms,
		submitter: submitter,
		log:       log.With("component", "intake"),
	}
}

// Start opens a session for the firm behind slug.
func (s *Service) Start(ctx context.Context, slug string) (View, error) {
	if _, err := s.firms.GetByIdentifier(ctx, slug); err != nil {
		return View{}, err
	}
	v := s.store.Create(slug)
	s.log.Debug("intake session started", "session_id", v.ID, "firm_slug", slug)
	return v, nil
}

func (s *Service) Get(id string) (View, error) {
	return s.store.Get(id)
}

func (s *Service) Update(id string, patch domain.DraftPatch) (View, error) {
	return s.store.Do(id, func(w *Wizard) error {
		return w.Update(patch)
	})
}

func (s *Service) Advance(id string) (View, error) {
	return s.store.Do(id, func(w *Wizard) error {
		w.Advance()
		return nil
	})
}

func (s *Service) Retreat(id string) (View, error) {
	return s.store.Do(id, func(w *Wizard) error {
		w.Retreat()
		return nil
	})
}

// Submit finalizes the session's draft and persists it as a lead.
func (s *Service) Submit(ctx context.Context, id string) (View, error) {
	v, err := s.store.Submit(ctx, id, func(ctx context.Context, slug string, d domain.IntakeDraft) (*domain.Lead, error) {
		return s.submitter.Submit(ctx, d, slug)
	})
	if err != nil {
		s.log.Warn("intake submit failed", "session_id", id, "error", err)
		return v, err
	}
	s.log.Info("intake submitted", "session_id", id, "lead_id", v.LeadID, "score", v.Score)
	return v, nil
}
