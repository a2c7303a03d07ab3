package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/logger"
	"intakeflow/internal/metrics"
	"intakeflow/internal/notify"
)

// Service builds stats snapshots and live dashboard sessions.
type Service struct {
	leads   LeadSource
	stream  notify.Subscriber
	loc     *time.Location
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(leads LeadSource, stream notify.Subscriber, loc *time.Location, m *metrics.Metrics, log logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		leads:   leads,
		stream:  stream,
		loc:     loc,
		log:     log.With("component", "dashboard"),
		metrics: m,
		now:     time.Now,
	}
}

// Stats counts the firm's leads for the current month with a full scan.
func (s *Service) Stats(ctx context.Context, firmID uuid.UUID) (RollingStats, error) {
	now := s.now()
	leads, err := s.leads.ListSince(ctx, firmID, MonthStart(now, s.loc))
	if err != nil {
		return RollingStats{}, err
	}
	agg := NewAggregator(s.loc)
	agg.Seed(leads, now)
	return agg.Snapshot(), nil
}

// NewSession returns an unstarted session for firmID.
func (s *Service) NewSession(firmID uuid.UUID) *Session {
	return &Session{
		firmID:  firmID,
		leads:   s.leads,
		stream:  s.stream,
		agg:     NewAggregator(s.loc),
		log:     s.log.With("firm_id", firmID),
		metrics: s.metrics,
		now:     s.now,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
	}
}
