package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
	"intakeflow/internal/metrics"
	"intakeflow/internal/notify"
)

const (
	EventSnapshot     = "snapshot"
	EventLeadCreated  = "lead_created"
	EventHotLeadAlert = "hot_lead_alert"
)

const (
	eventBuffer = 32
	recentLimit = 50
)

// Event is pushed to a connected operator.
type Event struct {
	Type  string        `json:"type"`
	Stats *RollingStats `json:"stats,omitempty"`
	Lead  *domain.Lead  `json:"lead,omitempty"`
}

// LeadSource lists a firm's leads created at or after since, newest first.
type LeadSource interface {
	ListSince(ctx context.Context, firmID uuid.UUID, since time.Time) ([]domain.Lead, error)
}

// Session is one operator's live view of a firm: the month's stats plus the
// most recent leads, kept current from the lead.created stream.
type Session struct {
	firmID  uuid.UUID
	leads   LeadSource
	stream  notify.Subscriber
	agg     *Aggregator
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	events chan Event
	done   chan struct{}
	once   sync.Once

	mu     sync.Mutex
	sub    notify.Subscription
	recent []domain.Lead
}

func (s *Session) FirmID() uuid.UUID { return s.firmID }

// Events is closed when Run returns.
func (s *Session) Events() <-chan Event { return s.events }

// Start subscribes, then seeds from the current month's leads. Subscribing
// first means a lead created in between is seen twice rather than missed;
// the aggregator drops the duplicate.
func (s *Session) Start(ctx context.Context) error {
	sub, err := s.stream.Subscribe(ctx, s.firmID)
	if err != nil {
		return &domain.NotificationError{Op: "subscribe", Err: err}
	}

	now := s.now()
	leads, err := s.leads.ListSince(ctx, s.firmID, MonthStart(now, s.agg.loc))
	if err != nil {
		_ = sub.Close()
		return err
	}
	s.agg.Seed(leads, now)

	s.mu.Lock()
	s.sub = sub
	if len(leads) > recentLimit {
		leads = leads[:recentLimit]
	}
	s.recent = leads
	s.mu.Unlock()

	s.metrics.DashboardSessionOpened()
	s.log.Info("dashboard session started", "leads", len(leads))

	stats := s.agg.Snapshot()
	s.emit(Event{Type: EventSnapshot, Stats: &stats})
	return nil
}

// Run dispatches stream events until ctx is cancelled, Close is called or the
// subscription ends. It must follow a successful Start.
func (s *Session) Run(ctx context.Context) {
	defer close(s.events)

	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()
	if sub == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case ev, ok := <-sub.Events():
			if !ok {
				s.log.Warn("lead stream closed")
				return
			}
			s.handle(ev)
		}
	}
}

func (s *Session) handle(ev notify.LeadCreated) {
	if ev.FirmID != s.firmID {
		return
	}
	lead := ev.Lead
	if !s.agg.Observe(lead) {
		s.log.Debug("lead event ignored", "lead_id", lead.ID)
		return
	}

	s.mu.Lock()
	s.recent = append([]domain.Lead{lead}, s.recent...)
	if len(s.recent) > recentLimit {
		s.recent = s.recent[:recentLimit]
	}
	s.mu.Unlock()

	stats := s.agg.Snapshot()
	s.emit(Event{Type: EventLeadCreated, Stats: &stats, Lead: &lead})
	if lead.Score == domain.TierHot {
		s.metrics.RecordHotLeadAlert()
		s.emit(Event{Type: EventHotLeadAlert, Lead: &lead})
	}
}

// emit never blocks the dispatch loop. Every lead_created carries the
// current stats, so a dropped event is corrected by the next one.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		s.log.Warn("dashboard event dropped", "type", ev.Type)
	}
}

func (s *Session) Snapshot() RollingStats {
	return s.agg.Snapshot()
}

// Recent returns up to the 50 newest leads, newest first.
func (s *Session) Recent() []domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Lead, len(s.recent))
	copy(out, s.recent)
	return out
}

// Close stops Run and releases the subscription. Safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		sub := s.sub
		s.mu.Unlock()
		if sub == nil {
			return
		}
		err = sub.Close()
		s.metrics.DashboardSessionClosed()
		s.log.Info("dashboard session closed")
	})
	return err
}
