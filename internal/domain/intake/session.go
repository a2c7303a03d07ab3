package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
)

// Session owns one wizard for one client. All access goes through the store,
// which holds the session lock so requests on the same session never
// interleave.
type Session struct {
	id        string
	firmSlug  string
	createdAt time.Time

	mu        sync.Mutex
	wizard    *Wizard
	touchedAt time.Time
	leadID    uuid.UUID
	score     domain.Tier
}

// View is a point-in-time copy of a session.
type View struct {
	ID        string             `json:"id"`
	FirmSlug  string             `json:"firm_slug"`
	Step      Step               `json:"step"`
	StepName  string             `json:"step_name"`
	Progress  int                `json:"progress"`
	Complete  bool               `json:"is_complete"`
	Submitted bool               `json:"submitted"`
	LeadID    *uuid.UUID         `json:"lead_id,omitempty"`
	Score     domain.Tier        `json:"score,omitempty"`
	StartedAt time.Time          `json:"started_at"`
	Draft     domain.IntakeDraft `json:"draft"`
}

func (s *Session) view() View {
	v := View{
		ID:        s.id,
		FirmSlug:  s.firmSlug,
		Step:      s.wizard.Step(),
		StepName:  s.wizard.Step().String(),
		Progress:  s.wizard.Progress(),
		Complete:  s.wizard.IsComplete(),
		StartedAt: s.createdAt,
		Draft:     s.wizard.Draft(),
	}
	if s.leadID != uuid.Nil {
		id := s.leadID
		v.Submitted = true
		v.LeadID = &id
		v.Score = s.score
	}
	return v
}

// Store keeps in-progress sessions in memory. Abandoned sessions are dropped
// by Sweep once idle for longer than the TTL.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *Store) Create(firmSlug string) View {
	now := s.now()
	sess := &Session{
		id:        uuid.NewString(),
		firmSlug:  firmSlug,
		createdAt: now,
		wizard:    NewWizard(),
		touchedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return sess.view()
}

func (s *Store) get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Get returns the current view of a session, submitted or not.
func (s *Store) Get(id string) (View, error) {
	sess, err := s.get(id)
	if err != nil {
		return View{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// Do runs fn against the session's wizard under the session lock. The view
// is returned even when fn fails so callers can show the retained state.
func (s *Store) Do(id string, fn func(w *Wizard) error) (View, error) {
	sess, err := s.get(id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.leadID != uuid.Nil {
		return sess.view(), ErrSessionClosed
	}
	sess.touchedAt = s.now()
	err = fn(sess.wizard)
	return sess.view(), err
}

// PersistFunc stores a finalized draft for the firm behind slug and returns
// the created lead.
type PersistFunc func(ctx context.Context, slug string, d domain.IntakeDraft) (*domain.Lead, error)

// Submit finalizes the draft and hands it to persist while holding the
// session lock. On success the session is closed against further edits; on
// failure the draft is left exactly as it was.
func (s *Store) Submit(ctx context.Context, id string, persist PersistFunc) (View, error) {
	sess, err := s.get(id)
	if err != nil {
		return View{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.leadID != uuid.Nil {
		return sess.view(), ErrSessionClosed
	}
	sess.touchedAt = s.now()

	final, err := sess.wizard.Finalize()
	if err != nil {
		return sess.view(), err
	}
	lead, err := persist(ctx, sess.firmSlug, final)
	if err != nil {
		return sess.view(), err
	}
	sess.leadID = lead.ID
	sess.score = lead.Score
	return sess.view(), nil
}

// Sweep removes sessions idle for longer than the TTL and reports how many
// were dropped.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.RLock()
	candidates := make(map[string]*Session, len(s.sessions))
	for id, sess := range s.sessions {
		candidates[id] = sess
	}
	s.mu.RUnlock()

	// A locked session is in use, so it is not idle.
	var idle []string
	for id, sess := range candidates {
		if !sess.mu.TryLock() {
			continue
		}
		if sess.touchedAt.Before(cutoff) {
			idle = append(idle, id)
		}
		sess.mu.Unlock()
	}
	if len(idle) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for _, id := range idle {
		if s.sessions[id] == candidates[id] {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

// RunSweeper sweeps every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(dropped int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
