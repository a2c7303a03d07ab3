package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
)

var ErrStreamClosed = errors.New("notification stream closed")

// MemoryStream fans events out in-process. It serves single-instance
// deployments and tests.
type MemoryStream struct {
	opts Options

	mu     sync.RWMutex
	subs   map[uuid.UUID]map[*memorySub]struct{}
	closed bool
}

func NewMemoryStream(opts Options) *MemoryStream {
	return &MemoryStream{
		opts: opts,
		subs: make(map[uuid.UUID]map[*memorySub]struct{}),
	}
}

func (s *MemoryStream) Publish(_ context.Context, ev LeadCreated) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return &domain.NotificationError{Op: "publish", Err: ErrStreamClosed}
	}
	for sub := range s.subs[ev.FirmID] {
		if !sub.deliver(ev) {
			s.opts.dropped(ev.FirmID)
		}
	}
	return nil
}

func (s *MemoryStream) Subscribe(_ context.Context, firmID uuid.UUID) (Subscription, error) {
	sub := &memorySub{
		stream: s,
		firmID: firmID,
		events: make(chan LeadCreated, s.opts.buffer()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, &domain.NotificationError{Op: "subscribe", Err: ErrStreamClosed}
	}
	if s.subs[firmID] == nil {
		s.subs[firmID] = make(map[*memorySub]struct{})
	}
	s.subs[firmID][sub] = struct{}{}
	return sub, nil
}

// Close shuts every open subscription.
func (s *MemoryStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var all []*memorySub
	for _, set := range s.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	s.subs = make(map[uuid.UUID]map[*memorySub]struct{})
	s.mu.Unlock()

	for _, sub := range all {
		sub.shut()
	}
	return nil
}

// Subscribers reports the open subscriptions for firmID.
func (s *MemoryStream) Subscribers(firmID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[firmID])
}

func (s *MemoryStream) remove(sub *memorySub) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.subs[sub.firmID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(s.subs, sub.firmID)
		}
	}
}

type memorySub struct {
	stream *MemoryStream
	firmID uuid.UUID
	events chan LeadCreated

	mu     sync.Mutex
	closed bool
}

func (m *memorySub) Events() <-chan LeadCreated { return m.events }

func (m *memorySub) deliver(ev LeadCreated) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return true
	}
	return offer(m.events, ev)
}

func (m *memorySub) shut() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
}

func (m *memorySub) Close() error {
	m.stream.remove(m)
	m.shut()
	return nil
}
