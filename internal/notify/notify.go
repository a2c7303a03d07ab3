// Package notify delivers lead-created events from the submission path to
// live dashboard sessions. Delivery is at-most-once and per firm: a
// subscriber that falls behind loses events rather than slowing the
// publisher, and dashboards dedupe by lead id.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/domain"
)

const TypeLeadCreated = "lead.created"

// DefaultBuffer is the per-subscription channel capacity.
const DefaultBuffer = 64

// LeadCreated announces a newly persisted lead.
type LeadCreated struct {
	Type       string      `json:"type"`
	FirmID     uuid.UUID   `json:"firm_id"`
	Lead       domain.Lead `json:"lead"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func NewLeadCreated(l *domain.Lead) LeadCreated {
	return LeadCreated{
		Type:       TypeLeadCreated,
		FirmID:     l.FirmID,
		Lead:       *l,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev LeadCreated) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, firmID uuid.UUID) (Subscription, error)
}

// Stream is a notification backend.
type Stream interface {
	Publisher
	Subscriber
	Close() error
}

// Subscription receives events for one firm until closed. Close is
// idempotent and closes the Events channel.
type Subscription interface {
	Events() <-chan LeadCreated
	Close() error
}

// Options tune every backend.
type Options struct {
	// Buffer is the per-subscription capacity, DefaultBuffer when zero.
	Buffer int
	// OnDrop is called for each event discarded because a subscriber's
	// buffer was full.
	OnDrop func(firmID uuid.UUID)
}

func (o Options) buffer() int {
	if o.Buffer <= 0 {
		return DefaultBuffer
	}
	return o.Buffer
}

func (o Options) dropped(firmID uuid.UUID) {
	if o.OnDrop != nil {
		o.OnDrop(firmID)
	}
}

func encode(ev LeadCreated) ([]byte, error) {
	if ev.Type == "" {
		ev.Type = TypeLeadCreated
	}
	return json.Marshal(ev)
}

func decode(payload []byte) (LeadCreated, error) {
	var ev LeadCreated
	if err := json.Unmarshal(payload, &ev); err != nil {
		return LeadCreated{}, fmt.Errorf("decode lead event: %w", err)
	}
	if ev.Type != TypeLeadCreated {
		return LeadCreated{}, fmt.Errorf("unexpected event type %q", ev.Type)
	}
	return ev, nil
}

// offer hands ev to ch without blocking and reports whether it was accepted.
func offer(ch chan<- LeadCreated, ev LeadCreated) bool {
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
