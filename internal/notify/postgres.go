package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
)

// PGChannel is the LISTEN/NOTIFY channel shared by all firms; subscribers
// filter on the firm id in the payload.
const PGChannel = "lead_created"

// MaxPGPayload is the largest NOTIFY payload Postgres accepts, in bytes.
const MaxPGPayload = 7999

// loadTimeout bounds the lookup of a notified lead.
const loadTimeout = 5 * time.Second

// LeadLoader fetches the lead a notification refers to.
type LeadLoader interface {
	GetByID(ctx context.Context, firmID, id uuid.UUID) (*domain.Lead, error)
}

// pgRef is the NOTIFY payload. Free-text answers can push a full lead past
// the payload limit, so only the reference travels and subscribers load the
// row.
type pgRef struct {
	Type       string      `json:"type"`
	FirmID     uuid.UUID   `json:"firm_id"`
	LeadID     uuid.UUID   `json:"lead_id"`
	Score      domain.Tier `json:"score"`
	CreatedAt  time.Time   `json:"created_at"`
	OccurredAt time.Time   `json:"occurred_at"`
}

func encodeRef(ev LeadCreated) ([]byte, error) {
	return json.Marshal(pgRef{
		Type:       TypeLeadCreated,
		FirmID:     ev.FirmID,
		LeadID:     ev.Lead.ID,
		Score:      ev.Lead.Score,
		CreatedAt:  ev.Lead.CreatedAt,
		OccurredAt: ev.OccurredAt,
	})
}

func decodeRef(payload []byte) (pgRef, error) {
	var ref pgRef
	if err := json.Unmarshal(payload, &ref); err != nil {
		return pgRef{}, fmt.Errorf("decode lead reference: %w", err)
	}
	if ref.Type != TypeLeadCreated {
		return pgRef{}, fmt.Errorf("unexpected event type %q", ref.Type)
	}
	return ref, nil
}

// PostgresStream uses LISTEN/NOTIFY on the application database, so no extra
// broker is needed when running several API instances against one Postgres.
type PostgresStream struct {
	pool  *pgxpool.Pool
	leads LeadLoader
	opts  Options
	log   logger.Logger
}

func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed creating pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed connecting to postgres: %w", err)
	}
	return pool, nil
}

func NewPostgresStream(pool *pgxpool.Pool, leads LeadLoader, opts Options, log logger.Logger) *PostgresStream {
	return &PostgresStream{pool: pool, leads: leads, opts: opts, log: log.With("component", "notify.postgres")}
}

func (s *PostgresStream) Publish(ctx context.Context, ev LeadCreated) error {
	payload, err := encodeRef(ev)
	if err != nil {
		return &domain.NotificationError{Op: "publish", Err: err}
	}
	if _, err := s.pool.Exec(ctx, "SELECT pg_notify($1, $2)", PGChannel, string(payload)); err != nil {
		return &domain.NotificationError{Op: "publish", Err: err}
	}
	return nil
}

// Subscribe holds one pooled connection in LISTEN mode for the life of the
// subscription.
func (s *PostgresStream) Subscribe(ctx context.Context, firmID uuid.UUID) (Subscription, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, &domain.NotificationError{Op: "subscribe", Err: err}
	}
	if _, err := conn.Exec(ctx, "LISTEN "+PGChannel); err != nil {
		conn.Release()
		return nil, &domain.NotificationError{Op: "subscribe", Err: err}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sub := &pgSub{
		conn:   conn,
		events: make(chan LeadCreated, s.opts.buffer()),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go sub.run(runCtx, firmID, s.leads, s.opts, s.log)
	return sub, nil
}

// Close closes the pool.
func (s *PostgresStream) Close() error {
	s.pool.Close()
	return nil
}

type pgSub struct {
	conn   *pgxpool.Conn
	events chan LeadCreated
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (p *pgSub) Events() <-chan LeadCreated { return p.events }

func (p *pgSub) run(ctx context.Context, firmID uuid.UUID, leads LeadLoader, opts Options, log logger.Logger) {
	defer close(p.done)
	defer close(p.events)

	for {
		n, err := p.conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Error("listen connection lost", "firm_id", firmID, "error", err)
			}
			return
		}
		ref, err := decodeRef([]byte(n.Payload))
		if err != nil {
			log.Warn("dropping malformed lead event", "error", err)
			continue
		}
		if ref.FirmID != firmID {
			continue
		}
		ev, err := resolve(ctx, leads, ref)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("dropping unresolved lead event", "lead_id", ref.LeadID, "error", err)
			continue
		}
		if !offer(p.events, ev) {
			opts.dropped(firmID)
		}
	}
}

func resolve(ctx context.Context, leads LeadLoader, ref pgRef) (LeadCreated, error) {
	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	l, err := leads.GetByID(ctx, ref.FirmID, ref.LeadID)
	if err != nil {
		return LeadCreated{}, err
	}
	return LeadCreated{
		Type:       TypeLeadCreated,
		FirmID:     ref.FirmID,
		Lead:       *l,
		OccurredAt: ref.OccurredAt,
	}, nil
}

func (p *pgSub) Close() error {
	p.once.Do(func() {
		p.cancel()
		<-p.done
		// the connection goes back to the pool, so stop listening first
		_, _ = p.conn.Exec(context.Background(), "UNLISTEN *")
		p.conn.Release()
	})
	return nil
}
