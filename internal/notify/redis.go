package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"intakeflow/internal/domain"
	"intakeflow/internal/logger"
)

// Channel is the Redis pub/sub channel carrying a firm's lead events.
func Channel(firmID uuid.UUID) string {
	return "leads:created:" + firmID.String()
}

// ConnectRedis parses redisURL and checks the server is reachable.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed connecting to redis: %w", err)
	}
	return client, nil
}

// RedisStream fans events out through Redis pub/sub so every API instance
// sees every firm's submissions.
type RedisStream struct {
	client *redis.Client
	opts   Options
	log    logger.Logger
}

func NewRedisStream(client *redis.Client, opts Options, log logger.Logger) *RedisStream {
	return &RedisStream{client: client, opts: opts, log: log.With("component", "notify.redis")}
}

func (s *RedisStream) Publish(ctx context.Context, ev LeadCreated) error {
	payload, err := encode(ev)
	if err != nil {
		return &domain.NotificationError{Op: "publish", Err: err}
	}
	if err := s.client.Publish(ctx, Channel(ev.FirmID), payload).Err(); err != nil {
		return &domain.NotificationError{Op: "publish", Err: err}
	}
	return nil
}

func (s *RedisStream) Subscribe(ctx context.Context, firmID uuid.UUID) (Subscription, error) {
	ps := s.client.Subscribe(ctx, Channel(firmID))
	// wait for the subscribe confirmation so no event published after
	// Subscribe returns can be missed
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, &domain.NotificationError{Op: "subscribe", Err: err}
	}

	sub := &redisSub{
		ps:     ps,
		events: make(chan LeadCreated, s.opts.buffer()),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go sub.run(firmID, s.opts, s.log)
	return sub, nil
}

// Close closes the underlying client.
func (s *RedisStream) Close() error {
	return s.client.Close()
}

type redisSub struct {
	ps     *redis.PubSub
	events chan LeadCreated
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	err    error
}

func (r *redisSub) Events() <-chan LeadCreated { return r.events }

func (r *redisSub) run(firmID uuid.UUID, opts Options, log logger.Logger) {
	defer close(r.done)
	defer close(r.events)

	msgs := r.ps.Channel()
	for {
		select {
		case <-r.stop:
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			ev, err := decode([]byte(msg.Payload))
			if err != nil {
				log.Warn("dropping malformed lead event", "channel", msg.Channel, "error", err)
				continue
			}
			if !offer(r.events, ev) {
				opts.dropped(firmID)
			}
		}
	}
}

func (r *redisSub) Close() error {
	r.once.Do(func() {
		close(r.stop)
		r.err = r.ps.Close()
		<-r.done
	})
	return r.err
}
