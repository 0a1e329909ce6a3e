package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/medcareclinic/clinic-ai-assistant/pkg/logging"
)

var sessionTracer = otel.Tracer("clinic.internal.session")

// RedisStore keeps sessions in Redis so state survives a process restart.
// The idle timeout maps onto the key TTL; Redis drops stale sessions on its
// own. Per-session serialization is enforced with local keyed locks, which
// holds for a single assistant process owning its sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logging.Logger) *RedisStore {
	if client == nil {
		panic("session: redis client required")
	}
	if logger == nil {
		panic("session: logger required")
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*sync.Mutex),
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func (s *RedisStore) lockFor(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(*Session) error) error {
	ctx, span := sessionTracer.Start(ctx, "session.update")
	defer span.End()

	l := s.lockFor(sessionID)
	l.Lock()
	defer l.Unlock()

	sess, found, err := s.load(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !found {
		now := s.now()
		sess = Session{ID: sessionID, CreatedAt: now, LastActiveAt: now}
	}
	if err := fn(&sess); err != nil {
		return err
	}
	if err := s.save(ctx, sess); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Session, bool, error) {
	return s.load(ctx, sessionID)
}

func (s *RedisStore) Reset(ctx context.Context, sessionID string) error {
	return s.Update(ctx, sessionID, func(sess *Session) error {
		sess.Reset(s.now())
		return nil
	})
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (Session, bool, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Session{}, false, nil
		}
		return Session{}, false, fmt.Errorf("session: load %s: %w", sessionID, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("session: decode %s: %w", sessionID, err)
	}
	return sess, true, nil
}

func (s *RedisStore) save(ctx context.Context, sess Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: persist %s: %w", sess.ID, err)
	}
	return nil
}
