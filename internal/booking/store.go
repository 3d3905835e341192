package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// SessionStore keeps the in-progress session per chat.
type SessionStore interface {
	// Get returns the active session for a chat, or nil if none exists.
	Get(ctx context.Context, chatID int64) (*Session, error)
	// Save upserts the session.
	Save(ctx context.Context, sess *Session) error
	// Delete discards the session. Deleting a missing session is not an error.
	Delete(ctx context.Context, chatID int64) error
}

// RedisSessionStore persists sessions as JSON with a TTL, so abandoned
// forms expire on their own.
type RedisSessionStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if client == nil {
		panic("booking: redis client required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisSessionStore{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("salonbot.internal.booking.sessions"),
	}
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("booking_session:%d", chatID)
}

func (s *RedisSessionStore) Get(ctx context.Context, chatID int64) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "booking.session_load")
	defer span.End()

	data, err := s.redis.Get(ctx, sessionKey(chatID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("booking: load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("booking: decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) Save(ctx context.Context, sess *Session) error {
	ctx, span := s.tracer.Start(ctx, "booking.session_save")
	defer span.End()

	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: encode session: %w", err)
	}
	if err := s.redis.Set(ctx, sessionKey(sess.ChatID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: persist session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, chatID int64) error {
	ctx, span := s.tracer.Start(ctx, "booking.session_delete")
	defer span.End()

	if err := s.redis.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("booking: delete session: %w", err)
	}
	return nil
}

// MemorySessionStore is a mutex-guarded map. It backs single-process
// deployments without Redis and keeps tests hermetic.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewMemorySessionStore creates an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[int64]*Session)}
}

func (s *MemorySessionStore) Get(_ context.Context, chatID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return nil, nil
	}
	cp := *sess
	cp.Services = append([]int(nil), sess.Services...)
	return &cp, nil
}

func (s *MemorySessionStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	cp.Services = append([]int(nil), sess.Services...)
	s.sessions[sess.ChatID] = &cp
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}
