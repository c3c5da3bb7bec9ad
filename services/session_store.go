package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side record behind a session token
type Session struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore persists sessions between requests
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionStore keeps sessions in process memory.
// Sessions are lost on restart and not shared between instances.
type MemorySessionStore struct {
	cache *cache.Cache
}

// NewMemorySessionStore creates an in-process store; expired entries are purged every cleanupInterval
func NewMemorySessionStore(cleanupInterval time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		cache: cache.New(cache.NoExpiration, cleanupInterval),
	}
}

func (s *MemorySessionStore) Save(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	stored := *session
	s.cache.Set(session.ID, &stored, ttl)
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	session := *v.(*Session)
	return &session, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// RedisSessionStore keeps sessions in Redis so every instance sees them
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore connects to the Redis server at url and verifies the connection
func NewRedisSessionStore(ctx context.Context, url string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionStoreWithClient(client), nil
}

// NewRedisSessionStoreWithClient wraps an existing client
func NewRedisSessionStoreWithClient(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "session:"}
}

func (s *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", session.ID)
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

var sessionStoreInstance SessionStore

// InitSessionStore selects the Redis store when redisURL is set, else the in-memory store
func InitSessionStore(ctx context.Context, redisURL string) (SessionStore, error) {
	if redisURL == "" {
		sessionStoreInstance = NewMemorySessionStore(10 * time.Minute)
		return sessionStoreInstance, nil
	}

	store, err := NewRedisSessionStore(ctx, redisURL)
	if err != nil {
		return nil, err
	}
	sessionStoreInstance = store
	return sessionStoreInstance, nil
}

// GetSessionStore returns the initialized session store
func GetSessionStore() SessionStore {
	return sessionStoreInstance
}

// SetSessionStore sets the session store instance (primarily for testing)
func SetSessionStore(store SessionStore) {
	sessionStoreInstance = store
}
