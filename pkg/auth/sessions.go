package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/taskhive/taskd/pkg/apperr"
)

// sessionKeyPrefix namespaces session keys in redis.
const sessionKeyPrefix = "session:"

// SessionStore maps hashed tokens to user identities.
type SessionStore interface {
	Set(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// Get resolves a token hash to a user ID. A missing or expired session
	// is Unauthorized.
	Get(ctx context.Context, tokenHash string) (string, error)
	Delete(ctx context.Context, tokenHash string) error
}

// Sessions issues, resolves, and revokes bearer tokens against a
// SessionStore.
type Sessions struct {
	store SessionStore
	ttl   time.Duration
}

// NewSessions creates a session manager. Sessions expire after ttl.
func NewSessions(store SessionStore, ttl time.Duration) *Sessions {
	return &Sessions{store: store, ttl: ttl}
}

// Issue creates a session for userID and returns the plaintext token.
func (s *Sessions) Issue(ctx context.Context, userID string) (string, error) {
	token, tokenHash, err := GenerateToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, tokenHash, userID, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// Resolve maps a bearer token to the user ID it was issued for.
func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	if err := ValidateTokenFormat(token); err != nil {
		return "", apperr.New(apperr.KindUnauthorized, "not authorized to access this route")
	}
	return s.store.Get(ctx, HashToken(token))
}

// Revoke deletes the session for token. Revoking an unknown token is a
// no-op.
func (s *Sessions) Revoke(ctx context.Context, token string) error {
	if err := ValidateTokenFormat(token); err != nil {
		return nil
	}
	return s.store.Delete(ctx, HashToken(token))
}

// RedisSessionStore keeps sessions in redis with native TTL expiry.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore connects to redis and verifies the connection.
func NewRedisSessionStore(redisURL string) (*RedisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSessionStore{client: client}, nil
}

// NewRedisSessionStoreWithClient wraps an existing client. Used by tests
// with miniredis.
func NewRedisSessionStoreWithClient(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Set(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+tokenHash, userID, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, tokenHash string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKeyPrefix+tokenHash).Result()
	if err == redis.Nil {
		return "", apperr.New(apperr.KindUnauthorized, "not authorized to access this route")
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("redis get failed: %w", err))
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, tokenHash string) error {
	return s.client.Del(ctx, sessionKeyPrefix+tokenHash).Err()
}

// Close releases the redis connection pool.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

// Client exposes the underlying client for health checks.
func (s *RedisSessionStore) Client() *redis.Client {
	return s.client
}

// MemorySessionStore keeps sessions in process memory. Unlike redis it has
// no native TTL, so expired entries are dropped on read and swept
// periodically.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	cron     *cron.Cron
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Set(ctx context.Context, tokenHash, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[tokenHash] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[tokenHash]
	if !ok || time.Now().After(session.expiresAt) {
		delete(s.sessions, tokenHash)
		return "", apperr.New(apperr.KindUnauthorized, "not authorized to access this route")
	}
	return session.userID, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenHash)
	return nil
}

// StartSweeper schedules periodic removal of expired sessions. The spec
// string uses cron syntax, e.g. "@every 5m".
func (s *MemorySessionStore) StartSweeper(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	c.Start()
	s.cron = c
	return nil
}

// StopSweeper halts the sweep schedule.
func (s *MemorySessionStore) StopSweeper() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *MemorySessionStore) sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, session := range s.sessions {
		if now.After(session.expiresAt) {
			delete(s.sessions, hash)
		}
	}
}
