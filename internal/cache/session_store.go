package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurocare/triage-service/internal/engine"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when no live session exists for a token,
// either because it never existed or because its TTL expired.
var ErrSessionNotFound = errors.New("session not found in store")

// SessionStore parks in-flight engine sessions between answers. Completed
// sessions are deleted; abandoned ones expire with the TTL.
type SessionStore interface {
	Save(ctx context.Context, token string, state engine.SessionState, ttl time.Duration) error
	Get(ctx context.Context, token string) (*engine.SessionState, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionStore struct {
	client *redis.Client
	logger *slog.Logger
	prefix string
}

func NewRedisSessionStore(client *redis.Client, logger *slog.Logger) SessionStore {
	return &redisSessionStore{
		client: client,
		logger: logger,
		prefix: "triage:session:",
	}
}

func (r *redisSessionStore) key(token string) string {
	return r.prefix + token
}

func (r *redisSessionStore) Save(ctx context.Context, token string, state engine.SessionState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := r.client.Set(ctx, r.key(token), data, ttl).Err(); err != nil {
		r.logger.Error("Failed to save session state", "session_token", token, "error", err)
		return fmt.Errorf("failed to save session state: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Get(ctx context.Context, token string) (*engine.SessionState, error) {
	data, err := r.client.Get(ctx, r.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session state: %w", err)
	}

	var state engine.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return &state, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session state: %w", err)
	}
	return nil
}

// MemorySessionStore is an in-process implementation for tests. TTLs are
// checked lazily on Get.
type MemorySessionStore struct {
	entries map[string]memoryEntry
}

type memoryEntry struct {
	state     engine.SessionState
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]memoryEntry)}
}

func (m *MemorySessionStore) Save(_ context.Context, token string, state engine.SessionState, ttl time.Duration) error {
	expires := time.Time{}
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}
	m.entries[token] = memoryEntry{state: state, expiresAt: expires}
	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (*engine.SessionState, error) {
	entry, ok := m.entries[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(m.entries, token)
		return nil, ErrSessionNotFound
	}
	state := entry.state
	return &state, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	delete(m.entries, token)
	return nil
}
