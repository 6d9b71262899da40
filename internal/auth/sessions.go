package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRegistry records issued session tokens in Redis for operator
// visibility (who is logged in, from where). It is write-through bookkeeping:
// the gate never consults it, so verification stays a pure in-memory check.
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

type sessionRecord struct {
	UserID   int64     `json:"user_id"`
	Email    string    `json:"email"`
	IP       string    `json:"ip"`
	UA       string    `json:"ua"`
	IssuedAt time.Time `json:"issued_at"`
}

// NewSessionRegistry constructs a SessionRegistry. Entries expire with the
// session lifetime, so the registry never outlives the tokens it mirrors.
func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{client: client, ttl: ttl}
}

// Record stores the issued token's metadata under its token ID.
func (s *SessionRegistry) Record(ctx context.Context, jti string, userID int64, email, ip, ua string) error {
	data, err := json.Marshal(sessionRecord{
		UserID:   userID,
		Email:    email,
		IP:       ip,
		UA:       ua,
		IssuedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(jti), data, s.ttl).Err()
}

// Remove deletes a registry entry at logout.
func (s *SessionRegistry) Remove(ctx context.Context, jti string) error {
	if err := s.client.Del(ctx, s.key(jti)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Active reports whether a registry entry still exists.
func (s *SessionRegistry) Active(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SessionRegistry) key(jti string) string {
	return "session:" + jti
}
