package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository tracks refresh-token sessions so they can be revoked on
// logout and rotated on refresh. Access tokens stay stateless.
type SessionRepository interface {
	Store(ctx context.Context, userID, sessionID string, ttl time.Duration) error
	Valid(ctx context.Context, userID, sessionID string) (bool, error)
	Revoke(ctx context.Context, userID, sessionID string) error
}

type sessionRepository struct {
	client *redis.Client
}

// NewSessionRepository returns a Redis-backed implementation.
func NewSessionRepository(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(userID, sessionID string) string {
	return "refresh_session:" + userID + ":" + sessionID
}

func (r *sessionRepository) Store(ctx context.Context, userID, sessionID string, ttl time.Duration) error {
	return r.client.Set(ctx, sessionKey(userID, sessionID), "1", ttl).Err()
}

func (r *sessionRepository) Valid(ctx context.Context, userID, sessionID string) (bool, error) {
	err := r.client.Get(ctx, sessionKey(userID, sessionID)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, userID, sessionID string) error {
	return r.client.Del(ctx, sessionKey(userID, sessionID)).Err()
}
