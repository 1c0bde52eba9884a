package auth

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revocationKeyPrefix = "session:revoked:"

// RevocationChecker reports whether a session token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// SessionRevoker denylists session token ids in Redis until their natural
// expiry, so logout invalidates a cookie before the JWT runs out.
type SessionRevoker struct {
	client *redis.Client
}

// NewSessionRevoker builds a Redis-backed revoker.
func NewSessionRevoker(client *redis.Client) *SessionRevoker {
	return &SessionRevoker{client: client}
}

// Revoke denylists the token id until the given expiry.
func (r *SessionRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if r == nil || r.client == nil {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revocationKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token id is denylisted. Redis being
// unreachable fails closed for revocation checks.
func (r *SessionRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.client == nil {
		return false, nil
	}
	_, err := r.client.Get(ctx, revocationKeyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
