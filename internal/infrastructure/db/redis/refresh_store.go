package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/opencity/tender-marketplace/internal/core/domain"
)

// RefreshTokenStore keeps single-use refresh tokens in Redis.
// Key format: refresh:<token> → user id, expiring with the refresh TTL.
type RefreshTokenStore struct {
	client *redis.Client
}

// NewRefreshTokenStore creates a RefreshTokenStore wrapping the given client.
func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save binds a refresh token to a user for ttl.
func (s *RefreshTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(token), userID, ttl).Err()
}

// Consume atomically fetches and deletes the token, making every refresh
// token single-use. An unknown or already consumed token reports invalid
// credentials.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return userID, nil
}

func (s *RefreshTokenStore) key(token string) string {
	return "refresh:" + token
}
