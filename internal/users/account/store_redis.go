// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

// RedisTokenStore implements [TokenStore] using Redis key TTLs.
type RedisTokenStore struct {
	client redis.UniversalClient
}

// NewRedisTokenStore creates a Redis-backed verification token store.
func NewRedisTokenStore(client redis.UniversalClient) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

// Only the hash of a token is used as the key.
func tokenKey(token string) string {
	return constants.RedisPrefixVerifyToken + sec.HashToken(token)
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (store *RedisTokenStore) Set(context context.Context, token, userID string, ttl time.Duration) error {
	if err := store.client.Set(context, tokenKey(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_set_failed: %w", err)
	}
	return nil
}

/*
Take resolves and consumes a token with GETDEL, so a token can be redeemed
once even under concurrent requests.

Returns:
  - string: UserID
  - error: apperr.NotFound when the token is unknown or expired
*/
func (store *RedisTokenStore) Take(context context.Context, token string) (string, error) {
	userID, err := store.client.GetDel(context, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Verification token")
		}
		return "", fmt.Errorf("redis_verify_token_take_failed: %w", err)
	}
	return userID, nil
}
