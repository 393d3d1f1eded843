// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangashelf/internal/platform/apperr"
	"github.com/taibuivan/mangashelf/internal/platform/constants"
)

/*
RedisSessionStore implements [SessionStore] using Redis.

# Key layout

  - auth:session:<hash>          JSON session, expires with the refresh token
  - auth:user_sessions:<user id> set of the user's session hashes
*/
type RedisSessionStore struct {
	client redis.UniversalClient
}

// NewRedisSessionStore creates a Redis-backed session store.
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(tokenHash string) string { return constants.RedisPrefixSession + tokenHash }
func userKey(userID string) string       { return constants.RedisPrefixUserSession + userID }

// Create writes the session and indexes it under its user in one MULTI.
func (store *RedisSessionStore) Create(context context.Context, tokenHash string, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(tokenHash), payload, ttl)
		pipe.SAdd(context, userKey(session.UserID), tokenHash)
		pipe.Expire(context, userKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

// Take consumes the session with GETDEL.
func (store *RedisSessionStore) Take(context context.Context, tokenHash string) (*Session, error) {
	payload, err := store.client.GetDel(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_take_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	// The index entry is only bookkeeping; a stale member is skipped by RevokeOthers.
	_ = store.client.SRem(context, userKey(session.UserID), tokenHash).Err()
	return session, nil
}

// RevokeOthers deletes all sessions listed under the user except keepHash.
func (store *RedisSessionStore) RevokeOthers(context context.Context, userID, keepHash string) error {
	hashes, err := store.client.SMembers(context, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis_session_list_failed: %w", err)
	}

	_, err = store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		for _, hash := range hashes {
			if hash == keepHash {
				continue
			}
			pipe.Del(context, sessionKey(hash))
			pipe.SRem(context, userKey(userID), hash)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_revoke_failed: %w", err)
	}
	return nil
}
