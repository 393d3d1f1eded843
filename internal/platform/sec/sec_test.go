// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

/*
TestTokenService_RoundTrip signs and verifies an access token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := sec.NewTokenServiceFromKey(key, "test-issuer")

	token, err := service.GenerateAccessToken("user-1", "alice", string(sec.RoleEditor), time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "test-issuer", claims.Issuer)

	actor := claims.Actor()
	assert.Equal(t, sec.RoleEditor, actor.Role)
	assert.True(t, actor.CanManageContent())
}

/*
TestTokenService_Expired rejects a token whose lifetime already elapsed.
*/
func TestTokenService_Expired(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := sec.NewTokenServiceFromKey(key, "test-issuer")
	token, err := service.GenerateAccessToken("user-1", "alice", "member", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleEditor))
	assert.True(t, sec.RoleEditor.AtLeast(sec.RoleEditor))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleEditor))
	assert.False(t, sec.UserRole("ghost").IsValid())
}

func TestActor_Owns(t *testing.T) {
	actor := sec.Actor{UserID: "u1"}
	assert.True(t, actor.Owns("u1"))
	assert.False(t, actor.Owns("u2"))
	assert.False(t, sec.Actor{}.Owns(""))
}

func TestPasswordAndTokenHashing(t *testing.T) {
	hash, err := sec.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, sec.CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))

	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, sec.HashToken(token), sec.HashToken(token))
	assert.Len(t, sec.HashToken(token), 64)
}
