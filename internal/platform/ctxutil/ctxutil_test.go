// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangashelf/internal/platform/ctxutil"
	"github.com/taibuivan/mangashelf/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies the default fallback and per-request override.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Actor verifies that claims surface as the acting principal.
*/
func TestContext_Actor(t *testing.T) {
	ctx := context.Background()

	_, ok := ctxutil.GetActor(ctx)
	assert.False(t, ok)

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "user-123", Username: "alice", Role: "editor"})

	actor, ok := ctxutil.GetActor(ctx)
	assert.True(t, ok)
	assert.Equal(t, "user-123", actor.UserID)
	assert.Equal(t, "alice", actor.Username)
	assert.Equal(t, sec.RoleEditor, actor.Role)
}
