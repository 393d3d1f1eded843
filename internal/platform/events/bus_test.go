// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/mangashelf/internal/platform/events"
)

type pinged struct{ N int }

func (pinged) EventName() string { return "test.pinged" }

type other struct{}

func (other) EventName() string { return "test.other" }

func TestBus_PublishOrderAndErrors(t *testing.T) {
	bus := events.NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))

	var calls []string
	events.Subscribe(bus, func(ctx context.Context, e pinged) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	events.Subscribe(bus, func(ctx context.Context, e pinged) error {
		calls = append(calls, "second")
		assert.Equal(t, 7, e.N)
		return nil
	})

	err := bus.Publish(context.Background(), pinged{N: 7})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := events.NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, bus.Publish(context.Background(), other{}))
}
