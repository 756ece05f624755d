package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type failingSweeper struct{}

func (failingSweeper) Sweep(context.Context) (int, error) { return 0, errors.New("boom") }

func TestHousekeepingCleanup(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	assert.NoError(t, f.deny.Revoke(ctx, "a", time.Minute))
	assert.NoError(t, f.deny.Revoke(ctx, "b", time.Hour))
	f.clock.Advance(2 * time.Minute)

	hk := NewHousekeepingService(slog.New(slog.NewTextHandler(io.Discard, nil)), 0, failingSweeper{}, f.deny)
	assert.Equal(t, 10*time.Minute, hk.Interval)
	assert.Equal(t, 1, hk.cleanup(ctx))
	assert.Equal(t, 1, f.deny.Len())
}

func TestHousekeepingStartStop(t *testing.T) {
	t.Parallel()

	hk := NewHousekeepingService(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Millisecond)
	hk.Start()
	time.Sleep(5 * time.Millisecond)
	hk.Stop()
}
