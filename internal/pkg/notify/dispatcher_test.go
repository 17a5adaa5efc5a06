package notify

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsTasks(t *testing.T) {
	d := NewDispatcher(2, 10, time.Second)
	d.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		ok := d.Dispatch("count", func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
		require.True(t, ok)
	}

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
}

func TestDispatcher_FailuresDoNotStopWorkers(t *testing.T) {
	d := NewDispatcher(1, 10, time.Second)
	d.Start()

	var ran atomic.Int32
	d.Dispatch("fails", func(ctx context.Context) error { return errors.New("smtp down") })
	d.Dispatch("panics", func(ctx context.Context) error { panic("boom") })
	d.Dispatch("ok", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	require.NoError(t, d.Stop(context.Background()))
	assert.Equal(t, int32(1), ran.Load())
}

func TestDispatcher_TaskTimeout(t *testing.T) {
	d := NewDispatcher(1, 1, 10*time.Millisecond)
	d.Start()

	gotErr := make(chan error, 1)
	d.Dispatch("slow", func(ctx context.Context) error {
		<-ctx.Done()
		gotErr <- ctx.Err()
		return ctx.Err()
	})

	require.NoError(t, d.Stop(context.Background()))
	assert.ErrorIs(t, <-gotErr, context.DeadlineExceeded)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, 1, 0)

	assert.True(t, d.Dispatch("first", func(ctx context.Context) error { return nil }))
	assert.False(t, d.Dispatch("second", func(ctx context.Context) error { return nil }))

	d.Start()
	require.NoError(t, d.Stop(context.Background()))
}

func TestDispatcher_DropsAfterStop(t *testing.T) {
	d := NewDispatcher(1, 1, 0)
	d.Start()
	require.NoError(t, d.Stop(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	assert.False(t, d.Dispatch("late", func(ctx context.Context) error { return nil }))
}

func TestDispatcher_StopDeadline(t *testing.T) {
	d := NewDispatcher(1, 1, 0)
	d.Start()

	started := make(chan struct{})
	d.Dispatch("blocked", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
}
