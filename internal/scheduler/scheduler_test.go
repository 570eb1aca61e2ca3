package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksahdev/stockdeck/internal/common"
)

func TestIntervalJobFires(t *testing.T) {
	s, err := New(common.NewSilentLogger())
	require.NoError(t, err)
	defer s.Stop()

	var runs atomic.Int32
	err = s.NewIntervalJob("tick", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, 5*time.Millisecond, true)
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, time.Millisecond)
}

func TestJobPanicIsRecovered(t *testing.T) {
	s, err := New(common.NewSilentLogger())
	require.NoError(t, err)
	defer s.Stop()

	var after atomic.Int32
	require.NoError(t, s.NewIntervalJob("boom", func(ctx context.Context) error {
		panic("job exploded")
	}, 5*time.Millisecond, true))
	require.NoError(t, s.NewIntervalJob("survivor", func(ctx context.Context) error {
		after.Add(1)
		return nil
	}, 5*time.Millisecond, true))

	s.Start()
	assert.Eventually(t, func() bool { return after.Load() >= 2 }, time.Second, time.Millisecond,
		"a panicking job must not take the scheduler down")
}

func TestPauseStopsFiring(t *testing.T) {
	s, err := New(common.NewSilentLogger())
	require.NoError(t, err)
	defer s.Stop()

	var runs atomic.Int32
	require.NoError(t, s.NewIntervalJob("tick", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}, 5*time.Millisecond, false))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, time.Second, time.Millisecond)

	s.Pause()
	paused := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), paused+1, "at most one in-flight tick after pause")

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > paused+1 }, time.Second, time.Millisecond)
}
