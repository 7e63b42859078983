package msgame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

func TestLoopAdaptiveDT(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	work := []time.Duration{5 * time.Millisecond, 30 * time.Millisecond, 10 * time.Millisecond, 0}
	var dts []float64
	ticker := TickerFunc(func(dt float64) {
		dts = append(dts, dt)
		i := len(dts) - 1
		clock.now = clock.now.Add(work[i])
		if i == len(work)-1 {
			cancel()
		}
	})

	err := Loop{FPS: 50, Now: clock.Now, Sleep: clock.Sleep}.Run(ctx, ticker)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, dts, 4)

	assert.InDelta(t, 0.02, dts[0], 1e-9, "first tick gets one frame")
	assert.InDelta(t, 0.02, dts[1], 1e-9, "fast frame padded to the interval")
	assert.InDelta(t, 0.03, dts[2], 1e-9, "slow frame stretches the next step")
	assert.InDelta(t, 0.02, dts[3], 1e-9)

	require.Len(t, clock.slept, 3)
	assert.Equal(t, 15*time.Millisecond, clock.slept[0].Round(time.Microsecond))
	assert.Equal(t, 10*time.Millisecond, clock.slept[1].Round(time.Microsecond))
	assert.Equal(t, 20*time.Millisecond, clock.slept[2].Round(time.Microsecond))
}

func TestLoopStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ticks := 0
	err := Loop{}.Run(ctx, TickerFunc(func(float64) { ticks++ }))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, ticks)
}

func TestLoopSleepError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	err := Loop{FPS: 1}.Run(ctx, TickerFunc(func(float64) {}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
