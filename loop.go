package msgame

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Ticker advances something by one frame of dt seconds.
type Ticker interface {
	Tick(dt float64)
}

// TickerFunc adapts a function to Ticker.
type TickerFunc func(dt float64)

// Tick calls f.
func (f TickerFunc) Tick(dt float64) { f(dt) }

// Loop drives a Ticker on the calling goroutine at FPS ticks per second.
// The dt handed to a tick is the work time of the previous tick plus the
// time slept after it, so a slow frame lengthens the next step instead of
// being caught up with extra ticks. The first tick gets one frame interval.
//
// Now and Sleep default to the wall clock; tests replace them.
type Loop struct {
	FPS   float64
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	Log   *zap.Logger
}

// Run ticks t until ctx is done and returns the context error.
func (l Loop) Run(ctx context.Context, t Ticker) error {
	fps := l.FPS
	if fps <= 0 {
		fps = 60
	}
	now := l.Now
	if now == nil {
		now = time.Now
	}
	sleep := l.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}

	frame := 1 / fps
	dt := frame
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := now()
		t.Tick(dt)
		elapsed := now().Sub(start).Seconds()
		wait := max(0, frame-elapsed)
		if wait == 0 && elapsed > 2*frame {
			log.Debug("slow frame", zap.Float64("elapsed", elapsed), zap.Float64("frame", frame))
		}
		if wait > 0 {
			if err := sleep(ctx, time.Duration(wait*float64(time.Second))); err != nil {
				return err
			}
		}
		dt = elapsed + wait
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
