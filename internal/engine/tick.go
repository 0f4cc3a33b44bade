// Package engine provides the tick-based simulation loop and the systems
// that run inside each tick.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/mini-market/internal/config"
)

// cadenceEpsilon absorbs float drift when comparing elapsed time against a
// cadence boundary.
const cadenceEpsilon = 1e-9

// cadence fires fn whenever simulated time passes the next boundary.
type cadence struct {
	every float64
	next  float64
	fn    func(tick uint64, elapsed float64)
}

// Engine drives the simulation forward. Each tick advances simulated time
// by Delta; Interval is the real time between ticks.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Elapsed  float64       // Simulated seconds since start
	Delta    float64       // Simulated seconds per tick
	Interval time.Duration // Real time between ticks, 0 = as fast as possible

	// OnTick runs every tick with the tick number, elapsed time and delta.
	OnTick func(tick uint64, elapsed, dt float64)

	cadences []*cadence
}

// NewEngine creates an engine from the clock settings.
func NewEngine(clock config.Clock) *Engine {
	return &Engine{
		Delta:    clock.TickDelta,
		Interval: time.Duration(clock.TickIntervalMS) * time.Millisecond,
	}
}

// Every registers fn to run each time another `seconds` of simulated time
// has elapsed. Cadences run after OnTick, in registration order.
func (e *Engine) Every(seconds float64, fn func(tick uint64, elapsed float64)) {
	e.cadences = append(e.cadences, &cadence{every: seconds, next: e.Elapsed + seconds, fn: fn})
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++
	// Derived from the tick count so repeated additions cannot drift.
	e.Elapsed = float64(e.Tick) * e.Delta

	if e.OnTick != nil {
		e.OnTick(e.Tick, e.Elapsed, e.Delta)
	}

	for _, c := range e.cadences {
		if e.Elapsed+cadenceEpsilon >= c.next {
			c.fn(e.Tick, e.Elapsed)
			for c.next <= e.Elapsed+cadenceEpsilon {
				c.next += c.every
			}
		}
	}
}

// Run steps the engine until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("simulation engine started", "tick", e.Tick, "delta", e.Delta, "interval", e.Interval)

	if e.Interval <= 0 {
		for ctx.Err() == nil {
			e.Step()
		}
	} else {
		ticker := time.NewTicker(e.Interval)
		defer ticker.Stop()
	loop:
		for {
			select {
			case <-ctx.Done():
				break loop
			case <-ticker.C:
				e.Step()
			}
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick, "elapsed", SimTime(e.Elapsed))
}

// RunFor steps the engine n times without sleeping.
func (e *Engine) RunFor(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// SimTime formats simulated seconds as a duration string.
func SimTime(elapsed float64) string {
	return time.Duration(elapsed * float64(time.Second)).Round(100 * time.Millisecond).String()
}
