// Package loop decouples the fixed simulation tick from the display frame rate.
// The Driver accumulates real time, runs whole ticks on a Simulation and hands
// back a state blended between the last two ticks for drawing.
package loop

import (
	"errors"
	"log"
	"time"

	"github.com/automoto/p2pong/shared/pong"
)

const (
	// TickDuration is one simulation tick at pong.TicksPerSecond.
	TickDuration = time.Second / pong.TicksPerSecond
	// MaxFrameDelta caps the real time credited for a single display frame.
	MaxFrameDelta = 250 * time.Millisecond
	// DefaultSlowdown stretches ticks while this peer runs ahead of the other.
	DefaultSlowdown = 1.1
)

// ErrStall is returned by Simulation.Tick when the tick cannot run yet. The
// driver retries it on a later frame.
var ErrStall = errors.New("loop: simulation stalled")

// Simulation is anything the driver can tick.
type Simulation interface {
	Tick() error
	State() pong.Game
	FramesAhead() int
}

type Driver struct {
	Tick     time.Duration
	Slowdown float64

	now         func() time.Time
	last        time.Time
	accumulator time.Duration
	previous    pong.Game
	hasPrevious bool
	stalling    bool
	stalls      int
}

// NewDriver returns a driver reading time from now, or from time.Now when nil.
func NewDriver(now func() time.Time) *Driver {
	if now == nil {
		now = time.Now
	}
	return &Driver{
		Tick:     TickDuration,
		Slowdown: DefaultSlowdown,
		now:      now,
	}
}

// Frame runs every tick that fits into the time since the previous call and
// returns the state to draw.
func (d *Driver) Frame(sim Simulation) (pong.Game, error) {
	now := d.now()
	if d.last.IsZero() {
		d.last = now
		return sim.State(), nil
	}
	delta := now.Sub(d.last)
	d.last = now
	d.accumulator += min(max(delta, 0), MaxFrameDelta)

	for {
		tick := d.tickFor(sim)
		if d.accumulator < tick {
			break
		}
		before := sim.State()
		if err := sim.Tick(); err != nil {
			if !errors.Is(err, ErrStall) {
				return sim.State(), err
			}
			d.stall(before, err)
			// keep at most one tick so the retry happens next frame without a burst
			d.accumulator = min(d.accumulator, tick)
			break
		}
		d.stalling = false
		d.previous = before
		d.hasPrevious = true
		d.accumulator -= tick
	}

	current := sim.State()
	if !d.hasPrevious {
		return current, nil
	}
	return current.Blend(d.previous, d.Alpha(sim)), nil
}

// Alpha is the fraction of the next tick already accumulated, in [0, 1].
func (d *Driver) Alpha(sim Simulation) float32 {
	a := float32(d.accumulator.Seconds() / d.tickFor(sim).Seconds())
	return min(max(a, 0), 1)
}

// Accumulated is the real time not yet consumed by a tick.
func (d *Driver) Accumulated() time.Duration {
	return d.accumulator
}

// Stalls counts ticks skipped because the simulation stalled.
func (d *Driver) Stalls() int {
	return d.stalls
}

func (d *Driver) tickFor(sim Simulation) time.Duration {
	if d.Slowdown > 1 && sim.FramesAhead() > 0 {
		return time.Duration(float64(d.Tick) * d.Slowdown)
	}
	return d.Tick
}

func (d *Driver) stall(at pong.Game, err error) {
	d.stalls++
	if !d.stalling {
		log.Printf("[driver] stalled at frame %d: %v", at.Frame, err)
	}
	d.stalling = true
}
