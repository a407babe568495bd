// Package playback advances the cycle clock in real time and walks the
// cycle in bulk for export.
package playback

import (
	"context"
	"sync"
	"time"

	"github.com/dr-richard-barker/LED-pattern-synth/internal/timeline"
)

const (
	MinSpeed     = 1
	MaxSpeed     = 1000
	DefaultSpeed = 100
)

// ClampSpeed pins a speed into [MinSpeed, MaxSpeed].
func ClampSpeed(speed int) int {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// Interval is the wall time of one simulated minute: 1s / (speed/10), so
// speed 100 ticks every 100ms.
func Interval(speed int) time.Duration {
	speed = ClampSpeed(speed)
	return time.Duration(float64(time.Second) / (float64(speed) / 10))
}

// Driver ticks one minute at a time and calls OnTick on its own goroutine.
// OnTick runs to completion before the next tick is scheduled and must not
// call Stop.
type Driver struct {
	OnTick func(minute int)

	mu      sync.Mutex
	minute  int
	speed   int
	playing bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New returns a stopped driver at minute 0.
func New(onTick func(minute int)) *Driver {
	return &Driver{OnTick: onTick, speed: DefaultSpeed}
}

// Start begins ticking. It is a no-op when already playing. The driver
// stops on its own when ctx is canceled.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playing {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	d.playing = true
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.loop(ctx, d.done)
}

func (d *Driver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		d.mu.Lock()
		d.playing = false
		d.mu.Unlock()
	}()

	for {
		timer := time.NewTimer(Interval(d.Speed()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		// A Stop racing with the timer wins.
		if ctx.Err() != nil {
			return
		}

		d.mu.Lock()
		d.minute = timeline.Wrap(d.minute + 1)
		m := d.minute
		d.mu.Unlock()

		if d.OnTick != nil {
			d.OnTick(m)
		}
	}
}

// Stop halts playback. No OnTick call starts after Stop returns.
func (d *Driver) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Toggle starts or stops playback and reports whether it is now playing.
func (d *Driver) Toggle(ctx context.Context) bool {
	if d.Playing() {
		d.Stop()
		return false
	}
	d.Start(ctx)
	return true
}

// Playing reports whether the driver is ticking.
func (d *Driver) Playing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

// SetSpeed changes the speed, clamped to [1, 1000]. It applies from the
// next tick.
func (d *Driver) SetSpeed(speed int) {
	d.mu.Lock()
	d.speed = ClampSpeed(speed)
	d.mu.Unlock()
}

// Speed returns the current speed.
func (d *Driver) Speed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.speed
}

// Time returns the current minute.
func (d *Driver) Time() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.minute
}

// Seek jumps to a minute, wrapped into the cycle.
func (d *Driver) Seek(minute int) {
	d.mu.Lock()
	d.minute = timeline.Wrap(minute)
	d.mu.Unlock()
}

// Sweep calls fn for count instants starting at from and step minutes
// apart, wrapping around the cycle. Each call returns before the next
// instant is visited, so fn may resolve and materialize a frame in place.
func Sweep(ctx context.Context, from, step, count int, fn func(i, minute int) error) error {
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(i, timeline.Wrap(from+i*step)); err != nil {
			return err
		}
	}
	return nil
}
