package animation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unklstewy/flightlog/pkg/coordinates"
)

// DefaultCooldown is how long auto-rotation stays paused after the user
// last moved the globe.
const DefaultCooldown = 10 * time.Second

// Clock is the frame counter driving Frame. It only advances when ticked
// by the render loop, and wraps at ClockModulus.
type Clock struct {
	frame atomic.Int64
}

// Tick advances the clock by one frame and returns the new frame.
func (c *Clock) Tick() int {
	for {
		cur := c.frame.Load()
		next := (cur + 1) % ClockModulus
		if c.frame.CompareAndSwap(cur, next) {
			return int(next)
		}
	}
}

// Frame returns the current frame.
func (c *Clock) Frame() int {
	return int(c.frame.Load())
}

// Rotation tracks the globe's center longitude and pauses automatic
// rotation while the user is interacting with it.
type Rotation struct {
	mu              sync.Mutex
	cooldown        time.Duration
	lastInteraction time.Time
	center          coordinates.Geographic
}

// NewRotation returns a rotation centered on center. A cooldown of zero
// uses DefaultCooldown.
func NewRotation(center coordinates.Geographic, cooldown time.Duration) *Rotation {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Rotation{cooldown: cooldown, center: center}
}

// Interact records user input at now, pausing auto-rotation.
func (r *Rotation) Interact(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastInteraction = now
}

// Pan moves the center by the given offsets as a user interaction.
// Latitude is clamped so the globe cannot flip over a pole.
func (r *Rotation) Pan(now time.Time, dLat, dLon float64) coordinates.Geographic {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastInteraction = now
	r.center.Latitude = max(-80, min(80, r.center.Latitude+dLat))
	r.center.Longitude = coordinates.NormalizeLongitude(r.center.Longitude + dLon)
	return r.center
}

// Active reports whether auto-rotation should run at now.
func (r *Rotation) Active(now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(now)
}

// Advance rotates the globe by dLon degrees if auto-rotation is active and
// returns the resulting center.
func (r *Rotation) Advance(now time.Time, dLon float64) coordinates.Geographic {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeLocked(now) {
		r.center.Longitude = coordinates.NormalizeLongitude(r.center.Longitude + dLon)
	}
	return r.center
}

// Center returns the current center.
func (r *Rotation) Center() coordinates.Geographic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.center
}

func (r *Rotation) activeLocked(now time.Time) bool {
	return r.lastInteraction.IsZero() || now.Sub(r.lastInteraction) >= r.cooldown
}
