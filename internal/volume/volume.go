// Package volume keeps the sink volume level and applies stepped changes
// and fades through a setter.
package volume

import (
	"context"
	"sync"
	"time"
)

// MaxLevel is the top of the sink volume scale.
const MaxLevel = 127

// fadeFloor is the level a fade-out stops at.
const fadeFloor = 10

// Config holds the volume policy.
type Config struct {
	Initial int
	Step    int
	Min     int
	Max     int
	// FadeStep is the level change per fade tick. Zero disables fades.
	FadeStep     int
	FadeInterval time.Duration
}

// DefaultConfig returns the stock volume policy.
func DefaultConfig() Config {
	return Config{
		Initial:      70,
		Step:         10,
		Min:          40,
		Max:          120,
		FadeInterval: 50 * time.Millisecond,
	}
}

// Setter pushes a level to the sink.
type Setter func(level int) error

// Control tracks the user volume level.
type Control struct {
	mu    sync.Mutex
	cfg   Config
	level int
	set   Setter
}

// New creates a Control at cfg.Initial. It does not touch the sink until a
// level is applied.
func New(cfg Config, set Setter) *Control {
	if set == nil {
		set = func(int) error { return nil }
	}
	return &Control{
		cfg:   cfg,
		level: clamp(cfg.Initial, 0, MaxLevel),
		set:   set,
	}
}

// Level returns the current user level.
func (c *Control) Level() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level
}

// Apply pushes the current level to the sink.
func (c *Control) Apply() error {
	return c.set(c.Level())
}

// Up raises the level by one step unless it already reached Max.
func (c *Control) Up() (int, error) {
	c.mu.Lock()
	changed := c.level < c.cfg.Max
	if changed {
		c.level = min(c.level+c.cfg.Step, MaxLevel)
	}
	level := c.level
	c.mu.Unlock()

	if !changed {
		return level, nil
	}
	return level, c.set(level)
}

// Down lowers the level by one step unless it already reached Min.
func (c *Control) Down() (int, error) {
	c.mu.Lock()
	changed := c.level > c.cfg.Min
	if changed {
		c.level = max(c.level-c.cfg.Step, 0)
	}
	level := c.level
	c.mu.Unlock()

	if !changed {
		return level, nil
	}
	return level, c.set(level)
}

// Fades reports whether fades are enabled.
func (c *Control) Fades() bool {
	return c.cfg.FadeStep > 0
}

// FadeOut ramps the sink down from the current level. The user level is
// kept; call Apply once playback is paused to restore it.
func (c *Control) FadeOut(ctx context.Context) error {
	if !c.Fades() {
		return nil
	}
	return c.ramp(ctx, c.Level(), fadeFloor)
}

// FadeIn ramps the sink up from silence to the current level.
func (c *Control) FadeIn(ctx context.Context) error {
	if !c.Fades() {
		return c.Apply()
	}
	if err := c.set(0); err != nil {
		return err
	}
	return c.ramp(ctx, 0, c.Level())
}

// ramp moves the sink level from one value towards another, one FadeStep
// per FadeInterval. The last step lands exactly on to.
func (c *Control) ramp(ctx context.Context, from, to int) error {
	ticker := time.NewTicker(c.cfg.FadeInterval)
	defer ticker.Stop()

	cur := from
	for cur != to {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if cur < to {
			cur = min(cur+c.cfg.FadeStep, to)
		} else {
			cur = max(cur-c.cfg.FadeStep, to)
		}
		if err := c.set(cur); err != nil {
			return err
		}
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
