// Package clock abstracts the wall clock so commit timestamps can be
// injected. Production code passes Real(); tests pass Fixed or Stepping
// for reproducible commit digests.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// Real returns a Clock backed by time.Now.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Stepping returns a Clock that starts at start and advances by step on
// every call to Now. Safe for concurrent use.
func Stepping(start time.Time, step time.Duration) Clock {
	return &steppingClock{next: start, step: step}
}

type steppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}
