// Package scheduler provides a keyed task-coalescing queue with trailing-edge
// throttle semantics.
package scheduler

import (
	"sync"
	"time"
)

// Coalescer runs at most one task per key per interval. Submitting a task
// for a key that already has one pending replaces it, so only the latest
// submission in a window runs, at the end of the window. Tasks for the same
// key never run concurrently; different keys are independent.
type Coalescer struct {
	interval time.Duration

	mu      sync.Mutex
	slots   map[string]*slot
	stopped bool
}

type slot struct {
	run     sync.Mutex
	task    func()
	timer   *time.Timer
	armed   uint64
	lastRun time.Time
}

// NewCoalescer creates a coalescer with the given minimum interval
func NewCoalescer(interval time.Duration) *Coalescer {
	return &Coalescer{
		interval: interval,
		slots:    make(map[string]*slot),
	}
}

// Interval returns the minimum time between runs of one key
func (c *Coalescer) Interval() time.Duration {
	return c.interval
}

// Submit schedules task under key, replacing any task still pending for it.
// It reports false once the coalescer has been stopped.
func (c *Coalescer) Submit(key string, task func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	s, ok := c.slots[key]
	if !ok {
		s = &slot{}
		c.slots[key] = s
	}
	s.task = task
	if s.timer == nil {
		delay := c.interval
		if !s.lastRun.IsZero() {
			if wait := c.interval - time.Since(s.lastRun); wait > delay {
				delay = wait
			}
		}
		s.armed++
		armed := s.armed
		s.timer = time.AfterFunc(delay, func() { c.fire(key, s, armed) })
	}
	return true
}

// Pending reports whether key has a task waiting to run
func (c *Coalescer) Pending(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.slots[key]
	return ok && s.task != nil
}

// Flush runs every pending task now, on the calling goroutine
func (c *Coalescer) Flush() {
	c.mu.Lock()
	var due []*slot
	for _, s := range c.slots {
		if s.task != nil {
			if s.timer != nil {
				s.timer.Stop()
				s.timer = nil
			}
			due = append(due, s)
		}
	}
	c.mu.Unlock()

	for _, s := range due {
		c.runSlot(s)
	}
}

// Stop discards pending tasks and rejects further submissions.
// A task already running is not interrupted.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for _, s := range c.slots {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.task = nil
	}
}

func (c *Coalescer) fire(key string, s *slot, armed uint64) {
	c.mu.Lock()
	if c.slots[key] != s || s.timer == nil || s.armed != armed {
		c.mu.Unlock()
		return
	}
	s.timer = nil
	c.mu.Unlock()

	c.runSlot(s)
}

func (c *Coalescer) runSlot(s *slot) {
	s.run.Lock()
	defer s.run.Unlock()

	c.mu.Lock()
	task := s.task
	s.task = nil
	if task != nil {
		s.lastRun = time.Now()
	}
	c.mu.Unlock()

	if task != nil {
		task()
	}
}
