// Package toast keeps transient notifications that dismiss themselves after
// a fixed duration unless paused.
package toast

import (
	"sync"
	"time"
)

// DefaultTTL is how long a toast stays visible while not paused.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Toast struct {
	ID      int64
	Kind    Kind
	Message string
}

// timer is satisfied by *time.Timer.
type timer interface {
	Stop() bool
}

type Center struct {
	ttl       time.Duration
	afterFunc func(time.Duration, func()) timer
	onChange  func()

	mu      sync.Mutex
	nextID  int64
	nextGen uint64
	toasts  []Toast
	timers  map[int64]armed
}

// armed is a running dismissal timer. gen identifies the arming so a
// callback that fired just before Pause or Resume can tell it is stale.
type armed struct {
	t   timer
	gen uint64
}

type Option func(*Center)

func WithTTL(d time.Duration) Option {
	return func(c *Center) { c.ttl = d }
}

// WithOnChange registers a callback run after any toast is added or removed.
// It is called without the Center's lock held.
func WithOnChange(fn func()) Option {
	return func(c *Center) { c.onChange = fn }
}

func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:       DefaultTTL,
		afterFunc: func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) },
		timers:    make(map[int64]armed),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add shows a toast and starts its dismissal timer. Ids increase
// monotonically, so two toasts added in the same instant stay distinct.
func (c *Center) Add(kind Kind, message string) int64 {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.toasts = append(c.toasts, Toast{ID: id, Kind: kind, Message: message})
	c.startLocked(id)
	c.mu.Unlock()

	c.changed()
	return id
}

func (c *Center) Success(message string) int64 { return c.Add(KindSuccess, message) }
func (c *Center) Error(message string) int64   { return c.Add(KindError, message) }
func (c *Center) Info(message string) int64    { return c.Add(KindInfo, message) }

// Dismiss removes the toast immediately.
func (c *Center) Dismiss(id int64) {
	c.mu.Lock()
	removed := c.removeLocked(id)
	c.mu.Unlock()

	if removed {
		c.changed()
	}
}

func (c *Center) removeLocked(id int64) bool {
	c.stopLocked(id)
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Pause stops the dismissal timer, as when the pointer enters the toast.
func (c *Center) Pause(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked(id)
}

// Resume restarts a full dismissal period, as when the pointer leaves.
func (c *Center) Resume(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.existsLocked(id) {
		return
	}
	c.stopLocked(id)
	c.startLocked(id)
}

// Active returns the visible toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

func (c *Center) startLocked(id int64) {
	c.nextGen++
	gen := c.nextGen
	c.timers[id] = armed{t: c.afterFunc(c.ttl, func() { c.expire(id, gen) }), gen: gen}
}

func (c *Center) stopLocked(id int64) {
	if a, ok := c.timers[id]; ok {
		a.t.Stop()
		delete(c.timers, id)
	}
}

// expire dismisses id only if the timer that fired is still the armed one.
func (c *Center) expire(id int64, gen uint64) {
	c.mu.Lock()
	removed := false
	if a, ok := c.timers[id]; ok && a.gen == gen {
		removed = c.removeLocked(id)
	}
	c.mu.Unlock()

	if removed {
		c.changed()
	}
}

func (c *Center) existsLocked(id int64) bool {
	for _, t := range c.toasts {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (c *Center) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}
