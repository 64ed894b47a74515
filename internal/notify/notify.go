// Package notify is a single-slot advisory channel. Publishing replaces
// whatever is currently shown and re-arms an expiry timer; nothing else in
// the system depends on a notification being observed.
package notify

import (
	"sync"
	"time"
)

// Level classifies a notification for display.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient advisory message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Channel holds at most one live notification and expires it after a fixed
// TTL. A single subscriber may observe publishes as they happen.
type Channel struct {
	mu         sync.Mutex
	current    *Notification
	timer      *time.Timer
	ttl        time.Duration
	subscriber func(Notification)
}

// DefaultTTL is how long a notification stays visible if not replaced.
const DefaultTTL = 5 * time.Second

// New creates a channel whose notifications expire after ttl.
func New(ttl time.Duration) *Channel {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Channel{ttl: ttl}
}

// Subscribe registers the single subscriber. It is invoked synchronously on
// every Publish.
func (c *Channel) Subscribe(fn func(Notification)) {
	c.mu.Lock()
	c.subscriber = fn
	c.mu.Unlock()
}

// Publish replaces the current notification and restarts the expiry timer.
func (c *Channel) Publish(level Level, message string) {
	n := Notification{Level: level, Message: message, At: time.Now()}

	c.mu.Lock()
	c.current = &n
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(n.At) })
	fn := c.subscriber
	c.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// Current returns the live notification, or nil once expired.
func (c *Channel) Current() *Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	n := *c.current
	return &n
}

// expire clears the slot only if it still holds the notification the timer
// was armed for.
func (c *Channel) expire(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.At.Equal(at) {
		c.current = nil
	}
}
