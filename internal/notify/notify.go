// Package notify holds the transient notifications raised by page changes and
// submit outcomes. Notifications auto-dismiss after a fixed duration and can
// be dismissed explicitly at any time.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level tags the visual style of a notification.
type Level int

const (
	Info Level = iota
	Success
	Error
)

// Notification is one transient message.
type Notification struct {
	ID      uuid.UUID
	Level   Level
	Message string
	ShownAt time.Time
}

// Center owns the set of currently visible notifications.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	active map[uuid.UUID]Notification
	order  []uuid.UUID
}

// DefaultTTL matches the snackbar auto-hide used by the dashboard.
const DefaultTTL = 5 * time.Second

// NewCenter creates a center whose notifications expire after ttl;
// a non-positive ttl falls back to DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl, active: map[uuid.UUID]Notification{}}
}

// Push shows a new notification and schedules its auto-dismiss.
func (c *Center) Push(level Level, message string) Notification {
	n := Notification{
		ID:      uuid.New(),
		Level:   level,
		Message: message,
		ShownAt: time.Now(),
	}
	c.mu.Lock()
	c.active[n.ID] = n
	c.order = append(c.order, n.ID)
	c.mu.Unlock()

	time.AfterFunc(c.ttl, func() { c.Dismiss(n.ID) })
	return n
}

// Dismiss removes a notification immediately. Dismissing an already-expired
// notification is a no-op.
func (c *Center) Dismiss(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.active[id]; !ok {
		return
	}
	delete(c.active, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Active returns the visible notifications in display order.
func (c *Center) Active() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.active[id])
	}
	return out
}
