package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

type Notification struct {
	Id      string
	Level   Level
	Message string
	At      time.Time
}

// Center collects transient user-visible notifications. It keeps a bounded
// ring of the most recent entries; older ones fall off.
type Center struct {
	mu      sync.Mutex
	items   []Notification
	maxSize int
	now     func() time.Time
}

func NewCenter(maxSize int) *Center {
	if maxSize <= 0 {
		maxSize = 20
	}
	return &Center{maxSize: maxSize, now: time.Now}
}

func (c *Center) push(level Level, message string) Notification {
	n := Notification{
		Id:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, n)
	if len(c.items) > c.maxSize {
		c.items = c.items[len(c.items)-c.maxSize:]
	}
	return n
}

func (c *Center) Info(message string) Notification { return c.push(LevelInfo, message) }

func (c *Center) Error(message string) Notification { return c.push(LevelError, message) }

// Recent returns notifications newest-first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, 0, len(c.items))
	for i := len(c.items) - 1; i >= 0; i-- {
		out = append(out, c.items[i])
	}
	return out
}

func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.Id == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
