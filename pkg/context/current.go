package context

import (
	"context"
	"sync"
)

const (
	KeyRequestID = "request_id"
	KeyUserAgent = "user_agent"
	KeyIPAddress = "ip_address"
	KeyMethod    = "method"
	KeyPath      = "path"
)

// Current holds per-request values shared by the layers a request goes
// through. It is safe for concurrent use.
type Current struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]interface{}),
	}
}

func (c *Current) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *Current) Get(key string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data[key]
}

func (c *Current) GetString(key string) (string, bool) {
	str, ok := c.Get(key).(string)
	return str, ok
}

func (c *Current) RequestID() string {
	id, _ := c.GetString(KeyRequestID)
	return id
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok
}

// GetCurrent returns the request values stored in ctx, or an empty set.
func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}

	return NewCurrent()
}
