package host

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Context is the state bag handed to virtual hosts and their attached
// targets. Each attached application gets an isolated child context, so
// state stored by one application cannot leak into another sharing the
// same host.
type Context struct {
	id     string
	name   string
	logger *slog.Logger

	mu    sync.RWMutex
	attrs map[string]any
}

// NewContext creates a root context.
func NewContext(name string, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Context{
		id:     id,
		name:   name,
		logger: logger.With("context", name),
		attrs:  make(map[string]any),
	}
}

// ID returns the context's unique identifier.
func (c *Context) ID() string {
	return c.id
}

// Name returns the context's display name.
func (c *Context) Name() string {
	return c.name
}

// Logger returns the context's logger.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// CreateChildContext derives an isolated child: it shares the parent's
// logger lineage but starts with its own empty attribute map.
func (c *Context) CreateChildContext(name string) *Context {
	if name == "" {
		name = c.name + "/child"
	}
	id := uuid.NewString()
	return &Context{
		id:     id,
		name:   name,
		logger: c.logger.With("context", name),
		attrs:  make(map[string]any),
	}
}

// Get returns a context attribute.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.attrs[key]
	return v, ok
}

// Set stores a context attribute.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}
