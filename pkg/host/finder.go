package host

import (
	"context"

	"github.com/berth-web/berth/pkg/message"
)

// Factory builds a per-request target handler. The context argument is
// the finder's isolated host context.
type Factory func(*Context) message.Handler

// Finder defers target construction to request time: each call gets a
// fresh handler from the factory, so per-request targets never share
// state by accident.
type Finder struct {
	ctx     *Context
	factory Factory
}

// NewFinder creates a finder around a target factory.
func NewFinder(ctx *Context, factory Factory) *Finder {
	return &Finder{ctx: ctx, factory: factory}
}

// TargetContext returns the finder's context.
func (f *Finder) TargetContext() *Context {
	return f.ctx
}

// SetTargetContext sets the finder's context.
func (f *Finder) SetTargetContext(c *Context) {
	f.ctx = c
}

// Handle implements message.Handler.
func (f *Finder) Handle(ctx context.Context, req *message.Request, resp *message.Response) {
	target := f.factory(f.ctx)
	if target == nil {
		resp.SetStatus(message.StatusNotFound)
		return
	}
	target.Handle(ctx, req, resp)
}
