// Package router binds URI patterns to target handlers and routes each
// request to the best-matching attachment. The virtual host layer
// treats it as a black box exposing Attach and Resolve; the transport
// never sees it directly.
package router

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
)

// BeforeHandle runs after a route matched and before its target is
// invoked. It may derive a new context for the target; returning ctx
// unchanged is fine.
type BeforeHandle func(ctx context.Context, req *message.Request, rt *Route) context.Context

// Router routes requests to attached targets.
//
// Attachments are matched against the part of the resource reference
// that follows the request's root reference. The route whose pattern
// matches the longest prefix wins; among equal matches the earliest
// attachment wins; the default route fires when nothing matches.
//
// Attach/Detach take a lock; routing reads an immutable route-list
// snapshot, so concurrent requests never block each other.
type Router struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[routerState]

	// Before is invoked for every routed call, before the target.
	Before BeforeHandle

	logger *slog.Logger
}

type routerState struct {
	routes       []*Route
	defaultRoute *Route
}

// New creates an empty router.
func New(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{logger: logger}
	r.snapshot.Store(&routerState{})
	return r
}

// Attach binds a target to a URI pattern and returns the created
// route. The pattern is matched as an anchored prefix; "{name}"
// segments match one path segment. An empty pattern routes every call.
func (r *Router) Attach(pattern string, target message.Handler) (*Route, error) {
	rt, err := newRoute(pattern, target)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.snapshot.Load()
	next := &routerState{
		routes:       append(append([]*Route(nil), cur.routes...), rt),
		defaultRoute: cur.defaultRoute,
	}
	r.snapshot.Store(next)
	return rt, nil
}

// AttachDefault binds the target invoked when no other route matches.
func (r *Router) AttachDefault(target message.Handler) *Route {
	rt := &Route{target: target}

	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.snapshot.Load()
	r.snapshot.Store(&routerState{routes: cur.routes, defaultRoute: rt})
	return rt
}

// Detach removes every route bound to the target.
func (r *Router) Detach(target message.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.snapshot.Load()
	next := &routerState{}
	for _, rt := range cur.routes {
		if rt.target != target {
			next.routes = append(next.routes, rt)
		}
	}
	if cur.defaultRoute != nil && cur.defaultRoute.target != target {
		next.defaultRoute = cur.defaultRoute
	}
	r.snapshot.Store(next)
}

// Resolve returns the target the request would be routed to, or nil.
func (r *Router) Resolve(req *message.Request) message.Handler {
	rt, _ := r.match(remainder(req))
	if rt == nil {
		return nil
	}
	return rt.target
}

// Handle implements message.Handler: it routes the request to the best
// matching attachment, rewriting the request's root reference to the
// base of the matched part so nested targets resolve paths relative to
// their own attachment point.
func (r *Router) Handle(ctx context.Context, req *message.Request, resp *message.Response) {
	rem := remainder(req)
	rt, matched := r.match(rem)
	if rt == nil {
		r.logger.Debug("no route matched", "path", rem)
		resp.SetStatus(message.StatusNotFound)
		return
	}

	if r.Before != nil {
		ctx = r.Before(ctx, req, rt)
	}

	req.RootRef = rebase(req, rem[:matched])
	rt.target.Handle(ctx, req, resp)
}

// match returns the winning route and the matched prefix length.
func (r *Router) match(rem string) (*Route, int) {
	state := r.snapshot.Load()

	var best *Route
	bestLen := -1
	for _, rt := range state.routes {
		n, ok := rt.matchPrefix(rem)
		if ok && n > bestLen {
			best = rt
			bestLen = n
		}
	}
	if best != nil {
		return best, bestLen
	}
	if state.defaultRoute != nil {
		return state.defaultRoute, 0
	}
	return nil, 0
}

// remainder returns the part of the resource reference that follows the
// request's root reference, always with a leading "/".
func remainder(req *message.Request) string {
	if req.RootRef != nil && !req.RootRef.IsZero() {
		base := ref.Normalize(req.RootRef)
		if rel, ok := base.Relative(req.ResourceRef); ok {
			return "/" + rel
		}
	}
	p := req.ResourceRef.Path()
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// rebase extends the request's root reference by the matched prefix,
// producing the base the routed target resolves against.
func rebase(req *message.Request, prefix string) *ref.Reference {
	var base string
	if req.RootRef != nil && !req.RootRef.IsZero() {
		base = strings.TrimSuffix(req.RootRef.String(), "/")
	} else {
		// No root yet: the authority part of the resource reference is
		// the implicit origin.
		raw := req.ResourceRef.String()
		base = strings.TrimSuffix(raw, req.ResourceRef.Path())
	}
	return ref.Normalize(ref.New(base + prefix))
}
