package host

import "context"

// currentKey scopes the current-host marker to one request context.
type currentKey struct{}

// WithCurrent records vh as the virtual host that accepted the request.
// The marker lives on the per-request context, so it is scoped to
// exactly one in-flight request and overwritten, not stacked, on each
// new routing decision. Nothing leaks across requests or goroutines
// that do not share the context.
func WithCurrent(ctx context.Context, vh *VirtualHost) context.Context {
	return context.WithValue(ctx, currentKey{}, vh)
}

// Current returns the virtual host that routed the in-flight request,
// or nil when the request did not pass through a virtual host.
func Current(ctx context.Context) *VirtualHost {
	vh, _ := ctx.Value(currentKey{}).(*VirtualHost)
	return vh
}
