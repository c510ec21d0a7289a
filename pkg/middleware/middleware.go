// Package middleware provides observability wrappers around resolution
// handlers: Prometheus metrics and OpenTelemetry tracing.
package middleware

import (
	"github.com/berth-web/berth/pkg/message"
)

// Middleware wraps a handler with additional behavior.
type Middleware func(next message.Handler) message.Handler

// Chain applies middlewares to a handler, first middleware outermost.
func Chain(h message.Handler, mws ...Middleware) message.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
