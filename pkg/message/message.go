// Package message defines the request/response surface exchanged
// between the transport, the virtual host layer and resolved targets.
// The transport parses the wire format; everything here is already
// structured.
package message

import (
	"context"
	"io"

	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/ref"
)

// Request methods understood by the resolution layer.
const (
	MethodGet    = "GET"
	MethodHead   = "HEAD"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// Request is one in-flight call. A Request is owned by exactly one
// logical request execution and is never shared between requests, so
// its fields need no synchronization.
type Request struct {
	// Method is the request method (GET, HEAD, PUT, DELETE, ...).
	Method string

	// HostRef is the URI of the host that received the request, derived
	// from the Host header.
	HostRef *ref.Reference

	// ResourceRef is the URI of the target resource. Relative
	// references are resolved against HostRef by the transport.
	ResourceRef *ref.Reference

	// RootRef is the relative-path origin for pattern matching. The
	// virtual host rewrites it to the base of the resolved resource
	// reference before delegating to its router.
	RootRef *ref.Reference

	// Accept holds the client's parsed media preferences.
	Accept []media.Preference

	// ClientAddr is the remote client address, for logging.
	ClientAddr string

	// Entity is the request body for PUT requests, nil otherwise.
	Entity io.ReadCloser

	// EntityType is the media type of Entity, when known.
	EntityType media.Type
}

// ServerInfo describes the server connector that accepted the call.
type ServerInfo struct {
	// Address is the listening IP address.
	Address string

	// Port is the listening port as a string, so it can be matched by
	// the same pattern machinery as every other field.
	Port string
}

// Response carries the outcome of a resolution back to the transport.
type Response struct {
	// Status is the terminal outcome. Exactly one terminal status is
	// set per request.
	Status Status

	// Entity is the selected representation, nil for bodyless
	// outcomes.
	Entity *media.Representation

	// Allowed lists the permitted methods when Status is
	// StatusMethodNotAllowed.
	Allowed []string

	// Server describes the connector that accepted the call.
	Server ServerInfo
}

// SetStatus records the terminal outcome.
func (r *Response) SetStatus(s Status) {
	r.Status = s
}

// Handler is a resolved target able to handle a call. It mirrors the
// transport's handler shape: outcomes are reported on the response,
// never raised.
type Handler interface {
	Handle(ctx context.Context, req *Request, resp *Response)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, req *Request, resp *Response)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, req *Request, resp *Response) {
	f(ctx, req, resp)
}
