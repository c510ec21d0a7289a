// Package berth provides the public API for the berth resolution
// server: virtual hosts matched by anchored patterns, routers binding
// URI templates to targets, and directories serving negotiated entries
// from pluggable stores.
//
// This is the recommended import for embedding:
//
//	import "github.com/berth-web/berth"
//
// Usage:
//
//	ctx := berth.NewHostContext("app", nil)
//	vh := berth.NewVirtualHost(ctx, "files")
//	vh.SetHostDomain(`files\.example\.com`)
//
//	dir := berth.NewDirectory(berth.NewReference("file:///srv/data/"), berth.NewLocalStore())
//	dir.SetListingAllowed(true)
//	vh.Attach(dir)
//
//	selector := berth.NewSelector()
//	selector.Add(vh)
package berth

import (
	"log/slog"

	"github.com/berth-web/berth/pkg/compare"
	"github.com/berth-web/berth/pkg/dirres"
	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/store"
)

// Core resolution types.
type (
	// VirtualHost bundles the eight-pattern matcher with a router.
	VirtualHost = host.VirtualHost

	// PatternSet holds a host's eight matching expressions.
	PatternSet = host.PatternSet

	// Selector picks the owning virtual host per request.
	Selector = host.Selector

	// HostContext is the isolated state bag given to attached targets.
	HostContext = host.Context

	// Directory resolves requests against an entry store root.
	Directory = dirres.Directory

	// Reference is an absolute or relative URI reference.
	Reference = ref.Reference

	// Request is the resolution layer's view of an incoming call.
	Request = message.Request

	// Response carries the resolution outcome.
	Response = message.Response

	// Handler handles resolved calls.
	Handler = message.Handler
)

// NewHostContext creates a root context for virtual hosts.
func NewHostContext(name string, logger *slog.Logger) *HostContext {
	return host.NewContext(name, logger)
}

// NewVirtualHost creates a host accepting all requests; restrict it
// with its pattern setters.
func NewVirtualHost(parent *HostContext, name string) *VirtualHost {
	return host.New(parent, name)
}

// NewSelector creates an empty host selector.
func NewSelector() *Selector {
	return host.NewSelector()
}

// NewReference parses a URI reference.
func NewReference(uri string) *Reference {
	return ref.New(uri)
}

// NewDirectory creates a directory resolver over a root reference.
func NewDirectory(root *Reference, entries store.EntryStore) *Directory {
	return dirres.New(root, entries)
}

// NewLocalStore creates a filesystem-backed entry store for file://
// roots.
func NewLocalStore() *store.Local {
	return store.NewLocal()
}

// CurrentHost returns the virtual host that routed the call, if any.
// It is valid inside handlers and middleware invoked during routing.
var CurrentHost = host.Current

// Listing comparators.
var (
	// CompareAlphanumeric orders embedded integers numerically.
	CompareAlphanumeric compare.Func = compare.Alphanumeric

	// CompareLexical is plain byte-wise ordering.
	CompareLexical compare.Func = compare.Lexical
)

// Common media types.
const (
	MediaAll     = media.TypeAll
	MediaHTML    = media.TypeHTML
	MediaURIList = media.TypeURIList
)
