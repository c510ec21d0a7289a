// Package host implements virtual hosts: named bundles of matching
// rules that decide which requests belong to a logical server identity
// sharing one physical listener.
//
// A virtual host is defined along three properties of a call: the host
// reference (the URI of the host that received the request), the
// resource reference (the URI of the target resource), and the server
// connector information (listening address and port). Each property
// contributes anchored regular-expression patterns; the default ".*"
// patterns accept everything.
//
// Instances are invoked by many request goroutines concurrently.
// Pattern reads are lock-free against an immutable snapshot; setters
// validate and swap the whole snapshot, so a reader never observes a
// torn mix of old and new patterns. Two separate setter calls are two
// snapshots: a reader racing them may see the first without the second.
package host

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/router"

	berrors "github.com/berth-web/berth/internal/errors"
)

// MatchAll is the pattern that accepts any value.
const MatchAll = ".*"

// PatternSet holds the eight patterns of a virtual host. Every pattern
// is a full-match regular expression tested against one request
// attribute; an empty field means MatchAll.
type PatternSet struct {
	// HostDomain, HostPort and HostScheme match the request's host
	// reference.
	HostDomain string
	HostPort   string
	HostScheme string

	// ResourceDomain, ResourcePort and ResourceScheme match the
	// request's resource reference.
	ResourceDomain string
	ResourcePort   string
	ResourceScheme string

	// ServerAddress and ServerPort match the receiving connector.
	ServerAddress string
	ServerPort    string
}

// matchAllSet returns a PatternSet accepting everything.
func matchAllSet() PatternSet {
	return PatternSet{
		HostDomain: MatchAll, HostPort: MatchAll, HostScheme: MatchAll,
		ResourceDomain: MatchAll, ResourcePort: MatchAll, ResourceScheme: MatchAll,
		ServerAddress: MatchAll, ServerPort: MatchAll,
	}
}

// compiled is one immutable pattern snapshot.
type compiled struct {
	raw PatternSet

	hostDomain, hostPort, hostScheme             *regexp.Regexp
	resourceDomain, resourcePort, resourceScheme *regexp.Regexp
	serverAddress, serverPort                    *regexp.Regexp
}

// compilePatterns validates the whole set at once; an invalid pattern
// fails fast here, never at request time.
func compilePatterns(ps PatternSet) (*compiled, error) {
	c := &compiled{raw: ps}
	for _, f := range []struct {
		name    string
		pattern string
		dst     **regexp.Regexp
	}{
		{"hostDomain", ps.HostDomain, &c.hostDomain},
		{"hostPort", ps.HostPort, &c.hostPort},
		{"hostScheme", ps.HostScheme, &c.hostScheme},
		{"resourceDomain", ps.ResourceDomain, &c.resourceDomain},
		{"resourcePort", ps.ResourcePort, &c.resourcePort},
		{"resourceScheme", ps.ResourceScheme, &c.resourceScheme},
		{"serverAddress", ps.ServerAddress, &c.serverAddress},
		{"serverPort", ps.ServerPort, &c.serverPort},
	} {
		p := f.pattern
		if p == "" {
			p = MatchAll
		}
		re, err := regexp.Compile(`\A(?:` + p + `)\z`)
		if err != nil {
			return nil, berrors.New("B001").
				WithSuggestion(fmt.Sprintf("check the %s pattern %q", f.name, f.pattern)).
				Wrap(err)
		}
		*f.dst = re
	}
	return c, nil
}

// VirtualHost routes calls from server connectors to attached targets
// once its pattern set has accepted the call. It embeds a Router, so
// everything attached to the host is reached through ordinary routing.
type VirtualHost struct {
	*router.Router

	mu       sync.Mutex // serializes pattern/name writers
	patterns atomic.Pointer[compiled]
	name     atomic.Pointer[string]

	parent *Context
	ctx    *Context
}

// New creates a virtual host accepting all incoming requests. Use the
// setters to restrict the matchable patterns.
func New(parent *Context, name string) *VirtualHost {
	var logger *slog.Logger
	var ctx *Context
	if parent != nil {
		ctx = parent.CreateChildContext(name)
		logger = ctx.Logger()
	} else {
		logger = slog.Default().With("host", name)
	}

	vh := &VirtualHost{
		Router: router.New(logger),
		parent: parent,
		ctx:    ctx,
	}
	vh.name.Store(&name)

	c, err := compilePatterns(matchAllSet())
	if err != nil {
		// MatchAll always compiles.
		panic(err)
	}
	vh.patterns.Store(c)

	vh.Router.Before = func(rctx context.Context, req *message.Request, _ *router.Route) context.Context {
		return WithCurrent(rctx, vh)
	}
	return vh
}

// Name returns the display name.
func (vh *VirtualHost) Name() string {
	return *vh.name.Load()
}

// SetName sets the display name.
func (vh *VirtualHost) SetName(name string) {
	vh.name.Store(&name)
}

// Context returns the host's own context, nil when the host was built
// without a parent.
func (vh *VirtualHost) Context() *Context {
	return vh.ctx
}

// Patterns returns the current pattern snapshot.
func (vh *VirtualHost) Patterns() PatternSet {
	return vh.patterns.Load().raw
}

// SetPatterns replaces the whole pattern set in one swap. Readers see
// either the old set or the new one, never a mix.
func (vh *VirtualHost) SetPatterns(ps PatternSet) error {
	c, err := compilePatterns(ps)
	if err != nil {
		return err
	}
	vh.mu.Lock()
	defer vh.mu.Unlock()
	vh.patterns.Store(c)
	return nil
}

// setOne swaps a single pattern field while keeping the rest of the
// current snapshot.
func (vh *VirtualHost) setOne(update func(*PatternSet)) error {
	vh.mu.Lock()
	defer vh.mu.Unlock()
	ps := vh.patterns.Load().raw
	update(&ps)
	c, err := compilePatterns(ps)
	if err != nil {
		return err
	}
	vh.patterns.Store(c)
	return nil
}

// SetHostDomain sets the host reference domain pattern.
func (vh *VirtualHost) SetHostDomain(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.HostDomain = p })
}

// SetHostPort sets the host reference port pattern.
func (vh *VirtualHost) SetHostPort(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.HostPort = p })
}

// SetHostScheme sets the host reference scheme pattern.
func (vh *VirtualHost) SetHostScheme(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.HostScheme = p })
}

// SetResourceDomain sets the resource reference domain pattern.
func (vh *VirtualHost) SetResourceDomain(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.ResourceDomain = p })
}

// SetResourcePort sets the resource reference port pattern.
func (vh *VirtualHost) SetResourcePort(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.ResourcePort = p })
}

// SetResourceScheme sets the resource reference scheme pattern.
func (vh *VirtualHost) SetResourceScheme(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.ResourceScheme = p })
}

// SetServerAddress sets the listening address pattern.
func (vh *VirtualHost) SetServerAddress(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.ServerAddress = p })
}

// SetServerPort sets the listening port pattern.
func (vh *VirtualHost) SetServerPort(p string) error {
	return vh.setOne(func(ps *PatternSet) { ps.ServerPort = p })
}

// Matches reports whether this host accepts the call: all eight pattern
// comparisons must match independently.
func (vh *VirtualHost) Matches(req *message.Request, info message.ServerInfo) bool {
	c := vh.patterns.Load()
	return c.hostDomain.MatchString(req.HostRef.Domain()) &&
		c.hostPort.MatchString(req.HostRef.PortOrDefault()) &&
		c.hostScheme.MatchString(req.HostRef.Scheme()) &&
		c.resourceDomain.MatchString(req.ResourceRef.Domain()) &&
		c.resourcePort.MatchString(req.ResourceRef.PortOrDefault()) &&
		c.resourceScheme.MatchString(req.ResourceRef.Scheme()) &&
		c.serverAddress.MatchString(info.Address) &&
		c.serverPort.MatchString(info.Port)
}

// Handle implements message.Handler. It establishes the relative-path
// origin for attachment matching by rewriting the request's root
// reference to the base of the resolved resource reference, then
// delegates to the embedded router.
func (vh *VirtualHost) Handle(ctx context.Context, req *message.Request, resp *message.Response) {
	if req.RootRef.IsZero() {
		req.RootRef = authorityBase(req.ResourceRef)
	}
	vh.Router.Handle(ctx, req, resp)
}

// authorityBase returns "scheme://host:port/" for an absolute
// reference.
func authorityBase(r *ref.Reference) *ref.Reference {
	raw := r.String()
	if p := r.Path(); p != "" {
		raw = strings.TrimSuffix(raw, p)
	}
	return ref.Normalize(ref.New(raw))
}

// adopt gives a context-aware target an isolated child of the host's
// parent context, unless it already has one.
func (vh *VirtualHost) adopt(target message.Handler) {
	ca, ok := target.(ContextAware)
	if !ok || vh.parent == nil {
		return
	}
	if ca.TargetContext() == nil {
		ca.SetTargetContext(vh.parent.CreateChildContext(vh.Name() + "/target"))
	}
}

// Attach binds a target with an empty URI pattern: it routes any call
// reaching this host. Context-aware targets get an isolated child
// context.
func (vh *VirtualHost) Attach(target message.Handler) (*router.Route, error) {
	vh.adopt(target)
	return vh.Router.Attach("", target)
}

// AttachPattern binds a target to a URI pattern relative to the host.
func (vh *VirtualHost) AttachPattern(pattern string, target message.Handler) (*router.Route, error) {
	vh.adopt(target)
	return vh.Router.Attach(pattern, target)
}

// AttachDefault binds the target invoked when no route matches.
func (vh *VirtualHost) AttachDefault(target message.Handler) *router.Route {
	vh.adopt(target)
	return vh.Router.AttachDefault(target)
}

// AttachResource binds a finder that builds a fresh target per call
// from the factory. The finder gets an isolated child of the host's
// own context.
func (vh *VirtualHost) AttachResource(pattern string, factory Factory) (*router.Route, error) {
	var fctx *Context
	if vh.ctx != nil {
		fctx = vh.ctx.CreateChildContext(vh.Name() + "/finder")
	}
	return vh.Router.Attach(pattern, NewFinder(fctx, factory))
}

// ContextAware is implemented by targets that carry a host context.
type ContextAware interface {
	TargetContext() *Context
	SetTargetContext(*Context)
}
