// Package dirres maps request paths onto entries below a storage root,
// negotiates the best representation among available variants, and can
// render a sorted listing when a directory has no index.
//
// A Directory is shared by every request goroutine; its settings live
// in one immutable snapshot swapped atomically, so the resolving hot
// path takes no locks and never observes a half-updated configuration.
package dirres

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/berth-web/berth/pkg/compare"
	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/store"
)

// DefaultIndexName is the base name probed for directory indexes.
const DefaultIndexName = "index"

// config is one immutable settings snapshot.
type config struct {
	// rootRef always ends in "/" so a sibling root such as ".../AA"
	// can never be exposed through ".../A".
	rootRef *ref.Reference

	indexName        string
	listingAllowed   bool
	modifiable       bool
	deeplyAccessible bool
	negotiateContent bool

	comparator    compare.Func
	indexVariants []media.Type
}

// Directory exposes the entries below a root reference. Read-only by
// default; PUT and DELETE must be opted in via SetModifiable.
type Directory struct {
	mu   sync.Mutex // serializes setters
	conf atomic.Pointer[config]

	entries    store.EntryStore
	negotiator media.Negotiator

	tctx   *host.Context
	logger *slog.Logger
}

// New creates a directory over the given root. The root is normalized
// to end in a path separator. Defaults: index name "index", listings
// off, not modifiable, deeply accessible, content negotiation on,
// alphanumeric listing order.
func New(root *ref.Reference, entries store.EntryStore) *Directory {
	d := &Directory{
		entries:    entries,
		negotiator: media.StdNegotiator{},
		logger:     slog.Default(),
	}
	d.conf.Store(&config{
		rootRef:          ref.Normalize(root),
		indexName:        DefaultIndexName,
		listingAllowed:   false,
		modifiable:       false,
		deeplyAccessible: true,
		negotiateContent: true,
		comparator:       compare.Alphanumeric,
		indexVariants:    []media.Type{media.TypeHTML, media.TypeURIList},
	})
	return d
}

// TargetContext implements host.ContextAware.
func (d *Directory) TargetContext() *host.Context {
	return d.tctx
}

// SetTargetContext implements host.ContextAware.
func (d *Directory) SetTargetContext(c *host.Context) {
	d.tctx = c
	if c != nil {
		d.logger = c.Logger()
	}
}

// SetNegotiator replaces the negotiation engine.
func (d *Directory) SetNegotiator(n media.Negotiator) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.negotiator = n
}

// update swaps a copy of the current snapshot through fn.
func (d *Directory) update(fn func(*config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := *d.conf.Load()
	fn(&c)
	d.conf.Store(&c)
}

// RootRef returns the normalized root reference.
func (d *Directory) RootRef() *ref.Reference {
	return d.conf.Load().rootRef
}

// SetRootRef resets the root reference; the new root is normalized the
// same way as at construction.
func (d *Directory) SetRootRef(root *ref.Reference) {
	d.update(func(c *config) { c.rootRef = ref.Normalize(root) })
}

// IndexName returns the index base name, "index" by default.
func (d *Directory) IndexName() string {
	return d.conf.Load().indexName
}

// SetIndexName sets the index base name, without extension.
func (d *Directory) SetIndexName(name string) {
	d.update(func(c *config) { c.indexName = name })
}

// ListingAllowed reports whether listings are rendered when no index
// is found.
func (d *Directory) ListingAllowed() bool {
	return d.conf.Load().listingAllowed
}

// SetListingAllowed toggles directory listings.
func (d *Directory) SetListingAllowed(allowed bool) {
	d.update(func(c *config) { c.listingAllowed = allowed })
}

// Modifiable reports whether PUT and DELETE are accepted. False by
// default: the read-only posture is the safe default.
func (d *Directory) Modifiable() bool {
	return d.conf.Load().modifiable
}

// SetModifiable opts in to PUT and DELETE.
func (d *Directory) SetModifiable(modifiable bool) {
	d.update(func(c *config) { c.modifiable = modifiable })
}

// DeeplyAccessible reports whether subdirectories are reachable, true
// by default.
func (d *Directory) DeeplyAccessible() bool {
	return d.conf.Load().deeplyAccessible
}

// SetDeeplyAccessible toggles access to subdirectories.
func (d *Directory) SetDeeplyAccessible(deep bool) {
	d.update(func(c *config) { c.deeplyAccessible = deep })
}

// NegotiateContent reports whether the best variant is negotiated
// automatically, true by default.
func (d *Directory) NegotiateContent() bool {
	return d.conf.Load().negotiateContent
}

// SetNegotiateContent toggles automatic content negotiation.
func (d *Directory) SetNegotiateContent(negotiate bool) {
	d.update(func(c *config) { c.negotiateContent = negotiate })
}

// Comparator returns the listing order.
func (d *Directory) Comparator() compare.Func {
	return d.conf.Load().comparator
}

// SetComparator installs a custom listing order.
func (d *Directory) SetComparator(cmp compare.Func) {
	d.update(func(c *config) { c.comparator = cmp })
}

// UseAlphaComparator installs the plain lexical listing order.
func (d *Directory) UseAlphaComparator() {
	d.SetComparator(compare.Lexical)
}

// UseAlphaNumComparator installs the alphanumeric listing order, which
// is also the construction-time default.
func (d *Directory) UseAlphaNumComparator() {
	d.SetComparator(compare.Alphanumeric)
}

// SetIndexVariants replaces the media types offered for generated
// listings, text/html and text/uri-list by default.
func (d *Directory) SetIndexVariants(types ...media.Type) {
	d.update(func(c *config) { c.indexVariants = types })
}
