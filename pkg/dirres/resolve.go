package dirres

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
	"github.com/berth-web/berth/pkg/store"
)

// Handle implements message.Handler. Every request resolves to exactly
// one terminal outcome; storage faults are logged and surfaced as
// Unavailable, never propagated.
func (d *Directory) Handle(ctx context.Context, req *message.Request, resp *message.Response) {
	conf := d.conf.Load()

	rel, ok := relativePart(req)
	if !ok {
		resp.SetStatus(message.StatusNotFound)
		return
	}

	canonical, err := ref.CanonicalizeRelative(rel)
	if err != nil {
		d.logger.Debug("rejected resource path", "path", rel, "reason", err)
		resp.SetStatus(message.StatusNotFound)
		return
	}

	if !conf.deeplyAccessible && strings.Contains(strings.TrimSuffix(canonical, "/"), "/") {
		resp.SetStatus(message.StatusNotFound)
		return
	}

	switch req.Method {
	case message.MethodGet, message.MethodHead:
		d.serveRead(ctx, conf, req, resp, canonical)
	case message.MethodPut:
		d.servePut(ctx, conf, req, resp, canonical)
	case message.MethodDelete:
		d.serveDelete(ctx, conf, resp, canonical)
	default:
		d.methodNotAllowed(conf, resp)
	}
}

// relativePart returns the resource path relative to the request's
// root reference.
func relativePart(req *message.Request) (string, bool) {
	if req.RootRef != nil && !req.RootRef.IsZero() {
		return ref.Normalize(req.RootRef).Relative(req.ResourceRef)
	}
	return strings.TrimPrefix(req.ResourceRef.Path(), "/"), true
}

func (d *Directory) methodNotAllowed(conf *config, resp *message.Response) {
	allowed := []string{message.MethodGet, message.MethodHead}
	if conf.modifiable {
		allowed = append(allowed, message.MethodPut, message.MethodDelete)
	}
	resp.Allowed = allowed
	resp.SetStatus(message.StatusMethodNotAllowed)
}

// serveRead resolves GET and HEAD.
func (d *Directory) serveRead(ctx context.Context, conf *config, req *message.Request, resp *message.Response, canonical string) {
	if canonical == "" || strings.HasSuffix(canonical, "/") {
		d.serveDirectory(ctx, conf, req, resp, canonical)
		return
	}

	rc, entry, err := d.entries.Open(ctx, conf.rootRef, canonical)
	if err == nil {
		resp.Entity = media.NewStream(media.ByExtension(entry.Name), rc, entry.Size, entry.ModTime)
		resp.SetStatus(message.StatusOK)
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		d.warnStorage("unable to open the directory's resource", canonical, err)
		resp.SetStatus(message.StatusUnavailable)
		return
	}

	// No exact entry. Try negotiating among same-named variants, then
	// fall back to treating the path as a directory addressed without
	// its trailing slash.
	if conf.negotiateContent && d.serveNegotiated(ctx, conf, req, resp, canonical) {
		return
	}
	if _, err := d.entries.List(ctx, conf.rootRef, canonical+"/"); err == nil {
		d.serveDirectory(ctx, conf, req, resp, canonical+"/")
		return
	}
	resp.SetStatus(message.StatusNotFound)
}

// serveNegotiated looks for sibling entries sharing the requested base
// name and serves the best variant. Returns false when there are no
// candidates; a candidate set that satisfies no preference is a
// terminal NotAcceptable.
func (d *Directory) serveNegotiated(ctx context.Context, conf *config, req *message.Request, resp *message.Response, canonical string) bool {
	dir, base := path.Split(canonical)
	listing, err := d.entries.List(ctx, conf.rootRef, dir)
	if err != nil {
		return false
	}

	var variants []media.Variant
	for _, e := range listing {
		if e.Dir || !sameBaseName(e.Name, base) {
			continue
		}
		variants = append(variants, media.Variant{
			Type:       media.ByExtension(e.Name),
			Identifier: e.Name,
		})
	}
	if len(variants) == 0 {
		return false
	}

	chosen := d.negotiator.Negotiate(variants, req.Accept)
	if chosen == nil {
		resp.SetStatus(message.StatusNotAcceptable)
		return true
	}

	rc, entry, err := d.entries.Open(ctx, conf.rootRef, dir+chosen.Identifier)
	if err != nil {
		d.warnStorage("unable to open negotiated variant", dir+chosen.Identifier, err)
		resp.SetStatus(message.StatusUnavailable)
		return true
	}
	resp.Entity = media.NewStream(chosen.Type, rc, entry.Size, entry.ModTime)
	resp.SetStatus(message.StatusOK)
	return true
}

// serveDirectory resolves a directory request: index first, otherwise
// a generated listing when allowed.
func (d *Directory) serveDirectory(ctx context.Context, conf *config, req *message.Request, resp *message.Response, dir string) {
	listing, err := d.entries.List(ctx, conf.rootRef, dir)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			resp.SetStatus(message.StatusNotFound)
			return
		}
		d.warnStorage("unable to list the directory", dir, err)
		resp.SetStatus(message.StatusUnavailable)
		return
	}

	if conf.negotiateContent {
		var variants []media.Variant
		for _, e := range listing {
			if e.Dir || !sameBaseName(e.Name, conf.indexName) {
				continue
			}
			variants = append(variants, media.Variant{
				Type:       media.ByExtension(e.Name),
				Identifier: e.Name,
			})
		}
		if len(variants) > 0 {
			chosen := d.negotiator.Negotiate(variants, req.Accept)
			if chosen == nil {
				resp.SetStatus(message.StatusNotAcceptable)
				return
			}
			d.serveEntry(ctx, conf, resp, dir+chosen.Identifier, chosen.Type)
			return
		}
	} else {
		// Without negotiation only an exact index match counts.
		for _, e := range listing {
			if !e.Dir && e.Name == conf.indexName {
				d.serveEntry(ctx, conf, resp, dir+e.Name, media.ByExtension(e.Name))
				return
			}
		}
	}

	if !conf.listingAllowed {
		resp.SetStatus(message.StatusNotFound)
		return
	}
	d.serveListing(conf, req, resp, listing)
}

// serveEntry opens one entry and attaches it as the response entity.
func (d *Directory) serveEntry(ctx context.Context, conf *config, resp *message.Response, rel string, t media.Type) {
	rc, entry, err := d.entries.Open(ctx, conf.rootRef, rel)
	if err != nil {
		d.warnStorage("unable to open index entry", rel, err)
		resp.SetStatus(message.StatusUnavailable)
		return
	}
	resp.Entity = media.NewStream(t, rc, entry.Size, entry.ModTime)
	resp.SetStatus(message.StatusOK)
}

// servePut handles writes, which must be opted in via SetModifiable.
func (d *Directory) servePut(ctx context.Context, conf *config, req *message.Request, resp *message.Response, canonical string) {
	if !conf.modifiable {
		d.methodNotAllowed(conf, resp)
		return
	}
	if canonical == "" || strings.HasSuffix(canonical, "/") || req.Entity == nil {
		resp.SetStatus(message.StatusNotFound)
		return
	}
	defer req.Entity.Close()
	if err := d.entries.Write(ctx, conf.rootRef, canonical, req.Entity); err != nil {
		d.warnStorage("unable to write entry", canonical, err)
		resp.SetStatus(message.StatusUnavailable)
		return
	}
	resp.SetStatus(message.StatusCreated)
}

// serveDelete handles deletions, also gated on SetModifiable.
func (d *Directory) serveDelete(ctx context.Context, conf *config, resp *message.Response, canonical string) {
	if !conf.modifiable {
		d.methodNotAllowed(conf, resp)
		return
	}
	if err := d.entries.Remove(ctx, conf.rootRef, canonical); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			resp.SetStatus(message.StatusNotFound)
			return
		}
		d.warnStorage("unable to remove entry", canonical, err)
		resp.SetStatus(message.StatusUnavailable)
		return
	}
	resp.SetStatus(message.StatusNoContent)
}

func (d *Directory) warnStorage(msg, rel string, err error) {
	d.logger.Warn(msg, "path", rel, "error", err)
}

// sameBaseName reports whether an entry name equals base, ignoring the
// entry's extension: "index.html" and "index.txt" both match "index".
func sameBaseName(name, base string) bool {
	if name == base {
		return true
	}
	ext := path.Ext(name)
	return ext != "" && strings.TrimSuffix(name, ext) == base
}
