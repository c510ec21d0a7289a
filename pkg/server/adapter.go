// Package server bridges net/http to the resolution layer: it builds
// structured requests from parsed HTTP requests, selects the owning
// virtual host and writes the resolved representation back out. Wire
// parsing, TLS and connection handling stay in net/http.
package server

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/media"
	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/middleware"
	"github.com/berth-web/berth/pkg/ref"
)

// Adapter is an http.Handler resolving requests through a host
// selector.
type Adapter struct {
	selector *host.Selector
	info     message.ServerInfo
	mws      []middleware.Middleware
	logger   *slog.Logger
}

// NewAdapter creates an adapter around a selector. The info describes
// the listening connector and is matched by the hosts' serverAddress
// and serverPort patterns.
func NewAdapter(selector *host.Selector, info message.ServerInfo, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{selector: selector, info: info, logger: logger}
}

// Use appends middleware applied to every resolved request, after host
// selection so the current-host marker is visible to it.
func (a *Adapter) Use(mws ...middleware.Middleware) {
	a.mws = append(a.mws, mws...)
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := fromHTTP(r)
	resp := &message.Response{Server: a.info}

	vh := a.selector.Select(req, a.info)
	if vh == nil {
		a.logger.Debug("no virtual host accepted the request",
			"host", req.HostRef.String(), "path", req.ResourceRef.Path())
		http.NotFound(w, r)
		return
	}

	ctx := host.WithCurrent(r.Context(), vh)
	middleware.Chain(vh, a.mws...).Handle(ctx, req, resp)
	writeResponse(w, r, resp)
}

// fromHTTP converts a parsed HTTP request into the resolution layer's
// request shape.
func fromHTTP(r *http.Request) *message.Request {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	req := &message.Request{
		Method:      r.Method,
		HostRef:     ref.New(scheme + "://" + r.Host + "/"),
		ResourceRef: ref.New(scheme + "://" + r.Host + r.URL.Path),
		Accept:      media.ParseAccept(r.Header.Get("Accept")),
		ClientAddr:  clientAddr(r),
	}
	if r.Method == message.MethodPut && r.Body != nil {
		req.Entity = r.Body
		req.EntityType = media.Type(r.Header.Get("Content-Type"))
	}
	return req
}

// clientAddr strips the port from the remote address.
func clientAddr(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// writeResponse maps the resolution outcome back onto the HTTP
// response.
func writeResponse(w http.ResponseWriter, r *http.Request, resp *message.Response) {
	if resp.Status == 0 {
		resp.Status = message.StatusNotFound
	}

	if len(resp.Allowed) > 0 {
		w.Header().Set("Allow", strings.Join(resp.Allowed, ", "))
	}

	entity := resp.Entity
	if entity == nil {
		w.WriteHeader(int(resp.Status))
		return
	}
	defer entity.Content.Close()

	w.Header().Set("Content-Type", string(entity.Type))
	if entity.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(entity.Size, 10))
	}
	if !entity.ModTime.IsZero() {
		w.Header().Set("Last-Modified", entity.ModTime.UTC().Format(time.RFC1123))
	}
	w.WriteHeader(int(resp.Status))

	if r.Method == message.MethodHead {
		return
	}
	io.Copy(w, entity.Content)
}
