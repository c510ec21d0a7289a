// Package media models media types, representation variants and the
// content negotiation used to pick the best variant for a request.
//
// The negotiation engine is a capability: resolvers depend on the
// Negotiator interface and the built-in StdNegotiator can be swapped
// for an external engine.
package media

import (
	"mime"
	"path"
	"strings"
)

// Type is a media type in its canonical "type/subtype" form.
type Type string

// Media types used by the directory resolver.
const (
	TypeAll         Type = "*/*"
	TypeHTML        Type = "text/html"
	TypeURIList     Type = "text/uri-list"
	TypePlain       Type = "text/plain"
	TypeOctetStream Type = "application/octet-stream"
)

// Main returns the main type ("text" for "text/html").
func (t Type) Main() string {
	s, _, _ := strings.Cut(string(t), "/")
	return s
}

// Sub returns the subtype ("html" for "text/html").
func (t Type) Sub() string {
	_, s, _ := strings.Cut(string(t), "/")
	return s
}

// Includes reports whether t, possibly a wildcard, covers other.
func (t Type) Includes(other Type) bool {
	if t == TypeAll || t == other {
		return true
	}
	return t.Sub() == "*" && t.Main() == other.Main()
}

// Variant describes one alternative representation of a resource.
type Variant struct {
	// Type is the variant's media type.
	Type Type

	// Identifier is the entry name backing the variant, when it comes
	// from a store ("index.html"). Synthetic variants such as generated
	// listings leave it empty.
	Identifier string
}

// ByExtension maps a file name to a media type using its extension.
// Unknown extensions fall back to application/octet-stream.
func ByExtension(name string) Type {
	ext := path.Ext(name)
	if ext == "" {
		return TypeOctetStream
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// Strip parameters such as "; charset=utf-8".
		base, _, _ := strings.Cut(t, ";")
		return Type(strings.TrimSpace(base))
	}
	if t, ok := extraTypes[strings.ToLower(ext)]; ok {
		return t
	}
	return TypeOctetStream
}

// extraTypes covers extensions the platform mime database may miss.
var extraTypes = map[string]Type{
	".md":   "text/markdown",
	".json": "application/json",
	".txt":  TypePlain,
	".html": TypeHTML,
	".htm":  TypeHTML,
	".xml":  "application/xml",
	".css":  "text/css",
	".js":   "text/javascript",
}
