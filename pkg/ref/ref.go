// Package ref models the URI-like references that identify request
// targets and directory entries. Equality and ordering are defined by
// the string form; parsing is deliberately shallow since references
// travel through the system mostly untouched.
package ref

import (
	"net/url"
	"strings"
)

// Reference is an opaque URI-like identifier such as
// "http://example.com:8080/docs/" or "file:///srv/data/a.txt".
type Reference struct {
	raw string
}

// New creates a reference from its string form.
func New(raw string) *Reference {
	return &Reference{raw: raw}
}

// String returns the reference's string form.
func (r *Reference) String() string {
	if r == nil {
		return ""
	}
	return r.raw
}

// IsZero reports whether the reference is nil or empty.
func (r *Reference) IsZero() bool {
	return r == nil || r.raw == ""
}

// Scheme returns the scheme part ("http", "file", ...), or "" when the
// reference is relative.
func (r *Reference) Scheme() string {
	if r == nil {
		return ""
	}
	if i := strings.Index(r.raw, "://"); i >= 0 {
		return r.raw[:i]
	}
	return ""
}

// Domain returns the host name without the port, or "" when the
// reference has no authority part.
func (r *Reference) Domain() string {
	host, _ := r.hostPort()
	return host
}

// Port returns the port as a string, or "" when none is present.
func (r *Reference) Port() string {
	_, port := r.hostPort()
	return port
}

func (r *Reference) hostPort() (string, string) {
	if r == nil {
		return "", ""
	}
	u, err := url.Parse(r.raw)
	if err != nil {
		return "", ""
	}
	return u.Hostname(), u.Port()
}

// PortOrDefault returns the explicit port, or the scheme's well-known
// port when none is present, so "http://example.com/" matches a host
// port pattern of "80".
func (r *Reference) PortOrDefault() string {
	if p := r.Port(); p != "" {
		return p
	}
	switch r.Scheme() {
	case "http":
		return "80"
	case "https":
		return "443"
	case "ftp":
		return "21"
	}
	return ""
}

// Path returns the path part of the reference.
func (r *Reference) Path() string {
	if r == nil {
		return ""
	}
	u, err := url.Parse(r.raw)
	if err != nil {
		return ""
	}
	return u.Path
}

// Base returns the reference up to and including the last "/" of its
// path. For "http://h/a/b" the base is "http://h/a/"; for a reference
// already ending in "/" it is the reference itself.
func (r *Reference) Base() *Reference {
	if r == nil {
		return nil
	}
	raw := r.raw
	// Never cut inside the authority part.
	start := 0
	if i := strings.Index(raw, "://"); i >= 0 {
		start = i + 3
	}
	if j := strings.LastIndexByte(raw[start:], '/'); j >= 0 {
		return New(raw[:start+j+1])
	}
	return New(raw + "/")
}

// Relative returns the part of target that follows this base reference,
// and whether target is actually inside it. The base must be normalized
// (trailing slash), which is what makes a sibling prefix such as
// "file:///srv/dataX" fall outside "file:///srv/data/".
func (r *Reference) Relative(target *Reference) (string, bool) {
	if r == nil || target == nil {
		return "", false
	}
	base := r.raw
	if base == "" || !strings.HasSuffix(base, "/") {
		return "", false
	}
	if target.raw == strings.TrimSuffix(base, "/") {
		// The root itself, addressed without the trailing slash.
		return "", true
	}
	if !strings.HasPrefix(target.raw, base) {
		return "", false
	}
	return target.raw[len(base):], true
}

// Normalize returns a reference whose string form ends in "/". A root
// of ".../A" would otherwise also prefix-match sibling ".../AA".
func Normalize(root *Reference) *Reference {
	if root == nil {
		return nil
	}
	if strings.HasSuffix(root.raw, "/") {
		return root
	}
	return New(root.raw + "/")
}
