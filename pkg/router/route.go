package router

import (
	"regexp"
	"strings"

	"github.com/berth-web/berth/pkg/message"
)

// templateVar matches a "{name}" template variable.
var templateVar = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)

// Route is one attachment record pairing a URI pattern with a target.
type Route struct {
	pattern string
	re      *regexp.Regexp // nil for the default route
	target  message.Handler
}

// newRoute compiles a pattern into a route. Template variables become
// single-segment wildcards; everything else is matched literally.
func newRoute(pattern string, target message.Handler) (*Route, error) {
	rt := &Route{pattern: pattern, target: target}
	if pattern == "" {
		return rt, nil
	}

	var b strings.Builder
	b.WriteString(`\A`)
	last := 0
	for _, loc := range templateVar.FindAllStringIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		b.WriteString(`[^/]+`)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	rt.re = re
	return rt, nil
}

// Pattern returns the route's URI pattern.
func (rt *Route) Pattern() string {
	return rt.pattern
}

// Target returns the attached handler.
func (rt *Route) Target() message.Handler {
	return rt.target
}

// matchPrefix reports whether the route matches a prefix of rem and how
// many characters it consumed. The match must end at a segment
// boundary, so the pattern "/A" does not claim "/AB".
func (rt *Route) matchPrefix(rem string) (int, bool) {
	if rt.re == nil {
		return 0, true
	}
	loc := rt.re.FindStringIndex(rem)
	if loc == nil {
		return 0, false
	}
	end := loc[1]
	if end < len(rem) && rem[end] != '/' && (end == 0 || rem[end-1] != '/') {
		return 0, false
	}
	return end, true
}
