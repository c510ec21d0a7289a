package media

import (
	"sort"
	"strconv"
	"strings"
)

// Preference is one entry of a client's Accept header: a media range
// and its quality.
type Preference struct {
	Type    Type
	Quality float64
}

// ParseAccept parses an Accept header into preferences. Entries with a
// malformed or zero quality are kept with q=0 so they can veto a type.
// An empty header means "accept anything".
func ParseAccept(header string) []Preference {
	if strings.TrimSpace(header) == "" {
		return []Preference{{Type: TypeAll, Quality: 1}}
	}

	var prefs []Preference
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ";")
		p := Preference{Type: Type(strings.TrimSpace(fields[0])), Quality: 1}
		for _, f := range fields[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
			if !ok || strings.TrimSpace(k) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				p.Quality = q
			} else {
				p.Quality = 0
			}
		}
		prefs = append(prefs, p)
	}
	return prefs
}

// Negotiator selects the variant that best satisfies a client's stated
// preferences, or nil when none is acceptable.
type Negotiator interface {
	Negotiate(variants []Variant, prefs []Preference) *Variant
}

// StdNegotiator is the built-in negotiation engine. It scores each
// variant by the highest-quality preference covering it, preferring
// exact matches over wildcard matches at equal quality, and breaks
// remaining ties by variant order.
type StdNegotiator struct{}

// Negotiate implements Negotiator.
func (StdNegotiator) Negotiate(variants []Variant, prefs []Preference) *Variant {
	if len(variants) == 0 {
		return nil
	}
	if len(prefs) == 0 {
		prefs = []Preference{{Type: TypeAll, Quality: 1}}
	}

	type scored struct {
		variant  Variant
		quality  float64
		exact    bool
		position int
	}

	var best *scored
	for i, v := range variants {
		s := scored{variant: v, quality: -1, position: i}
		for _, p := range prefs {
			if !p.Type.Includes(v.Type) {
				continue
			}
			exact := p.Type == v.Type
			if p.Quality > s.quality || (p.Quality == s.quality && exact && !s.exact) {
				s.quality = p.Quality
				s.exact = exact
			}
		}
		if s.quality <= 0 {
			continue
		}
		if best == nil {
			b := s
			best = &b
			continue
		}
		if s.quality > best.quality || (s.quality == best.quality && s.exact && !best.exact) {
			b := s
			best = &b
		}
	}

	if best == nil {
		return nil
	}
	v := best.variant
	return &v
}

// SortByQuality orders preferences by descending quality, keeping the
// header order among equals.
func SortByQuality(prefs []Preference) {
	sort.SliceStable(prefs, func(i, j int) bool {
		return prefs[i].Quality > prefs[j].Quality
	})
}
