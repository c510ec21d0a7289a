package media

import "testing"

func TestParseAccept(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   []Preference
	}{
		{
			name:   "empty accepts anything",
			header: "",
			want:   []Preference{{Type: TypeAll, Quality: 1}},
		},
		{
			name:   "single type",
			header: "text/html",
			want:   []Preference{{Type: TypeHTML, Quality: 1}},
		},
		{
			name:   "qualities",
			header: "text/html, text/plain;q=0.5",
			want: []Preference{
				{Type: TypeHTML, Quality: 1},
				{Type: TypePlain, Quality: 0.5},
			},
		},
		{
			name:   "zero quality kept as veto",
			header: "text/html;q=0",
			want:   []Preference{{Type: TypeHTML, Quality: 0}},
		},
		{
			name:   "malformed quality becomes veto",
			header: "text/html;q=abc",
			want:   []Preference{{Type: TypeHTML, Quality: 0}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseAccept(tc.header)
			if len(got) != len(tc.want) {
				t.Fatalf("ParseAccept(%q) = %v, want %v", tc.header, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("ParseAccept(%q)[%d] = %v, want %v", tc.header, i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestNegotiate(t *testing.T) {
	html := Variant{Type: TypeHTML, Identifier: "index.html"}
	plain := Variant{Type: TypePlain, Identifier: "index.txt"}

	tests := []struct {
		name     string
		variants []Variant
		prefs    []Preference
		want     string // identifier of the chosen variant, "" for nil
	}{
		{
			name:     "exact match",
			variants: []Variant{plain, html},
			prefs:    []Preference{{Type: TypeHTML, Quality: 1}},
			want:     "index.html",
		},
		{
			name:     "higher quality wins",
			variants: []Variant{plain, html},
			prefs: []Preference{
				{Type: TypePlain, Quality: 0.3},
				{Type: TypeHTML, Quality: 0.9},
			},
			want: "index.html",
		},
		{
			name:     "wildcard ties break by variant order",
			variants: []Variant{plain, html},
			prefs:    []Preference{{Type: TypeAll, Quality: 1}},
			want:     "index.txt",
		},
		{
			name:     "exact beats wildcard at equal quality",
			variants: []Variant{plain, html},
			prefs: []Preference{
				{Type: TypeAll, Quality: 1},
				{Type: TypeHTML, Quality: 1},
			},
			want: "index.html",
		},
		{
			name:     "zero quality vetoes",
			variants: []Variant{html},
			prefs:    []Preference{{Type: TypeHTML, Quality: 0}},
			want:     "",
		},
		{
			name:     "nothing acceptable",
			variants: []Variant{html},
			prefs:    []Preference{{Type: "application/json", Quality: 1}},
			want:     "",
		},
		{
			name:     "no preferences accepts anything",
			variants: []Variant{html},
			prefs:    nil,
			want:     "index.html",
		},
		{
			name:     "no variants",
			variants: nil,
			prefs:    []Preference{{Type: TypeAll, Quality: 1}},
			want:     "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := StdNegotiator{}.Negotiate(tc.variants, tc.prefs)
			if tc.want == "" {
				if got != nil {
					t.Fatalf("Negotiate = %v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Negotiate = nil, want %q", tc.want)
			}
			if got.Identifier != tc.want {
				t.Errorf("Negotiate = %q, want %q", got.Identifier, tc.want)
			}
		})
	}
}

func TestSortByQuality(t *testing.T) {
	prefs := []Preference{
		{Type: TypePlain, Quality: 0.5},
		{Type: TypeHTML, Quality: 1},
		{Type: TypeURIList, Quality: 0.5},
	}
	SortByQuality(prefs)

	if prefs[0].Type != TypeHTML {
		t.Errorf("first = %q, want %q", prefs[0].Type, TypeHTML)
	}
	// Stable among equals: plain keeps its place ahead of uri-list.
	if prefs[1].Type != TypePlain || prefs[2].Type != TypeURIList {
		t.Errorf("equal qualities reordered: %v", prefs)
	}
}
