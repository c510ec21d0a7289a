package media

import "testing"

func TestTypeParts(t *testing.T) {
	if got := TypeHTML.Main(); got != "text" {
		t.Errorf("Main() = %q, want %q", got, "text")
	}
	if got := TypeHTML.Sub(); got != "html" {
		t.Errorf("Sub() = %q, want %q", got, "html")
	}
}

func TestTypeIncludes(t *testing.T) {
	tests := []struct {
		t, other Type
		want     bool
	}{
		{TypeAll, TypeHTML, true},
		{TypeHTML, TypeHTML, true},
		{"text/*", TypeHTML, true},
		{"text/*", TypePlain, true},
		{"text/*", TypeOctetStream, false},
		{TypeHTML, TypePlain, false},
		{TypePlain, TypeAll, false},
	}

	for _, tc := range tests {
		if got := tc.t.Includes(tc.other); got != tc.want {
			t.Errorf("%q.Includes(%q) = %v, want %v", tc.t, tc.other, got, tc.want)
		}
	}
}

func TestByExtension(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"index.html", TypeHTML},
		{"readme.txt", TypePlain},
		{"notes.md", "text/markdown"},
		{"data.json", "application/json"},
		{"archive.unknownext", TypeOctetStream},
		{"noextension", TypeOctetStream},
	}

	for _, tc := range tests {
		if got := ByExtension(tc.name); got != tc.want {
			t.Errorf("ByExtension(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}
