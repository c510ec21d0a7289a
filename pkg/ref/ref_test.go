package ref

import "testing"

func TestReferenceParts(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantScheme string
		wantDomain string
		wantPort   string
		wantPath   string
	}{
		{
			name:       "http with port",
			raw:        "http://www.example.com:8080/docs/a.txt",
			wantScheme: "http",
			wantDomain: "www.example.com",
			wantPort:   "8080",
			wantPath:   "/docs/a.txt",
		},
		{
			name:       "http without port",
			raw:        "http://example.com/",
			wantScheme: "http",
			wantDomain: "example.com",
			wantPath:   "/",
		},
		{
			name:       "file root",
			raw:        "file:///srv/data/",
			wantScheme: "file",
			wantPath:   "/srv/data/",
		},
		{
			name:     "relative",
			raw:      "a/b.txt",
			wantPath: "a/b.txt",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := New(tc.raw)
			if got := r.Scheme(); got != tc.wantScheme {
				t.Errorf("Scheme() = %q, want %q", got, tc.wantScheme)
			}
			if got := r.Domain(); got != tc.wantDomain {
				t.Errorf("Domain() = %q, want %q", got, tc.wantDomain)
			}
			if got := r.Port(); got != tc.wantPort {
				t.Errorf("Port() = %q, want %q", got, tc.wantPort)
			}
			if got := r.Path(); got != tc.wantPath {
				t.Errorf("Path() = %q, want %q", got, tc.wantPath)
			}
		})
	}
}

func TestPortOrDefault(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"http://example.com/", "80"},
		{"https://example.com/", "443"},
		{"ftp://example.com/", "21"},
		{"http://example.com:8080/", "8080"},
		{"file:///srv/data/", ""},
	}

	for _, tc := range tests {
		if got := New(tc.raw).PortOrDefault(); got != tc.want {
			t.Errorf("PortOrDefault(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"http://h/a/b", "http://h/a/"},
		{"http://h/a/", "http://h/a/"},
		{"http://h/", "http://h/"},
		{"http://h", "http://h/"},
	}

	for _, tc := range tests {
		if got := New(tc.raw).Base().String(); got != tc.want {
			t.Errorf("Base(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestRelative(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		target string
		want   string
		wantOK bool
	}{
		{
			name:   "inside",
			base:   "file:///srv/data/",
			target: "file:///srv/data/a/b.txt",
			want:   "a/b.txt",
			wantOK: true,
		},
		{
			name:   "root itself without slash",
			base:   "file:///srv/data/",
			target: "file:///srv/data",
			want:   "",
			wantOK: true,
		},
		{
			name:   "sibling prefix stays outside",
			base:   "file:///srv/data/",
			target: "file:///srv/dataX/secret",
			wantOK: false,
		},
		{
			name:   "unnormalized base rejected",
			base:   "file:///srv/data",
			target: "file:///srv/data/a.txt",
			wantOK: false,
		},
		{
			name:   "unrelated",
			base:   "file:///srv/data/",
			target: "http://example.com/a",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := New(tc.base).Relative(New(tc.target))
			if ok != tc.wantOK {
				t.Fatalf("Relative ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Errorf("Relative = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(New("file:///srv/data")).String(); got != "file:///srv/data/" {
		t.Errorf("Normalize = %q, want %q", got, "file:///srv/data/")
	}
	if got := Normalize(New("file:///srv/data/")).String(); got != "file:///srv/data/" {
		t.Errorf("Normalize kept = %q, want %q", got, "file:///srv/data/")
	}
	if Normalize(nil) != nil {
		t.Error("Normalize(nil) should be nil")
	}
}

func TestIsZero(t *testing.T) {
	var r *Reference
	if !r.IsZero() {
		t.Error("nil reference should be zero")
	}
	if !New("").IsZero() {
		t.Error("empty reference should be zero")
	}
	if New("http://h/").IsZero() {
		t.Error("non-empty reference should not be zero")
	}
}
