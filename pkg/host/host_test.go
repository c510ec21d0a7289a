package host

import (
	"context"
	"errors"
	"testing"

	berrors "github.com/berth-web/berth/internal/errors"
	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
)

func newRequest(hostRef, resourceRef string) *message.Request {
	return &message.Request{
		Method:      message.MethodGet,
		HostRef:     ref.New(hostRef),
		ResourceRef: ref.New(resourceRef),
	}
}

var testInfo = message.ServerInfo{Address: "127.0.0.1", Port: "8080"}

func TestNewHostMatchesEverything(t *testing.T) {
	vh := New(nil, "any")

	reqs := []*message.Request{
		newRequest("http://www.example.com/", "http://www.example.com/a"),
		newRequest("https://other.test:9443/", "https://other.test:9443/x/y"),
	}
	for _, req := range reqs {
		if !vh.Matches(req, testInfo) {
			t.Errorf("default host should match %s", req.ResourceRef)
		}
	}
}

func TestMatchesIsConjunctionOverAllPatterns(t *testing.T) {
	req := newRequest("http://www.example.com:8080/", "http://www.example.com:8080/docs/a")

	// Each case restricts exactly one pattern to a non-matching value;
	// a single failing comparison must reject the whole call.
	cases := []struct {
		name string
		set  func(*PatternSet)
	}{
		{"hostDomain", func(ps *PatternSet) { ps.HostDomain = `www\.other\.com` }},
		{"hostPort", func(ps *PatternSet) { ps.HostPort = "9999" }},
		{"hostScheme", func(ps *PatternSet) { ps.HostScheme = "https" }},
		{"resourceDomain", func(ps *PatternSet) { ps.ResourceDomain = `www\.other\.com` }},
		{"resourcePort", func(ps *PatternSet) { ps.ResourcePort = "9999" }},
		{"resourceScheme", func(ps *PatternSet) { ps.ResourceScheme = "ftp" }},
		{"serverAddress", func(ps *PatternSet) { ps.ServerAddress = `10\.0\.0\.1` }},
		{"serverPort", func(ps *PatternSet) { ps.ServerPort = "81" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vh := New(nil, "test")
			ps := vh.Patterns()
			tc.set(&ps)
			if err := vh.SetPatterns(ps); err != nil {
				t.Fatal(err)
			}
			if vh.Matches(req, testInfo) {
				t.Errorf("host should reject the call when %s does not match", tc.name)
			}
		})
	}
}

func TestMatchesAnchoredFullMatch(t *testing.T) {
	vh := New(nil, "test")
	if err := vh.SetHostDomain("example"); err != nil {
		t.Fatal(err)
	}

	// "example" is a substring of the domain but not a full match.
	req := newRequest("http://www.example.com/", "http://www.example.com/a")
	if vh.Matches(req, testInfo) {
		t.Error("pattern must match the whole domain, not a substring")
	}

	if err := vh.SetHostDomain(`www\.example\.com`); err != nil {
		t.Fatal(err)
	}
	if !vh.Matches(req, testInfo) {
		t.Error("full-domain pattern should match")
	}
}

func TestMatchesDefaultPorts(t *testing.T) {
	vh := New(nil, "test")
	if err := vh.SetHostPort("80"); err != nil {
		t.Fatal(err)
	}

	req := newRequest("http://example.com/", "http://example.com/a")
	if !vh.Matches(req, testInfo) {
		t.Error("implicit http port should match pattern 80")
	}

	if err := vh.SetHostPort("443"); err != nil {
		t.Fatal(err)
	}
	if vh.Matches(req, testInfo) {
		t.Error("http request should not match port pattern 443")
	}
}

func TestSetPatternInvalidRegexp(t *testing.T) {
	vh := New(nil, "test")
	err := vh.SetHostDomain("[")
	if err == nil {
		t.Fatal("invalid pattern must be rejected")
	}

	var be *berrors.Error
	if !errors.As(err, &be) || be.Code != "B001" {
		t.Errorf("error = %v, want code B001", err)
	}

	// The failed setter must leave the previous snapshot in place.
	req := newRequest("http://example.com/", "http://example.com/a")
	if !vh.Matches(req, testInfo) {
		t.Error("host should still use the previous pattern set")
	}
}

func TestSetPatternsSwapsAtomically(t *testing.T) {
	vh := New(nil, "test")
	ps := vh.Patterns()
	ps.HostDomain = `a\.test`
	ps.HostScheme = "https"
	if err := vh.SetPatterns(ps); err != nil {
		t.Fatal(err)
	}

	got := vh.Patterns()
	if got.HostDomain != `a\.test` || got.HostScheme != "https" {
		t.Errorf("Patterns() = %+v, want the swapped set", got)
	}
	if got.HostPort != MatchAll {
		t.Errorf("untouched field = %q, want %q", got.HostPort, MatchAll)
	}
}

func TestCurrentHostMarker(t *testing.T) {
	vh := New(nil, "marked")

	var seen *VirtualHost
	target := message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
		seen = Current(ctx)
		resp.SetStatus(message.StatusOK)
	})
	if _, err := vh.Attach(target); err != nil {
		t.Fatal(err)
	}

	req := newRequest("http://example.com/", "http://example.com/a")
	vh.Handle(context.Background(), req, &message.Response{})

	if seen != vh {
		t.Errorf("Current(ctx) = %v, want the routing host", seen)
	}
	if Current(context.Background()) != nil {
		t.Error("Current on a bare context should be nil")
	}
}

func TestHandleEstablishesRootRef(t *testing.T) {
	vh := New(nil, "test")

	var root string
	target := message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
		root = req.RootRef.String()
		resp.SetStatus(message.StatusOK)
	})
	if _, err := vh.AttachPattern("/docs", target); err != nil {
		t.Fatal(err)
	}

	req := newRequest("http://example.com:8080/", "http://example.com:8080/docs/a.txt")
	vh.Handle(context.Background(), req, &message.Response{})

	if root != "http://example.com:8080/docs/" {
		t.Errorf("rootRef = %q, want %q", root, "http://example.com:8080/docs/")
	}
}

func TestSelectorRegistrationOrder(t *testing.T) {
	s := NewSelector()
	first := New(nil, "first")
	second := New(nil, "second")
	s.Add(first)
	s.Add(second)

	req := newRequest("http://example.com/", "http://example.com/a")
	if got := s.Select(req, testInfo); got != first {
		t.Errorf("Select = %s, want the first registered host", got.Name())
	}
}

func TestSelectorDefaultHost(t *testing.T) {
	s := NewSelector()
	restricted := New(nil, "restricted")
	if err := restricted.SetHostDomain(`only\.this\.host`); err != nil {
		t.Fatal(err)
	}
	def := New(nil, "default")
	s.Add(restricted)
	s.SetDefault(def)

	req := newRequest("http://example.com/", "http://example.com/a")
	if got := s.Select(req, testInfo); got != def {
		t.Errorf("Select = %v, want the default host", got)
	}
}

func TestSelectorNoMatchNoDefault(t *testing.T) {
	s := NewSelector()
	restricted := New(nil, "restricted")
	if err := restricted.SetHostDomain(`only\.this\.host`); err != nil {
		t.Fatal(err)
	}
	s.Add(restricted)

	req := newRequest("http://example.com/", "http://example.com/a")
	if got := s.Select(req, testInfo); got != nil {
		t.Errorf("Select = %v, want nil", got)
	}
}

func TestFinderBuildsFreshTargets(t *testing.T) {
	var built int
	finder := NewFinder(nil, func(c *Context) message.Handler {
		built++
		return message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
			resp.SetStatus(message.StatusOK)
		})
	})

	req := newRequest("http://example.com/", "http://example.com/a")
	finder.Handle(context.Background(), req, &message.Response{})
	finder.Handle(context.Background(), req, &message.Response{})

	if built != 2 {
		t.Errorf("factory invoked %d times, want one per call", built)
	}
}

func TestContextIsolation(t *testing.T) {
	root := NewContext("root", nil)
	a := root.CreateChildContext("a")
	b := root.CreateChildContext("b")

	a.Set("key", "value-a")
	if _, ok := b.Get("key"); ok {
		t.Error("child contexts must not share attributes")
	}
	if a.ID() == b.ID() {
		t.Error("child contexts must have distinct IDs")
	}
}
