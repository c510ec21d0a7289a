package middleware

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/berth-web/berth/pkg/message"
	"github.com/berth-web/berth/pkg/ref"
)

func TestPrometheusRecordsResolutions(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw := Prometheus(WithRegistry(reg))

	handler := mw(message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
		resp.SetStatus(message.StatusOK)
	}))

	req := &message.Request{
		Method:      message.MethodGet,
		HostRef:     ref.New("http://example.com/"),
		ResourceRef: ref.New("http://example.com/a"),
	}
	handler.Handle(context.Background(), req, &message.Response{})
	handler.Handle(context.Background(), req, &message.Response{})

	if n := testutil.CollectAndCount(reg, "berth_resolutions_total"); n != 1 {
		t.Errorf("resolutions_total series = %d, want 1", n)
	}
	if n := testutil.CollectAndCount(reg, "berth_resolution_duration_seconds"); n != 1 {
		t.Errorf("resolution_duration series = %d, want 1", n)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mk := func(name string) Middleware {
		return func(next message.Handler) message.Handler {
			return message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
				order = append(order, name)
				next.Handle(ctx, req, resp)
			})
		}
	}

	h := Chain(message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
		order = append(order, "target")
	}), mk("outer"), mk("inner"))

	h.Handle(context.Background(), &message.Request{
		HostRef:     ref.New("http://h/"),
		ResourceRef: ref.New("http://h/"),
	}, &message.Response{})

	want := []string{"outer", "inner", "target"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
