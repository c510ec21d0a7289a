package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/message"
)

// Default tracer name for berth servers.
const defaultTracerName = "berth"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "berth").
	TracerName string

	// IncludeHost includes the routed virtual host name in spans.
	// Enabled by default.
	IncludeHost bool

	// Filter determines which requests to trace. Return true to trace
	// the request, false to skip. If nil, all requests are traced.
	Filter func(req *message.Request) bool

	// AttributeExtractor extracts custom attributes from the request.
	AttributeExtractor func(req *message.Request) []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeHost enables/disables the virtual host span attribute.
func WithIncludeHost(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeHost = include
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(req *message.Request) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(req *message.Request) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName:  defaultTracerName,
		IncludeHost: true,
	}
}

// OpenTelemetry creates middleware that traces every resolution.
//
// The middleware creates one span per request with method, path and
// the terminal status, records non-2xx outcomes on the span, and uses
// the global tracer provider. Configure the provider in main() before
// starting the server.
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)

	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
			if config.Filter != nil && !config.Filter(req) {
				next.Handle(ctx, req, resp)
				return
			}

			attrs := []attribute.KeyValue{
				attribute.String("berth.method", req.Method),
				attribute.String("berth.path", req.ResourceRef.Path()),
			}
			if config.IncludeHost {
				if vh := host.Current(ctx); vh != nil {
					attrs = append(attrs, attribute.String("berth.host", vh.Name()))
				} else {
					attrs = append(attrs, attribute.String("berth.host", req.HostRef.Domain()))
				}
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(req)...)
			}

			spanCtx, span := config.tracer.Start(
				ctx,
				spanName(req),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
				trace.WithTimestamp(time.Now()),
			)
			defer span.End()

			next.Handle(spanCtx, req, resp)

			span.SetAttributes(attribute.Int("berth.status", int(resp.Status)))
			if resp.Status.Success() {
				span.SetStatus(codes.Ok, "")
			} else {
				span.SetStatus(codes.Error, resp.Status.String())
			}
		})
	}
}

// spanName builds the span name from the request path.
func spanName(req *message.Request) string {
	path := req.ResourceRef.Path()
	if path == "" {
		path = "/"
	}
	return "berth " + path
}
