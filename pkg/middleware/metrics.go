package middleware

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/berth-web/berth/pkg/host"
	"github.com/berth-web/berth/pkg/message"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "berth").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for resolution duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "berth",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the resolution layer.
type metrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	unavailableTotal   *prometheus.CounterVec
}

var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolutions_total",
			Help:        "Total number of resolved requests by virtual host and status",
			ConstLabels: config.ConstLabels,
		}, []string{"host", "status"}),

		resolutionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "resolution_duration_seconds",
			Help:        "Request resolution duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"host"}),

		unavailableTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "storage_unavailable_total",
			Help:        "Total number of requests that failed on storage faults",
			ConstLabels: config.ConstLabels,
		}, []string{"host"}),
	}
}

// Prometheus creates middleware that records resolution metrics.
//
// Metrics collected:
//   - berth_resolutions_total: counter by virtual host and status
//   - berth_resolution_duration_seconds: resolution latency histogram
//   - berth_storage_unavailable_total: counter of storage-fault outcomes
//
// Example:
//
//	handler := middleware.Chain(selectorHandler,
//	    middleware.Prometheus(middleware.WithNamespace("myapp")),
//	)
func Prometheus(opts ...MetricsOption) Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return func(next message.Handler) message.Handler {
		return message.HandlerFunc(func(ctx context.Context, req *message.Request, resp *message.Response) {
			start := time.Now()
			next.Handle(ctx, req, resp)
			duration := time.Since(start).Seconds()

			hostName := hostLabel(ctx, req)
			m.resolutionDuration.WithLabelValues(hostName).Observe(duration)
			m.resolutionsTotal.WithLabelValues(hostName, strconv.Itoa(int(resp.Status))).Inc()
			if resp.Status == message.StatusUnavailable {
				m.unavailableTotal.WithLabelValues(hostName).Inc()
			}
		})
	}
}

// hostLabel prefers the routed virtual host's display name over the
// raw request domain, keeping label cardinality bounded by
// configuration.
func hostLabel(ctx context.Context, req *message.Request) string {
	if vh := host.Current(ctx); vh != nil {
		return vh.Name()
	}
	if d := req.HostRef.Domain(); d != "" {
		return d
	}
	return "unknown"
}
