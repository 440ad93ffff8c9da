// Package metrics defines the Prometheus collectors for the viagens UI.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles every collector the service emits. A single instance is
// created at bootstrap and shared by the HTTP middleware, the remote API
// client, and the auth service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	apiRequests    *prometheus.CounterVec
	apiDuration    *prometheus.HistogramVec
	decodeFailures prometheus.Counter
}

// New creates the collectors under the given namespace on a fresh registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route pattern, and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trips_api_requests_total",
			Help:      "Requests issued to the remote viagens API, by operation and status.",
		}, []string{"operation", "status"}),
		apiDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trips_api_request_duration_seconds",
			Help:      "Remote viagens API latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		decodeFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_claim_decode_failures_total",
			Help:      "Bearer tokens whose payload segment could not be decoded.",
		}),
	}
}

// Registry returns the registry backing the collectors, for mounting the
// scrape endpoint.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRequest records one remote viagens API call. It satisfies the trips
// API client's observer interface.
func (m *Metrics) ObserveRequest(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// DecodeFailures returns the counter for undecodable token payloads. It is
// handed to the auth service as a plain Inc() sink.
func (m *Metrics) DecodeFailures() prometheus.Counter {
	if m == nil {
		return nil
	}
	return m.decodeFailures
}
