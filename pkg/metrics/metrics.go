// Package metrics provides the Prometheus registry reference for the
// marketplace proxy. All metrics are defined in their owning packages
// (fetcher, marketplace) via promauto to maintain modularity and avoid
// circular dependencies; this package documents them and exposes the
// registry the HTTP exposition handler serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the proxy.
// All metrics are automatically registered via promauto in their packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Fetch Metrics (pkg/fetcher):
//   - upstream_requests_total{host, status} (Counter): Upstream requests by host and HTTP status
//   - upstream_request_duration_seconds{host} (Histogram): Fetch duration, retries included
//   - upstream_retries_total{host} (Counter): Retry attempts
//   - upstream_retry_backoff_seconds (Histogram): Backoff inserted between attempts
//   - upstream_retry_exhausted_total{host} (Counter): Fetches that exhausted all attempts
//
// Aggregation Metrics (pkg/marketplace):
//   - aggregations_total{outcome} (Counter): Aggregation runs by outcome (success, failure)
//   - aggregation_duration_seconds (Histogram): End-to-end aggregation duration
//   - aggregation_items_returned (Histogram): Sellable items returned per run
//   - collection_fetch_failures_total{collection} (Counter): Fetches absorbed by the degrade guard
//
// Example Prometheus Queries:
//
//   # Upstream error rate
//   sum(rate(upstream_requests_total{status!~"2.."}[5m])) /
//   sum(rate(upstream_requests_total[5m]))
//
//   # Share of aggregations degraded by at least one absorbed failure
//   rate(collection_fetch_failures_total[5m])
//
//   # Retry exhaustion by host
//   rate(upstream_retry_exhausted_total[5m])
//
//   # P95 aggregation latency
//   histogram_quantile(0.95, rate(aggregation_duration_seconds_bucket[5m]))
