// Package metrics defines Prometheus collectors for the scan, filter and
// reorganization pipelines.
//
// All collectors are registered with the default registry via promauto.
// The CLI optionally exposes them on a /metrics endpoint when started with
// --metrics-addr; library consumers can gather them from the default
// registry directly.
package metrics
