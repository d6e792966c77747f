// Package metrics declares the Prometheus collectors of the service and serves
// them on GET /metrics.
package metrics
