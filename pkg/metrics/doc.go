// Package metrics exposes Prometheus metrics for form endpoints: request
// counts and durations through Middleware, and validation failures per route
// and per field through ObserveIssues.
package metrics
