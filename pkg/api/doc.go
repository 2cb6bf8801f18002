// Package api implements the HTTP client for the tr-cafe storefront
// services: the catalog query endpoint, the order endpoints, and the auth
// endpoints. All calls are JSON over HTTP; a non-2xx response is surfaced
// as a *RemoteError carrying the server's message field when present.
//
// The client is instrumented with an OpenTelemetry span per request and
// Prometheus counters for request totals, errors, and latency.
package api
