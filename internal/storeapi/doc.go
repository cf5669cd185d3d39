// Package storeapi provides an HTTP client for fakestoreapi-compatible
// product catalog services.
//
// # Endpoints
//
//   - GET /products: full product collection
//   - POST /products: create, echoes a product
//   - PUT /products/{id}: replace, echoes a product
//   - DELETE /products/{id}: remove, body ignored
//
// The echoed records are not trusted to be faithful. The demo service assigns
// its own ids and drops fields it does not know, so callers reconcile echoes
// against what they sent (see package catalog).
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation
//   - Send and accept JSON, with decimals as bare JSON numbers
//   - Carry a User-Agent (kiosk/0.1 by default) and a fresh X-Request-ID
//   - Are logged through log/slog with method, path, request id and duration
//
// There is no retry. A failed call is reported once and the caller decides.
//
// # Errors
//
//   - *NetworkError: no HTTP response (DNS, refused, timeout, truncated body)
//   - *RemoteError: any status outside 2xx, with a short body snippet
//   - "decode response: ...": a 2xx body that is not the expected JSON
//
// # Metrics
//
// NewMetrics registers kiosk_api_requests_total{method,outcome} and
// kiosk_api_request_duration_seconds{method} on a prometheus registerer.
package storeapi
