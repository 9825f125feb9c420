// Package server provides HTTP routing, middleware, and the handlers of the recommendation relay.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Routes
//
//	POST /recommendations → [RecommendationHandler]
//	GET  /                → [StaticHandler] (index.html)
//	GET  /<path>          → [StaticHandler] (404 when absent)
//
// # Recommendation Handler
//
// [RecommendationHandler] decodes the three artist names, runs the recommendation pipeline,
// and maps each failure site to a fixed status code and client-safe message.
// Upstream error detail is logged with the request ID and never written to the response.
//
// # Middleware
//
//   - [RequestID] : propagates or generates an X-Request-ID
//   - [Logging] : logs method, path, status and duration
//   - [Recover] : turns a handler panic into a 500 JSON response
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
