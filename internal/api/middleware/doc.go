// Package middleware provides the HTTP middleware for the diagram backend.
//
// Middleware stack includes:
//   - CORS: cross-origin resource sharing for the browser canvas
//   - RateLimit: per-IP token bucket rate limiting with idle eviction
//   - GlobalRateLimit: one bucket shared by every caller
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.RateLimitFromConfig(cfg.RateLimit)))
package middleware
