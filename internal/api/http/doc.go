// Package http provides the plain HTTP routes of the diagram backend.
//
// Endpoints:
//   - Root: / liveness message
//   - Health: /health with WebSocket and model status
//   - Metrics: /metrics in Prometheus text format
//
// Example Usage:
//
//	handlers := http.NewHandlers(wsHandler, llmClient, registry)
//	router.GET("/", handlers.Root)
//	router.GET("/health", handlers.Health)
//	router.GET("/metrics", handlers.Metrics())
package http
