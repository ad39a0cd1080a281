/*
Package monitoring provides Prometheus metrics for the diagram backend and the
connection manager.

# Overview

Metrics are registered on an injected prometheus.Registerer so tests and
multiple managers can use isolated registries.

# Backend Metrics

- HTTP request count and latency (gin middleware)
- Active WebSocket connections and message counts
- Diagram generation latency, failures and cache lookups
- Uptime

# Client Metrics

- Lifecycle state per endpoint
- Connect attempts, failures and scheduled reconnects
- Frames by direction and type, protocol errors
- Prompt round-trip latency

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics, "mind_map")
	// ... generate ...
	timer.Stop()

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
