// Package server wires the diagram backend together.
//
// Server Lifecycle:
//  1. Load configuration from environment/flags
//  2. Initialize logger (production or development)
//  3. Register metrics on a private Prometheus registry
//  4. Build the model client and the WebSocket handler
//  5. Setup HTTP routes and middleware
//  6. Serve until Shutdown
//
// Routes:
//   - GET /         liveness message
//   - GET /health   component status
//   - GET /metrics  Prometheus metrics
//   - GET /ws       diagram protocol
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	go srv.Run()
//	defer srv.Shutdown(ctx)
package server
