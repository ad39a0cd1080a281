// Package config provides 12-factor configuration management for the canvas
// backend and client.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables, and the terminal client may
// additionally overlay a TOML profile via LoadFile.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Client: WebSocket endpoint, reconnect delay, default mode
//   - LLM: Ollama generate endpoint, model, temperature, retries
//   - Cache: generated diagram cache TTL and capacity
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Environment Variables:
//   - PORT, HOST
//   - CANVAS_ENDPOINT, CANVAS_RECONNECT_DELAY, CANVAS_MODE, CANVAS_WRITE_TIMEOUT
//   - OLLAMA_URL, OLLAMA_MODEL, OLLAMA_TEMPERATURE, OLLAMA_TIMEOUT, OLLAMA_RETRIES
//   - DIAGRAM_CACHE_TTL, DIAGRAM_CACHE_SIZE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//
// Profile Example:
//
//	[client]
//	endpoint = "ws://10.0.0.5:8000/ws"
//	reconnect_delay = "3s"
//	mode = "mind_map"
//
//	[logging]
//	level = "debug"
package config
