// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Components accept a *Logger and fall back to Nop when given nil, so the
// connection manager can be embedded without any logging setup.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Named("connection").Warn("Dropped frame", zap.Error(err))
package logging
