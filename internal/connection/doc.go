// Package connection implements the canvas client's Connection Manager: a
// persistent, auto-reconnecting WebSocket link to the diagram backend.
//
// The manager owns exactly one transport. It decodes inbound frames into a
// small published State (connected, processing, last response, last error)
// and exposes Send, ResetResponse and Dispose to the UI layer.
//
// Lifecycle:
//
//	Disconnected --dial--> Connecting --open--> Connected
//	     ^                     |                    |
//	     |                 dial fails        close or error
//	     +----- after ReconnectDelay ---------------+
//
// Dispose is the only terminal transition. Reconnects use a fixed delay with
// no cap and continue until the manager is disposed.
//
// Concurrency: every transport callback, timer and consumer call is turned
// into an event handled by a single goroutine, so state is never mutated
// concurrently. Consumers read snapshots through State or Subscribe.
//
// Example Usage:
//
//	m := connection.New(connection.Config{Endpoint: "ws://localhost:8000/ws"},
//	    connection.WithLogger(logger))
//	defer m.Dispose()
//
//	updates, cancel := m.Subscribe()
//	defer cancel()
//
//	_ = m.Send("Draw a login flow", protocol.ModeFlowchart)
//	for s := range updates {
//	    if s.Response != nil {
//	        fmt.Println(s.Response.Text)
//	    }
//	}
package connection
