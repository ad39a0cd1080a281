// Package ws serves the diagram protocol over WebSocket.
//
// Each connection carries one request at a time:
//
//	client → {"prompt": "...", "mode": "text_to_flowchart"}
//	server → {"type": "processing", "message": "Processing your request..."}
//	server → {"type": "response", "id": "...", "text": "...", "shapes": [...]}
//
// Failures are reported as {"type": "error", "message": "..."} and leave the
// socket open. Rendered diagrams are cached per mode and prompt.
//
// Example Usage:
//
//	handler := ws.NewHandler(llmClient, ws.WithLogger(logger), ws.WithMetrics(metrics))
//	defer handler.Close()
//	router.GET("/ws", handler.HandleConnection)
package ws
