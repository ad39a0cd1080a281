// Package protocol defines the JSON wire protocol spoken between the canvas
// client and the diagram backend over a WebSocket.
//
// Message Types (Client → Server):
//   - {"prompt": string, "mode": string}
//
// Message Types (Server → Client):
//   - processing: the backend accepted a prompt and is generating
//   - response: a finished diagram (text, optional title/description, shapes)
//   - error: the backend failed the current prompt
//
// Shapes are carried as raw JSON and are never interpreted by the client.
//
// Example Usage:
//
//	frame, err := protocol.Decode(data)
//	if err != nil {
//	    return err
//	}
//	if frame.Type == protocol.TypeResponse {
//	    resp := protocol.NewAIResponse(frame)
//	    fmt.Println(resp.Text)
//	}
package protocol
