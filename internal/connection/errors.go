package connection

import "errors"

var (
	ErrNotConnected = errors.New("websocket is not connected")
	ErrBusy         = errors.New("a request is already in progress")
	ErrEmptyPrompt  = errors.New("prompt must not be empty")
	ErrDisposed     = errors.New("connection manager disposed")
)

// Messages published in State.Err.
const (
	MsgNotConnected  = "WebSocket is not connected"
	MsgConnectFailed = "Failed to connect to backend server"
	MsgInvalidData   = "Received invalid data from backend"
	MsgEmptyPrompt   = "Prompt must not be empty"
	MsgSendFailed    = "Failed to send request to backend"
)
