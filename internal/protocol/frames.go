package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

// Frame type discriminants.
const (
	TypeProcessing = "processing"
	TypeResponse   = "response"
	TypeError      = "error"
)

var (
	ErrMalformed   = errors.New("malformed frame")
	ErrUnknownType = errors.New("unknown frame type")
)

// codec mirrors encoding/json semantics so frames stay byte-compatible with
// non-Go peers.
var codec = sonic.ConfigStd

// Request is the only client → server frame.
type Request struct {
	Prompt string `json:"prompt"`
	Mode   string `json:"mode"`
}

// Frame is the decoded union of every server → client frame. Fields that do
// not belong to Type are left zero.
type Frame struct {
	Type        string            `json:"type"`
	ID          string            `json:"id,omitempty"`
	Text        string            `json:"text,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Shapes      []json.RawMessage `json:"shapes,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// ProcessingFrame acknowledges a prompt.
type ProcessingFrame struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// ResponseFrame carries a finished diagram. Shapes is always present on the
// wire, even when empty.
type ResponseFrame struct {
	Type        string            `json:"type"`
	ID          string            `json:"id"`
	Text        string            `json:"text"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Shapes      []json.RawMessage `json:"shapes"`
}

// ErrorFrame reports a failed prompt.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewProcessing builds a processing frame.
func NewProcessing(message string) ProcessingFrame {
	return ProcessingFrame{Type: TypeProcessing, Message: message}
}

// NewError builds an error frame.
func NewError(message string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: message}
}

// NewResponse builds a response frame; a nil shape list is sent as [].
func NewResponse(id, text, title, description string, shapes []json.RawMessage) ResponseFrame {
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	return ResponseFrame{
		Type:        TypeResponse,
		ID:          id,
		Text:        text,
		Title:       title,
		Description: description,
		Shapes:      shapes,
	}
}

// Encode marshals any frame.
func Encode(v any) ([]byte, error) {
	data, err := codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// EncodeShapes turns typed shapes into the opaque form carried by frames.
func EncodeShapes[T any](shapes []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(shapes))
	for i, s := range shapes {
		data, err := codec.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encode shape %d: %w", i, err)
		}
		out = append(out, data)
	}
	return out, nil
}

// Decode parses one server → client frame. Non-JSON input wraps ErrMalformed;
// a frame whose type is not part of the protocol wraps ErrUnknownType and is
// returned alongside the error for logging.
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := codec.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch f.Type {
	case TypeProcessing, TypeResponse, TypeError:
		return f, nil
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
}

// DecodeRequest parses one client → server frame. The prompt is trimmed and
// the mode normalized.
func DecodeRequest(data []byte) (Request, error) {
	var r Request
	if err := codec.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Mode = NormalizeMode(r.Mode)
	return r, nil
}
