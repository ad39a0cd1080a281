package protocol

import (
	"encoding/json"
	"strings"
)

// AIResponse is the published form of a response frame. It is replaced
// wholesale on every response and never patched.
type AIResponse struct {
	ID          string            `json:"id" yaml:"id"`
	Kind        string            `json:"type" yaml:"type"`
	Text        string            `json:"text" yaml:"text"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Shapes      []json.RawMessage `json:"shapes" yaml:"-"`
}

// NewAIResponse derives the published response from a response frame.
func NewAIResponse(f Frame) *AIResponse {
	shapes := f.Shapes
	if shapes == nil {
		shapes = []json.RawMessage{}
	}
	return &AIResponse{
		ID:          f.ID,
		Kind:        TypeResponse,
		Text:        ResponseText(f.Title, f.Description, f.Text),
		Title:       f.Title,
		Description: f.Description,
		Shapes:      shapes,
	}
}

// ResponseText prefixes text with the non-empty title and description.
func ResponseText(title, description, text string) string {
	if title == "" && description == "" {
		return text
	}

	var b strings.Builder
	if title != "" {
		b.WriteString("Title: ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	if description != "" {
		b.WriteString("Description: ")
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	b.WriteString(text)
	return b.String()
}
