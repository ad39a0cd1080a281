package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"
)

type ollamaStub struct {
	status   int
	response string
	calls    atomic.Int32
	last     atomic.Value // generateRequest
}

func (s *ollamaStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := s.calls.Add(1)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.last.Store(req)

	w.Header().Set("Content-Type", "application/json")
	status := s.status
	if status == http.StatusServiceUnavailable && n > 1 {
		status = http.StatusOK
	}
	if status != http.StatusOK && status != 0 {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "model not found"})
		return
	}
	_ = json.NewEncoder(w).Encode(generateResponse{Model: req.Model, Response: s.response, Done: true})
}

func newTestClient(t *testing.T, stub *ollamaStub, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(stub)
	t.Cleanup(ts.Close)

	return NewClient(config.LLMConfig{
		URL:         ts.URL + "/api/generate",
		Model:       "gemma3:1B",
		Temperature: 0.5,
		Timeout:     5 * time.Second,
		Retries:     1,
	}, opts...)
}

func TestKindForMode(t *testing.T) {
	tests := []struct {
		mode string
		want Kind
	}{
		{protocol.ModeFlowchart, KindFlowchart},
		{"", KindFlowchart},
		{protocol.ModeProcess, KindProcess},
		{protocol.ModeMindMap, KindMindMap},
		{"haiku", KindGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForMode(tt.mode))
		})
	}
	assert.False(t, KindGeneral.Structured())
	assert.True(t, KindMindMap.Structured())
}

func TestBuildPrompt(t *testing.T) {
	p, err := BuildPrompt(KindFlowchart, "user signup")
	require.NoError(t, err)
	assert.Contains(t, p, `based on this request: "user signup"`)
	assert.Contains(t, p, `"connections"`)

	p, err = BuildPrompt(KindProcess, "release")
	require.NoError(t, err)
	assert.Contains(t, p, `"phases"`)

	p, err = BuildPrompt(KindMindMap, "{{.Request}}")
	require.NoError(t, err)
	assert.Contains(t, p, `"{{.Request}}"`, "user text is not interpreted as a template")
	assert.Contains(t, p, `"centralNode"`)

	p, err = BuildPrompt(KindGeneral, "write a poem")
	require.NoError(t, err)
	assert.Equal(t, "write a poem", p)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"bare object", `{"title":"A"}`, `{"title":"A"}`, true},
		{"wrapped in prose", "Sure!\n```json\n{\"title\":\"A\",\"nodes\":[]}\n```\nEnjoy.", `{"title":"A","nodes":[]}`, true},
		{"no braces", "just text", "", false},
		{"reversed braces", "} nope {", "", false},
		{"invalid json", `{"title": }`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.JSONEq(t, tt.want, string(got))
			}
		})
	}
}

func TestCompleteStructured(t *testing.T) {
	stub := &ollamaStub{response: "Here you go:\n{\"title\":\"Signup\",\"nodes\":[]}"}
	client := newTestClient(t, stub)

	res, err := client.Complete(context.Background(), KindFlowchart, "user signup")
	require.NoError(t, err)

	assert.Equal(t, KindFlowchart, res.Kind)
	doc, ok := res.Document()
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"Signup","nodes":[]}`, string(doc))

	req := stub.last.Load().(generateRequest)
	assert.Equal(t, "gemma3:1B", req.Model)
	assert.False(t, req.Stream)
	assert.InDelta(t, 0.5, req.Temperature, 1e-9)
	assert.Contains(t, req.Prompt, "user signup")
}

func TestCompleteTextOnly(t *testing.T) {
	stub := &ollamaStub{response: "1. Start\n2. Do the thing\n3. End"}
	client := newTestClient(t, stub)

	res, err := client.Complete(context.Background(), KindFlowchart, "steps")
	require.NoError(t, err)

	_, ok := res.Document()
	assert.False(t, ok)
	assert.Equal(t, stub.response, res.Text)
}

func TestCompleteGeneralSkipsExtraction(t *testing.T) {
	stub := &ollamaStub{response: `{"looks":"like json"}`}
	client := newTestClient(t, stub)

	res, err := client.Complete(context.Background(), KindGeneral, "anything")
	require.NoError(t, err)

	_, ok := res.Document()
	assert.False(t, ok)
	assert.Equal(t, "anything", stub.last.Load().(generateRequest).Prompt)
}

func TestCompleteHTTPError(t *testing.T) {
	stub := &ollamaStub{status: http.StatusNotFound}
	client := newTestClient(t, stub)

	_, err := client.Complete(context.Background(), KindFlowchart, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
	assert.Equal(t, int32(1), stub.calls.Load(), "client errors are not retried")
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	stub := &ollamaStub{status: http.StatusServiceUnavailable, response: "recovered"}
	client := newTestClient(t, stub)

	res, err := client.Complete(context.Background(), KindGeneral, "x")
	require.NoError(t, err)
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestCompleteEmptyResponse(t *testing.T) {
	stub := &ollamaStub{response: "   "}
	client := newTestClient(t, stub)

	_, err := client.Complete(context.Background(), KindGeneral, "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestCompleteCircuitOpen(t *testing.T) {
	stub := &ollamaStub{status: http.StatusNotFound}
	breaker := resilience.New("test", resilience.Settings{
		Timeout: time.Minute,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 2
		},
	})
	client := newTestClient(t, stub, WithBreaker(breaker))

	for i := 0; i < 2; i++ {
		_, err := client.Complete(context.Background(), KindGeneral, "x")
		require.Error(t, err)
	}
	assert.Equal(t, resilience.StateOpen, client.BreakerState())

	_, err := client.Complete(context.Background(), KindGeneral, "x")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestCompleteRateLimited(t *testing.T) {
	stub := &ollamaStub{response: "ok"}
	client := newTestClient(t, stub, WithRateLimit(0.001, 1))

	_, err := client.Complete(context.Background(), KindGeneral, "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, KindGeneral, "second")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), stub.calls.Load())
}
