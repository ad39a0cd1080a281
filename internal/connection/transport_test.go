package connection

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"
)

// echoServer answers every request with a processing and a response frame.
// The first connection is closed after its first reply so the client has to
// reconnect.
type echoServer struct {
	upgrader websocket.Upgrader
	conns    atomic.Int32

	mu       sync.Mutex
	requests []protocol.Request
}

func (s *echoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	n := s.conns.Add(1)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		req, err := protocol.DecodeRequest(data)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		processing, _ := protocol.Encode(protocol.NewProcessing("Processing your request..."))
		_ = conn.WriteMessage(websocket.TextMessage, processing)

		resp, _ := protocol.Encode(protocol.NewResponse("r-"+req.Mode, "Echo: "+req.Prompt, "Echo", "", nil))
		_ = conn.WriteMessage(websocket.TextMessage, resp)

		if n == 1 {
			return
		}
	}
}

func TestWebSocketRoundTripAndReconnect(t *testing.T) {
	srv := &echoServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	endpoint := "ws" + strings.TrimPrefix(ts.URL, "http")
	m := New(Config{Endpoint: endpoint, ReconnectDelay: 50 * time.Millisecond, WriteTimeout: time.Second})
	defer m.Dispose()

	require.Eventually(t, func() bool { return m.State().Connected }, waitFor, tick)
	require.NoError(t, m.Send("draw a cat", ""))

	require.Eventually(t, func() bool { return m.State().Response != nil }, waitFor, tick)
	resp := m.State().Response
	assert.Equal(t, "r-text_to_flowchart", resp.ID)
	assert.Equal(t, "Title: Echo\n\nEcho: draw a cat", resp.Text)
	assert.NotNil(t, resp.Shapes)

	// The server hung up after the first reply
	require.Eventually(t, func() bool { return srv.conns.Load() == 2 && m.State().Connected }, waitFor, tick)

	require.NoError(t, m.Send("draw a dog", protocol.ModeMindMap))
	require.Eventually(t, func() bool {
		r := m.State().Response
		return r != nil && r.ID == "r-mind_map"
	}, waitFor, tick)
	assert.False(t, m.State().Processing)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	require.Len(t, srv.requests, 2)
	assert.Equal(t, protocol.Request{Prompt: "draw a cat", Mode: protocol.ModeFlowchart}, srv.requests[0])
	assert.Equal(t, protocol.Request{Prompt: "draw a dog", Mode: protocol.ModeMindMap}, srv.requests[1])
}

func TestWebSocketDialFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	endpoint := "ws" + strings.TrimPrefix(ts.URL, "http")
	ts.Close()

	m := New(Config{Endpoint: endpoint, ReconnectDelay: time.Hour})
	defer m.Dispose()

	require.Eventually(t, func() bool { return m.State().Err == MsgConnectFailed }, waitFor, tick)
	assert.False(t, m.State().Connected)
}
