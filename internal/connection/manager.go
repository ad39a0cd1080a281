package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"
)

// DefaultReconnectDelay is the fixed pause between a drop and the next dial.
const DefaultReconnectDelay = 3 * time.Second

// Config configures a Manager.
type Config struct {
	// Endpoint is the WebSocket URI, e.g. ws://localhost:8000/ws.
	Endpoint string
	// ReconnectDelay defaults to DefaultReconnectDelay.
	ReconnectDelay time.Duration
	// DefaultMode is sent when Send is called with an empty mode.
	DefaultMode string
	// WriteTimeout bounds a single frame write on the default dialer.
	WriteTimeout time.Duration
}

// Option customizes a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(m *Manager) { m.logger = logging.OrNop(logger) }
}

// WithMetrics attaches client metrics.
func WithMetrics(metrics *monitoring.ClientMetrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithDialer replaces the gorilla/websocket dialer.
func WithDialer(dialer Dialer) Option {
	return func(m *Manager) { m.dialer = dialer }
}

// Manager maintains one auto-reconnecting transport and publishes its state.
// A Manager is safe for concurrent use; all state changes happen on a single
// internal goroutine.
type Manager struct {
	cfg     Config
	dialer  Dialer
	logger  *logging.Logger
	metrics *monitoring.ClientMetrics

	ctx     context.Context
	cancel  context.CancelFunc
	events  chan event
	done    chan struct{}
	dispose sync.Once

	// Owned by the run goroutine.
	lifecycle  Lifecycle
	transport  Transport
	generation uint64
	timer      *time.Timer
	timerSeq   uint64
	sentAt     time.Time
	state      State

	mu        sync.RWMutex
	published State
	subs      map[int]chan State
	nextSub   int
	closed    bool
}

// New creates a manager and immediately starts connecting to cfg.Endpoint.
func New(cfg Config, opts ...Option) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	cfg.DefaultMode = protocol.NormalizeMode(cfg.DefaultMode)

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:    cfg,
		logger: logging.Nop(),
		ctx:    ctx,
		cancel: cancel,
		events: make(chan event),
		done:   make(chan struct{}),
		subs:   make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.dialer == nil {
		m.dialer = NewWebSocketDialer(cfg.WriteTimeout)
	}
	m.logger = m.logger.Named("connection").With(zap.String("endpoint", cfg.Endpoint))

	go m.run()
	return m
}

// Endpoint returns the configured endpoint.
func (m *Manager) Endpoint() string {
	return m.cfg.Endpoint
}

// State returns the latest published snapshot.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.published
}

// Subscribe returns a channel that always holds the most recent snapshot.
// Intermediate snapshots are dropped for slow readers. The channel is closed
// on Dispose or when cancel is called.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	m.mu.Lock()
	ch <- m.published
	if m.closed {
		close(ch)
		m.mu.Unlock()
		return ch, func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Send writes one {prompt, mode} frame with the prompt as given. An empty
// mode uses the configured default. Failures are returned and, unless a
// request is in flight, published in State.Err; nothing is queued or retried.
func (m *Manager) Send(prompt, mode string) error {
	reply := make(chan error, 1)
	if !m.post(sendCmd{prompt: prompt, mode: mode, reply: reply}) {
		return ErrDisposed
	}
	return <-reply
}

// ResetResponse clears the published response and the processing flag
// without touching the network.
func (m *Manager) ResetResponse() {
	reply := make(chan error, 1)
	if m.post(resetCmd{reply: reply}) {
		<-reply
	}
}

// Dispose closes the live transport, cancels any pending reconnect and stops
// publishing. It blocks until the manager goroutine has exited and is safe to
// call more than once.
func (m *Manager) Dispose() {
	m.dispose.Do(func() {
		m.cancel()
		m.post(disposeCmd{})
	})
	<-m.done
}

// post hands an event to the run goroutine. It reports false once the
// manager is gone.
func (m *Manager) post(ev event) bool {
	select {
	case m.events <- ev:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) run() {
	defer close(m.done)

	m.connect()
	for ev := range m.events {
		if _, ok := ev.(disposeCmd); ok {
			m.shutdown()
			return
		}
		if m.ctx.Err() != nil {
			// Dispose is pending; only release what the event carries.
			m.discard(ev)
			continue
		}
		m.handle(ev)
	}
}

func (m *Manager) handle(ev event) {
	switch e := ev.(type) {
	case dialResult:
		m.onDialResult(e)
	case frameReceived:
		m.onFrame(e)
	case transportClosed:
		m.onClosed(e)
	case reconnectDue:
		m.onReconnectDue(e)
	case sendCmd:
		e.reply <- m.onSend(e)
	case resetCmd:
		m.onReset()
		e.reply <- nil
	}
}

func (m *Manager) discard(ev event) {
	switch e := ev.(type) {
	case dialResult:
		if e.transport != nil {
			_ = e.transport.Close()
		}
	case sendCmd:
		e.reply <- ErrDisposed
	case resetCmd:
		e.reply <- ErrDisposed
	}
}

// connect starts an asynchronous dial for a fresh generation.
func (m *Manager) connect() {
	m.generation++
	gen := m.generation
	m.setLifecycle(Connecting)
	m.metrics.RecordConnectAttempt()
	m.logger.Info("Connecting", zap.Uint64("generation", gen))
	m.publish()

	go func() {
		t, err := m.dialer.Dial(m.ctx, m.cfg.Endpoint)
		if !m.post(dialResult{gen: gen, transport: t, err: err}) && t != nil {
			_ = t.Close()
		}
	}()
}

func (m *Manager) onDialResult(e dialResult) {
	if e.gen != m.generation || m.lifecycle != Connecting {
		if e.transport != nil {
			_ = e.transport.Close()
		}
		return
	}

	if e.err != nil {
		m.metrics.RecordConnectFailure()
		m.logger.Warn("Connection attempt failed", zap.Error(e.err))
		m.state.Err = MsgConnectFailed
		m.setLifecycle(Disconnected)
		m.scheduleReconnect()
		m.publish()
		return
	}

	m.transport = e.transport
	m.cancelReconnect()
	m.state.Err = ""
	m.setLifecycle(Connected)
	m.logger.Info("Connection established", zap.Uint64("generation", e.gen))
	m.publish()

	go m.read(e.gen, e.transport)
}

// read forwards frames in delivery order until the transport fails.
func (m *Manager) read(gen uint64, t Transport) {
	for {
		_, data, err := t.ReadMessage()
		if err != nil {
			m.post(transportClosed{gen: gen, err: err})
			return
		}
		if !m.post(frameReceived{gen: gen, data: data}) {
			return
		}
	}
}

func (m *Manager) onClosed(e transportClosed) {
	if e.gen != m.generation || m.transport == nil {
		return
	}

	if websocket.IsCloseError(e.err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		m.logger.Info("Connection closed by peer", zap.Error(e.err))
	} else {
		m.logger.Warn("Connection lost", zap.Error(e.err))
	}
	m.drop()
	m.publish()
}

// drop releases the live transport and schedules the next attempt. A
// request in flight can never be answered on a new socket, so processing is
// cleared as well.
func (m *Manager) drop() {
	if m.transport != nil {
		_ = m.transport.Close()
		m.transport = nil
	}
	m.generation++
	m.state.Processing = false
	m.sentAt = time.Time{}
	m.setLifecycle(Disconnected)
	m.scheduleReconnect()
}

func (m *Manager) onFrame(e frameReceived) {
	if e.gen != m.generation {
		return
	}

	frame, err := protocol.Decode(e.data)
	if err != nil {
		m.metrics.RecordProtocolError()
		m.logger.Warn("Received invalid frame", zap.Error(err), zap.Int("bytes", len(e.data)))
		m.state.Err = MsgInvalidData
		m.publish()
		return
	}
	m.metrics.RecordFrame("in", frame.Type)

	switch frame.Type {
	case protocol.TypeProcessing:
		m.state.Processing = true
	case protocol.TypeResponse:
		m.metrics.ObserveRoundTrip(m.sentAt)
		m.sentAt = time.Time{}
		m.state.Processing = false
		m.state.Response = protocol.NewAIResponse(frame)
		m.logger.Debug("Response received",
			zap.String("id", frame.ID),
			zap.Int("shapes", len(frame.Shapes)),
		)
	case protocol.TypeError:
		m.metrics.ObserveRoundTrip(m.sentAt)
		m.sentAt = time.Time{}
		m.state.Processing = false
		m.state.Err = frame.Message
		m.logger.Info("Backend reported error", zap.String("message", frame.Message))
	}
	m.publish()
}

func (m *Manager) onSend(cmd sendCmd) error {
	if m.lifecycle != Connected || m.transport == nil {
		return m.reject(ErrNotConnected, MsgNotConnected)
	}

	// While a request is in flight, rejections are returned but not published.
	if strings.TrimSpace(cmd.prompt) == "" {
		if m.state.Processing {
			return ErrEmptyPrompt
		}
		return m.reject(ErrEmptyPrompt, MsgEmptyPrompt)
	}
	if m.state.Processing {
		return ErrBusy
	}

	mode := strings.TrimSpace(cmd.mode)
	if mode == "" {
		mode = m.cfg.DefaultMode
	}

	data, err := protocol.Encode(protocol.Request{Prompt: cmd.prompt, Mode: mode})
	if err != nil {
		return m.reject(err, MsgSendFailed)
	}

	m.state.Processing = true
	m.state.Err = ""
	if err := m.transport.WriteMessage(websocket.TextMessage, data); err != nil {
		m.logger.Warn("Failed to write request", zap.Error(err))
		m.state.Err = MsgSendFailed
		m.drop()
		m.publish()
		return fmt.Errorf("write request: %w", err)
	}

	m.sentAt = time.Now()
	m.metrics.RecordFrame("out", "request")
	m.logger.Debug("Request sent", zap.String("mode", mode), zap.Int("prompt_len", len(cmd.prompt)))
	m.publish()
	return nil
}

func (m *Manager) reject(err error, msg string) error {
	m.state.Err = msg
	m.publish()
	return err
}

func (m *Manager) onReset() {
	m.state.Response = nil
	m.state.Processing = false
	m.sentAt = time.Time{}
	m.publish()
}

// scheduleReconnect arms the reconnect timer unless one is already pending,
// so one drop yields exactly one attempt.
func (m *Manager) scheduleReconnect() {
	if m.timer != nil {
		return
	}
	m.timerSeq++
	seq := m.timerSeq
	m.timer = time.AfterFunc(m.cfg.ReconnectDelay, func() {
		m.post(reconnectDue{seq: seq})
	})
	m.metrics.RecordReconnectScheduled()
	m.logger.Debug("Reconnect scheduled", zap.Duration("delay", m.cfg.ReconnectDelay))
}

// cancelReconnect stops a pending timer; a fire already in flight is
// ignored because its sequence number no longer matches.
func (m *Manager) cancelReconnect() {
	if m.timer == nil {
		return
	}
	m.timer.Stop()
	m.timer = nil
	m.timerSeq++
}

func (m *Manager) onReconnectDue(e reconnectDue) {
	if m.timer == nil || e.seq != m.timerSeq {
		return
	}
	m.timer = nil
	if m.lifecycle != Disconnected {
		return
	}
	m.connect()
}

func (m *Manager) shutdown() {
	m.cancelReconnect()
	if m.transport != nil {
		if err := m.transport.Close(); err != nil {
			m.logger.Debug("Error closing transport", zap.Error(err))
		}
		m.transport = nil
	}
	m.lifecycle = Disposed
	m.logger.Info("Connection manager disposed")

	m.mu.Lock()
	m.closed = true
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
	m.mu.Unlock()
}

func (m *Manager) setLifecycle(l Lifecycle) {
	m.lifecycle = l
	m.state.Lifecycle = l
	m.state.Connected = l == Connected
	m.metrics.SetLifecycle(m.cfg.Endpoint, l.String(), lifecycleNames)
}

// publish copies the working state to readers and subscribers.
func (m *Manager) publish() {
	s := m.state

	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = s
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// Replace the stale snapshot; only this goroutine sends.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}
