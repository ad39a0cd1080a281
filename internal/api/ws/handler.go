package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/diagram"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/llm"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/protocol"
	"github.com/GriffinCanCode/CanvasAI/backend/internal/shared/id"
)

const (
	processingMessage  = "Processing your request..."
	invalidJSONMessage = "Invalid JSON format"

	maxMessageSize = 64 << 10
	writeWait      = 10 * time.Second
	defaultTimeout = 2 * time.Minute
)

var errEmptyPrompt = errors.New("prompt is empty")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // canvas is served from another origin in dev
	},
}

// Completer produces a model completion for one prompt.
type Completer interface {
	Complete(ctx context.Context, kind llm.Kind, request string) (llm.Result, error)
}

type cacheKey struct {
	mode   string
	prompt string
}

// rendered is everything in a response frame except its id.
type rendered struct {
	text        string
	title       string
	description string
	shapes      []json.RawMessage
}

// Handler manages WebSocket connections.
type Handler struct {
	completer Completer
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	tracer    *tracing.Tracer
	timeout   time.Duration
	cache     *ttlcache.Cache[cacheKey, rendered]
	closeOnce sync.Once

	mu    sync.RWMutex
	conns map[id.ConnectionID]*websocket.Conn
}

// Option customizes a Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(logger *logging.Logger) Option {
	return func(h *Handler) { h.logger = logging.OrNop(logger) }
}

// WithMetrics records connection, message and generation metrics.
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(h *Handler) { h.metrics = metrics }
}

// WithTracer records a span per prompt.
func WithTracer(tracer *tracing.Tracer) Option {
	return func(h *Handler) { h.tracer = tracer }
}

// WithTimeout bounds one generation. Zero keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithCache sets the result cache TTL and capacity. A zero TTL disables
// caching.
func WithCache(cfg config.CacheConfig) Option {
	return func(h *Handler) {
		if h.cache != nil {
			h.cache.Stop()
			h.cache = nil
		}
		if cfg.TTL <= 0 {
			return
		}
		opts := []ttlcache.Option[cacheKey, rendered]{
			ttlcache.WithTTL[cacheKey, rendered](cfg.TTL),
			ttlcache.WithDisableTouchOnHit[cacheKey, rendered](),
		}
		if cfg.Capacity > 0 {
			opts = append(opts, ttlcache.WithCapacity[cacheKey, rendered](cfg.Capacity))
		}
		h.cache = ttlcache.New[cacheKey, rendered](opts...)
		go h.cache.Start()
	}
}

// NewHandler creates a WebSocket handler that generates diagrams with
// completer.
func NewHandler(completer Completer, opts ...Option) *Handler {
	h := &Handler{
		completer: completer,
		logger:    logging.Nop(),
		timeout:   defaultTimeout,
		conns:     make(map[id.ConnectionID]*websocket.Conn),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.Named("ws")
	return h
}

// Close sends a going-away close frame to every open socket and stops the
// cache janitor. Hijacked connections are not closed by http.Server.Shutdown.
func (h *Handler) Close() {
	h.closeOnce.Do(h.close)
}

func (h *Handler) close() {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	deadline := time.Now().Add(time.Second)

	h.mu.RLock()
	for _, conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = conn.Close()
	}
	h.mu.RUnlock()

	if h.cache != nil {
		h.cache.Stop()
	}
}

// Connections returns the number of open sockets.
func (h *Handler) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// HandleConnection handles WebSocket upgrade and messages.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(maxMessageSize)

	connID := h.register(conn)
	log := h.logger.With(zap.String("connection_id", connID.String()))
	log.Info("New WebSocket connection")

	defer func() {
		h.unregister(connID)
		conn.Close()
		log.Info("WebSocket connection closed")
	}()

	reqCtx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		h.recordMessage("in", "request")

		if err := h.handleMessage(reqCtx, conn, log, data); err != nil {
			log.Warn("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

// handleMessage answers one request. Only write failures are returned; they
// end the connection.
func (h *Handler) handleMessage(ctx context.Context, conn *websocket.Conn, log *logging.Logger, data []byte) error {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		log.Warn("Invalid JSON", zap.Error(err))
		return h.sendError(conn, invalidJSONMessage)
	}

	log.Info("Received request",
		zap.String("mode", req.Mode),
		zap.Int("prompt_chars", len(req.Prompt)),
	)

	if err := h.send(conn, protocol.TypeProcessing, protocol.NewProcessing(processingMessage)); err != nil {
		return err
	}

	if h.tracer != nil {
		var span *tracing.Span
		span, ctx = h.tracer.StartSpan(ctx, "ws.generate")
		span.SetTag("mode", req.Mode)
		defer func() {
			if err != nil {
				span.SetError(err)
			}
			span.Finish()
			h.tracer.Submit(span)
		}()
	}

	out, err := h.generate(ctx, req)
	if err != nil {
		log.Error("Error processing request", zap.String("mode", req.Mode), zap.Error(err))
		return h.sendError(conn, "Error: "+err.Error())
	}

	frame := protocol.NewResponse(id.NewResponseID().String(), out.text, out.title, out.description, out.shapes)
	return h.send(conn, protocol.TypeResponse, frame)
}

// generate returns the cached diagram for req or asks the model for a new
// one.
func (h *Handler) generate(ctx context.Context, req protocol.Request) (rendered, error) {
	if req.Prompt == "" {
		return rendered{}, errEmptyPrompt
	}

	key := cacheKey{mode: req.Mode, prompt: req.Prompt}
	if h.cache != nil {
		item := h.cache.Get(key)
		h.recordCacheLookup(item != nil)
		if item != nil {
			return item.Value(), nil
		}
	}

	kind := llm.KindForMode(req.Mode)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	res, err := h.completer.Complete(ctx, kind, req.Prompt)
	if err != nil {
		h.recordGenerationError(kind, "llm")
		return rendered{}, err
	}

	d := diagram.Render(kind, res)
	shapes, err := protocol.EncodeShapes(d.Shapes)
	if err != nil {
		h.recordGenerationError(kind, "render")
		return rendered{}, err
	}
	if h.metrics != nil {
		h.metrics.RecordGeneration(kind.String(), time.Since(start))
	}

	out := rendered{
		text:        strings.TrimSpace(res.Text),
		title:       d.Title,
		description: d.Description,
		shapes:      shapes,
	}
	if h.cache != nil {
		h.cache.Set(key, out, ttlcache.DefaultTTL)
	}
	return out, nil
}

func (h *Handler) send(conn *websocket.Conn, msgType string, frame any) error {
	data, err := protocol.Encode(frame)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}
	h.recordMessage("out", msgType)
	return nil
}

func (h *Handler) sendError(conn *websocket.Conn, message string) error {
	return h.send(conn, protocol.TypeError, protocol.NewError(message))
}

func (h *Handler) register(conn *websocket.Conn) id.ConnectionID {
	connID := id.NewConnectionID()
	h.mu.Lock()
	h.conns[connID] = conn
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}
	return connID
}

func (h *Handler) unregister(connID id.ConnectionID) {
	h.mu.Lock()
	delete(h.conns, connID)
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func (h *Handler) recordCacheLookup(hit bool) {
	if h.metrics != nil {
		h.metrics.RecordCacheLookup(hit)
	}
}

func (h *Handler) recordGenerationError(kind llm.Kind, stage string) {
	if h.metrics != nil {
		h.metrics.RecordGenerationError(kind.String(), stage)
	}
}
