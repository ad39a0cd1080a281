package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/CanvasAI/backend/internal/infrastructure/resilience"
)

// Version is reported by the health route.
const Version = "0.1.0"

// ConnectionCounter reports open WebSocket connections.
type ConnectionCounter interface {
	Connections() int
}

// BreakerReporter reports the model client's circuit state.
type BreakerReporter interface {
	BreakerState() resilience.State
}

// Handlers contains the HTTP handlers.
type Handlers struct {
	conns    ConnectionCounter
	model    BreakerReporter
	gatherer prometheus.Gatherer
	started  time.Time
}

// NewHandlers creates a handler set. Any dependency may be nil; the health
// route then omits it.
func NewHandlers(conns ConnectionCounter, model BreakerReporter, gatherer prometheus.Gatherer) *Handlers {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handlers{
		conns:    conns,
		model:    model,
		gatherer: gatherer,
		started:  time.Now(),
	}
}

// Root handles the liveness check.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CanvasAI backend is running",
	})
}

// Health reports component status. An open model circuit marks the service
// degraded but still answers 200 so load balancers keep the socket route.
func (h *Handlers) Health(c *gin.Context) {
	status := "healthy"
	body := gin.H{
		"version": Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	}

	if h.conns != nil {
		body["websocket"] = gin.H{"connections": h.conns.Connections()}
	}
	if h.model != nil {
		state := h.model.BreakerState()
		body["llm"] = gin.H{"circuit": state.String()}
		if state == resilience.StateOpen {
			status = "degraded"
		}
	}

	body["status"] = status
	c.JSON(http.StatusOK, body)
}

// Metrics serves the registry in Prometheus text format.
func (h *Handlers) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
