/*
Package tracing provides lightweight request tracing for the diagram backend.

# Overview

Every HTTP request and every WebSocket prompt gets a span. Spans carry a trace
id that follows the request through the model call and are written to the
structured log when they finish.

# Usage

	tracer := tracing.New("canvas-backend", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "ws.generate")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
	span.SetTag("mode", mode)

# Trace Format

Traces use standard HTTP headers for propagation:
  - X-Trace-ID: identifier for the entire request flow
  - X-Span-ID: identifier for the current operation

Spans are collected on a buffered channel and logged asynchronously; a full
buffer drops spans rather than blocking the request.
*/
package tracing
