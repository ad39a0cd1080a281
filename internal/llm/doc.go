// Package llm talks to an Ollama-compatible /api/generate endpoint.
//
// Each diagram kind has its own prompt template asking the model for a JSON
// document. The raw completion is returned together with the outermost JSON
// object found in it, if any, so callers can fall back to text parsing when
// the model ignores the requested format.
//
// Requests go through a resty client on a retryablehttp transport, a token
// bucket limiter and a circuit breaker:
//
//	client := llm.NewClient(cfg.LLM, llm.WithLogger(logger))
//	res, err := client.Complete(ctx, llm.KindFlowchart, "user signup")
//	if doc, ok := res.Document(); ok {
//		...
//	}
package llm
