/*
Package resilience guards calls to slow or failing upstreams.

A Breaker is a three-state circuit breaker:

	Closed --[ReadyToTrip]-> Open --[Timeout]-> Half-Open --[MaxRequests successes]-> Closed
	                                               |
	                                           [failure]
	                                               v
	                                             Open

Calls go through the generic Call helper so results keep their type:

	breaker := resilience.New("ollama", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	text, err := resilience.Call(ctx, breaker, func(ctx context.Context) (string, error) {
		return client.Generate(ctx, prompt)
	})

Errors caused by the caller cancelling ctx do not count against the upstream.
*/
package resilience
