// Package interceptors provides request and response interceptors for
// client.Client: request IDs, fixed headers, signed bearer tokens,
// structured logging and Prometheus counters.
//
//	c.AddRequestInterceptor(interceptors.RequestID(""))
//	c.AddRequestInterceptor(interceptors.LogRequests(log))
//	c.AddResponseInterceptor(interceptors.LogResponses(log))
package interceptors
