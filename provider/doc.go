// Package provider plugs interchangeable backends behind one generic
// RequestResponse contract. A Manager stores them by name and a Selector
// picks the one that serves each call; Middleware decorates them with
// logging, tracing and metrics.
//
//	mgr := provider.NewManager[T](selector, log)
//	mgr.Add("server", provider.Chain(
//	    provider.WithLogging[I, O](log, describe),
//	    provider.WithTracing[I, O]("isoclient", describe),
//	)(server), server)
//	p, err := mgr.Get(ctx)
package provider
