package provider

import "context"

// Provider is a named backend that may or may not work in the current
// runtime.
type Provider interface {
	Name() string
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that turns one input into one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Closeable is implemented by providers holding resources such as idle
// keep-alive connections.
type Closeable interface {
	Close(ctx context.Context) error
}

// Selector decides which provider serves the next call.
type Selector[T Provider] interface {
	Select(ctx context.Context, providers map[string]T) (T, error)
}
