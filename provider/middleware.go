package provider

import "slices"

// Middleware decorates a RequestResponse provider.
type Middleware[I, O any] func(RequestResponse[I, O]) RequestResponse[I, O]

// Chain composes middlewares with the first one outermost, so
// Chain(a, b)(p) is a(b(p)). Nil entries are skipped.
func Chain[I, O any](middlewares ...Middleware[I, O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		for _, mw := range slices.Backward(middlewares) {
			if mw != nil {
				inner = mw(inner)
			}
		}
		return inner
	}
}

// Describer extracts fields from a call for logs and spans. Either func
// may be nil.
type Describer[I, O any] struct {
	Input  func(I) map[string]any
	Output func(O) map[string]any
}

func (d Describer[I, O]) input(in I) map[string]any {
	if d.Input == nil {
		return nil
	}
	return d.Input(in)
}

func (d Describer[I, O]) output(out O) map[string]any {
	if d.Output == nil {
		return nil
	}
	return d.Output(out)
}

// decorated forwards Name and IsAvailable to the wrapped provider.
type decorated[I, O any] struct {
	RequestResponse[I, O]
}
