//go:build js && wasm

package transport

import (
	"context"
	"sync"
	"syscall/js"
)

// DefaultFetcher returns a Fetcher backed by the host's global fetch.
func DefaultFetcher() Fetcher {
	return jsFetcher{}
}

// jsFetcher calls globalThis.fetch. Calls block the calling goroutine until
// the promise settles, so they must not run on the JS event loop goroutine
// (for example inside a js.FuncOf callback).
type jsFetcher struct{}

func (jsFetcher) Available() bool {
	return js.Global().Get("fetch").Type() == js.TypeFunction
}

func (jsFetcher) Fetch(ctx context.Context, url string, init FetchInit) (FetchResponse, error) {
	headers := js.Global().Get("Object").New()
	for k, v := range init.Headers {
		headers.Set(k, v)
	}

	opts := js.Global().Get("Object").New()
	opts.Set("method", init.Method)
	opts.Set("headers", headers)
	if init.Body != nil {
		opts.Set("body", string(init.Body))
	}
	stop := func() bool { return false }
	if ac := js.Global().Get("AbortController"); ac.Type() == js.TypeFunction {
		ctrl := ac.New()
		opts.Set("signal", ctrl.Get("signal"))
		stop = context.AfterFunc(ctx, func() { ctrl.Call("abort") })
	}

	v, err := await(ctx, js.Global().Call("fetch", url, opts))
	if err != nil {
		stop()
		return nil, err
	}
	return jsResponse{v: v, stop: stop}, nil
}

// jsResponse holds the abort registration of its request until the body
// has been read.
type jsResponse struct {
	v    js.Value
	stop func() bool
}

func (r jsResponse) Status() int { return r.v.Get("status").Int() }

func (r jsResponse) ForEachHeader(fn func(value, key string)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0].String(), args[1].String())
		return nil
	})
	defer cb.Release()
	r.v.Get("headers").Call("forEach", cb)
}

func (r jsResponse) Text(ctx context.Context) (string, error) {
	defer r.stop()
	v, err := await(ctx, r.v.Call("text"))
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// await blocks until promise settles or ctx is done. A rejection is
// returned as js.Error carrying the rejection reason.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}
	ch := make(chan settled, 1)

	var onResolve, onReject js.Func
	var release sync.Once
	done := func(s settled) {
		ch <- s
		release.Do(func() {
			onResolve.Release()
			onReject.Release()
		})
	}
	onResolve = js.FuncOf(func(_ js.Value, args []js.Value) any {
		done(settled{v: args[0]})
		return nil
	})
	onReject = js.FuncOf(func(_ js.Value, args []js.Value) any {
		done(settled{err: js.Error{Value: args[0]}})
		return nil
	})
	promise.Call("then", onResolve, onReject)

	select {
	case s := <-ch:
		return s.v, s.err
	case <-ctx.Done():
		return js.Undefined(), ctx.Err()
	}
}
