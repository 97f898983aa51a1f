package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/isoclient/errors"
)

// TypedResponse is a Response whose Data has been decoded into T.
type TypedResponse[T any] struct {
	Status  int
	Headers map[string]string
	Data    T
	// Response is the untyped response after response interceptors.
	Response *Response
}

// Decode converts resp.Data into T. It works on Data rather than the raw
// body so that changes made by response interceptors are kept.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, nil
	}
	if v, ok := resp.Data.(T); ok {
		return v, nil
	}
	b, err := json.Marshal(resp.Data)
	if err != nil {
		return out, errors.DecodeFailed(fmt.Sprintf("%T", out), err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, errors.DecodeFailed(fmt.Sprintf("%T", out), err)
	}
	return out, nil
}

// GetAs performs Get and decodes the response data into T.
func GetAs[T any](c *Client, ctx context.Context, endpoint string, opts ...RequestOption) (*TypedResponse[T], error) {
	return typed[T](c.Get(ctx, endpoint, opts...))
}

// DeleteAs performs Delete and decodes the response data into T.
func DeleteAs[T any](c *Client, ctx context.Context, endpoint string, opts ...RequestOption) (*TypedResponse[T], error) {
	return typed[T](c.Delete(ctx, endpoint, opts...))
}

// PostAs performs Post and decodes the response data into T.
func PostAs[T any](c *Client, ctx context.Context, endpoint string, data any, opts ...RequestOption) (*TypedResponse[T], error) {
	return typed[T](c.Post(ctx, endpoint, data, opts...))
}

// PutAs performs Put and decodes the response data into T.
func PutAs[T any](c *Client, ctx context.Context, endpoint string, data any, opts ...RequestOption) (*TypedResponse[T], error) {
	return typed[T](c.Put(ctx, endpoint, data, opts...))
}

// typed decodes resp. On a decode failure the untyped response is still
// returned alongside the error.
func typed[T any](resp *Response, err error) (*TypedResponse[T], error) {
	if err != nil {
		return nil, err
	}
	out := &TypedResponse[T]{Status: resp.Status, Headers: resp.Headers, Response: resp}
	data, err := Decode[T](resp)
	if err != nil {
		return out, err
	}
	out.Data = data
	return out, nil
}
