// Package client is the isoclient facade: one Client issues requests the
// same way in a server runtime and in a browser runtime.
//
// A request goes through four stages, strictly one after another:
//
//  1. the configured CSRF token is written to X-CSRF-Token,
//  2. request interceptors run in the order they were added,
//  3. the transport picked by the environment detector performs the I/O,
//  4. response interceptors run in the order they were added.
//
// Usage:
//
//	c, err := client.New(client.Config{BaseURL: "https://api.example.com"})
//	c.SetCSRFToken(token)
//	c.AddResponseInterceptor(func(ctx context.Context, r *client.Response) (*client.Response, error) {
//	    return r, nil
//	})
//	resp, err := c.Get(ctx, "/posts")
//
// Typed helpers decode Data into a Go type:
//
//	posts, err := client.GetAs[[]Post](c, ctx, "/posts")
package client
