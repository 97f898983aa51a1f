// Package transport defines the request contract shared by the two
// isoclient transports and implements both of them.
//
// Server uses net/http with separate secure and insecure clients chosen by
// URL scheme. Browser speaks the fetch API: in js/wasm builds it calls the
// host's global fetch, elsewhere it runs over HTTPFetcher so the same code
// path can be exercised natively.
//
// Both transports read the whole body, decode it as JSON when possible and
// fall back to the raw text otherwise. HTTP error statuses are responses,
// not errors.
package transport
