//go:build !(js && wasm)

package transport

// DefaultFetcher returns an HTTPFetcher on a fresh client.
func DefaultFetcher() Fetcher {
	return &HTTPFetcher{Client: newFetchClient()}
}
