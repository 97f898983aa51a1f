// Package component defines lifecycle interfaces shared by the client and
// the mock API server, and a Registry that starts them in order and stops
// them in reverse.
package component
