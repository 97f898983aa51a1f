// Package version carries build metadata for the isoclient binaries.
//
// Values are injected at link time:
//
//	go build -ldflags "-X github.com/kbukum/isoclient/version.Version=1.2.0"
package version
