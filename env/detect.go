package env

import "sync"

// Transport names selected by Selector.
const (
	Server  = "server"
	Browser = "browser"
)

// Detector reports whether the current runtime is a server runtime.
type Detector func() bool

var detectOnce = sync.OnceValue(detectServer)

// IsServerEnvironment reports whether the process runs in a server runtime.
// The host is probed once per process.
func IsServerEnvironment() bool {
	return detectOnce()
}

// Default is the process-wide detector.
var Default Detector = IsServerEnvironment

// Name returns Server or Browser for the detector's answer. A nil detector
// uses Default.
func (d Detector) Name() string {
	if d == nil {
		d = Default
	}
	if d() {
		return Server
	}
	return Browser
}

// Static returns a detector with a fixed answer.
func Static(server bool) Detector {
	return func() bool { return server }
}
