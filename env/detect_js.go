//go:build js && wasm

package env

import "syscall/js"

func detectServer() (server bool) {
	defer func() {
		if recover() != nil {
			server = false
		}
	}()

	process := js.Global().Get("process")
	if process.Type() != js.TypeObject {
		return false
	}
	versions := process.Get("versions")
	if versions.Type() != js.TypeObject {
		return false
	}
	return versions.Get("node").Type() == js.TypeString
}
