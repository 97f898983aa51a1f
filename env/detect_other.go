//go:build !(js && wasm)

package env

func detectServer() bool { return true }
