// Package env reports which kind of runtime the process is running in and
// selects the matching transport.
//
// Native builds always run in a server runtime. Under js/wasm the answer
// depends on the host: Node.js exposes process.versions.node, browsers and
// workers do not.
package env
