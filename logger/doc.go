// Package logger provides structured logging for isoclient using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("transport")
//	log.Debug("dispatch", logger.Fields("method", "GET", "url", url))
package logger
