// Package logger provides structured logging for formkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("storage")
//	log.Info("backend initialized", logger.Fields("backend", "local"))
package logger
