// Package component defines the lifecycle contract for long-lived formkit
// parts (storage backends, the HTTP server) and a registry that starts them
// in order and stops them in reverse.
package component
