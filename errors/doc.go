// Package errors provides the structured error type used across formkit.
// Errors carry a machine-readable code, a user-facing message and the HTTP
// status the server layer responds with.
package errors
