// Package util provides small helpers shared across formkit packages.
//
// It includes upload filename sanitization, extension handling, pointer
// helpers for optional configuration, and human-readable size parsing.
package util
