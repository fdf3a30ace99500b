// Package version reports the build version of the formkit binary. Values
// are set with -ldflags and completed from the module build info:
//
//	go build -ldflags "-X github.com/kbukum/formkit/version.Version=1.2.0" ./cmd/formkit
package version
