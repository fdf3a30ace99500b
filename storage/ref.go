package storage

import "fmt"

// Ref identifies a backend either by registered name or by an already
// constructed instance. The zero Ref means "use the configured default".
type Ref struct {
	name    string
	backend Backend
}

// Named refers to a backend registered under name.
func Named(name string) Ref { return Ref{name: name} }

// Instance refers to b directly; resolving it returns b unchanged.
func Instance(b Backend) Ref { return Ref{backend: b} }

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.name == "" && r.backend == nil }

// Name returns the backend name for named references.
func (r Ref) Name() (string, bool) { return r.name, r.name != "" }

// Backend returns the instance for instance references.
func (r Ref) Backend() (Backend, bool) { return r.backend, r.backend != nil }

func (r Ref) String() string {
	switch {
	case r.backend != nil:
		return fmt.Sprintf("instance(%T)", r.backend)
	case r.name != "":
		return r.name
	default:
		return "default"
	}
}
