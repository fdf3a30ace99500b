package logger

import "sync"

// components holds loggers keyed by component name; forms and storage
// fall back to it when the caller supplies no logger.
var components sync.Map

// Register binds l to a component name. Later calls replace earlier ones.
func Register(name string, l *Logger) {
	components.Store(name, l)
}

// Get returns the logger registered under name. Unknown names get the
// global logger tagged with the component, cached so repeated lookups
// share one instance.
func Get(name string) *Logger {
	if l, ok := components.Load(name); ok {
		return l.(*Logger)
	}
	l, _ := components.LoadOrStore(name, GetGlobalLogger().WithComponent(name))
	return l.(*Logger)
}

// Unregister drops a component binding.
func Unregister(name string) {
	components.Delete(name)
}
