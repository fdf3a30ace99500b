package component

import "context"

// HealthStatus is reported by /health per component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's entry in a health report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a unit with a start/stop lifecycle, such as the storage
// backend or the HTTP server. Name must be unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is logged when a component starts.
type Description struct {
	// Name defaults to the component's Name().
	Name string
	// Type is "storage" or "server".
	Type string
	// Details is a one-liner such as "provider=local root=./uploads".
	Details string
	// Port is 0 when the component does not listen.
	Port int
}

// Describable components contribute a Description to the startup log.
type Describable interface {
	Describe() Description
}
