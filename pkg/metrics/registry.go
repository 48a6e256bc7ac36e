package metrics

import "github.com/prometheus/client_golang/prometheus"

// registry is the process-wide Prometheus registry metrics are registered
// against. It stays nil until InitRegistry is called, the same opt-in the
// teacher's cache/s3 metrics constructors check via IsEnabled before
// touching promauto.
var registry *prometheus.Registry

// InitRegistry enables metrics collection for the process. Call once at
// startup before constructing a Recorder; calling it again replaces the
// registry.
func InitRegistry() *prometheus.Registry {
	registry = prometheus.NewRegistry()
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	return registry != nil
}

// GetRegistry returns the process registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}
