package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryProvider defines the interface for accessing the store's metrics
// registry. Embedders expose the registry via their chosen method (e.g., a
// Prometheus HTTP endpoint); the store itself never opens a network surface.
type RegistryProvider interface {
	// Registry returns the Prometheus registry containing store metrics.
	Registry() *prometheus.Registry
}
