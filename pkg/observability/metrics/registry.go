package metrics

import (
	"sort"
	"strings"
	"sync"
)

// Registry holds a named set of metrics and renders them in the Prometheus
// text exposition format. Registering a metric under an existing name
// replaces it.
type Registry struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{metrics: make(map[string]Metric)}
}

// DefaultRegistry backs the package-level helpers and the /metrics endpoint.
var DefaultRegistry = NewRegistry()

// Register adds a metric to the registry.
func (r *Registry) Register(m Metric) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics[m.Name()] = m
}

// Unregister removes the named metric. Unknown names are a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.metrics, name)
}

// Reset drops every registered metric.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = make(map[string]Metric)
}

// Export renders all registered metrics, sorted by name so the output is
// stable across scrapes.
func (r *Registry) Export() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(r.metrics[name].Describe())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Register adds a metric to the default registry.
func Register(m Metric) {
	DefaultRegistry.Register(m)
}

// Export renders the default registry.
func Export() string {
	return DefaultRegistry.Export()
}
