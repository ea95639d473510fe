// Package metrics provides a lightweight metrics collection system used as
// the operational error channel for recordguard: conditions that must be
// surfaced without aborting the request pipeline (rate-limit backend
// failures, audit write failures) increment counters exported here.
package metrics

// MetricType represents the type of metric.
type MetricType string

// Metric type constants define the supported metric types.
const (
	TypeCounter MetricType = "counter"
	TypeGauge   MetricType = "gauge"
)

// Metric is the base interface for all metrics.
type Metric interface {
	Name() string
	Help() string
	Type() MetricType
	// Describe returns the metric description in Prometheus format.
	Describe() string
}

// Counter is a cumulative metric that represents a single monotonically increasing counter.
type Counter interface {
	Metric
	Inc()
	Add(float64)
	Get() float64
}

// Gauge is a metric that represents a single numerical value that can arbitrarily go up and down.
type Gauge interface {
	Metric
	Set(float64)
	Inc()
	Dec()
	Add(float64)
	Sub(float64)
	Get() float64
}
