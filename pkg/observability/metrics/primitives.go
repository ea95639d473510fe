package metrics

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// --- Base Metric Implementation ---

type baseMetric struct {
	name string
	help string
	typ  MetricType
}

func (m *baseMetric) Name() string {
	return m.name
}

func (m *baseMetric) Help() string {
	return m.help
}

func (m *baseMetric) Type() MetricType {
	return m.typ
}

// --- Counter Implementation ---

type counter struct {
	baseMetric
	val uint64 // Using uint64 bits for float64 atomic operations
}

// NewCounter creates a new Counter metric with the given name and help text.
func NewCounter(name, help string) Counter {
	return &counter{
		baseMetric: baseMetric{
			name: name,
			help: help,
			typ:  TypeCounter,
		},
	}
}

func (c *counter) Inc() {
	c.Add(1)
}

func (c *counter) Add(v float64) {
	if v < 0 {
		return
	}
	for {
		oldBits := atomic.LoadUint64(&c.val)
		newVal := math.Float64frombits(oldBits) + v
		newBits := math.Float64bits(newVal)
		if atomic.CompareAndSwapUint64(&c.val, oldBits, newBits) {
			return
		}
	}
}

func (c *counter) Get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&c.val))
}

func (c *counter) Describe() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# HELP %s %s\n", c.name, c.help))
	sb.WriteString(fmt.Sprintf("# TYPE %s %s\n", c.name, c.typ))
	sb.WriteString(fmt.Sprintf("%s %.6f\n", c.name, c.Get()))
	return sb.String()
}

// --- Gauge Implementation ---

type gauge struct {
	baseMetric
	val uint64 // Using uint64 bits for float64 atomic operations
}

// NewGauge creates a new Gauge metric with the given name and help text.
func NewGauge(name, help string) Gauge {
	return &gauge{
		baseMetric: baseMetric{
			name: name,
			help: help,
			typ:  TypeGauge,
		},
	}
}

func (g *gauge) Set(v float64) {
	atomic.StoreUint64(&g.val, math.Float64bits(v))
}

func (g *gauge) Inc() {
	g.Add(1)
}

func (g *gauge) Dec() {
	g.Sub(1)
}

func (g *gauge) Add(v float64) {
	for {
		oldBits := atomic.LoadUint64(&g.val)
		newVal := math.Float64frombits(oldBits) + v
		newBits := math.Float64bits(newVal)
		if atomic.CompareAndSwapUint64(&g.val, oldBits, newBits) {
			return
		}
	}
}

func (g *gauge) Sub(v float64) {
	g.Add(-v)
}

func (g *gauge) Get() float64 {
	return math.Float64frombits(atomic.LoadUint64(&g.val))
}

func (g *gauge) Describe() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# HELP %s %s\n", g.name, g.help))
	sb.WriteString(fmt.Sprintf("# TYPE %s %s\n", g.name, g.typ))
	sb.WriteString(fmt.Sprintf("%s %.6f\n", g.name, g.Get()))
	return sb.String()
}
