package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	c := NewCounter("test_counter", "Test counter")

	assert.Equal(t, "test_counter", c.Name())
	assert.Equal(t, "Test counter", c.Help())
	assert.Equal(t, TypeCounter, c.Type())
	assert.Equal(t, float64(0), c.Get())

	c.Inc()
	c.Add(5)
	assert.Equal(t, float64(6), c.Get())

	// Counters are monotonic: negative deltas are ignored.
	c.Add(-3)
	assert.Equal(t, float64(6), c.Get())
}

func TestCounter_ConcurrentInc(t *testing.T) {
	c := NewCounter("test_concurrent_counter", "Test counter")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(1600), c.Get())
}

func TestGauge(t *testing.T) {
	g := NewGauge("test_gauge", "Test gauge")

	assert.Equal(t, TypeGauge, g.Type())

	g.Set(10)
	assert.Equal(t, float64(10), g.Get())

	g.Inc()
	assert.Equal(t, float64(11), g.Get())

	g.Dec()
	assert.Equal(t, float64(10), g.Get())

	g.Sub(4)
	assert.Equal(t, float64(6), g.Get())

	g.Add(2)
	assert.Equal(t, float64(8), g.Get())

	// Gauges may go negative.
	g.Set(0)
	g.Dec()
	assert.Equal(t, float64(-1), g.Get())
}

func TestRegistry_Export(t *testing.T) {
	r := NewRegistry()

	c := NewCounter("zz_failures_total", "Failure count.")
	g := NewGauge("aa_in_flight", "In-flight work.")
	c.Inc()
	g.Set(3)
	r.Register(c)
	r.Register(g)

	out := r.Export()

	assert.Contains(t, out, "# HELP zz_failures_total Failure count.")
	assert.Contains(t, out, "# TYPE zz_failures_total counter")
	assert.Contains(t, out, "zz_failures_total 1.000000")
	assert.Contains(t, out, "# TYPE aa_in_flight gauge")
	assert.Contains(t, out, "aa_in_flight 3.000000")

	// Sorted by name, so the gauge renders before the counter.
	assert.Less(t, strings.Index(out, "aa_in_flight"), strings.Index(out, "zz_failures_total"))
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()

	first := NewCounter("dup_total", "First.")
	first.Inc()
	r.Register(first)

	second := NewCounter("dup_total", "Second.")
	r.Register(second)

	out := r.Export()
	assert.Contains(t, out, "dup_total 0.000000")
	assert.NotContains(t, out, "First.")
}

func TestRegistry_UnregisterAndReset(t *testing.T) {
	r := NewRegistry()
	r.Register(NewCounter("one_total", "One."))
	r.Register(NewCounter("two_total", "Two."))

	r.Unregister("one_total")
	out := r.Export()
	assert.NotContains(t, out, "one_total")
	assert.Contains(t, out, "two_total")

	// Unknown names are a no-op.
	r.Unregister("never_registered")

	r.Reset()
	assert.Empty(t, r.Export())
}

func TestDefaultRegistry(t *testing.T) {
	c := NewCounter("test_default_registry_total", "Default registry counter.")
	Register(c)
	defer DefaultRegistry.Unregister("test_default_registry_total")

	c.Inc()
	require.Contains(t, Export(), "test_default_registry_total 1.000000")
}
