package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestNewInstrumentsAdoptsExistingCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewInstruments(reg)
	require.NoError(t, err)
	second, err := NewInstruments(reg)
	require.NoError(t, err, "a registry can back more than one store")

	first.ObserveWrite(1)
	second.ObserveWrite(3)

	assert.Equal(t, float64(2), counterValue(t, reg, "qydb_document_writes_total"),
		"both instrument sets must feed the same counter")
}

func TestNewInstrumentsUnregistersOnConflict(t *testing.T) {
	reg := prometheus.NewRegistry()
	conflicting := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qydb_document_writes_total",
		Help: "claimed by someone else",
	})
	require.NoError(t, reg.Register(conflicting))

	_, err := NewInstruments(reg)
	require.Error(t, err)

	// The loads counter was registered before the conflict surfaced; a failed
	// NewInstruments must have removed it again.
	fresh := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qydb_document_loads_total",
		Help: "reclaimed",
	})
	assert.NoError(t, reg.Register(fresh))
}
