package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Instruments holds the store's operation metrics. They are registered on the
// registry of whichever RegistryProvider the store was configured with, so
// embedders can mount them on their own exporter.
type Instruments struct {
	loads        prometheus.Counter
	writes       prometheus.Counter
	writeErrors  prometheus.Counter
	documentKeys prometheus.Gauge
}

// NewInstruments creates and registers the store instruments on the given
// registerer. Collectors the registry already holds, as with a provider
// shared across stores, are adopted rather than duplicated. On any other
// registration failure the collectors registered so far are removed again,
// leaving the registry as it was found.
func NewInstruments(reg prometheus.Registerer) (*Instruments, error) {
	var registered []prometheus.Collector
	adopt := func(c prometheus.Collector) (prometheus.Collector, error) {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return are.ExistingCollector, nil
			}
			for _, r := range registered {
				reg.Unregister(r)
			}
			return nil, err
		}
		registered = append(registered, c)
		return c, nil
	}

	i := &Instruments{}
	for _, inst := range []struct {
		assign func(prometheus.Collector)
		fresh  prometheus.Collector
	}{
		{
			assign: func(c prometheus.Collector) { i.loads = c.(prometheus.Counter) },
			fresh: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "qydb_document_loads_total",
				Help: "Total number of document decodes from disk.",
			}),
		},
		{
			assign: func(c prometheus.Collector) { i.writes = c.(prometheus.Counter) },
			fresh: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "qydb_document_writes_total",
				Help: "Total number of successful full-document writes, including truncations.",
			}),
		},
		{
			assign: func(c prometheus.Collector) { i.writeErrors = c.(prometheus.Counter) },
			fresh: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "qydb_document_write_errors_total",
				Help: "Total number of failed document writes.",
			}),
		},
		{
			assign: func(c prometheus.Collector) { i.documentKeys = c.(prometheus.Gauge) },
			fresh: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "qydb_document_keys",
				Help: "Number of variables in the document after the last successful write.",
			}),
		},
	} {
		c, err := adopt(inst.fresh)
		if err != nil {
			return nil, err
		}
		inst.assign(c)
	}
	return i, nil
}

// ObserveLoad records one document decode.
func (i *Instruments) ObserveLoad() { i.loads.Inc() }

// ObserveWrite records one successful write and the resulting document size.
func (i *Instruments) ObserveWrite(keys int) {
	i.writes.Inc()
	i.documentKeys.Set(float64(keys))
}

// ObserveWriteError records one failed write.
func (i *Instruments) ObserveWriteError() { i.writeErrors.Inc() }
