package store

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports Stats of one or more storages to Prometheus.
type Collector struct {
	storages []*NodeStorage

	entries     *prometheus.Desc
	specialized *prometheus.Desc
	inlined     *prometheus.Desc
	erased      *prometheus.Desc
	rejected    *prometheus.Desc
}

// NewCollector creates a collector. An empty namespace defaults to "rdfcore".
func NewCollector(namespace string, storages ...*NodeStorage) *Collector {
	if namespace == "" {
		namespace = "rdfcore"
	}
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "store", n)
	}
	return &Collector{
		storages: storages,
		entries: prometheus.NewDesc(name("entries"),
			"Live views per interning backend",
			[]string{"storage", "backend"}, nil),
		specialized: prometheus.NewDesc(name("specialized_entries"),
			"Live views per specialized literal datatype",
			[]string{"storage", "datatype"}, nil),
		inlined: prometheus.NewDesc(name("inlined_literals_total"),
			"Literals resolved inline without a backend",
			[]string{"storage"}, nil),
		erased: prometheus.NewDesc(name("erased_terms_total"),
			"Terms removed by explicit erasure",
			[]string{"storage"}, nil),
		rejected: prometheus.NewDesc(name("rejected_literals_total"),
			"Literal constructions that failed validation",
			[]string{"storage"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.specialized
	ch <- c.inlined
	ch <- c.erased
	ch <- c.rejected
}

// Collect implements prometheus.Collector. Closed storages are skipped.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.storages {
		if s.closed.Load() {
			continue
		}
		st := s.Stats()
		id := strconv.FormatUint(uint64(st.Storage), 10)

		for _, b := range Backends() {
			ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue,
				float64(st.Entries[b]), id, b.String())
		}
		for dt, n := range st.Specialized {
			ch <- prometheus.MustNewConstMetric(c.specialized, prometheus.GaugeValue,
				float64(n), id, dt)
		}
		ch <- prometheus.MustNewConstMetric(c.inlined, prometheus.CounterValue, float64(st.Inlined), id)
		ch <- prometheus.MustNewConstMetric(c.erased, prometheus.CounterValue, float64(st.Erased), id)
		ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(st.Rejected), id)
	}
}
