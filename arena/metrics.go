package arena

import "github.com/prometheus/client_golang/prometheus"

// SizeInUse returns the number of bytes handed out since the last Reset.
// This includes padding inserted for alignment.
func (a *Arena) SizeInUse() int {
	if a.buf == nil {
		return 0
	}
	return int(a.offset)
}

// Capacity returns the fixed capacity of the arena in bytes.
func (a *Arena) Capacity() int {
	return len(a.buf)
}

// Available returns the number of bytes left before the arena is exhausted,
// ignoring any padding the next request may need.
func (a *Arena) Available() int {
	return a.Capacity() - a.SizeInUse()
}

// Peak returns the high-water mark of SizeInUse. It survives Reset.
func (a *Arena) Peak() int {
	return int(a.peak)
}

// Allocs returns the number of successful RawAlloc calls.
func (a *Arena) Allocs() int { return a.allocs }

// Frees returns the number of RawFree calls.
func (a *Arena) Frees() int { return a.frees }

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.SizeInUse()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		Peak:        a.Peak(),
		Allocs:      a.Allocs(),
		Frees:       a.Frees(),
		Utilization: a.Utilization(),
	}
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	Peak        int     // High-water mark of SizeInUse
	Allocs      int     // Successful allocations
	Frees       int     // Deallocation calls
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

const metricsPrefix = "arena_"

// Collector exports an arena's Metrics to Prometheus. The arena is read on
// every scrape, so the caller must serialize scrapes with arena use.
type Collector struct {
	arena *Arena

	inUse    *prometheus.Desc
	capacity *prometheus.Desc
	peak     *prometheus.Desc
	allocs   *prometheus.Desc
	frees    *prometheus.Desc
}

// NewCollector returns a collector for a, labelled with arena=name.
func NewCollector(name string, a *Arena) *Collector {
	constLabels := prometheus.Labels{"arena": name}

	return &Collector{
		arena: a,

		inUse: prometheus.NewDesc(
			metricsPrefix+"bytes_in_use",
			"Bytes handed out by the arena since the last reset.",
			nil, constLabels,
		),
		capacity: prometheus.NewDesc(
			metricsPrefix+"capacity_bytes",
			"Fixed capacity of the arena.",
			nil, constLabels,
		),
		peak: prometheus.NewDesc(
			metricsPrefix+"peak_bytes",
			"High-water mark of bytes in use.",
			nil, constLabels,
		),
		allocs: prometheus.NewDesc(
			metricsPrefix+"allocations_total",
			"The total number of successful allocations.",
			nil, constLabels,
		),
		frees: prometheus.NewDesc(
			metricsPrefix+"frees_total",
			"The total number of deallocation calls.",
			nil, constLabels,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.capacity
	ch <- c.peak
	ch <- c.allocs
	ch <- c.frees
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.arena.Metrics()
	ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(m.SizeInUse))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.peak, prometheus.GaugeValue, float64(m.Peak))
	ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m.Allocs))
	ch <- prometheus.MustNewConstMetric(c.frees, prometheus.CounterValue, float64(m.Frees))
}
