package usercpu

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/perfkit/usertop/pkg/sampler"
)

type userCPUCollector struct {
	totals  func() []sampler.UserTotal
	cpuTime *prometheus.Desc
}

// NewCollector returns a collector which exports the CPU time charged to
// each user so far in the current run. totals is read on every scrape, so
// the exported values grow as the run progresses.
func NewCollector(totals func() []sampler.UserTotal) prometheus.Collector {
	return &userCPUCollector{
		totals: totals,
		cpuTime: prometheus.NewDesc(
			"usertop_user_cpu_time_milliseconds",
			"CPU time charged to this user since the run started.",
			[]string{"user", "uid"}, nil,
		),
	}
}

// Describe returns all descriptions of the collector.
func (c *userCPUCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.cpuTime
}

// Collect returns the current state of all metrics of the collector.
func (c *userCPUCollector) Collect(ch chan<- prometheus.Metric) {
	for _, u := range c.totals() {
		ch <- prometheus.MustNewConstMetric(
			c.cpuTime,
			prometheus.CounterValue,
			float64(u.CPUMillis),
			u.Name,
			strconv.FormatUint(uint64(u.UID), 10),
		)
	}
}
