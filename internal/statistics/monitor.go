package statistics

import (
	"github.com/omenix/omenix/internal/monitor"
	"github.com/prometheus/client_golang/prometheus"
)

const monitorSubsystem = "monitor"

type MonitorSource interface {
	Average() (float64, bool)
	Max() (float64, bool)
	Statistics() monitor.Statistics
}

type MonitorCollector struct {
	monitor MonitorSource

	average      *prometheus.Desc
	max          *prometheus.Desc
	samples      *prometheus.Desc
	readFailures *prometheus.Desc
}

func NewMonitorCollector(monitor MonitorSource) *MonitorCollector {
	return &MonitorCollector{
		monitor: monitor,
		average: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "temperature_average_celsius"),
			"Average temperature over the rolling window",
			nil, nil,
		),
		max: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "temperature_max_celsius"),
			"Highest temperature within the rolling window",
			nil, nil,
		),
		samples: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "samples_total"),
			"Number of successful temperature readings",
			nil, nil,
		),
		readFailures: prometheus.NewDesc(prometheus.BuildFQName(namespace, monitorSubsystem, "read_failures_total"),
			"Number of failed temperature readings",
			nil, nil,
		),
	}
}

func (collector *MonitorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.average
	ch <- collector.max
	ch <- collector.samples
	ch <- collector.readFailures
}

// Collect implements required collect function for all prometheus collectors
func (collector *MonitorCollector) Collect(ch chan<- prometheus.Metric) {
	if avg, ok := collector.monitor.Average(); ok {
		ch <- prometheus.MustNewConstMetric(collector.average, prometheus.GaugeValue, avg)
	}
	if highest, ok := collector.monitor.Max(); ok {
		ch <- prometheus.MustNewConstMetric(collector.max, prometheus.GaugeValue, highest)
	}
	stats := collector.monitor.Statistics()
	ch <- prometheus.MustNewConstMetric(collector.samples, prometheus.CounterValue, float64(stats.Samples))
	ch <- prometheus.MustNewConstMetric(collector.readFailures, prometheus.CounterValue, float64(stats.ReadFailures))
}
