package statistics

import (
	"github.com/omenix/omenix/internal/control"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerSource interface {
	Status() control.Snapshot
	Statistics() control.Statistics
}

type ControllerCollector struct {
	controller ControllerSource

	fanMode            *prometheus.Desc
	hardwareState      *prometheus.Desc
	performanceMode    *prometheus.Desc
	temperature        *prometheus.Desc
	consecutiveHigh    *prometheus.Desc
	consecutiveLow     *prometheus.Desc
	writePending       *prometheus.Desc
	hardwareWrites     *prometheus.Desc
	failedWrites       *prometheus.Desc
	suppressedWrites   *prometheus.Desc
	hysteresisSwitches *prometheus.Desc
}

func NewControllerCollector(controller ControllerSource) *ControllerCollector {
	return &ControllerCollector{
		controller: controller,
		fanMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "fan_mode"),
			"Currently active fan mode, 1 for the active mode",
			[]string{"mode"}, nil,
		),
		hardwareState: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "hardware_state"),
			"State last decided for the fan control file, 1 for the active state",
			[]string{"state"}, nil,
		),
		performanceMode: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "performance_mode"),
			"Currently active performance mode, 1 for the active mode",
			[]string{"mode"}, nil,
		),
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "temperature_celsius"),
			"Temperature of the last sample",
			nil, nil,
		),
		consecutiveHigh: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "consecutive_high_samples"),
			"Number of consecutive samples at or above the high threshold",
			nil, nil,
		),
		consecutiveLow: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "consecutive_low_samples"),
			"Number of consecutive samples at or below the low threshold",
			nil, nil,
		),
		writePending: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "write_pending"),
			"1 if the last write of this kind failed and will be retried",
			[]string{"kind"}, nil,
		),
		hardwareWrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "hardware_writes_total"),
			"Number of successful hardware writes",
			[]string{"kind"}, nil,
		),
		failedWrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "write_failures_total"),
			"Number of failed hardware writes",
			nil, nil,
		),
		suppressedWrites: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "writes_suppressed_total"),
			"Number of refresh writes suppressed by the rate limiter",
			nil, nil,
		),
		hysteresisSwitches: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "hysteresis_switches_total"),
			"Number of temperature driven switches of the fan state",
			nil, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.fanMode
	ch <- collector.hardwareState
	ch <- collector.performanceMode
	ch <- collector.temperature
	ch <- collector.consecutiveHigh
	ch <- collector.consecutiveLow
	ch <- collector.writePending
	ch <- collector.hardwareWrites
	ch <- collector.failedWrites
	ch <- collector.suppressedWrites
	ch <- collector.hysteresisSwitches
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	status := collector.controller.Status()
	stats := collector.controller.Statistics()

	for _, mode := range []control.FanMode{control.FanModeMax, control.FanModeAuto, control.FanModeBios} {
		ch <- prometheus.MustNewConstMetric(collector.fanMode, prometheus.GaugeValue, boolToFloat(status.FanMode == mode), mode.String())
	}
	for _, state := range []control.HardwareState{control.HardwareStateMax, control.HardwareStateBios} {
		ch <- prometheus.MustNewConstMetric(collector.hardwareState, prometheus.GaugeValue, boolToFloat(status.HardwareState == state), state.String())
	}
	for _, mode := range []control.PerformanceMode{control.PerformanceModeBalanced, control.PerformanceModePerformance} {
		ch <- prometheus.MustNewConstMetric(collector.performanceMode, prometheus.GaugeValue, boolToFloat(status.PerformanceMode == mode), mode.String())
	}

	if status.TemperatureKnown {
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(status.Temperature))
	}
	ch <- prometheus.MustNewConstMetric(collector.consecutiveHigh, prometheus.GaugeValue, float64(status.ConsecutiveHigh))
	ch <- prometheus.MustNewConstMetric(collector.consecutiveLow, prometheus.GaugeValue, float64(status.ConsecutiveLow))

	ch <- prometheus.MustNewConstMetric(collector.writePending, prometheus.GaugeValue, boolToFloat(status.FanWritePending), control.WriteKindFan.String())
	ch <- prometheus.MustNewConstMetric(collector.writePending, prometheus.GaugeValue, boolToFloat(status.PerformanceWritePending), control.WriteKindPerformance.String())
	ch <- prometheus.MustNewConstMetric(collector.hardwareWrites, prometheus.CounterValue, float64(stats.FanWrites), control.WriteKindFan.String())
	ch <- prometheus.MustNewConstMetric(collector.hardwareWrites, prometheus.CounterValue, float64(stats.PerformanceWrites), control.WriteKindPerformance.String())
	ch <- prometheus.MustNewConstMetric(collector.failedWrites, prometheus.CounterValue, float64(stats.FailedWrites))
	ch <- prometheus.MustNewConstMetric(collector.suppressedWrites, prometheus.CounterValue, float64(stats.SuppressedWrites))
	ch <- prometheus.MustNewConstMetric(collector.hysteresisSwitches, prometheus.CounterValue, float64(stats.Transitions))
}

func boolToFloat(value bool) float64 {
	if value {
		return 1
	}
	return 0
}
