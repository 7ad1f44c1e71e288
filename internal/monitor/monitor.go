package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
)

type TemperatureReader interface {
	// ReadTemperature returns the current temperature in millidegrees Celsius
	ReadTemperature() (int, error)
}

type Sampler interface {
	Sample(milliCelsius int) error
}

type Statistics struct {
	Samples      uint64 `json:"samples"`
	ReadFailures uint64 `json:"readFailures"`
	WriteErrors  uint64 `json:"writeErrors"`
}

// TemperatureMonitor periodically reads the temperature and feeds it to the
// control state machine. It also keeps a rolling window of recent samples.
type TemperatureMonitor struct {
	reader   TemperatureReader
	sampler  Sampler
	interval time.Duration

	mu         sync.Mutex
	window     *rolling.PointPolicy
	windowSize int
	filled     int
	stats      Statistics
}

func NewTemperatureMonitor(reader TemperatureReader, sampler Sampler, interval time.Duration, windowSize int) *TemperatureMonitor {
	if windowSize <= 0 {
		windowSize = 1
	}
	return &TemperatureMonitor{
		reader:     reader,
		sampler:    sampler,
		interval:   interval,
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
	}
}

// Run samples once immediately and then on every interval until ctx is cancelled.
// A tick that already started is always completed.
func (m *TemperatureMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Tick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Tick()
		}
	}
}

// Tick performs a single read-and-sample cycle. A failed read skips the cycle.
func (m *TemperatureMonitor) Tick() {
	value, err := m.reader.ReadTemperature()
	if err != nil {
		ui.Warning("Error reading temperature, skipping this cycle: %v", err)
		m.mu.Lock()
		m.stats.ReadFailures++
		m.mu.Unlock()
		return
	}

	ui.Debug("Sampled temperature: %d°C", value/1000)
	m.mu.Lock()
	m.window.Append(float64(value) / 1000)
	if m.filled < m.windowSize {
		m.filled++
	}
	m.stats.Samples++
	m.mu.Unlock()

	if err := m.sampler.Sample(value); err != nil {
		ui.Warning("Hardware write after temperature sample failed: %v", err)
		m.mu.Lock()
		m.stats.WriteErrors++
		m.mu.Unlock()
	}
}

// Average returns the mean temperature in °C over the recent samples.
func (m *TemperatureMonitor) Average() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filled <= 0 {
		return 0, false
	}
	return util.GetWindowAvg(m.window, m.filled), true
}

// Max returns the highest temperature in °C over the recent samples.
func (m *TemperatureMonitor) Max() (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filled <= 0 {
		return 0, false
	}
	return util.GetWindowMax(m.window), true
}

func (m *TemperatureMonitor) Statistics() Statistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}
