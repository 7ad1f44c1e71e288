package control

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
)

// HardwareWriter applies decided states to the control files.
type HardwareWriter interface {
	WriteFanState(code int) error
	WritePerformanceState(profile string) error
}

// Settings holds the typed configuration values the Controller works with.
type Settings struct {
	TempThresholdHigh int
	TempThresholdLow  int

	ConsecutiveHighTempLimit uint
	ConsecutiveLowTempLimit  uint

	// MaxFanWriteInterval enables periodic re-issuing of the max fan write, 0 disables it
	MaxFanWriteInterval time.Duration

	MaxFanCode  int
	BiosFanCode int

	InitialFanMode         FanMode
	InitialPerformanceMode PerformanceMode
}

// DaemonState is the mutable state shared between the monitor and the request server.
type DaemonState struct {
	FanMode         FanMode
	PerformanceMode PerformanceMode
	// HardwareState is what was last decided for the fan control file
	HardwareState HardwareState

	ConsecutiveHigh uint
	ConsecutiveLow  uint

	// Temperature of the last sample in °C
	Temperature      int
	TemperatureKnown bool
}

// Snapshot is a consistent copy of the controller state at a single point in time.
type Snapshot struct {
	FanMode          FanMode         `json:"fanMode"`
	PerformanceMode  PerformanceMode `json:"performanceMode"`
	HardwareState    HardwareState   `json:"hardwareState"`
	Temperature      int             `json:"temperature"`
	TemperatureKnown bool            `json:"temperatureKnown"`

	ConsecutiveHigh uint `json:"consecutiveHigh"`
	ConsecutiveLow  uint `json:"consecutiveLow"`

	LastFanWrite         time.Time `json:"lastFanWrite"`
	LastPerformanceWrite time.Time `json:"lastPerformanceWrite"`

	FanWritePending         bool `json:"fanWritePending"`
	PerformanceWritePending bool `json:"performanceWritePending"`
}

// Statistics counts hardware writes since startup.
type Statistics struct {
	FanWrites         uint64 `json:"fanWrites"`
	PerformanceWrites uint64 `json:"performanceWrites"`
	FailedWrites      uint64 `json:"failedWrites"`
	SuppressedWrites  uint64 `json:"suppressedWrites"`
	Transitions       uint64 `json:"transitions"`
}

type writeRequest struct {
	kind       WriteKind
	generation uint64
	fanCode    int
	profile    string
	reason     string
}

// Controller owns the DaemonState and decides when the hardware has to be written.
// Decisions are made under mu, the writes themselves happen after mu is released.
type Controller struct {
	settings Settings
	hardware HardwareWriter
	clock    util.Clock

	mu         sync.Mutex
	state      DaemonState
	limiter    *RateLimiter
	retry      map[WriteKind]bool
	generation map[WriteKind]uint64
	stats      Statistics

	// writeMu serializes hardware writes, lock order is writeMu before mu
	writeMu sync.Mutex
	applied map[WriteKind]uint64
}

func NewController(settings Settings, hardware HardwareWriter, clock util.Clock) *Controller {
	if clock == nil {
		clock = util.RealClock{}
	}

	hardwareState := HardwareStateBios
	if settings.InitialFanMode == FanModeMax {
		hardwareState = HardwareStateMax
	}

	return &Controller{
		settings: settings,
		hardware: hardware,
		clock:    clock,
		state: DaemonState{
			FanMode:         settings.InitialFanMode,
			PerformanceMode: settings.InitialPerformanceMode,
			HardwareState:   hardwareState,
		},
		limiter: NewRateLimiter(map[WriteKind]time.Duration{
			WriteKindFan: settings.MaxFanWriteInterval,
		}),
		retry:      map[WriteKind]bool{},
		generation: map[WriteKind]uint64{},
		applied:    map[WriteKind]uint64{},
	}
}

// Start applies the initial fan and performance modes to the hardware.
func (c *Controller) Start() error {
	c.mu.Lock()
	now := c.clock.Now()
	requests := []writeRequest{
		c.fanWriteLocked(now, true, "startup"),
		c.performanceWriteLocked(now, true, "startup"),
	}
	c.mu.Unlock()

	return c.execute(requests)
}

// SetFanMode handles an explicit fan mode change. The write for Max and Bios is never
// rate limited. Auto re-asserts the current hardware state until the next sample
// reclassifies it. The requested mode is kept even if the write fails.
func (c *Controller) SetFanMode(mode FanMode) error {
	c.mu.Lock()
	previous := c.state.FanMode
	c.state.FanMode = mode
	c.state.ConsecutiveHigh = 0
	c.state.ConsecutiveLow = 0

	switch mode {
	case FanModeMax:
		c.state.HardwareState = HardwareStateMax
	case FanModeBios:
		c.state.HardwareState = HardwareStateBios
	}
	request := c.fanWriteLocked(c.clock.Now(), true, "fan mode set to "+mode.String())
	c.mu.Unlock()

	ui.Info("Fan mode changed: %s -> %s", previous, mode)
	return c.execute([]writeRequest{request})
}

// SetPerformanceMode handles an explicit performance mode change.
func (c *Controller) SetPerformanceMode(mode PerformanceMode) error {
	c.mu.Lock()
	previous := c.state.PerformanceMode
	c.state.PerformanceMode = mode
	request := c.performanceWriteLocked(c.clock.Now(), true, "performance mode set to "+mode.String())
	c.mu.Unlock()

	ui.Info("Performance mode changed: %s -> %s", previous, mode)
	return c.execute([]writeRequest{request})
}

// Sample feeds a temperature reading in millidegrees Celsius into the state machine
// and performs the hardware writes it decided on.
func (c *Controller) Sample(milliCelsius int) error {
	c.mu.Lock()
	requests := c.sampleLocked(milliCelsius/1000, c.clock.Now())
	c.mu.Unlock()

	return c.execute(requests)
}

func (c *Controller) sampleLocked(temp int, now time.Time) []writeRequest {
	c.state.Temperature = temp
	c.state.TemperatureKnown = true

	var requests []writeRequest
	transitioned := false
	if c.state.FanMode == FanModeAuto {
		transitioned = c.classifyLocked(temp)
		if transitioned {
			c.stats.Transitions++
			ui.Info("Temperature %d°C, switching fans to %s", temp, c.state.HardwareState)
			requests = append(requests, c.fanWriteLocked(now, true, "hysteresis transition"))
		}
	}

	if !transitioned {
		if c.retry[WriteKindFan] {
			if c.limiter.ShouldWrite(WriteKindFan, now, false) {
				requests = append(requests, c.newFanRequestLocked("retry of failed write"))
			}
		} else if c.settings.MaxFanWriteInterval > 0 && c.state.HardwareState == HardwareStateMax {
			if c.limiter.ShouldWrite(WriteKindFan, now, false) {
				requests = append(requests, c.newFanRequestLocked("refresh"))
			} else {
				c.stats.SuppressedWrites++
			}
		}
	}

	if c.retry[WriteKindPerformance] && c.limiter.ShouldWrite(WriteKindPerformance, now, false) {
		requests = append(requests, c.newPerformanceRequestLocked("retry of failed write"))
	}

	return requests
}

// classifyLocked applies the hysteresis rules and reports whether the hardware state changed.
func (c *Controller) classifyLocked(temp int) bool {
	switch {
	case temp >= c.settings.TempThresholdHigh:
		c.state.ConsecutiveLow = 0
		if c.state.ConsecutiveHigh < c.settings.ConsecutiveHighTempLimit {
			c.state.ConsecutiveHigh++
		}
		if c.state.ConsecutiveHigh >= c.settings.ConsecutiveHighTempLimit && c.state.HardwareState != HardwareStateMax {
			c.state.HardwareState = HardwareStateMax
			return true
		}
	case temp <= c.settings.TempThresholdLow:
		c.state.ConsecutiveHigh = 0
		if c.state.ConsecutiveLow < c.settings.ConsecutiveLowTempLimit {
			c.state.ConsecutiveLow++
		}
		if c.state.ConsecutiveLow >= c.settings.ConsecutiveLowTempLimit && c.state.HardwareState != HardwareStateBios {
			c.state.HardwareState = HardwareStateBios
			return true
		}
	default:
		c.state.ConsecutiveHigh = 0
		c.state.ConsecutiveLow = 0
	}
	return false
}

func (c *Controller) fanWriteLocked(now time.Time, explicit bool, reason string) writeRequest {
	c.limiter.ShouldWrite(WriteKindFan, now, explicit)
	return c.newFanRequestLocked(reason)
}

func (c *Controller) performanceWriteLocked(now time.Time, explicit bool, reason string) writeRequest {
	c.limiter.ShouldWrite(WriteKindPerformance, now, explicit)
	return c.newPerformanceRequestLocked(reason)
}

func (c *Controller) newFanRequestLocked(reason string) writeRequest {
	c.generation[WriteKindFan]++
	code := c.settings.BiosFanCode
	if c.state.HardwareState == HardwareStateMax {
		code = c.settings.MaxFanCode
	}
	return writeRequest{
		kind:       WriteKindFan,
		generation: c.generation[WriteKindFan],
		fanCode:    code,
		reason:     reason,
	}
}

func (c *Controller) newPerformanceRequestLocked(reason string) writeRequest {
	c.generation[WriteKindPerformance]++
	return writeRequest{
		kind:       WriteKindPerformance,
		generation: c.generation[WriteKindPerformance],
		profile:    c.state.PerformanceMode.String(),
		reason:     reason,
	}
}

func (c *Controller) execute(requests []writeRequest) error {
	var errs []error
	for _, request := range requests {
		if err := c.apply(request); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Controller) apply(request writeRequest) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if request.generation <= c.applied[request.kind] {
		ui.Debug("Skipping outdated %s write (%s)", request.kind, request.reason)
		return nil
	}
	c.applied[request.kind] = request.generation

	var err error
	switch request.kind {
	case WriteKindFan:
		ui.Debug("Writing fan state %d (%s)", request.fanCode, request.reason)
		err = c.hardware.WriteFanState(request.fanCode)
		if err != nil {
			err = fmt.Errorf("failed to write fan state %d: %w", request.fanCode, err)
		}
	case WriteKindPerformance:
		ui.Debug("Writing performance profile %s (%s)", request.profile, request.reason)
		err = c.hardware.WritePerformanceState(request.profile)
		if err != nil {
			err = fmt.Errorf("failed to write performance profile %s: %w", request.profile, err)
		}
	}

	c.reportWrite(request, err)
	return err
}

func (c *Controller) reportWrite(request writeRequest, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := request.generation == c.generation[request.kind]
	if err != nil {
		c.stats.FailedWrites++
		if latest {
			c.retry[request.kind] = true
			c.limiter.Forget(request.kind)
		}
		ui.Error("%v", err)
		return
	}

	switch request.kind {
	case WriteKindFan:
		c.stats.FanWrites++
	case WriteKindPerformance:
		c.stats.PerformanceWrites++
	}
	if latest {
		c.retry[request.kind] = false
	}
}

// Status returns a consistent snapshot of the current state.
func (c *Controller) Status() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lastFanWrite, _ := c.limiter.LastWrite(WriteKindFan)
	lastPerformanceWrite, _ := c.limiter.LastWrite(WriteKindPerformance)

	return Snapshot{
		FanMode:                 c.state.FanMode,
		PerformanceMode:         c.state.PerformanceMode,
		HardwareState:           c.state.HardwareState,
		Temperature:             c.state.Temperature,
		TemperatureKnown:        c.state.TemperatureKnown,
		ConsecutiveHigh:         c.state.ConsecutiveHigh,
		ConsecutiveLow:          c.state.ConsecutiveLow,
		LastFanWrite:            lastFanWrite,
		LastPerformanceWrite:    lastPerformanceWrite,
		FanWritePending:         c.retry[WriteKindFan],
		PerformanceWritePending: c.retry[WriteKindPerformance],
	}
}

func (c *Controller) Statistics() Statistics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
