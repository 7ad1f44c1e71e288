package control

import (
	"fmt"
)

// FanMode is the user facing fan behaviour requested by a client.
type FanMode int

const (
	FanModeBios FanMode = iota
	FanModeAuto
	FanModeMax
)

func (m FanMode) String() string {
	switch m {
	case FanModeMax:
		return "max"
	case FanModeAuto:
		return "auto"
	case FanModeBios:
		return "bios"
	}
	return fmt.Sprintf("FanMode(%d)", int(m))
}

func (m FanMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseFanMode parses the lowercase name of a fan mode.
func ParseFanMode(s string) (FanMode, error) {
	switch s {
	case "max":
		return FanModeMax, nil
	case "auto":
		return FanModeAuto, nil
	case "bios":
		return FanModeBios, nil
	}
	return FanModeBios, fmt.Errorf("invalid fan mode: %s", s)
}

// HardwareState is one of the two states the fan control file supports.
type HardwareState int

const (
	HardwareStateBios HardwareState = iota
	HardwareStateMax
)

func (s HardwareState) String() string {
	switch s {
	case HardwareStateMax:
		return "max"
	case HardwareStateBios:
		return "bios"
	}
	return fmt.Sprintf("HardwareState(%d)", int(s))
}

func (s HardwareState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PerformanceMode is the platform power profile, independent of the fan mode.
type PerformanceMode int

const (
	PerformanceModeBalanced PerformanceMode = iota
	PerformanceModePerformance
)

// String returns the platform profile name as written to the hardware
func (m PerformanceMode) String() string {
	switch m {
	case PerformanceModeBalanced:
		return "balanced"
	case PerformanceModePerformance:
		return "performance"
	}
	return fmt.Sprintf("PerformanceMode(%d)", int(m))
}

func (m PerformanceMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func ParsePerformanceMode(s string) (PerformanceMode, error) {
	switch s {
	case "balanced":
		return PerformanceModeBalanced, nil
	case "performance":
		return PerformanceModePerformance, nil
	}
	return PerformanceModeBalanced, fmt.Errorf("invalid performance mode: %s", s)
}

// WriteKind identifies a hardware control path.
type WriteKind int

const (
	WriteKindFan WriteKind = iota
	WriteKindPerformance
)

func (k WriteKind) String() string {
	switch k {
	case WriteKindFan:
		return "fan"
	case WriteKindPerformance:
		return "performance"
	}
	return fmt.Sprintf("WriteKind(%d)", int(k))
}
