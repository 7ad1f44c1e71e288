package configuration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
	"golang.org/x/exp/slices"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	FanModes         = []string{"max", "auto", "bios"}
	PerformanceModes = []string{"balanced", "performance"}
)

// ValidationError describes a single invalid configuration value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

func invalid(field string, format string, a ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

func Validate(configPath string) error {
	if len(configPath) > 0 {
		if _, err := util.CheckFilePermissionsForRoot(configPath); err != nil {
			ui.Warning("Config file '%s' has unsafe permissions: %s", configPath, err)
		}
	}
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	err := validateThresholds(config)
	if err != nil {
		return err
	}
	err = validateIntervals(config)
	if err != nil {
		return err
	}
	err = validateModes(config)
	if err != nil {
		return err
	}
	err = validateHardware(&config.Hardware)
	if err != nil {
		return err
	}
	return validateServers(config)
}

func validateThresholds(config *Configuration) error {
	if config.TempThresholdLow > config.TempThresholdHigh {
		return invalid("temp_threshold_low",
			"must be <= temp_threshold_high (%d°C), got %d°C",
			config.TempThresholdHigh, config.TempThresholdLow)
	}
	if config.ConsecutiveHighTempLimit == 0 {
		return invalid("consecutive_high_temp_limit", "must be > 0")
	}
	if config.ConsecutiveLowTempLimit == 0 {
		return invalid("consecutive_low_temp_limit", "must be > 0")
	}
	return nil
}

func validateIntervals(config *Configuration) error {
	if config.TempCheckInterval <= 0 {
		return invalid("temp_check_interval", "must be > 0, got %s", config.TempCheckInterval)
	}
	if config.MaxFanWriteInterval < 0 {
		return invalid("max_fan_write_interval", "must be >= 0, got %s", config.MaxFanWriteInterval)
	}
	if config.SocketReadTimeout <= 0 {
		return invalid("socket_read_timeout", "must be > 0, got %s", config.SocketReadTimeout)
	}
	if config.TempRollingWindowSize <= 0 {
		return invalid("temp_rolling_window_size", "must be > 0, got %d", config.TempRollingWindowSize)
	}
	return nil
}

func validateModes(config *Configuration) error {
	if !slices.Contains(FanModes, config.FanMode) {
		return invalid("fan_mode", "unknown fan mode '%s', use one of: %s",
			config.FanMode, strings.Join(FanModes, " | "))
	}
	if !slices.Contains(PerformanceModes, config.PerformanceMode) {
		return invalid("performance_mode", "unknown performance mode '%s', use one of: %s",
			config.PerformanceMode, strings.Join(PerformanceModes, " | "))
	}
	return nil
}

func validateHardware(config *HardwareConfig) error {
	if len(config.TempSensorGlob) <= 0 {
		return invalid("hardware.temp_sensor_glob", "must not be empty")
	}
	if len(config.FanControlGlob) <= 0 {
		return invalid("hardware.fan_control_glob", "must not be empty")
	}
	if len(config.PerformanceProfileGlob) <= 0 {
		return invalid("hardware.performance_profile_glob", "must not be empty")
	}
	if config.MaxFanCode == config.BiosFanCode {
		return invalid("hardware.max_fan_code", "must differ from hardware.bios_fan_code (%d)", config.BiosFanCode)
	}
	return nil
}

func validateServers(config *Configuration) error {
	if len(config.SocketPath) <= 0 {
		return invalid("socket_path", "must not be empty")
	}
	if config.Statistics.Enabled && (config.Statistics.Port <= 0 || config.Statistics.Port > 65535) {
		return invalid("statistics.port", "must be in range [1..65535], got %d", config.Statistics.Port)
	}
	if config.Api.Enabled && (config.Api.Port <= 0 || config.Api.Port > 65535) {
		return invalid("api.port", "must be in range [1..65535], got %d", config.Api.Port)
	}
	if config.Statistics.Enabled && config.Api.Enabled && config.Statistics.Port == config.Api.Port {
		return invalid("api.port", "must differ from statistics.port (%d)", config.Statistics.Port)
	}
	return nil
}
