package configuration

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/omenix/omenix/internal/ui"
	"github.com/spf13/viper"
)

const (
	configName = "omenix-daemon"
	envPrefix  = "omenix"
)

type Configuration struct {
	// Path of the unix socket the daemon listens on
	SocketPath string `json:"socketPath" mapstructure:"socket_path"`
	// How long the daemon waits for a client to send its command line
	SocketReadTimeout time.Duration `json:"socketReadTimeout" mapstructure:"socket_read_timeout"`

	// Fan mode applied on startup, one of: max | auto | bios
	FanMode string `json:"fanMode" mapstructure:"fan_mode"`
	// Performance mode applied on startup, one of: balanced | performance
	PerformanceMode string `json:"performanceMode" mapstructure:"performance_mode"`

	// Temperature in °C at or above which a sample counts as "high" in auto mode
	TempThresholdHigh int `json:"tempThresholdHigh" mapstructure:"temp_threshold_high"`
	// Temperature in °C at or below which a sample counts as "low" in auto mode
	TempThresholdLow int `json:"tempThresholdLow" mapstructure:"temp_threshold_low"`

	ConsecutiveHighTempLimit uint `json:"consecutiveHighTempLimit" mapstructure:"consecutive_high_temp_limit"`
	ConsecutiveLowTempLimit  uint `json:"consecutiveLowTempLimit" mapstructure:"consecutive_low_temp_limit"`

	TempCheckInterval time.Duration `json:"tempCheckInterval" mapstructure:"temp_check_interval"`
	// Interval to re-write the max fan state while fans are on max, 0 disables refreshing
	MaxFanWriteInterval time.Duration `json:"maxFanWriteInterval" mapstructure:"max_fan_write_interval"`

	// Number of samples used for the rolling temperature average
	TempRollingWindowSize int `json:"tempRollingWindowSize" mapstructure:"temp_rolling_window_size"`

	Hardware   HardwareConfig   `json:"hardware" mapstructure:"hardware"`
	Statistics StatisticsConfig `json:"statistics" mapstructure:"statistics"`
	Api        ApiConfig        `json:"api" mapstructure:"api"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName(configName)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/")
		viper.AddConfigPath("/etc/omenix/")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues(viper.GetViper())
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("socket_path", "/tmp/omenix-daemon.sock")
	v.SetDefault("socket_read_timeout", 5*time.Second)

	v.SetDefault("fan_mode", "bios")
	v.SetDefault("performance_mode", "balanced")

	v.SetDefault("temp_threshold_high", 75)
	v.SetDefault("temp_threshold_low", 70)
	v.SetDefault("consecutive_high_temp_limit", 3)
	v.SetDefault("consecutive_low_temp_limit", 3)
	v.SetDefault("temp_check_interval", 5*time.Second)
	v.SetDefault("max_fan_write_interval", time.Duration(0))
	v.SetDefault("temp_rolling_window_size", 12)

	v.SetDefault("hardware.temp_sensor_glob", "/sys/class/thermal/thermal_zone*/temp")
	v.SetDefault("hardware.fan_control_glob", "/sys/devices/platform/hp-wmi/hwmon/hwmon*/pwm1_enable")
	v.SetDefault("hardware.performance_profile_glob", "/sys/firmware/acpi/platform_profile")
	v.SetDefault("hardware.max_fan_code", 0)
	v.SetDefault("hardware.bios_fan_code", 2)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 9001)
}

// DetectAndReadConfigFile reads the configuration file, if there is one.
// A missing file is not an error, the daemon runs on its defaults in that case
// and an empty path is returned.
func DetectAndReadConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			ui.Debug("No configuration file found, using defaults")
			return ""
		}
		ui.FatalWithoutStacktrace("Error reading config file, %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := unmarshal(viper.GetViper(), &CurrentConfig)
	if err != nil {
		ui.FatalWithoutStacktrace("unable to decode into struct, %v", err)
	}
	CurrentConfig.normalize()
}

func unmarshal(v *viper.Viper, config *Configuration) error {
	return v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
}

func (c *Configuration) normalize() {
	c.FanMode = strings.ToLower(strings.TrimSpace(c.FanMode))
	c.PerformanceMode = strings.ToLower(strings.TrimSpace(c.PerformanceMode))
}
