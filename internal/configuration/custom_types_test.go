package configuration

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readYaml(t *testing.T, content string) Configuration {
	v := viper.New()
	setDefaultValues(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))

	var config Configuration
	require.NoError(t, unmarshal(v, &config))
	config.normalize()
	return config
}

func TestDecode_DefaultValues(t *testing.T) {
	// GIVEN
	content := ""

	// WHEN
	config := readYaml(t, content)

	// THEN
	assert.Equal(t, 75, config.TempThresholdHigh)
	assert.Equal(t, 70, config.TempThresholdLow)
	assert.Equal(t, uint(3), config.ConsecutiveHighTempLimit)
	assert.Equal(t, uint(3), config.ConsecutiveLowTempLimit)
	assert.Equal(t, 5*time.Second, config.TempCheckInterval)
	assert.Equal(t, time.Duration(0), config.MaxFanWriteInterval)
	assert.Equal(t, "bios", config.FanMode)
	assert.Equal(t, "balanced", config.PerformanceMode)
	assert.Equal(t, 0, config.Hardware.MaxFanCode)
	assert.Equal(t, 2, config.Hardware.BiosFanCode)
	assert.Equal(t, "/tmp/omenix-daemon.sock", config.SocketPath)
}

func TestDecode_IntervalsAsSeconds(t *testing.T) {
	// GIVEN
	content := `
temp_check_interval: 2
max_fan_write_interval: 100
`

	// WHEN
	config := readYaml(t, content)

	// THEN
	assert.Equal(t, 2*time.Second, config.TempCheckInterval)
	assert.Equal(t, 100*time.Second, config.MaxFanWriteInterval)
}

func TestDecode_IntervalsAsDurationStrings(t *testing.T) {
	// GIVEN
	content := `
temp_check_interval: 1500ms
max_fan_write_interval: 2m
`

	// WHEN
	config := readYaml(t, content)

	// THEN
	assert.Equal(t, 1500*time.Millisecond, config.TempCheckInterval)
	assert.Equal(t, 2*time.Minute, config.MaxFanWriteInterval)
}

func TestDecode_ModesAreNormalized(t *testing.T) {
	// GIVEN
	content := `
fan_mode: Auto
performance_mode: " Performance"
`

	// WHEN
	config := readYaml(t, content)

	// THEN
	assert.Equal(t, "auto", config.FanMode)
	assert.Equal(t, "performance", config.PerformanceMode)
}

func TestDecode_NestedSections(t *testing.T) {
	// GIVEN
	content := `
hardware:
  fan_control_glob: /tmp/hwmon*/pwm1_enable
  max_fan_code: 1
statistics:
  enabled: true
  port: 9100
`

	// WHEN
	config := readYaml(t, content)

	// THEN
	assert.Equal(t, "/tmp/hwmon*/pwm1_enable", config.Hardware.FanControlGlob)
	assert.Equal(t, 1, config.Hardware.MaxFanCode)
	assert.Equal(t, 2, config.Hardware.BiosFanCode)
	assert.True(t, config.Statistics.Enabled)
	assert.Equal(t, 9100, config.Statistics.Port)
	assert.False(t, config.Api.Enabled)
}
