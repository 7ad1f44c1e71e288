package configuration

// HardwareConfig holds the glob patterns used to discover the sysfs control
// files as well as the values understood by the fan control file.
type HardwareConfig struct {
	TempSensorGlob         string `json:"tempSensorGlob" mapstructure:"temp_sensor_glob"`
	FanControlGlob         string `json:"fanControlGlob" mapstructure:"fan_control_glob"`
	PerformanceProfileGlob string `json:"performanceProfileGlob" mapstructure:"performance_profile_glob"`

	// Value written to the fan control file to force maximum fan speed
	MaxFanCode int `json:"maxFanCode" mapstructure:"max_fan_code"`
	// Value written to the fan control file to hand control back to the BIOS
	BiosFanCode int `json:"biosFanCode" mapstructure:"bios_fan_code"`
}
