package util

import (
	"os"
	"path/filepath"
	"strings"
)

// GetDeviceName reads the name of the sysfs device the given attribute belongs to,
// e.g. "hp" for .../hwmon/hwmon3/pwm1_enable
func GetDeviceName(attributePath string) string {
	return readAttribute(filepath.Join(filepath.Dir(attributePath), "name"))
}

// GetZoneType reads the type of the thermal zone the given attribute belongs to,
// e.g. "x86_pkg_temp" for .../thermal_zone2/temp. Falls back to the zone directory name.
func GetZoneType(attributePath string) string {
	devicePath := filepath.Dir(attributePath)
	zoneType := readAttribute(filepath.Join(devicePath, "type"))
	if len(zoneType) <= 0 {
		_, zoneType = filepath.Split(devicePath)
	}
	return zoneType
}

func readAttribute(path string) string {
	content, _ := os.ReadFile(path)
	return strings.TrimSpace(string(content))
}
