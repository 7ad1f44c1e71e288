package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDeviceFile(t *testing.T, path string, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestGetDeviceName(t *testing.T) {
	// GIVEN
	root := t.TempDir()
	createDeviceFile(t, filepath.Join(root, "hwmon3", "name"), "hp\n")
	createDeviceFile(t, filepath.Join(root, "hwmon3", "pwm1_enable"), "2\n")

	// WHEN
	name := GetDeviceName(filepath.Join(root, "hwmon3", "pwm1_enable"))

	// THEN
	assert.Equal(t, "hp", name)
}

func TestGetDeviceName_Missing(t *testing.T) {
	// WHEN
	name := GetDeviceName(filepath.Join(t.TempDir(), "hwmon0", "pwm1_enable"))

	// THEN
	assert.Equal(t, "", name)
}

func TestGetZoneType(t *testing.T) {
	// GIVEN
	root := t.TempDir()
	createDeviceFile(t, filepath.Join(root, "thermal_zone2", "type"), "x86_pkg_temp\n")

	// WHEN
	zoneType := GetZoneType(filepath.Join(root, "thermal_zone2", "temp"))

	// THEN
	assert.Equal(t, "x86_pkg_temp", zoneType)
}

func TestGetZoneType_FallsBackToDirectoryName(t *testing.T) {
	// WHEN
	zoneType := GetZoneType(filepath.Join(t.TempDir(), "thermal_zone0", "temp"))

	// THEN
	assert.Equal(t, "thermal_zone0", zoneType)
}
