package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/hardware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct{}

func (fakeController) Status() control.Snapshot {
	return control.Snapshot{
		FanMode:          control.FanModeAuto,
		PerformanceMode:  control.PerformanceModePerformance,
		HardwareState:    control.HardwareStateMax,
		Temperature:      77,
		TemperatureKnown: true,
	}
}

func (fakeController) Statistics() control.Statistics {
	return control.Statistics{FanWrites: 3}
}

type fakeTemperatures struct{}

func (fakeTemperatures) Average() (float64, bool) { return 74.5, true }

func (fakeTemperatures) Max() (float64, bool) { return 79, true }

func request(t *testing.T, sources Sources, registerer prometheus.Registerer, path string) *httptest.ResponseRecorder {
	rest := CreateRestService(sources, registerer)
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, req)
	return rec
}

func TestAlive(t *testing.T) {
	// WHEN
	rec := request(t, Sources{Controller: fakeController{}}, nil, "/alive")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus(t *testing.T) {
	// GIVEN
	sources := Sources{Controller: fakeController{}, Temperatures: fakeTemperatures{}}

	// WHEN
	rec := request(t, sources, nil, "/status/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	state := body["state"].(map[string]interface{})
	assert.Equal(t, "auto", state["fanMode"])
	assert.Equal(t, "max", state["hardwareState"])
	assert.Equal(t, "performance", state["performanceMode"])
	assert.Equal(t, 77.0, state["temperature"])
	assert.Equal(t, 74.5, body["temperatureAverage"])
	assert.Equal(t, 79.0, body["temperatureMax"])
	assert.Equal(t, 3.0, body["statistics"].(map[string]interface{})["fanWrites"])
}

func TestStatus_WithoutTemperatures(t *testing.T) {
	// WHEN
	rec := request(t, Sources{Controller: fakeController{}}, nil, "/status/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "temperatureAverage")
}

func TestConfig(t *testing.T) {
	// GIVEN
	configuration.CurrentConfig = configuration.Configuration{
		TempThresholdHigh: 80,
		TempThresholdLow:  65,
		TempCheckInterval: 5 * time.Second,
	}

	// WHEN
	rec := request(t, Sources{Controller: fakeController{}}, nil, "/config/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 80.0, body["tempThresholdHigh"])
	assert.Equal(t, 65.0, body["tempThresholdLow"])
}

func TestHardware(t *testing.T) {
	// GIVEN
	paths := hardware.Paths{
		TempSensors:        []string{"/sys/class/thermal/thermal_zone0/temp"},
		FanControl:         "/sys/devices/platform/hp-wmi/hwmon/hwmon3/pwm1_enable",
		PerformanceProfile: "/sys/firmware/acpi/platform_profile",
	}

	// WHEN
	rec := request(t, Sources{Controller: fakeController{}, Paths: paths}, nil, "/hardware/")

	// THEN
	require.Equal(t, http.StatusOK, rec.Code)
	var body hardware.Paths
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, paths, body)
}

func TestRequestMetrics(t *testing.T) {
	// GIVEN
	registry := prometheus.NewRegistry()
	rest := CreateRestService(Sources{Controller: fakeController{}}, registry)

	// WHEN
	rec := httptest.NewRecorder()
	rest.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/alive/", nil))

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	families, err := registry.Gather()
	require.NoError(t, err)
	var names []string
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "omenix_api_requests_total")
}
