package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/hardware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	indentationChar  = "  "
	metricsNamespace = "omenix"
	metricsSubsystem = "api"
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}

	ControllerSource interface {
		Status() control.Snapshot
		Statistics() control.Statistics
	}

	TemperatureSource interface {
		Average() (float64, bool)
		Max() (float64, bool)
	}

	// Sources are the daemon components exposed read-only by the api
	Sources struct {
		Controller   ControllerSource
		Temperatures TemperatureSource
		Paths        hardware.Paths
	}
)

// CreateRestService creates the read-only HTTP api. Request metrics are
// registered with the given registerer, nil disables them.
func CreateRestService(sources Sources, registerer prometheus.Registerer) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())

	if registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  metricsNamespace,
			Subsystem:  metricsSubsystem,
			Registerer: registerer,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	registerStatusEndpoints(echoRest, sources)
	registerConfigEndpoints(echoRest)
	registerHardwareEndpoints(echoRest, sources.Paths)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return the error message of an error
func returnError(c echo.Context, e error) (err error) {
	return c.JSONPretty(http.StatusInternalServerError, &Result{
		Name:    "Unknown Error",
		Message: e.Error(),
	}, indentationChar)
}
