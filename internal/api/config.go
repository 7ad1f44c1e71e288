package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/hardware"
	"github.com/qdm12/reprint"
)

var errUnexpectedCopy = errors.New("copying the configuration failed")

func registerConfigEndpoints(rest *echo.Echo) {
	rest.GET("/config/", getConfig)
}

// returns a copy of the effective configuration
func getConfig(c echo.Context) error {
	data, ok := reprint.This(configuration.CurrentConfig).(configuration.Configuration)
	if !ok {
		return returnError(c, errUnexpectedCopy)
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func registerHardwareEndpoints(rest *echo.Echo, paths hardware.Paths) {
	rest.GET("/hardware/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, paths, indentationChar)
	})
}
