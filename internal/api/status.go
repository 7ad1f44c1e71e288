package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/omenix/omenix/internal/control"
)

type StatusResponse struct {
	State              control.Snapshot   `json:"state"`
	Statistics         control.Statistics `json:"statistics"`
	TemperatureAverage *float64           `json:"temperatureAverage,omitempty"`
	TemperatureMax     *float64           `json:"temperatureMax,omitempty"`
}

func registerStatusEndpoints(rest *echo.Echo, sources Sources) {
	rest.GET("/status/", func(c echo.Context) error {
		return getStatus(c, sources)
	})
}

func getStatus(c echo.Context, sources Sources) error {
	response := StatusResponse{
		State:      sources.Controller.Status(),
		Statistics: sources.Controller.Statistics(),
	}
	if sources.Temperatures != nil {
		if avg, ok := sources.Temperatures.Average(); ok {
			response.TemperatureAverage = &avg
		}
		if highest, ok := sources.Temperatures.Max(); ok {
			response.TemperatureMax = &highest
		}
	}
	return c.JSONPretty(http.StatusOK, response, indentationChar)
}
