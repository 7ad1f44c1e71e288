package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/omenix/omenix/internal/api"
	"github.com/omenix/omenix/internal/configuration"
	"github.com/omenix/omenix/internal/control"
	"github.com/omenix/omenix/internal/hardware"
	"github.com/omenix/omenix/internal/monitor"
	"github.com/omenix/omenix/internal/server"
	"github.com/omenix/omenix/internal/statistics"
	"github.com/omenix/omenix/internal/ui"
	"github.com/omenix/omenix/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// daemon bundles the long living components wired from the configuration
type daemon struct {
	paths      hardware.Paths
	controller *control.Controller
	monitor    *monitor.TemperatureMonitor
	server     *server.Server
}

func RunDaemon() {
	if os.Geteuid() != 0 {
		ui.Warning("omenix is not running as root, writing the fan control files will most likely fail")
	}

	config := configuration.CurrentConfig
	d, err := newDaemon(config, filepath.Glob)
	if err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	ui.Info("Temperature sensors: %v", d.paths.TempSensors)
	ui.Info("Fan control: %s", d.paths.FanControl)
	ui.Info("Performance profile: %s", d.paths.PerformanceProfile)

	if err := d.controller.Start(); err != nil {
		ui.Error("Applying initial modes failed, retrying on the next temperature check: %v", err)
	}

	statistics.Register(statistics.NewControllerCollector(d.controller))
	statistics.Register(statistics.NewMonitorCollector(d.monitor))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			addr := fmt.Sprintf(":%d", config.Statistics.Port)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			statisticsServer := &http.Server{Addr: addr, Handler: mux}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s", addr)
				if err := statisticsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					<-ctx.Done()
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := statisticsServer.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping statistics server: %v", err)
				} else {
					ui.Info("Statistics server stopped.")
				}
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			rest := api.CreateRestService(api.Sources{
				Controller:   d.controller,
				Temperatures: d.monitor,
				Paths:        d.paths,
			}, prometheus.DefaultRegisterer)
			addr := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

			g.Add(func() error {
				ui.Info("Starting api server on %s", addr)
				if err := rest.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					ui.Error("Cannot start api server (%s)", err.Error())
					<-ctx.Done()
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer timeoutCancel()
				if err := rest.Shutdown(timeoutCtx); err != nil {
					ui.Warning("Error stopping api server: %v", err)
				}
			})
		}
	}
	{
		// === temperature monitoring
		g.Add(func() error {
			err := d.monitor.Run(ctx)
			ui.Info("Temperature monitor stopped.")
			return err
		}, func(err error) {
			cancel()
		})
	}
	{
		// === socket server
		g.Add(func() error {
			err := d.server.ListenAndServe(ctx)
			ui.Info("Socket server stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Socket server error: %v", err)
			}
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case s := <-sig:
				ui.Info("Received %s signal, exiting...", s)
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			signal.Stop(sig)
			cancel()
		})
	}

	if err := g.Run(); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// newDaemon discovers the hardware and wires all components. It fails if any
// control path is missing or not writable.
func newDaemon(config configuration.Configuration, glob hardware.GlobFunc) (*daemon, error) {
	settings, err := buildSettings(config)
	if err != nil {
		return nil, err
	}

	paths, err := hardware.Discover(hardware.Patterns{
		TempSensor:         config.Hardware.TempSensorGlob,
		FanControl:         config.Hardware.FanControlGlob,
		PerformanceProfile: config.Hardware.PerformanceProfileGlob,
	}, glob)
	if err != nil {
		return nil, err
	}

	if err := hardware.CheckWriteAccess(paths); err != nil {
		return nil, err
	}

	sysfs := hardware.NewSysfs(paths)
	controller := control.NewController(settings, sysfs, util.RealClock{})

	return &daemon{
		paths:      paths,
		controller: controller,
		monitor:    monitor.NewTemperatureMonitor(sysfs, controller, config.TempCheckInterval, config.TempRollingWindowSize),
		server:     server.NewServer(config.SocketPath, controller, config.SocketReadTimeout),
	}, nil
}

func buildSettings(config configuration.Configuration) (control.Settings, error) {
	fanMode, err := control.ParseFanMode(config.FanMode)
	if err != nil {
		return control.Settings{}, fmt.Errorf("%w: %v", configuration.ErrInvalidConfig, err)
	}
	performanceMode, err := control.ParsePerformanceMode(config.PerformanceMode)
	if err != nil {
		return control.Settings{}, fmt.Errorf("%w: %v", configuration.ErrInvalidConfig, err)
	}

	return control.Settings{
		TempThresholdHigh:        config.TempThresholdHigh,
		TempThresholdLow:         config.TempThresholdLow,
		ConsecutiveHighTempLimit: config.ConsecutiveHighTempLimit,
		ConsecutiveLowTempLimit:  config.ConsecutiveLowTempLimit,
		MaxFanWriteInterval:      config.MaxFanWriteInterval,
		MaxFanCode:               config.Hardware.MaxFanCode,
		BiosFanCode:              config.Hardware.BiosFanCode,
		InitialFanMode:           fanMode,
		InitialPerformanceMode:   performanceMode,
	}, nil
}
