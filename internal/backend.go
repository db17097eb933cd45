package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markusressel/motor2go/internal/api"
	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/motors"
	"github.com/markusressel/motor2go/internal/ramp"
	"github.com/markusressel/motor2go/internal/statistics"
	"github.com/markusressel/motor2go/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RunDaemon() {
	if containsGpioMotors() && os.Geteuid() != 0 {
		ui.Warning("Driving GPIO pins usually requires root permissions, consider running motor2go as root")
	}

	controllers := InitializeObjects()
	if len(controllers) == 0 {
		ui.Fatal("No valid motor configurations, exiting.")
	}

	var g run.Group
	{
		// === Prometheus Exporter
		if configuration.CurrentConfig.Statistics.Enabled {
			port := configuration.CurrentConfig.Statistics.Port
			if port <= 0 || port >= 65535 {
				port = 9000
			}
			addr := fmt.Sprintf(":%d", port)
			server := &http.Server{Addr: addr, Handler: promhttp.Handler()}

			g.Add(func() error {
				ui.Info("Starting statistics server on %s...", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping statistics server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				_ = server.Shutdown(timeoutCtx)
			})
		}
	}
	{
		// === REST Api
		if configuration.CurrentConfig.Api.Enabled {
			echoRest := api.CreateRestService()
			apiConfig := configuration.CurrentConfig.Api
			addr := fmt.Sprintf("%s:%d", apiConfig.Host, apiConfig.Port)

			g.Add(func() error {
				ui.Info("Starting REST api server on %s...", addr)
				if err := echoRest.Start(addr); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			}, func(err error) {
				ui.Info("Stopping REST api server...")
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				_ = echoRest.Shutdown(timeoutCtx)
			})
		}
	}
	{
		// === ramp controllers
		for _, controller := range controllers {
			c := controller

			g.Add(func() error {
				err := c.Wait()
				if err != nil {
					ui.Error("Ramp controller for motor %s stopped: %v", c.GetMotorId(), err)
				} else {
					ui.Info("Ramp controller for motor %s stopped.", c.GetMotorId())
				}
				return err
			}, func(err error) {
				timeout := configuration.CurrentConfig.Ramp.ShutdownTimeout
				if shutdownErr := c.Shutdown(timeout); shutdownErr != nil {
					ui.Warning("Best effort shutdown of motor %s: %v", c.GetMotorId(), shutdownErr)
				}
			})
		}
	}
	{
		// === signal handling
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			<-sig
			ui.Info("Received SIGTERM signal, exiting...")
			return nil
		}, func(err error) {
			signal.Stop(sig)
			close(sig)
		})
	}

	if err := g.Run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// InitializeObjects creates motors and their ramp controllers from the current
// configuration. The ramp workers start immediately.
func InitializeObjects() []ramp.RampController {
	rampConfig := configuration.CurrentConfig.Ramp

	var controllers []ramp.RampController
	for _, config := range configuration.CurrentConfig.Motors {
		motor, err := motors.NewMotor(config)
		if err != nil {
			ui.Fatal("Unable to process motor configuration %s: %v", config.ID, err)
		}

		stepSize := config.StepSize
		if stepSize == 0 {
			stepSize = rampConfig.StepSize
		}
		delay := config.Delay
		if delay == 0 {
			delay = rampConfig.Delay
		}

		ui.Info("Starting ramp controller for motor '%s' (stepSize: %.3f, delay: %s)", config.ID, stepSize, delay)
		controller := ramp.NewRampController(motor, stepSize, delay)

		ramp.ControllerMap.Set(config.ID, controller)
		controllers = append(controllers, controller)
	}

	motorCollector := statistics.NewMotorCollector(controllers)
	statistics.Register(motorCollector)

	controllerCollector := statistics.NewControllerCollector(controllers)
	statistics.Register(controllerCollector)

	return controllers
}

func containsGpioMotors() bool {
	for _, motorConfig := range configuration.CurrentConfig.Motors {
		if motorConfig.Gpio != nil {
			return true
		}
	}

	return false
}
