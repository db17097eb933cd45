package statistics

import (
	"github.com/markusressel/motor2go/internal/ramp"
	"github.com/markusressel/motor2go/internal/util"
	"github.com/prometheus/client_golang/prometheus"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controllers []ramp.RampController

	stepCount       *prometheus.Desc
	applyErrorCount *prometheus.Desc
	recentSpeedAvg  *prometheus.Desc
}

func NewControllerCollector(controllers []ramp.RampController) *ControllerCollector {
	return &ControllerCollector{
		controllers: controllers,
		stepCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "step_count"),
			"Counter for the number of speed increments applied by this controller",
			[]string{"id"}, nil,
		),
		applyErrorCount: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "apply_error_count"),
			"Counter for the number of motor commands rejected by the motor driver",
			[]string{"id"}, nil,
		),
		recentSpeedAvg: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "recent_speed_avg"),
			"Average of the most recently applied speed values",
			[]string{"id"}, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.stepCount
	ch <- collector.applyErrorCount
	ch <- collector.recentSpeedAvg
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, controller := range collector.controllers {
		motorId := controller.GetMotorId()
		stats := controller.GetStatistics()
		ch <- prometheus.MustNewConstMetric(collector.stepCount, prometheus.CounterValue, float64(stats.StepCount), motorId)
		ch <- prometheus.MustNewConstMetric(collector.applyErrorCount, prometheus.CounterValue, float64(stats.ApplyErrorCount), motorId)

		recentSpeeds := controller.RecentSpeeds()
		if len(recentSpeeds) > 0 {
			ch <- prometheus.MustNewConstMetric(collector.recentSpeedAvg, prometheus.GaugeValue, util.Avg(recentSpeeds), motorId)
		}
	}
}
