package statistics

import (
	"github.com/markusressel/motor2go/internal/ramp"
	"github.com/prometheus/client_golang/prometheus"
)

const motorSubsystem = "motor"

type MotorCollector struct {
	controllers []ramp.RampController

	currentSpeed *prometheus.Desc
	targetSpeed  *prometheus.Desc
}

func NewMotorCollector(controllers []ramp.RampController) *MotorCollector {
	return &MotorCollector{
		controllers: controllers,
		currentSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, motorSubsystem, "current_speed"),
			"Speed most recently applied to the motor",
			[]string{"id"}, nil,
		),
		targetSpeed: prometheus.NewDesc(prometheus.BuildFQName(namespace, motorSubsystem, "target_speed"),
			"Target speed the motor is ramping toward",
			[]string{"id"}, nil,
		),
	}
}

func (collector *MotorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.currentSpeed
	ch <- collector.targetSpeed
}

// Collect implements required collect function for all prometheus collectors
func (collector *MotorCollector) Collect(ch chan<- prometheus.Metric) {
	for _, controller := range collector.controllers {
		motorId := controller.GetMotorId()
		ch <- prometheus.MustNewConstMetric(collector.currentSpeed, prometheus.GaugeValue, controller.CurrentSpeed(), motorId)
		ch <- prometheus.MustNewConstMetric(collector.targetSpeed, prometheus.GaugeValue, controller.TargetSpeed(), motorId)
	}
}
