package configuration

import "time"

type RampConfig struct {
	// StepSize is the maximum speed change applied per ramp cycle, (0..1]
	StepSize float64 `json:"stepSize"`
	// Delay is the time to wait between two ramp cycles
	Delay time.Duration `json:"delay"`
	// ShutdownTimeout is the maximum time to wait for a ramp worker to exit
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`
}
