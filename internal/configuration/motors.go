package configuration

import "time"

type MotorConfig struct {
	// ID is the unique identifier of the motor
	ID string `json:"id"`
	// StepSize overrides ramp.stepSize for this motor (optional)
	StepSize float64 `json:"stepSize,omitempty"`
	// Delay overrides ramp.delay for this motor (optional)
	Delay time.Duration `json:"delay,omitempty"`

	Gpio *GpioMotorConfig `json:"gpio,omitempty"`
	File *FileMotorConfig `json:"file,omitempty"`
	Cmd  *CmdMotorConfig  `json:"cmd,omitempty"`
}

// GpioMotorConfig describes a motor connected to a dual-direction
// motor driver board (f.ex. MDD3A), driven via GPIO pins.
type GpioMotorConfig struct {
	SpeedPin    string `json:"speedPin"`
	ForwardPin  string `json:"forwardPin"`
	BackwardPin string `json:"backwardPin"`
}

type FileMotorConfig struct {
	Path string `json:"path"`
}

type CmdMotorConfig struct {
	Apply   *ExecConfig `json:"apply,omitempty"`
	Release *ExecConfig `json:"release,omitempty"`
}

type ExecConfig struct {
	Exec string   `json:"exec"`
	Args []string `json:"args"`
}
