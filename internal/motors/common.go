package motors

import (
	"fmt"
	"math"

	"github.com/markusressel/motor2go/internal/configuration"
	"github.com/markusressel/motor2go/internal/util"
)

const (
	// MaxSpeed is full speed forward
	MaxSpeed = 1.0
	// MinSpeed is full speed backward
	MinSpeed = -1.0

	// MaxDuty is the duty cycle resolution used by integer based backends
	MaxDuty = 255
)

type Motor interface {
	GetId() string

	GetConfig() configuration.MotorConfig

	// Apply commands the motor to the given signed speed.
	// The sign determines the direction, the magnitude the duty cycle.
	Apply(speed float64) error

	// Release de-energizes the motor and gives up any exclusive
	// hardware resource. Safe to call multiple times.
	Release() error
}

func NewMotor(config configuration.MotorConfig) (Motor, error) {
	if config.Gpio != nil {
		return NewGpioMotor(config)
	}

	if config.File != nil {
		return &FileMotor{
			Config: config,
		}, nil
	}

	if config.Cmd != nil {
		return &CmdMotor{
			Config: config,
		}, nil
	}

	return nil, fmt.Errorf("no matching motor type for motor: %s", config.ID)
}

// Duty converts a signed speed in [MinSpeed, MaxSpeed] to a signed
// integer duty cycle in [-MaxDuty, MaxDuty]. Out-of-range input is clamped.
func Duty(speed float64) int {
	return int(math.Round(util.Coerce(speed, MinSpeed, MaxSpeed) * MaxDuty))
}
